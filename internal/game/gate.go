package game

// CheckSuccess validates a success submission against the ownership
// derived in snap. It mirrors the station console rules: neutralization
// needs an existing controller other than the acting team, conquest
// needs the controller to differ from the acting team (including no
// controller), and a simple success is always legal.
//
// The replay itself never rejects events — whatever reaches the log is
// replayed as-is. This gate is the only place legality is enforced, so
// it must run against the same log the event will be appended to.
func CheckSuccess(snap Snapshot, stationID, actorTeam int64, typ SuccessType) error {
	controller := snap.Controller(stationID)
	switch typ {
	case SuccessSimple:
		return nil
	case SuccessNeutralization:
		if controller == 0 || controller == actorTeam {
			return ErrIllegalTransition
		}
		return nil
	case SuccessConquest:
		if controller == actorTeam {
			return ErrIllegalTransition
		}
		return nil
	default:
		return ErrNotFound
	}
}

// CheckUndo validates deleting success id from a station's history.
// Only the latest success of the station — by timestamp, then id — may
// be retracted; anything older is history and stays.
func CheckUndo(successes []Success, stationID, id int64) error {
	var latest *Success
	found := false
	for i := range successes {
		s := &successes[i]
		if s.Station != stationID {
			continue
		}
		if s.ID == id {
			found = true
		}
		if latest == nil ||
			s.Timestamp > latest.Timestamp ||
			(s.Timestamp == latest.Timestamp && s.ID > latest.ID) {
			latest = s
		}
	}
	if !found {
		return ErrNotFound
	}
	if latest.ID != id {
		return ErrStaleDeletion
	}
	return nil
}
