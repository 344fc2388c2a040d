package server

import (
	"net/http"

	"github.com/constracti/the-gexa-war/internal/game"
)

type ConfigRequest struct {
	TimeStart           int64   `json:"timeStart"`
	TimeStop            int64   `json:"timeStop"`
	RewardSuccess       float64 `json:"rewardSuccess"`
	RewardConquest      float64 `json:"rewardConquest"`
	RewardRate          float64 `json:"rewardRate"`
	CapacityDilution    bool    `json:"capacityDilution"`
	PlayerNormalization bool    `json:"playerNormalization"`
}

func handleAdminConfigGet(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := store.Config(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, cfg)
	}
}

func handleAdminConfigPut(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ConfigRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if req.TimeStop <= req.TimeStart {
			writeError(w, http.StatusBadRequest, "timeStop must be after timeStart")
			return
		}
		if req.RewardSuccess < 0 || req.RewardConquest < 0 || req.RewardRate < 0 {
			writeError(w, http.StatusBadRequest, "rewards must not be negative")
			return
		}

		cfg := game.Config{
			TimeStart:           req.TimeStart,
			TimeStop:            req.TimeStop,
			RewardSuccess:       req.RewardSuccess,
			RewardConquest:      req.RewardConquest,
			RewardRate:          req.RewardRate,
			CapacityDilution:    req.CapacityDilution,
			PlayerNormalization: req.PlayerNormalization,
		}
		if err := store.UpdateConfig(r.Context(), cfg); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, cfg)
	}
}
