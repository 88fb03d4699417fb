package api

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
)

type RespStats struct {
	ActiveGames    int              `json:"active_games"`
	ActiveSessions int              `json:"active_sessions"`
	GamesCreated   int64            `json:"games_created"`
	WinsByStrategy map[string]int64 `json:"wins_by_strategy"`
}

// HandleStats reports live counts, plus stored results when a database is
// configured.
func (rp *RequestProcessor) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats := RespStats{
		ActiveGames:    rp.gameManager.CountGames(),
		ActiveSessions: rp.sessionManager.CountSessions(),
		WinsByStrategy: map[string]int64{},
	}

	if rp.dbManager != nil {
		ctx := r.Context()

		gamesCreated, err := rp.dbManager.Analytics.GetGamesCreatedCount(ctx, rp.serverInet())
		if err != nil {
			log.Error("failed to fetch games created", "err", err)
			http.Error(w, "failed to fetch stats", http.StatusInternalServerError)
			return
		}
		stats.GamesCreated = gamesCreated

		wins, err := rp.dbManager.Matches.WinsByStrategy(ctx)
		if err != nil {
			log.Error("failed to fetch wins by strategy", "err", err)
			http.Error(w, "failed to fetch stats", http.StatusInternalServerError)
			return
		}
		stats.WinsByStrategy = wins
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		log.Error("failed to encode stats", "err", err)
	}
}
