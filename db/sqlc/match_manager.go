package sqlc

import (
	"context"

	"github.com/google/uuid"
)

// MatchSummary is what gets stored once a match is over. Strategy names
// are the player kinds, Winner is one of them.
type MatchSummary struct {
	StrategyOne string
	StrategyTwo string
	Winner      string
	Turns       int
	Rows        int
	Cols        int
}

type MatchManager struct {
	queries Querier
}

func NewMatchManager(queries Querier) *MatchManager {
	return &MatchManager{queries: queries}
}

// RecordMatch stores the summary and returns the id it was stored under.
func (m *MatchManager) RecordMatch(ctx context.Context, summary MatchSummary) (uuid.UUID, error) {
	ctx, cancel := context.WithTimeout(ctx, QuerierCtxTimeout)
	defer cancel()

	id := uuid.New()
	err := m.queries.InsertMatchResult(ctx, InsertMatchResultParams{
		ID:          id,
		StrategyOne: summary.StrategyOne,
		StrategyTwo: summary.StrategyTwo,
		Winner:      summary.Winner,
		Turns:       int32(summary.Turns),
		Rows:        int32(summary.Rows),
		Cols:        int32(summary.Cols),
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (m *MatchManager) WinsByStrategy(ctx context.Context) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, QuerierCtxTimeout)
	defer cancel()

	rows, err := m.queries.CountWinsByStrategy(ctx)
	if err != nil {
		return nil, err
	}

	wins := make(map[string]int64, len(rows))
	for _, row := range rows {
		wins[row.Winner] = row.Wins
	}
	return wins, nil
}
