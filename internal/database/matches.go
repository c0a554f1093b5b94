package database

import (
	"context"
	"time"
)

// MatchResult is one completed game.
type MatchResult struct {
	RoomCode    string
	WinnerName  string
	PlayerCount int
	Duration    time.Duration
}

// RecordMatch inserts a finished match into match_history. A nil pool
// makes this a no-op so the game loop never depends on Postgres.
func RecordMatch(ctx context.Context, result MatchResult) error {
	if DB == nil {
		return nil
	}
	q := `
		INSERT INTO match_history (room_code, winner_name, player_count, duration_ms, finished_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := DB.Exec(ctx, q,
		result.RoomCode,
		result.WinnerName,
		result.PlayerCount,
		result.Duration.Milliseconds(),
	)
	return err
}
