// internal/database/game.go
package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jason-s-yu/quizparty/internal/models"
)

// RecordGames persists a batch of finished games and their standings in one
// transaction. A game already stored is overwritten, so redelivered records
// are harmless.
func RecordGames(ctx context.Context, pool *pgxpool.Pool, recs []models.GameRecord) error {
	err := pgx.BeginTxFunc(ctx, pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, rec := range recs {
			if err := insertGameTx(ctx, tx, rec); err != nil {
				return fmt.Errorf("game %s: %w", rec.GameID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tx record games: %w", err)
	}
	return nil
}

func insertGameTx(ctx context.Context, tx pgx.Tx, rec models.GameRecord) error {
	upsertGame := `
		INSERT INTO games (id, party_id, party_code, language, category, difficulty, questions, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET finished_at = EXCLUDED.finished_at
	`
	s := rec.Settings
	if _, err := tx.Exec(ctx, upsertGame,
		rec.GameID, rec.PartyID, rec.PartyCode, s.Language, s.Category, string(s.Difficulty),
		rec.Questions, rec.StartedAt, rec.FinishedAt,
	); err != nil {
		return err
	}

	for _, st := range rec.Standings {
		q := `
			INSERT INTO game_results (game_id, player_id, display_name, rank, score, correct_count)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (game_id, player_id)
			DO UPDATE SET display_name = $3, rank = $4, score = $5, correct_count = $6
		`
		if _, err := tx.Exec(ctx, q, rec.GameID, st.PlayerID, st.DisplayName, st.Rank, st.Score, st.CorrectCount); err != nil {
			return err
		}
	}
	return nil
}

// GameStandings returns the stored leaderboard of one game, best rank first.
func GameStandings(ctx context.Context, pool *pgxpool.Pool, gameID uuid.UUID) ([]models.Standing, error) {
	q := `
		SELECT rank, player_id, display_name, score, correct_count
		FROM game_results
		WHERE game_id = $1
		ORDER BY rank, player_id
	`
	rows, err := pool.Query(ctx, q, gameID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[models.Standing])
}
