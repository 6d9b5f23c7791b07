// internal/database/questions.go
package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jason-s-yu/quizparty/internal/models"
	log "github.com/sirupsen/logrus"
)

// LoadQuestions reads the whole question bank. The server indexes it in
// memory at startup so party starts never wait on the database.
func LoadQuestions(ctx context.Context, pool *pgxpool.Pool) ([]models.Question, error) {
	q := `
		SELECT language, category, difficulty, text, answer, distractors
		FROM questions
		ORDER BY id
	`
	rows, err := pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	qs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Question, error) {
		var (
			qu         models.Question
			difficulty string
		)
		err := row.Scan(&qu.Language, &qu.Category, &difficulty, &qu.Text, &qu.Answer, &qu.Distractors)
		qu.Difficulty = models.Difficulty(difficulty)
		return qu, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan questions: %w", err)
	}
	return qs, nil
}

// SeedQuestions inserts qs, skipping any (language, text) pair already
// present. It reports how many rows were added.
func SeedQuestions(ctx context.Context, pool *pgxpool.Pool, qs []models.Question) (int, error) {
	added := 0
	err := pgx.BeginTxFunc(ctx, pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		insert := `
			INSERT INTO questions (language, category, difficulty, text, answer, distractors)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (language, text) DO NOTHING
		`
		for _, q := range qs {
			distractors := q.Distractors
			if distractors == nil {
				distractors = []string{}
			}
			tag, err := tx.Exec(ctx, insert, q.Language, q.Category, string(q.Difficulty), q.Text, q.Answer, distractors)
			if err != nil {
				return err
			}
			added += int(tag.RowsAffected())
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("tx seed questions: %w", err)
	}
	if added > 0 {
		log.WithField("added", added).Info("seeded question bank")
	}
	return added, nil
}
