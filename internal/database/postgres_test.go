//go:build integration

// internal/database/postgres_test.go
package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jason-s-yu/quizparty/internal/models"
	"github.com/jason-s-yu/quizparty/internal/questions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var pool *pgxpool.Pool

func TestMain(m *testing.M) {
	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("quizparty"),
		postgres.WithUsername("quiz"),
		postgres.WithPassword("quiz"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		panic(err)
	}

	connString, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		panic(err)
	}
	if err := Migrate(connString); err != nil {
		panic(err)
	}
	pool, err = ConnectDB(ctx, connString)
	if err != nil {
		panic(err)
	}

	code := m.Run()

	pool.Close()
	postgresContainer.Terminate(ctx)
	os.Exit(code)
}

func TestQuestionBank(t *testing.T) {
	ctx := context.Background()
	builtin := questions.Builtin()

	t.Run("SeedQuestions", func(t *testing.T) {
		added, err := SeedQuestions(ctx, pool, builtin)
		require.NoError(t, err)
		assert.Equal(t, len(builtin), added)
	})

	t.Run("SeedQuestions_Idempotent", func(t *testing.T) {
		added, err := SeedQuestions(ctx, pool, builtin)
		require.NoError(t, err)
		assert.Zero(t, added)
	})

	t.Run("LoadQuestions", func(t *testing.T) {
		qs, err := LoadQuestions(ctx, pool)
		require.NoError(t, err)
		require.Len(t, qs, len(builtin))
		assert.Equal(t, builtin[0].Text, qs[0].Text)
		assert.Equal(t, builtin[0].Distractors, qs[0].Distractors)
		assert.Equal(t, builtin[0].Difficulty, qs[0].Difficulty)

		corpus := questions.NewCorpus(qs, nil)
		assert.NotEmpty(t, corpus.Questions(models.Settings{Category: "science"}, 3))
	})
}

func TestRecordGames(t *testing.T) {
	ctx := context.Background()
	rec := models.GameRecord{
		GameID:    uuid.New(),
		PartyID:   uuid.New(),
		PartyCode: "ABC123",
		Settings:  models.Settings{Category: "general", Difficulty: models.DifficultyEasy, Language: "en"},
		Questions: 10,
		Standings: []models.Standing{
			{Rank: 1, PlayerID: "p2", DisplayName: "Bob", Score: 22, CorrectCount: 4},
			{Rank: 2, PlayerID: "p1", DisplayName: "Alice", Score: 5, CorrectCount: 1},
		},
		StartedAt:  time.Now().Add(-4 * time.Minute).UTC(),
		FinishedAt: time.Now().UTC(),
	}

	require.NoError(t, RecordGames(ctx, pool, []models.GameRecord{rec}))
	// redelivery of the same record must not fail
	require.NoError(t, RecordGames(ctx, pool, []models.GameRecord{rec}))

	st, err := GameStandings(ctx, pool, rec.GameID)
	require.NoError(t, err)
	assert.Equal(t, rec.Standings, st)
}
