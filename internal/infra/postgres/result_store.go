package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quiz-intake-service/internal/domain"
)

const createResultsTableSQL = `
CREATE TABLE IF NOT EXISTS results (
	id UUID PRIMARY KEY,
	submitted_at TIMESTAMPTZ NOT NULL,
	email TEXT NOT NULL,
	answers JSONB NOT NULL,
	score INT NOT NULL,
	outcome TEXT NOT NULL
)`

// ResultStore persists graded submissions in Postgres, append-only.
type ResultStore struct {
	pool *pgxpool.Pool
}

func NewResultStore(pool *pgxpool.Pool) *ResultStore {
	return &ResultStore{pool: pool}
}

// EnsureReady creates the results table if the migrate subcommand has not
// run yet, mirroring the lazy header setup of the original intake sheet.
func (s *ResultStore) EnsureReady(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createResultsTableSQL); err != nil {
		return fmt.Errorf("ensure results table: %w", err)
	}
	return nil
}

// FindByEmail returns the record matching email case-insensitively after
// trimming, oldest first; nil when absent.
func (s *ResultStore) FindByEmail(ctx context.Context, email string) (*domain.ResultRecord, error) {
	var (
		rec domain.ResultRecord
		raw []byte
	)
	err := s.pool.QueryRow(ctx, `
		SELECT id, submitted_at, email, answers, score, outcome
		FROM results
		WHERE lower(btrim(email)) = lower(btrim($1))
		ORDER BY submitted_at
		LIMIT 1`, email).Scan(&rec.ID, &rec.SubmittedAt, &rec.Email, &raw, &rec.Score, &rec.Outcome)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find result by email: %w", err)
	}
	if err := json.Unmarshal(raw, &rec.Answers); err != nil {
		return nil, fmt.Errorf("unmarshal result answers: %w", err)
	}
	return &rec, nil
}

func (s *ResultStore) Append(ctx context.Context, rec domain.ResultRecord) error {
	answers, err := json.Marshal(rec.Answers)
	if err != nil {
		return fmt.Errorf("marshal result answers: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO results (id, submitted_at, email, answers, score, outcome)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.SubmittedAt, rec.Email, answers, rec.Score, rec.Outcome)
	if err != nil {
		return fmt.Errorf("append result: %w", err)
	}
	return nil
}
