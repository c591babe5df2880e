package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"quiz-intake-service/internal/domain"
)

// QuestionStore reads the question dataset from Postgres. The dataset is
// read-only to this service; reads are not lock-protected.
type QuestionStore struct {
	pool *pgxpool.Pool
}

func NewQuestionStore(pool *pgxpool.Pool) *QuestionStore {
	return &QuestionStore{pool: pool}
}

func (s *QuestionStore) LoadQuestions(ctx context.Context) ([]domain.QuestionRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, question, option_a, option_b, option_c, option_d, option_e, correct_option
		FROM questions
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	var out []domain.QuestionRow
	for rows.Next() {
		var row domain.QuestionRow
		if err := rows.Scan(&row.ID, &row.Text,
			&row.Options[0], &row.Options[1], &row.Options[2], &row.Options[3], &row.Options[4],
			&row.Correct); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return out, nil
}
