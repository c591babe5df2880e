package migrations

import (
	"context"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

const createQuestionsSQL = `
CREATE TABLE IF NOT EXISTS questions (
	id BIGSERIAL PRIMARY KEY,
	question TEXT NOT NULL,
	option_a TEXT NOT NULL DEFAULT '',
	option_b TEXT NOT NULL DEFAULT '',
	option_c TEXT NOT NULL DEFAULT '',
	option_d TEXT NOT NULL DEFAULT '',
	option_e TEXT NOT NULL DEFAULT '',
	correct_option TEXT NOT NULL DEFAULT ''
)`

const createResultsSQL = `
CREATE TABLE IF NOT EXISTS results (
	id UUID PRIMARY KEY,
	submitted_at TIMESTAMPTZ NOT NULL,
	email TEXT NOT NULL,
	answers JSONB NOT NULL,
	score INT NOT NULL,
	outcome TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS results_email_idx ON results (lower(btrim(email)))`

var Migrations = migrate.NewMigrations()

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			if _, err := db.ExecContext(ctx, createQuestionsSQL); err != nil {
				return err
			}
			_, err := db.ExecContext(ctx, createResultsSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS results`); err != nil {
				return err
			}
			_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS questions`)
			return err
		},
	)
}
