package repository

import (
	"context"

	"github.com/Raj-Kharwar-26/upi-app/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS transactions (
    id          TEXT PRIMARY KEY,
    payee_vpa   TEXT NOT NULL,
    payee_name  TEXT NOT NULL,
    amount      NUMERIC(14, 2) NOT NULL,
    user_phone  TEXT,
    status      TEXT NOT NULL,
    mode        TEXT,
    created_at  TIMESTAMPTZ NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_status ON transactions (status);
CREATE INDEX IF NOT EXISTS idx_transactions_created_at ON transactions (created_at DESC);

CREATE TABLE IF NOT EXISTS scheduled_jobs (
    id             TEXT PRIMARY KEY,
    transaction_id TEXT NOT NULL,
    fire_at        TIMESTAMPTZ NOT NULL,
    from_status    TEXT NOT NULL,
    target_status  TEXT NOT NULL,
    created_at     TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_scheduled_jobs_fire_at ON scheduled_jobs (fire_at);
`

// EnsureSchema creates the tables the repositories rely on if they do not
// exist yet.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return &domain.StorageError{Op: "ensure schema", Err: err}
	}
	return nil
}
