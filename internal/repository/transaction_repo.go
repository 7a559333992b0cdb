package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Raj-Kharwar-26/upi-app/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	// ConfirmIf atomically moves the transaction from created to confirmed
	// and records the mode. Exactly one caller can win; losers get
	// InvalidStateError (or NotFoundError if the id is unknown).
	ConfirmIf(ctx context.Context, id string, mode domain.PaymentMode, at time.Time) (*domain.Transaction, error)
	// UpdateStatusIf applies from→to only when the current status still
	// equals from. Reports whether the update took effect.
	UpdateStatusIf(ctx context.Context, id string, from, to domain.TransactionStatus, at time.Time) (bool, error)
	// List returns a page ordered by creation time descending plus the
	// total count matching the filter, ignoring pagination.
	List(ctx context.Context, status *domain.TransactionStatus, limit, offset int) ([]*domain.Transaction, int, error)
}

type transactionRepo struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) TransactionRepository {
	return &transactionRepo{db: db}
}

const transactionColumns = `
    id, payee_vpa, payee_name, amount, user_phone, status, mode, created_at, updated_at
`

func (r *transactionRepo) Create(ctx context.Context, tx *domain.Transaction) error {
	query := `
        INSERT INTO transactions (
            id, payee_vpa, payee_name, amount, user_phone, status, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `

	_, err := r.db.Exec(ctx, query,
		tx.ID,
		tx.PayeeVpa,
		tx.PayeeName,
		tx.Amount,
		tx.UserPhone,
		tx.Status,
		tx.CreatedAt,
		tx.UpdatedAt,
	)
	if err != nil {
		return &domain.StorageError{Op: "insert transaction", Err: err}
	}
	return nil
}

func (r *transactionRepo) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `
        SELECT ` + transactionColumns + `
        FROM transactions
        WHERE id = $1
    `

	tx, err := scanTransaction(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{ID: id}
		}
		return nil, &domain.StorageError{Op: "get transaction", Err: err}
	}
	return tx, nil
}

func (r *transactionRepo) ConfirmIf(ctx context.Context, id string, mode domain.PaymentMode, at time.Time) (*domain.Transaction, error) {
	query := `
        UPDATE transactions
        SET status = $1, mode = $2, updated_at = $3
        WHERE id = $4 AND status = $5
        RETURNING ` + transactionColumns + `
    `

	tx, err := scanTransaction(r.db.QueryRow(ctx, query,
		domain.StatusConfirmed, mode, at, id, domain.StatusCreated))
	if err == nil {
		return tx, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, &domain.StorageError{Op: "confirm transaction", Err: err}
	}

	// Lost the conditional update. Distinguish an unknown id from a
	// transaction that has already moved past created.
	current, gerr := r.GetByID(ctx, id)
	if gerr != nil {
		return nil, gerr
	}
	return nil, &domain.InvalidStateError{ID: id, Status: current.Status}
}

func (r *transactionRepo) UpdateStatusIf(ctx context.Context, id string, from, to domain.TransactionStatus, at time.Time) (bool, error) {
	query := `
        UPDATE transactions
        SET status = $1, updated_at = $2
        WHERE id = $3 AND status = $4
    `

	tag, err := r.db.Exec(ctx, query, to, at, id, from)
	if err != nil {
		return false, &domain.StorageError{Op: "update transaction status", Err: err}
	}
	return tag.RowsAffected() > 0, nil
}

func (r *transactionRepo) List(ctx context.Context, status *domain.TransactionStatus, limit, offset int) ([]*domain.Transaction, int, error) {
	query := `
        SELECT ` + transactionColumns + `
        FROM transactions
        WHERE $1::text IS NULL OR status = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3
    `

	rows, err := r.db.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, 0, &domain.StorageError{Op: "list transactions", Err: err}
	}
	defer rows.Close()

	var txs []*domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, &domain.StorageError{Op: "scan transaction", Err: err}
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, &domain.StorageError{Op: "list transactions", Err: err}
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM transactions WHERE $1::text IS NULL OR status = $1`
	if err := r.db.QueryRow(ctx, countQuery, status).Scan(&total); err != nil {
		return nil, 0, &domain.StorageError{Op: "count transactions", Err: err}
	}

	return txs, total, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var tx domain.Transaction
	err := row.Scan(
		&tx.ID,
		&tx.PayeeVpa,
		&tx.PayeeName,
		&tx.Amount,
		&tx.UserPhone,
		&tx.Status,
		&tx.Mode,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}
