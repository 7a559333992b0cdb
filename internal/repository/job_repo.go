package repository

import (
	"context"
	"time"

	"github.com/Raj-Kharwar-26/upi-app/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type JobRepository interface {
	Create(ctx context.Context, job *domain.ScheduledJob) error
	// Due returns jobs whose fire time has passed, soonest first.
	Due(ctx context.Context, now time.Time, limit int) ([]*domain.ScheduledJob, error)
	Delete(ctx context.Context, id string) error
}

type jobRepo struct {
	db *pgxpool.Pool
}

func NewJobRepository(db *pgxpool.Pool) JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) Create(ctx context.Context, job *domain.ScheduledJob) error {
	query := `
        INSERT INTO scheduled_jobs (
            id, transaction_id, fire_at, from_status, target_status, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6)
    `

	_, err := r.db.Exec(ctx, query,
		job.ID,
		job.TransactionID,
		job.FireAt,
		job.FromStatus,
		job.TargetStatus,
		job.CreatedAt,
	)
	if err != nil {
		return &domain.StorageError{Op: "insert job", Err: err}
	}
	return nil
}

func (r *jobRepo) Due(ctx context.Context, now time.Time, limit int) ([]*domain.ScheduledJob, error) {
	query := `
        SELECT id, transaction_id, fire_at, from_status, target_status, created_at
        FROM scheduled_jobs
        WHERE fire_at <= $1
        ORDER BY fire_at ASC
        LIMIT $2
    `

	rows, err := r.db.Query(ctx, query, now, limit)
	if err != nil {
		return nil, &domain.StorageError{Op: "list due jobs", Err: err}
	}
	defer rows.Close()

	var jobs []*domain.ScheduledJob
	for rows.Next() {
		var job domain.ScheduledJob
		if err := rows.Scan(
			&job.ID,
			&job.TransactionID,
			&job.FireAt,
			&job.FromStatus,
			&job.TargetStatus,
			&job.CreatedAt,
		); err != nil {
			return nil, &domain.StorageError{Op: "scan job", Err: err}
		}
		jobs = append(jobs, &job)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "list due jobs", Err: err}
	}

	return jobs, nil
}

func (r *jobRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM scheduled_jobs WHERE id = $1`, id)
	if err != nil {
		return &domain.StorageError{Op: "delete job", Err: err}
	}
	return nil
}
