package scheduler

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/Raj-Kharwar-26/upi-app/internal/domain"
	"github.com/Raj-Kharwar-26/upi-app/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dueBatchSize = 100

// Rand is the source of terminal-outcome draws. Satisfied by *rand.Rand;
// tests inject a seeded or fixed source.
type Rand interface {
	Intn(n int) int
}

// Scheduler advances confirmed transactions through their remaining
// lifecycle edges on a delay, independent of any inbound request. Jobs are
// persisted in the job repository, so transitions pending at shutdown are
// picked up again by the first poll after restart.
type Scheduler struct {
	txRepo repository.TransactionRepository
	jobs   repository.JobRepository
	logger *zap.Logger

	processingDelay time.Duration
	terminalDelay   time.Duration
	pollInterval    time.Duration

	rngMu sync.Mutex
	rng   Rand

	wake chan struct{}
	done chan struct{}
}

type Options struct {
	// ProcessingDelay is the time between confirmation and the move to
	// processing. Defaults to 1.5s.
	ProcessingDelay time.Duration
	// TerminalDelay is the time between the processing step firing and the
	// terminal outcome. Defaults to 3s.
	TerminalDelay time.Duration
	// PollInterval is how often the job store is swept. Defaults to 250ms.
	PollInterval time.Duration
	// Rand overrides the outcome source. Defaults to a time-seeded source.
	Rand Rand
}

func New(
	txRepo repository.TransactionRepository,
	jobs repository.JobRepository,
	logger *zap.Logger,
	opts Options,
) *Scheduler {
	if opts.ProcessingDelay <= 0 {
		opts.ProcessingDelay = 1500 * time.Millisecond
	}
	if opts.TerminalDelay <= 0 {
		opts.TerminalDelay = 3 * time.Second
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 250 * time.Millisecond
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Scheduler{
		txRepo:          txRepo,
		jobs:            jobs,
		logger:          logger,
		processingDelay: opts.ProcessingDelay,
		terminalDelay:   opts.TerminalDelay,
		pollInterval:    opts.PollInterval,
		rng:             opts.Rand,
		wake:            make(chan struct{}, 1),
		done:            make(chan struct{}),
	}
}

// Enqueue schedules the first delayed transition for a freshly confirmed
// transaction. Called by the engine after its state write commits; the
// caller does not wait for the transition itself.
func (s *Scheduler) Enqueue(ctx context.Context, transactionID string) error {
	now := time.Now().UTC()
	job := &domain.ScheduledJob{
		ID:            uuid.NewString(),
		TransactionID: transactionID,
		FireAt:        now.Add(s.processingDelay),
		FromStatus:    domain.StatusConfirmed,
		TargetStatus:  domain.StatusProcessing,
		CreatedAt:     now,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return err
	}

	s.logger.Debug("delayed transition enqueued",
		zap.String("transaction_id", transactionID),
		zap.Time("fire_at", job.FireAt))

	s.nudge()
	return nil
}

// Start runs the poll loop until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	go s.run(ctx)
}

// Done is closed once the poll loop has exited.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	// Sweep immediately so jobs left over from a previous run are applied
	// without waiting a full interval.
	s.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.wake:
			s.sweep(ctx)
		}
	}
}

func (s *Scheduler) sweep(ctx context.Context) {
	due, err := s.jobs.Due(ctx, time.Now().UTC(), dueBatchSize)
	if err != nil {
		s.logger.Error("failed to load due jobs", zap.Error(err))
		return
	}

	for _, job := range due {
		select {
		case <-ctx.Done():
			return
		default:
		}
		s.fire(ctx, job)
	}
}

// fire applies one due job. A failed precondition means the transaction was
// moved by someone else; the job is dropped silently. Store failures leave
// the job in place for the next sweep.
func (s *Scheduler) fire(ctx context.Context, job *domain.ScheduledJob) {
	now := time.Now().UTC()

	applied, err := s.txRepo.UpdateStatusIf(ctx, job.TransactionID, job.FromStatus, job.TargetStatus, now)
	if err != nil {
		s.logger.Error("failed to apply delayed transition",
			zap.String("transaction_id", job.TransactionID),
			zap.String("target_status", string(job.TargetStatus)),
			zap.Error(err))
		return
	}

	if applied {
		s.logger.Info("transaction advanced",
			zap.String("transaction_id", job.TransactionID),
			zap.String("status", string(job.TargetStatus)))
	} else {
		s.logger.Debug("stale job skipped",
			zap.String("transaction_id", job.TransactionID),
			zap.String("target_status", string(job.TargetStatus)))
	}

	// The terminal step is chained off the processing step's firing, kept
	// even when the first step was stale: its own precondition decides.
	if job.TargetStatus == domain.StatusProcessing {
		next := &domain.ScheduledJob{
			ID:            uuid.NewString(),
			TransactionID: job.TransactionID,
			FireAt:        now.Add(s.terminalDelay),
			FromStatus:    domain.StatusProcessing,
			TargetStatus:  s.drawOutcome(),
			CreatedAt:     now,
		}
		if err := s.jobs.Create(ctx, next); err != nil {
			s.logger.Error("failed to schedule terminal transition",
				zap.String("transaction_id", job.TransactionID),
				zap.Error(err))
			return
		}
	}

	if err := s.jobs.Delete(ctx, job.ID); err != nil {
		s.logger.Error("failed to delete fired job",
			zap.String("job_id", job.ID),
			zap.Error(err))
	}
}

// drawOutcome picks the terminal state: success 3/5, pending 1/5, failed 1/5.
func (s *Scheduler) drawOutcome() domain.TransactionStatus {
	s.rngMu.Lock()
	n := s.rng.Intn(5)
	s.rngMu.Unlock()

	switch {
	case n < 3:
		return domain.StatusSuccess
	case n == 3:
		return domain.StatusPending
	default:
		return domain.StatusFailed
	}
}

func (s *Scheduler) nudge() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}
