package usecase

import (
	"context"
	"time"

	"github.com/Raj-Kharwar-26/upi-app/internal/domain"
	"github.com/Raj-Kharwar-26/upi-app/internal/repository"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

const (
	// DefaultListLimit applies when the caller does not ask for a page size.
	DefaultListLimit = 50
	// MaxListLimit caps the page size regardless of what the caller asks for.
	MaxListLimit = 100
)

// TransitionEnqueuer schedules the delayed lifecycle advance for a freshly
// confirmed transaction. Implemented by the scheduler.
type TransitionEnqueuer interface {
	Enqueue(ctx context.Context, transactionID string) error
}

// TransactionUsecase owns the transaction lifecycle: intake, confirmation
// and read operations. Delayed advances are handed off to the enqueuer.
type TransactionUsecase struct {
	repo     repository.TransactionRepository
	enqueuer TransitionEnqueuer
	logger   *zap.Logger
}

func NewTransactionUsecase(
	repo repository.TransactionRepository,
	enqueuer TransitionEnqueuer,
	logger *zap.Logger,
) *TransactionUsecase {
	return &TransactionUsecase{
		repo:     repo,
		enqueuer: enqueuer,
		logger:   logger,
	}
}

// Create registers a new payment intent in status created.
func (uc *TransactionUsecase) Create(ctx context.Context, req *domain.CreateRequest) (*domain.Transaction, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	tx := &domain.Transaction{
		ID:        ulid.Make().String(),
		PayeeVpa:  req.PayeeVpa,
		PayeeName: req.PayeeName,
		Amount:    req.Amount,
		Status:    domain.StatusCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.UserPhone != "" {
		phone := req.UserPhone
		tx.UserPhone = &phone
	}

	if err := uc.repo.Create(ctx, tx); err != nil {
		uc.logger.Error("failed to create transaction",
			zap.String("payee_vpa", req.PayeeVpa),
			zap.Error(err))
		return nil, err
	}

	uc.logger.Info("transaction created",
		zap.String("transaction_id", tx.ID),
		zap.String("payee_vpa", tx.PayeeVpa),
		zap.String("amount", tx.Amount.String()))

	return tx, nil
}

// Get returns the full transaction record.
func (uc *TransactionUsecase) Get(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.repo.GetByID(ctx, id)
}

// Confirm moves a transaction from created to confirmed, records the chosen
// channel and schedules the delayed advance. The store-level conditional
// update guarantees exactly one winner under concurrent confirmations; the
// job is enqueued once, only after that update commits.
func (uc *TransactionUsecase) Confirm(ctx context.Context, id, rawMode string) (*domain.Transaction, *domain.Instruction, error) {
	mode, err := domain.ParseMode(rawMode)
	if err != nil {
		return nil, nil, err
	}

	tx, err := uc.repo.ConfirmIf(ctx, id, mode, time.Now().UTC())
	if err != nil {
		return nil, nil, err
	}

	if err := uc.enqueuer.Enqueue(ctx, tx.ID); err != nil {
		uc.logger.Error("failed to enqueue delayed transition",
			zap.String("transaction_id", tx.ID),
			zap.Error(err))
		return nil, nil, err
	}

	uc.logger.Info("transaction confirmed",
		zap.String("transaction_id", tx.ID),
		zap.String("mode", string(mode)))

	instruction := domain.RenderInstruction(mode, tx.PayeeVpa, tx.Amount)
	return tx, &instruction, nil
}

// GetStatus returns the polling projection of a transaction.
func (uc *TransactionUsecase) GetStatus(ctx context.Context, id string) (*domain.StatusProjection, error) {
	tx, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.StatusProjection{
		ID:        tx.ID,
		Status:    tx.Status,
		UpdatedAt: tx.UpdatedAt,
	}, nil
}

// ListResult is one page of transactions plus the unpaginated total.
type ListResult struct {
	Transactions []*domain.Transaction
	Total        int
	Limit        int
	Offset       int
}

// List returns transactions ordered by creation time descending. An unknown
// status filter is rejected; limit is clamped to [0, 100].
func (uc *TransactionUsecase) List(ctx context.Context, rawStatus string, limit, offset int) (*ListResult, error) {
	var status *domain.TransactionStatus
	if rawStatus != "" {
		st := domain.TransactionStatus(rawStatus)
		if !st.IsValid() {
			return nil, &domain.ValidationError{Field: "status", Reason: "is not a known transaction status"}
		}
		status = &st
	}

	if limit < 0 {
		limit = 0
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	txs, total, err := uc.repo.List(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []*domain.Transaction{}
	}

	return &ListResult{
		Transactions: txs,
		Total:        total,
		Limit:        limit,
		Offset:       offset,
	}, nil
}
