package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Raj-Kharwar-26/upi-app/internal/domain"
)

// MemoryStore is an in-process implementation of both repositories. It backs
// the memory store driver and the engine/scheduler tests. The transaction
// side is implemented on MemoryStore itself; the job side is reached via
// Jobs().
type MemoryStore struct {
	mu   sync.RWMutex
	txs  map[string]*domain.Transaction
	seq  map[string]int
	next int
	jobs map[string]*domain.ScheduledJob
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		txs:  make(map[string]*domain.Transaction),
		seq:  make(map[string]int),
		jobs: make(map[string]*domain.ScheduledJob),
	}
}

var (
	_ TransactionRepository = (*MemoryStore)(nil)
	_ JobRepository         = memoryJobs{}
)

func (s *MemoryStore) Create(ctx context.Context, tx *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *tx
	s.txs[tx.ID] = &cp
	s.next++
	s.seq[tx.ID] = s.next
	return nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, ok := s.txs[id]
	if !ok {
		return nil, &domain.NotFoundError{ID: id}
	}
	cp := *tx
	return &cp, nil
}

func (s *MemoryStore) ConfirmIf(ctx context.Context, id string, mode domain.PaymentMode, at time.Time) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.txs[id]
	if !ok {
		return nil, &domain.NotFoundError{ID: id}
	}
	if tx.Status != domain.StatusCreated {
		return nil, &domain.InvalidStateError{ID: id, Status: tx.Status}
	}

	tx.Status = domain.StatusConfirmed
	tx.Mode = &mode
	tx.UpdatedAt = at
	cp := *tx
	return &cp, nil
}

func (s *MemoryStore) UpdateStatusIf(ctx context.Context, id string, from, to domain.TransactionStatus, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.txs[id]
	if !ok || tx.Status != from {
		return false, nil
	}
	tx.Status = to
	tx.UpdatedAt = at
	return true, nil
}

func (s *MemoryStore) List(ctx context.Context, status *domain.TransactionStatus, limit, offset int) ([]*domain.Transaction, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*domain.Transaction
	for _, tx := range s.txs {
		if status != nil && tx.Status != *status {
			continue
		}
		matched = append(matched, tx)
	}

	// Creation time descending; insertion sequence breaks ties.
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return s.seq[matched[i].ID] > s.seq[matched[j].ID]
	})

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}

	page := make([]*domain.Transaction, len(matched))
	for i, tx := range matched {
		cp := *tx
		page[i] = &cp
	}
	return page, total, nil
}

// Jobs exposes the scheduled-job side of the store.
func (s *MemoryStore) Jobs() JobRepository {
	return memoryJobs{s: s}
}

type memoryJobs struct {
	s *MemoryStore
}

func (j memoryJobs) Create(ctx context.Context, job *domain.ScheduledJob) error {
	j.s.mu.Lock()
	defer j.s.mu.Unlock()

	cp := *job
	j.s.jobs[job.ID] = &cp
	return nil
}

func (j memoryJobs) Due(ctx context.Context, now time.Time, limit int) ([]*domain.ScheduledJob, error) {
	j.s.mu.RLock()
	defer j.s.mu.RUnlock()

	var due []*domain.ScheduledJob
	for _, job := range j.s.jobs {
		if !job.FireAt.After(now) {
			cp := *job
			due = append(due, &cp)
		}
	}
	sort.Slice(due, func(a, b int) bool {
		return due[a].FireAt.Before(due[b].FireAt)
	})
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (j memoryJobs) Delete(ctx context.Context, id string) error {
	j.s.mu.Lock()
	defer j.s.mu.Unlock()

	delete(j.s.jobs, id)
	return nil
}
