package domain

import "time"

// ScheduledJob is a persisted delayed state transition. FromStatus is the
// precondition: the transition applies only if the transaction still holds
// it at fire time, otherwise the job is skipped silently.
type ScheduledJob struct {
	ID            string            `json:"id" db:"id"`
	TransactionID string            `json:"transactionId" db:"transaction_id"`
	FireAt        time.Time         `json:"fireAt" db:"fire_at"`
	FromStatus    TransactionStatus `json:"fromStatus" db:"from_status"`
	TargetStatus  TransactionStatus `json:"targetStatus" db:"target_status"`
	CreatedAt     time.Time         `json:"createdAt" db:"created_at"`
}
