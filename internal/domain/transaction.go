package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The external contract serializes amounts as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type TransactionStatus string

const (
	StatusCreated    TransactionStatus = "created"
	StatusConfirmed  TransactionStatus = "confirmed"
	StatusProcessing TransactionStatus = "processing"
	StatusSuccess    TransactionStatus = "success"
	StatusPending    TransactionStatus = "pending"
	StatusFailed     TransactionStatus = "failed"
)

// IsTerminal reports whether no further lifecycle transition is legal.
func (s TransactionStatus) IsTerminal() bool {
	switch s {
	case StatusSuccess, StatusPending, StatusFailed:
		return true
	}
	return false
}

// IsValid reports whether s is one of the known lifecycle states.
func (s TransactionStatus) IsValid() bool {
	switch s {
	case StatusCreated, StatusConfirmed, StatusProcessing,
		StatusSuccess, StatusPending, StatusFailed:
		return true
	}
	return false
}

type PaymentMode string

const (
	ModeUSSD PaymentMode = "ussd"
	ModeIVR  PaymentMode = "ivr"
)

// ParseMode validates a confirmation channel supplied by the caller.
func ParseMode(raw string) (PaymentMode, error) {
	switch PaymentMode(raw) {
	case ModeUSSD:
		return ModeUSSD, nil
	case ModeIVR:
		return ModeIVR, nil
	}
	return "", &ValidationError{Field: "mode", Reason: "must be one of: ussd, ivr"}
}

// Transaction represents a simulated UPI payment intent.
type Transaction struct {
	ID        string            `json:"id" db:"id"`
	PayeeVpa  string            `json:"payeeVpa" db:"payee_vpa"`
	PayeeName string            `json:"payeeName" db:"payee_name"`
	Amount    decimal.Decimal   `json:"amount" db:"amount"`
	UserPhone *string           `json:"userPhone,omitempty" db:"user_phone"`
	Status    TransactionStatus `json:"status" db:"status"`
	Mode      *PaymentMode      `json:"mode,omitempty" db:"mode"`
	CreatedAt time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time         `json:"updatedAt" db:"updated_at"`
}

// StatusProjection is the lightweight polling view of a transaction.
type StatusProjection struct {
	ID        string            `json:"id"`
	Status    TransactionStatus `json:"status"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// CreateRequest carries the fields of an incoming payment intent.
type CreateRequest struct {
	PayeeVpa  string          `json:"payeeVpa"`
	PayeeName string          `json:"payeeName"`
	Amount    decimal.Decimal `json:"amount"`
	UserPhone string          `json:"userPhone"`
}

func (r *CreateRequest) Validate() error {
	if r.PayeeVpa == "" {
		return &ValidationError{Field: "payeeVpa", Reason: "is required"}
	}
	if r.PayeeName == "" {
		return &ValidationError{Field: "payeeName", Reason: "is required"}
	}
	if !r.Amount.IsPositive() {
		return &ValidationError{Field: "amount", Reason: "must be greater than 0"}
	}
	return nil
}

// ConfirmRequest carries the confirmation channel choice. Mode validation
// happens in the engine via ParseMode.
type ConfirmRequest struct {
	Mode string `json:"mode"`
}
