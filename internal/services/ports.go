package services

import (
	"context"

	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/core"
)

// LedgerStore is the slice of the storage layer the transaction service
// depends on.
type LedgerStore interface {
	TransactionsByUser(ctx context.Context, userID int64) ([]core.Transaction, error)
	CreateTransaction(ctx context.Context, tx core.Transaction) (int64, error)
	UpdateTransaction(ctx context.Context, tx core.Transaction) error
	DeleteTransaction(ctx context.Context, id, userID int64) error
	CategoryByID(ctx context.Context, id int64) (*core.Category, error)
}

// AnalyticsStore exposes the two aggregate reads.
type AnalyticsStore interface {
	MonthlySummary(ctx context.Context, userID int64, year, month int) (core.MonthlySummary, error)
	CategoryStats(ctx context.Context, userID int64) ([]core.CategoryStats, error)
}

// EventPublisher pushes ledger change notifications to the audit queue.
// Implementations must be safe to skip: a nil publisher disables auditing.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, transactionID, userID int64, action string) error
}
