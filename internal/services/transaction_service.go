package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/core"
)

// TransactionService validates and mutates ledger transactions, enforcing
// ownership and category referential integrity. Mutations are announced on
// the audit queue when a publisher is wired; publishing is best-effort and
// never fails the request.
type TransactionService struct {
	store  LedgerStore
	events EventPublisher
}

func NewTransactionService(store LedgerStore, events EventPublisher) *TransactionService {
	return &TransactionService{store: store, events: events}
}

// TransactionInput carries the raw request fields. Amount is a decimal
// string and Date is YYYY-MM-DD; both are parsed and validated here so the
// HTTP layer stays a thin shell.
type TransactionInput struct {
	CategoryID  int64
	Amount      string
	Description string
	Date        string
}

func (s *TransactionService) List(ctx context.Context, userID int64) ([]core.Transaction, error) {
	txs, err := s.store.TransactionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	return txs, nil
}

func (s *TransactionService) Create(ctx context.Context, userID int64, in TransactionInput) (int64, error) {
	tx, err := s.buildTransaction(ctx, userID, in)
	if err != nil {
		return 0, err
	}

	id, err := s.store.CreateTransaction(ctx, tx)
	if err != nil {
		return 0, fmt.Errorf("create transaction: %w", err)
	}

	s.publish(ctx, id, userID, "created")
	return id, nil
}

func (s *TransactionService) Update(ctx context.Context, userID, id int64, in TransactionInput) error {
	tx, err := s.buildTransaction(ctx, userID, in)
	if err != nil {
		return err
	}
	tx.ID = id

	if err := s.store.UpdateTransaction(ctx, tx); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.ErrNotFound
		}
		return fmt.Errorf("update transaction: %w", err)
	}

	s.publish(ctx, id, userID, "updated")
	return nil
}

func (s *TransactionService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.store.DeleteTransaction(ctx, id, userID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.ErrNotFound
		}
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.publish(ctx, id, userID, "deleted")
	return nil
}

// buildTransaction parses and validates the input and verifies the
// referenced category exists.
func (s *TransactionService) buildTransaction(ctx context.Context, userID int64, in TransactionInput) (core.Transaction, error) {
	cents, err := core.ParseDecimalToCents(in.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	date, err := core.ParseDate(in.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	if in.CategoryID <= 0 {
		return core.Transaction{}, core.ErrInvalidCategory
	}
	if _, err := s.store.CategoryByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Transaction{}, core.ErrInvalidCategory
		}
		return core.Transaction{}, fmt.Errorf("verify category: %w", err)
	}

	tx := core.Transaction{
		UserID:      userID,
		CategoryID:  in.CategoryID,
		Amount:      core.Money{Cents: cents},
		Description: strings.TrimSpace(in.Description),
		Date:        date,
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

func (s *TransactionService) publish(ctx context.Context, id, userID int64, action string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishTransactionEvent(ctx, id, userID, action); err != nil {
		// The mutation already succeeded; auditing must not fail it.
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"transaction_id", id, "user_id", userID, "action", action, "error", err)
	}
}
