package services

import (
	"context"
	"errors"
	"testing"

	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/core"
)

type fakeLedger struct {
	categories map[int64]core.Category
	created    []core.Transaction
	updated    []core.Transaction
	deleted    []int64
	failCreate error
	missing    bool
}

func (f *fakeLedger) TransactionsByUser(ctx context.Context, userID int64) ([]core.Transaction, error) {
	return nil, nil
}

func (f *fakeLedger) CreateTransaction(ctx context.Context, tx core.Transaction) (int64, error) {
	if f.failCreate != nil {
		return 0, f.failCreate
	}
	f.created = append(f.created, tx)
	return int64(len(f.created)), nil
}

func (f *fakeLedger) UpdateTransaction(ctx context.Context, tx core.Transaction) error {
	if f.missing {
		return core.ErrNotFound
	}
	f.updated = append(f.updated, tx)
	return nil
}

func (f *fakeLedger) DeleteTransaction(ctx context.Context, id, userID int64) error {
	if f.missing {
		return core.ErrNotFound
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeLedger) CategoryByID(ctx context.Context, id int64) (*core.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &c, nil
}

type recordingPublisher struct {
	events []string
	err    error
}

func (p *recordingPublisher) PublishTransactionEvent(ctx context.Context, transactionID, userID int64, action string) error {
	p.events = append(p.events, action)
	return p.err
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{categories: map[int64]core.Category{
		1: {ID: 1, Name: "Salary", Type: core.Income},
		2: {ID: 2, Name: "Food & Dining", Type: core.Expense},
	}}
}

func validInput() TransactionInput {
	return TransactionInput{CategoryID: 2, Amount: "12.34", Description: "lunch", Date: "2025-06-01"}
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TransactionInput)
		want   error
	}{
		{"missing amount", func(in *TransactionInput) { in.Amount = "" }, core.ErrInvalidAmount},
		{"negative amount", func(in *TransactionInput) { in.Amount = "-5" }, core.ErrInvalidAmount},
		{"bad date", func(in *TransactionInput) { in.Date = "junk" }, core.ErrInvalidDate},
		{"zero category", func(in *TransactionInput) { in.CategoryID = 0 }, core.ErrInvalidCategory},
		{"unknown category", func(in *TransactionInput) { in.CategoryID = 42 }, core.ErrInvalidCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewTransactionService(newFakeLedger(), nil)
			in := validInput()
			tt.mutate(&in)
			if _, err := svc.Create(context.Background(), 1, in); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCreatePublishesEvent(t *testing.T) {
	ledger := newFakeLedger()
	pub := &recordingPublisher{}
	svc := NewTransactionService(ledger, pub)

	id, err := svc.Create(context.Background(), 7, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id != 1 {
		t.Fatalf("expected id 1, got %d", id)
	}
	if got := ledger.created[0]; got.UserID != 7 || got.Amount.Cents != 1234 {
		t.Fatalf("stored transaction wrong: %+v", got)
	}
	if len(pub.events) != 1 || pub.events[0] != "created" {
		t.Fatalf("expected created event, got %v", pub.events)
	}
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewTransactionService(newFakeLedger(), pub)

	if _, err := svc.Create(context.Background(), 1, validInput()); err != nil {
		t.Fatalf("create should succeed despite publish failure: %v", err)
	}
}

func TestNilPublisherTolerated(t *testing.T) {
	svc := NewTransactionService(newFakeLedger(), nil)
	if _, err := svc.Create(context.Background(), 1, validInput()); err != nil {
		t.Fatalf("create with nil publisher: %v", err)
	}
}

func TestUpdateAndDeleteNotFound(t *testing.T) {
	ledger := newFakeLedger()
	ledger.missing = true
	svc := NewTransactionService(ledger, nil)

	if err := svc.Update(context.Background(), 1, 99, validInput()); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("update: expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(context.Background(), 1, 99); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("delete: expected ErrNotFound, got %v", err)
	}
}

func TestUpdateSetsOwnerAndID(t *testing.T) {
	ledger := newFakeLedger()
	svc := NewTransactionService(ledger, nil)

	if err := svc.Update(context.Background(), 3, 42, validInput()); err != nil {
		t.Fatalf("update: %v", err)
	}
	got := ledger.updated[0]
	if got.ID != 42 || got.UserID != 3 {
		t.Fatalf("owner scoping lost: %+v", got)
	}
}
