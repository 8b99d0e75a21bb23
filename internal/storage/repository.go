// Package storage implements the ledger store on SQLite: users, reference
// categories, owner-scoped transactions and the two aggregate queries the
// analytics service is built on.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/core"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

// NewRepository opens (creating if needed) the SQLite database at dbPath,
// runs migrations and bounds the connection pool to maxConns.
func NewRepository(dbPath string, maxConns int) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if maxConns < 1 {
		maxConns = 1
	}
	db.SetMaxOpenConns(maxConns)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// --- users ---

func (r *Repository) CreateUser(ctx context.Context, username, email, passwordHash string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)`,
		username, email, passwordHash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, core.ErrUserExists
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create user id: %w", err)
	}
	return id, nil
}

func (r *Repository) UserByUsername(ctx context.Context, username string) (*core.User, error) {
	return r.userWhere(ctx, "username = ?", username)
}

func (r *Repository) UserByEmail(ctx context.Context, email string) (*core.User, error) {
	return r.userWhere(ctx, "email = ?", email)
}

func (r *Repository) UserByID(ctx context.Context, id int64) (*core.User, error) {
	return r.userWhere(ctx, "id = ?", id)
}

func (r *Repository) userWhere(ctx context.Context, where string, arg any) (*core.User, error) {
	var (
		u         core.User
		createdAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, created_at FROM users WHERE `+where,
		arg).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	u.CreatedAt = parseTimestamp(createdAt)
	return &u, nil
}

// --- categories ---

func (r *Repository) Categories(ctx context.Context) ([]core.Category, error) {
	return r.categoriesWhere(ctx,
		`SELECT id, name, type, color FROM categories ORDER BY type, name`)
}

func (r *Repository) CategoriesByType(ctx context.Context, t core.CategoryType) ([]core.Category, error) {
	return r.categoriesWhere(ctx,
		`SELECT id, name, type, color FROM categories WHERE type = ? ORDER BY name`, string(t))
}

func (r *Repository) categoriesWhere(ctx context.Context, query string, args ...any) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.Color); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (r *Repository) CategoryByID(ctx context.Context, id int64) (*core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, type, color FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Type, &c.Color)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query category: %w", err)
	}
	return &c, nil
}

// --- transactions ---

// TransactionsByUser returns all of a user's transactions with category
// data joined, newest first (date, then creation time).
func (r *Repository) TransactionsByUser(ctx context.Context, userID int64) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.user_id, t.category_id, t.amount_cents, t.description,
		       t.date, t.created_at, c.name, c.type, c.color
		FROM transactions t
		JOIN categories c ON t.category_id = c.id
		WHERE t.user_id = ?
		ORDER BY t.date DESC, t.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func (r *Repository) TransactionByID(ctx context.Context, id int64) (*core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT t.id, t.user_id, t.category_id, t.amount_cents, t.description,
		       t.date, t.created_at, c.name, c.type, c.color
		FROM transactions t
		JOIN categories c ON t.category_id = c.id
		WHERE t.id = ?`, id)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *Repository) CreateTransaction(ctx context.Context, tx core.Transaction) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (user_id, category_id, amount_cents, description, date)
		VALUES (?, ?, ?, ?, ?)`,
		tx.UserID, tx.CategoryID, tx.Amount.Cents, tx.Description, tx.Date.String())
	if err != nil {
		return 0, fmt.Errorf("create transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create transaction id: %w", err)
	}
	return id, nil
}

// UpdateTransaction updates by id and owner; it reports core.ErrNotFound
// when the row does not exist or belongs to another user.
func (r *Repository) UpdateTransaction(ctx context.Context, tx core.Transaction) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET category_id = ?, amount_cents = ?, description = ?, date = ?
		WHERE id = ? AND user_id = ?`,
		tx.CategoryID, tx.Amount.Cents, tx.Description, tx.Date.String(), tx.ID, tx.UserID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res)
}

// DeleteTransaction deletes by id and owner, with the same not-found rule
// as UpdateTransaction.
func (r *Repository) DeleteTransaction(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res)
}

// --- aggregates ---

// MonthlySummary sums income and expense amounts for one calendar month.
// An empty month yields a zero summary, not an error.
func (r *Repository) MonthlySummary(ctx context.Context, userID int64, year, month int) (core.MonthlySummary, error) {
	var income, expenses int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(CASE WHEN c.type = 'income' THEN t.amount_cents ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN c.type = 'expense' THEN t.amount_cents ELSE 0 END), 0)
		FROM transactions t
		JOIN categories c ON t.category_id = c.id
		WHERE t.user_id = ? AND strftime('%Y', t.date) = ? AND strftime('%m', t.date) = ?`,
		userID, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month)).
		Scan(&income, &expenses)
	if err != nil {
		return core.MonthlySummary{}, fmt.Errorf("query monthly summary: %w", err)
	}
	return core.MonthlySummary{
		TotalIncome:   core.Money{Cents: income},
		TotalExpenses: core.Money{Cents: expenses},
		NetAmount:     core.Money{Cents: income - expenses},
	}, nil
}

// CategoryStats groups all of a user's transactions by category, income
// categories first, then total amount descending.
func (r *Repository) CategoryStats(ctx context.Context, userID int64) ([]core.CategoryStats, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.type, c.color,
		       COUNT(*), SUM(t.amount_cents), AVG(t.amount_cents)
		FROM transactions t
		JOIN categories c ON t.category_id = c.id
		WHERE t.user_id = ?
		GROUP BY c.id, c.name, c.type, c.color
		ORDER BY CASE WHEN c.type = 'income' THEN 0 ELSE 1 END, SUM(t.amount_cents) DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("query category stats: %w", err)
	}
	defer rows.Close()

	var stats []core.CategoryStats
	for rows.Next() {
		var (
			s     core.CategoryStats
			total int64
			avg   float64
		)
		if err := rows.Scan(&s.CategoryID, &s.CategoryName, &s.CategoryType,
			&s.CategoryColor, &s.TransactionCount, &total, &avg); err != nil {
			return nil, fmt.Errorf("scan category stats: %w", err)
		}
		s.TotalAmount = core.Money{Cents: total}
		s.AvgAmount = core.Money{Cents: int64(math.Round(avg))}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// --- audit ---

// AuditEvent is a persisted record of a ledger mutation, written by the
// audit worker from AMQP messages.
type AuditEvent struct {
	ID            int64
	TransactionID int64
	UserID        int64
	Action        string
	OccurredAt    time.Time
}

func (r *Repository) InsertAuditEvent(ctx context.Context, ev AuditEvent) error {
	occurredAt := ev.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_events (transaction_id, user_id, action, occurred_at)
		VALUES (?, ?, ?, ?)`,
		ev.TransactionID, ev.UserID, ev.Action, occurredAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// AuditEventsByUser returns a user's most recent audit events, newest first.
func (r *Repository) AuditEventsByUser(ctx context.Context, userID int64, limit int) ([]AuditEvent, error) {
	if limit < 1 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, transaction_id, user_id, action, occurred_at
		FROM audit_events
		WHERE user_id = ?
		ORDER BY occurred_at DESC, id DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []AuditEvent
	for rows.Next() {
		var (
			ev         AuditEvent
			occurredAt string
		)
		if err := rows.Scan(&ev.ID, &ev.TransactionID, &ev.UserID, &ev.Action, &occurredAt); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		ev.OccurredAt = parseTimestamp(occurredAt)
		events = append(events, ev)
	}
	return events, rows.Err()
}

// --- helpers ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		tx        core.Transaction
		cents     int64
		date      string
		createdAt string
	)
	err := row.Scan(&tx.ID, &tx.UserID, &tx.CategoryID, &cents, &tx.Description,
		&date, &createdAt, &tx.CategoryName, &tx.CategoryType, &tx.CategoryColor)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Transaction{}, err
		}
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	tx.Amount = core.Money{Cents: cents}
	parsed, perr := core.ParseDate(date)
	if perr != nil {
		return core.Transaction{}, fmt.Errorf("parse stored date %q: %w", date, perr)
	}
	tx.Date = parsed
	tx.CreatedAt = parseTimestamp(createdAt)
	return tx, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// parseTimestamp tolerates the formats SQLite emits for CURRENT_TIMESTAMP
// and RFC3339 values written by this package.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05Z07:00"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
