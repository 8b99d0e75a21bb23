package core

import (
	"strings"
	"time"
)

const (
	Income  CategoryType = "income"
	Expense CategoryType = "expense"
)

type (
	// CategoryType marks a category as an income or expense bucket.
	CategoryType string

	// Date is a calendar date; the time-of-day portion is always zero.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// User is an account holder. PasswordHash never leaves the server.
	User struct {
		ID           int64     `json:"id"`
		Username     string    `json:"username"`
		Email        string    `json:"email"`
		PasswordHash string    `json:"-"`
		CreatedAt    time.Time `json:"createdAt"`
	}

	// Category is immutable reference data seeded by migrations.
	Category struct {
		ID    int64        `json:"id"`
		Name  string       `json:"name"`
		Type  CategoryType `json:"type"`
		Color string       `json:"color"`
	}

	// Transaction is a single ledger entry owned by exactly one user.
	// The Category* fields are populated by list queries that join the
	// categories table; they are ignored on writes.
	Transaction struct {
		ID          int64     `json:"id"`
		UserID      int64     `json:"-"`
		CategoryID  int64     `json:"categoryId"`
		Amount      Money     `json:"amount"`
		Description string    `json:"description"`
		Date        Date      `json:"date"`
		CreatedAt   time.Time `json:"createdAt"`

		CategoryName  string       `json:"categoryName,omitempty"`
		CategoryType  CategoryType `json:"categoryType,omitempty"`
		CategoryColor string       `json:"categoryColor,omitempty"`
	}
)

func (t CategoryType) Valid() bool {
	return t == Income || t == Expense
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if t.CategoryID <= 0 {
		return ErrInvalidCategory
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(t.Description) > 200 {
		return ErrDescriptionTooLong
	}
	return nil
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return ErrEmptyUsername
	}
	if !strings.Contains(u.Email, "@") {
		return ErrInvalidEmail
	}
	return nil
}
