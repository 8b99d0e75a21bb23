package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/core"
)

// UserStore is the persistence surface the auth flows need.
type UserStore interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (int64, error)
	UserByUsername(ctx context.Context, username string) (*core.User, error)
	UserByID(ctx context.Context, id int64) (*core.User, error)
}

// Service implements registration, login, and profile lookup.
type Service struct {
	store  UserStore
	tokens *TokenIssuer
}

func NewService(store UserStore, tokens *TokenIssuer) *Service {
	return &Service{store: store, tokens: tokens}
}

// Session is what a successful register or login hands back.
type Session struct {
	Token string     `json:"token"`
	User  *core.User `json:"user"`
}

// Register creates a new account and signs the caller in.
func (s *Service) Register(ctx context.Context, username, email, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))
	if username == "" {
		return nil, core.ErrEmptyUsername
	}
	if !validEmail(email) {
		return nil, core.ErrInvalidEmail
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	id, err := s.store.CreateUser(ctx, username, email, hash)
	if err != nil {
		return nil, err
	}
	return s.session(ctx, id)
}

// Login verifies credentials and returns a fresh session. Unknown users and
// wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.store.UserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return nil, err
	}
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user}, nil
}

// Profile returns the account behind an authenticated request.
func (s *Service) Profile(ctx context.Context, userID int64) (*core.User, error) {
	return s.store.UserByID(ctx, userID)
}

func (s *Service) session(ctx context.Context, userID int64) (*Session, error) {
	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	token, err := s.tokens.Issue(userID)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user}, nil
}

// validEmail keeps the check deliberately loose: one @ with something on
// both sides and a dot in the domain.
func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}
