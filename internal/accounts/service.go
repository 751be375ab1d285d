package accounts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/agenthubhq/agenthub/internal/config"
	"github.com/agenthubhq/agenthub/internal/db"
)

var (
	// ErrNotFound is returned when an account does not exist.
	ErrNotFound = errors.New("account not found")
	// ErrInvalidCredentials is returned for a wrong username or password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const accountColumns = `id, username, email, role, is_active, created_at, updated_at`

// Service owns dashboard accounts and their password credentials.
type Service struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewService creates an account service.
func NewService(log *slog.Logger, pool *pgxpool.Pool) *Service {
	return &Service{
		pool:   pool,
		logger: log.With(slog.String("service", "accounts")),
	}
}

// Create stores a new account with a bcrypt password hash.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Account, error) {
	req.Username = strings.TrimSpace(strings.ToLower(req.Username))
	if req.Username == "" {
		return Account{}, fmt.Errorf("username is required")
	}
	if req.Password == "" {
		return Account{}, fmt.Errorf("password is required")
	}
	if req.Role == "" {
		req.Role = "owner"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, fmt.Errorf("hash password: %w", err)
	}
	row := s.pool.QueryRow(ctx, `INSERT INTO accounts (username, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING `+accountColumns,
		req.Username, db.TextFrom(req.Email), string(hash), req.Role)
	return scanAccount(row)
}

// Get returns an account by id.
func (s *Service) Get(ctx context.Context, accountID string) (Account, error) {
	id, err := db.ParseUUID(accountID)
	if err != nil {
		return Account{}, ErrNotFound
	}
	row := s.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	return scanAccount(row)
}

// GetByUsername returns an account by username.
func (s *Service) GetByUsername(ctx context.Context, username string) (Account, error) {
	username = strings.TrimSpace(strings.ToLower(username))
	row := s.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE username = $1`, username)
	return scanAccount(row)
}

// Authenticate checks a username/password pair against the stored bcrypt
// hash. Inactive accounts cannot log in.
func (s *Service) Authenticate(ctx context.Context, username, password string) (Account, error) {
	username = strings.TrimSpace(strings.ToLower(username))
	var hash string
	row := s.pool.QueryRow(ctx,
		`SELECT `+accountColumns+`, password_hash FROM accounts WHERE username = $1`, username)
	account, err := scanAccountWith(row, &hash)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Account{}, ErrInvalidCredentials
		}
		return Account{}, err
	}
	if !account.IsActive {
		return Account{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return Account{}, ErrInvalidCredentials
	}
	return account, nil
}

// EnsureAdmin creates the configured admin account on first boot and
// keeps its password in sync with the configuration afterwards.
func (s *Service) EnsureAdmin(ctx context.Context, cfg config.AdminConfig) (Account, error) {
	account, err := s.GetByUsername(ctx, cfg.Username)
	if err == nil {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			return Account{}, fmt.Errorf("hash password: %w", hashErr)
		}
		id, idErr := db.ParseUUID(account.ID)
		if idErr != nil {
			return Account{}, idErr
		}
		if _, err := s.pool.Exec(ctx,
			`UPDATE accounts SET password_hash = $2, email = $3, updated_at = now() WHERE id = $1`,
			id, string(hash), db.TextFrom(cfg.Email)); err != nil {
			return Account{}, err
		}
		return account, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Account{}, err
	}
	account, err = s.Create(ctx, CreateRequest{
		Username: cfg.Username,
		Email:    cfg.Email,
		Password: cfg.Password,
		Role:     "admin",
	})
	if err != nil {
		return Account{}, err
	}
	s.logger.Info("created admin account", slog.String("username", account.Username))
	return account, nil
}

func scanAccount(row pgx.Row) (Account, error) {
	return scanAccountWith(row)
}

func scanAccountWith(row pgx.Row, extra ...any) (Account, error) {
	var (
		account Account
		id      pgtype.UUID
		email   pgtype.Text
	)
	dest := []any{&id, &account.Username, &email, &account.Role,
		&account.IsActive, &account.CreatedAt, &account.UpdatedAt}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		return Account{}, err
	}
	account.ID = db.UUIDString(id)
	account.Email = db.TextOrEmpty(email)
	return account, nil
}
