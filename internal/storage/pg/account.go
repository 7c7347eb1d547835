package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lib/pq"

	"github.com/accsvc-dev/accsvc/internal/domain"
	internal_errors "github.com/accsvc-dev/accsvc/internal/errors"
)

const uniqueViolation = "23505"

// =========================================================================
// Public Methods (satisfy the service.AccountStorage interface)
// =========================================================================

// SaveAccount inserts a new account record. The unique index on email is
// the arbiter for concurrent registrations: exactly one insert wins, the
// rest surface as a duplicate-email error.
func (s *Storage) SaveAccount(account domain.Account) (domain.AccountId, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var id domain.AccountId
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = s.saveAccount(tx, account)
		return err
	})
	return id, err
}

// AccountByEmail fetches a single account by its login identifier.
func (s *Storage) AccountByEmail(email string) (domain.Account, error) {
	return s.accountByEmail(s.db, email)
}

// Activate marks the account active and clears the outstanding verification
// token in one statement, so the token can never survive activation.
func (s *Storage) Activate(email string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.activate(tx, email)
	})
}

// Accounts returns a snapshot of all account records.
func (s *Storage) Accounts() ([]domain.Account, error) {
	return s.accounts(s.db)
}

// =========================================================================
// Internal Methods (Core Database Logic)
// These methods accept a Querier and are transaction-agnostic.
// =========================================================================

func (s *Storage) saveAccount(q Querier, account domain.Account) (domain.AccountId, error) {
	var id domain.AccountId
	err := q.QueryRow(`
        INSERT INTO accounts(email, password_hash, phone, role, active, image, verify_token)
        VALUES($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		account.Email, account.PasswordHash, nullable(account.Phone), account.Role,
		account.Active, nullable(account.Image), nullable(account.VerifyToken),
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return -1, &internal_errors.ErrorWithStatusCode{Message: "Email is used.", StatusCode: http.StatusBadRequest}
		}
		return -1, fmt.Errorf("failed to insert account: %w", err)
	}
	return id, nil
}

func (s *Storage) accountByEmail(q Querier, email string) (domain.Account, error) {
	row := q.QueryRow(`
        SELECT id, email, password_hash, phone, role, active, image, verify_token, created_at
        FROM accounts WHERE email = $1`, email)

	account, err := scanAccount(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, &internal_errors.ErrorWithStatusCode{Message: "Account not found", StatusCode: http.StatusNotFound}
		}
		return domain.Account{}, fmt.Errorf("failed to query account: %w", err)
	}
	return account, nil
}

func (s *Storage) activate(q Querier, email string) error {
	result, err := q.Exec("UPDATE accounts SET active = TRUE, verify_token = NULL WHERE email = $1", email)
	if err != nil {
		return fmt.Errorf("failed to activate account: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for activation: %w", err)
	}
	if rowsAffected == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "Account not found", StatusCode: http.StatusNotFound}
	}
	return nil
}

func (s *Storage) accounts(q Querier) ([]domain.Account, error) {
	rows, err := q.Query(`
        SELECT id, email, password_hash, phone, role, active, image, verify_token, created_at
        FROM accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return accounts, nil
}

func scanAccount(scan func(dest ...any) error) (domain.Account, error) {
	var account domain.Account
	var phone, image, verifyToken sql.NullString
	err := scan(&account.Id, &account.Email, &account.PasswordHash, &phone,
		&account.Role, &account.Active, &image, &verifyToken, &account.CreatedAt)
	if err != nil {
		return domain.Account{}, err
	}
	account.Phone = phone.String
	account.Image = image.String
	account.VerifyToken = verifyToken.String
	return account, nil
}

// nullable maps Go's empty string to SQL NULL for optional columns.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
