package pg

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accsvc-dev/accsvc/internal/domain"
	internal_errors "github.com/accsvc-dev/accsvc/internal/errors"
)

func testAccount(email string) domain.Account {
	return domain.Account{
		Email:        email,
		PasswordHash: "$2a$10$fakefakefakefakefakefakefakefakefakefakefakefakefake",
		Role:         domain.RoleUser,
		Active:       false,
		VerifyToken:  "pending-token",
	}
}

func TestSaveAccount(t *testing.T) {
	id, err := storage.SaveAccount(testAccount("save@x.com"))
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := storage.AccountByEmail("save@x.com")
	require.NoError(t, err)
	assert.Equal(t, id, got.Id)
	assert.Equal(t, "save@x.com", got.Email)
	assert.False(t, got.Active)
	assert.Equal(t, "pending-token", got.VerifyToken)
	assert.Empty(t, got.Phone)
	assert.Empty(t, got.Image)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestSaveAccount_DuplicateEmail(t *testing.T) {
	_, err := storage.SaveAccount(testAccount("dup@x.com"))
	require.NoError(t, err)

	_, err = storage.SaveAccount(testAccount("dup@x.com"))
	require.Error(t, err)
	e, ok := err.(*internal_errors.ErrorWithStatusCode)
	require.True(t, ok, "expected ErrorWithStatusCode, got %T", err)
	assert.Equal(t, http.StatusBadRequest, e.StatusCode)
	assert.Equal(t, "Email is used.", e.Message)

	// exactly one record survives
	accounts, err := storage.Accounts()
	require.NoError(t, err)
	n := 0
	for _, a := range accounts {
		if a.Email == "dup@x.com" {
			n++
		}
	}
	assert.Equal(t, 1, n)
}

func TestSaveAccount_OptionalFields(t *testing.T) {
	account := testAccount("full@x.com")
	account.Phone = "0123456789"
	account.Image = "img-abc.png"
	account.Role = domain.RoleAdmin
	account.VerifyToken = ""

	_, err := storage.SaveAccount(account)
	require.NoError(t, err)

	got, err := storage.AccountByEmail("full@x.com")
	require.NoError(t, err)
	assert.Equal(t, "0123456789", got.Phone)
	assert.Equal(t, "img-abc.png", got.Image)
	assert.Equal(t, domain.RoleAdmin, got.Role)
	assert.Empty(t, got.VerifyToken)
}

func TestAccountByEmail_NotFound(t *testing.T) {
	_, err := storage.AccountByEmail("missing@x.com")
	require.Error(t, err)
	assert.True(t, internal_errors.IsNotFound(err))
}

func TestActivate(t *testing.T) {
	_, err := storage.SaveAccount(testAccount("activate@x.com"))
	require.NoError(t, err)

	require.NoError(t, storage.Activate("activate@x.com"))

	got, err := storage.AccountByEmail("activate@x.com")
	require.NoError(t, err)
	assert.True(t, got.Active)
	assert.Empty(t, got.VerifyToken, "verify token must be cleared on activation")
}

func TestActivate_NotFound(t *testing.T) {
	err := storage.Activate("nobody@x.com")
	require.Error(t, err)
	assert.True(t, internal_errors.IsNotFound(err))
}

func TestAccounts_Snapshot(t *testing.T) {
	_, err := storage.SaveAccount(testAccount("list1@x.com"))
	require.NoError(t, err)
	_, err = storage.SaveAccount(testAccount("list2@x.com"))
	require.NoError(t, err)

	accounts, err := storage.Accounts()
	require.NoError(t, err)

	emails := make(map[string]bool, len(accounts))
	for _, a := range accounts {
		emails[a.Email] = true
	}
	assert.True(t, emails["list1@x.com"])
	assert.True(t, emails["list2@x.com"])
}
