package service

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/accsvc-dev/accsvc/internal/config"
	"github.com/accsvc-dev/accsvc/internal/domain"
	internal_errors "github.com/accsvc-dev/accsvc/internal/errors"
	"github.com/accsvc-dev/accsvc/internal/hash"
	"github.com/accsvc-dev/accsvc/internal/logger"
	"github.com/accsvc-dev/accsvc/internal/validation"
)

type AccountService interface {
	Register(email, password string) (domain.AccountId, error)
	VerifyEmail(token string) error
	Login(email, password string) (string, error)
	CreateAccount(params CreateAccountParams) (domain.AccountId, error)
	ListAccounts() ([]domain.Account, error)
}

type AccountStorage interface {
	SaveAccount(account domain.Account) (domain.AccountId, error)
	AccountByEmail(email string) (domain.Account, error)
	Activate(email string) error
	Accounts() ([]domain.Account, error)
}

type Mailer interface {
	Send(recipientEmail, subject, htmlBody string) error
}

type Tokens interface {
	NewVerificationToken(email string) (string, error)
	ParseVerificationToken(token string) (string, error)
	NewSessionToken(id domain.AccountId) (string, error)
}

type Accounts struct {
	storage  AccountStorage
	mailer   Mailer
	tokens   Tokens
	cfg      *config.Public
	validate *validator.Validate
}

func NewAccounts(storage AccountStorage, mailer Mailer, tokens Tokens, cfg *config.Public) *Accounts {
	return &Accounts{
		storage:  storage,
		mailer:   mailer,
		tokens:   tokens,
		cfg:      cfg,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// CreateAccountParams is the administrative creation form. Validation is
// exhaustive: every violated field is collected before the call fails.
type CreateAccountParams struct {
	Email    string `validate:"required,email"`
	Password string `validate:"min=3"`
	Confirm  string `validate:"eqfield=Password"`
	Phone    string `validate:"min=10"`
	Role     domain.Role
	Image    string
}

// Register creates an inactive account and dispatches the activation email.
// The verification token expires after the configured TTL; until the link is
// followed the account cannot log in.
func (a *Accounts) Register(email, password string) (domain.AccountId, error) {
	email = strings.ToLower(email)

	if err := validation.Email(email); err != nil {
		return 0, err
	}

	_, err := a.storage.AccountByEmail(email)
	if err == nil {
		return 0, &internal_errors.ErrorWithStatusCode{Message: "Email is used.", StatusCode: http.StatusBadRequest}
	}
	if !internal_errors.IsNotFound(err) {
		return 0, err
	}

	verifyToken, err := a.tokens.NewVerificationToken(email)
	if err != nil {
		return 0, err
	}
	passwordHash, err := hash.Password(password)
	if err != nil {
		return 0, err
	}

	id, err := a.storage.SaveAccount(domain.Account{
		Email:        email,
		PasswordHash: passwordHash,
		Role:         domain.RoleUser,
		Active:       false,
		VerifyToken:  verifyToken,
	})
	if err != nil {
		// Two concurrent registrations race here; the store's unique index
		// picks the winner and the loser gets the duplicate-email error.
		return 0, err
	}

	link := fmt.Sprintf("%s/accounts/verify/%s", strings.TrimSuffix(a.cfg.BaseURL, "/"), verifyToken)
	body := fmt.Sprintf(`<h2>Activation Account</h2><p>Please click this link to activate your account:</p><a href="%s">Activate</a>`, link)

	if err := a.mailer.Send(email, "Activation Account", body); err != nil {
		// The record stays persisted with no retry or cleanup path. There is
		// no compensating rollback; the account is registered but the owner
		// was never notified.
		logger.Log.Error("activation email not sent, account persisted without notification",
			"email", email, "error", err)
		return 0, &internal_errors.ErrorWithStatusCode{Message: "Internal Server Error", StatusCode: http.StatusInternalServerError}
	}

	return id, nil
}

// VerifyEmail activates the account a verification token was issued for.
// A token replayed after activation reports the account as already active.
func (a *Accounts) VerifyEmail(token string) error {
	email, err := a.tokens.ParseVerificationToken(token)
	if err != nil {
		return err
	}

	account, err := a.storage.AccountByEmail(email)
	if err != nil {
		if internal_errors.IsNotFound(err) {
			return &internal_errors.ErrorWithStatusCode{Message: "Token not valid.", StatusCode: http.StatusBadRequest}
		}
		return err
	}

	if account.Active {
		return &internal_errors.ErrorWithStatusCode{Message: "Account already activated.", StatusCode: http.StatusBadRequest}
	}

	return a.storage.Activate(email)
}

// Login checks credentials and returns a session token. A missing account
// and a wrong password produce the same message so callers can't probe
// which emails are registered.
func (a *Accounts) Login(email, password string) (string, error) {
	email = strings.ToLower(email)

	if err := validation.Email(email); err != nil {
		return "", err
	}

	account, err := a.storage.AccountByEmail(email)
	if err != nil {
		if internal_errors.IsNotFound(err) {
			return "", &internal_errors.ErrorWithStatusCode{Message: "Email or Password is incorrect.", StatusCode: http.StatusBadRequest}
		}
		return "", err
	}

	if !account.Active {
		return "", &internal_errors.ErrorWithStatusCode{Message: "Account not activated. Please check your email!", StatusCode: http.StatusBadRequest}
	}

	if !hash.Verify(password, account.PasswordHash) {
		logger.Log.Warn("password verification failed", "email", email)
		return "", &internal_errors.ErrorWithStatusCode{Message: "Email or Password is incorrect.", StatusCode: http.StatusBadRequest}
	}

	token, err := a.tokens.NewSessionToken(account.Id)
	if err != nil {
		logger.Log.Error("failed to create session token", "account_id", account.Id, "error", err)
		return "", err
	}

	return token, nil
}

// CreateAccount is the administrative path: no verification token is issued
// and no email is dispatched. The created account stays inactive; activation
// for administratively created accounts has no in-band path yet.
func (a *Accounts) CreateAccount(params CreateAccountParams) (domain.AccountId, error) {
	if err := a.validate.Struct(params); err != nil {
		return 0, collectFieldErrors(err)
	}

	passwordHash, err := hash.Password(params.Password)
	if err != nil {
		return 0, err
	}

	role := params.Role
	if role == "" {
		role = domain.RoleUser
	}

	return a.storage.SaveAccount(domain.Account{
		Email:        strings.ToLower(params.Email),
		PasswordHash: passwordHash,
		Phone:        params.Phone,
		Role:         role,
		Active:       false,
		Image:        params.Image,
	})
}

// ListAccounts returns a snapshot of every account. Callers are expected to
// strip the password hash before the records leave the process.
func (a *Accounts) ListAccounts() ([]domain.Account, error) {
	return a.storage.Accounts()
}

// collectFieldErrors maps validator violations to per-field messages,
// keeping every violation rather than the first one.
func collectFieldErrors(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		switch fe.Field() {
		case "Email":
			if fe.Tag() == "required" {
				fields["email"] = "Please input email."
			} else {
				fields["email"] = "Email not valid."
			}
		case "Password":
			fields["pwd"] = "Password must be at least 3 characters."
		case "Confirm":
			fields["confirm"] = "Password and confirm must be the same."
		case "Phone":
			fields["phone"] = "Phone must be at least 10 characters."
		}
	}
	return &internal_errors.ValidationError{Fields: fields}
}
