package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/accsvc-dev/accsvc/internal/domain"
	internal_errors "github.com/accsvc-dev/accsvc/internal/errors"
	"github.com/accsvc-dev/accsvc/internal/logger"
	"github.com/accsvc-dev/accsvc/internal/service"
	"github.com/accsvc-dev/accsvc/internal/validation"
)

type credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"pwd" validate:"required"`
}

// accountResponse is the external view of an account. The password hash and
// the pending verification token never leave the process.
type accountResponse struct {
	Id        domain.AccountId `json:"id"`
	Email     string           `json:"email"`
	Phone     string           `json:"phone,omitempty"`
	Role      domain.Role      `json:"role"`
	Active    bool             `json:"active"`
	Image     string           `json:"image,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

func toAccountResponse(a domain.Account) accountResponse {
	return accountResponse{
		Id:        a.Id,
		Email:     a.Email,
		Phone:     a.Phone,
		Role:      a.Role,
		Active:    a.Active,
		Image:     a.Image,
		CreatedAt: a.CreatedAt,
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := decodeValidate(r.Body, &creds); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	if _, err := h.accounts.Register(creds.Email, creds.Password); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Register successfully. Please check your email to activate account!"))
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	if err := h.accounts.VerifyEmail(token); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Account activated successfully."))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := decodeValidate(r.Body, &creds); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	token, err := h.accounts.Login(creds.Email, creds.Password)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, map[string]string{
		"message": "Login successfully.",
		"token":   token,
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.ListAccounts()
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	responses := make([]accountResponse, len(accounts))
	for i, a := range accounts {
		responses[i] = toAccountResponse(a)
	}

	writeJSON(w, map[string]any{
		"message":  "Account retrieved successfully.",
		"accounts": responses,
	})
}

// Create is the administrative creation form: multipart with an optional
// image upload. On success the client is redirected to the listing; on
// validation failure every violated field is returned at once.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	maxRequestSize := validation.MaxRequestSize(h.cfg.Public.MaxImageSizeBytes, 1<<20)
	if err := validation.ParseMultipart(r, w, maxRequestSize); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	params := service.CreateAccountParams{
		Email:    r.FormValue("email"),
		Password: r.FormValue("pwd"),
		Confirm:  r.FormValue("confirm"),
		Phone:    r.FormValue("phone"),
		Role:     domain.Role(r.FormValue("role")),
	}

	if files := r.MultipartForm.File["image"]; len(files) > 0 {
		pending, err := validation.ValidateImage(files[0], h.cfg.Public.MaxImageSizeBytes, h.cfg.Public.AllowedImageMimeTypes)
		if err != nil {
			if errors.Is(err, validation.ErrPayloadTooLarge) {
				writeErrorAndStatusCode(w, err)
				return
			}
			writeErrorAndStatusCode(w, &internal_errors.ErrorWithStatusCode{Message: err.Error(), StatusCode: http.StatusBadRequest})
			return
		}
		defer pending.Data.Close()

		stored, err := h.images.SaveImage(pending.Data, pending.Extension)
		if err != nil {
			writeErrorAndStatusCode(w, err)
			return
		}
		params.Image = stored
	}

	if _, err := h.accounts.CreateAccount(params); err != nil {
		if params.Image != "" {
			// the record was not persisted, don't keep an orphaned upload
			h.images.DeleteImage(params.Image)
		}
		writeErrorAndStatusCode(w, err)
		return
	}

	http.Redirect(w, r, "/accounts", http.StatusSeeOther)
}

// Image serves a stored account image by the name the store generated.
func (h *Handler) Image(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	file, err := h.images.ReadImage(filename)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer file.Close()

	if ct := mime.TypeByExtension(filepath.Ext(filename)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	if _, err := io.Copy(w, file); err != nil {
		logger.Log.Error("failed to write image response", "filename", filename, "error", err)
	}
}
