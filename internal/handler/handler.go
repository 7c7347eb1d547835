package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/accsvc-dev/accsvc/internal/config"
	"github.com/accsvc-dev/accsvc/internal/logger"
	"github.com/accsvc-dev/accsvc/internal/service"
)

// ImageStore persists uploaded account images and returns the stored name.
type ImageStore interface {
	SaveImage(data io.Reader, originalExtension string) (string, error)
	ReadImage(filename string) (io.ReadCloser, error)
	DeleteImage(filename string) error
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	accounts service.AccountService
	images   ImageStore
	health   Pinger
	cfg      *config.Config
}

func New(accounts service.AccountService, images ImageStore, health Pinger, cfg *config.Config) *Handler {
	return &Handler{accounts: accounts, images: images, health: health, cfg: cfg}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	buf.WriteTo(w)
}
