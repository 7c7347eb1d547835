package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	internal_errors "github.com/accsvc-dev/accsvc/internal/errors"
	"github.com/accsvc-dev/accsvc/internal/logger"
	"github.com/accsvc-dev/accsvc/internal/validation"
)

// writeErrorAndStatusCode maps domain errors to HTTP responses. Anything
// unrecognized is a 500 with a generic body; the details go to the log, not
// the client.
func writeErrorAndStatusCode(w http.ResponseWriter, err error) {
	var verr *internal_errors.ValidationError
	if errors.As(err, &verr) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"errors": verr.Fields})
		return
	}

	if errors.Is(err, validation.ErrPayloadTooLarge) {
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		return
	}

	var statusErr *internal_errors.ErrorWithStatusCode
	if errors.As(err, &statusErr) {
		http.Error(w, statusErr.Message, statusErr.StatusCode)
		return
	}

	logger.Log.Error("unhandled error", "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// decodeValidate decodes a JSON body and checks the struct's validate tags.
func decodeValidate(r io.ReadCloser, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		return &internal_errors.ErrorWithStatusCode{Message: "Body is invalid json", StatusCode: http.StatusBadRequest}
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(body); err != nil {
		return &internal_errors.ErrorWithStatusCode{Message: "Required fields missing", StatusCode: http.StatusBadRequest}
	}
	return nil
}
