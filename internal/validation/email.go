package validation

import (
	"net/http"
	"net/mail"

	internal_errors "github.com/accsvc-dev/accsvc/internal/errors"
)

// Email checks the address is syntactically valid per RFC 5322 and is a
// bare address. Display-name forms like `John <a@x.com>` parse but are not
// account identifiers, so they are rejected.
func Email(address string) error {
	addr, err := mail.ParseAddress(address)
	if err != nil || addr.Address != address {
		return &internal_errors.ErrorWithStatusCode{Message: "Email not valid.", StatusCode: http.StatusBadRequest}
	}
	return nil
}
