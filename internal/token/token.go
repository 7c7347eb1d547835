// Package token signs and verifies the two token shapes the service uses:
// email verification tokens carrying {email} and session tokens carrying
// {uid}. Tokens are opaque to callers; claims only leave this package
// through the Parse functions.
package token

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/accsvc-dev/accsvc/internal/domain"
	internal_errors "github.com/accsvc-dev/accsvc/internal/errors"
	"github.com/accsvc-dev/accsvc/internal/logger"
)

type Issuer struct {
	secretKey  string
	verifyTTL  time.Duration
	sessionTTL time.Duration
}

func New(secretKey string, verifyTTL, sessionTTL time.Duration) *Issuer {
	return &Issuer{secretKey: secretKey, verifyTTL: verifyTTL, sessionTTL: sessionTTL}
}

// NewVerificationToken issues a token binding email to the pending
// registration, expiring after the configured verification TTL.
func (i *Issuer) NewVerificationToken(email string) (string, error) {
	claims := jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(i.verifyTTL).Unix(),
	}
	return i.sign(claims)
}

// NewSessionToken issues a bearer token bound to the account id, expiring
// after the configured session TTL.
func (i *Issuer) NewSessionToken(id domain.AccountId) (string, error) {
	claims := jwt.MapClaims{
		"uid": id,
		"exp": time.Now().Add(i.sessionTTL).Unix(),
	}
	return i.sign(claims)
}

func (i *Issuer) sign(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(i.secretKey))
	if err != nil {
		logger.Log.Error("failed to sign token", "error", err)
		return "", errors.New("can't create token")
	}
	return tokenString, nil
}

// ParseVerificationToken returns the email a verification token was issued
// for. Expired and otherwise invalid tokens yield distinct 400 errors.
func (i *Issuer) ParseVerificationToken(tokenString string) (string, error) {
	claims, err := i.parse(tokenString, "Token expired.", "Token not valid.")
	if err != nil {
		return "", err
	}
	email, ok := claims["email"].(string)
	if !ok {
		return "", &internal_errors.ErrorWithStatusCode{Message: "Token not valid.", StatusCode: http.StatusBadRequest}
	}
	return email, nil
}

// ParseSessionToken returns the account id a session token was issued for.
func (i *Issuer) ParseSessionToken(tokenString string) (domain.AccountId, error) {
	claims, err := i.parse(tokenString, "Invalid Token", "Invalid Token")
	if err != nil {
		return 0, err
	}
	// encoding/json decodes all JWT numbers into float64
	uid, ok := claims["uid"].(float64)
	if !ok {
		return 0, &internal_errors.ErrorWithStatusCode{Message: "Invalid Token", StatusCode: http.StatusBadRequest}
	}
	return domain.AccountId(uid), nil
}

func (i *Issuer) parse(tokenString, expiredMsg, invalidMsg string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(i.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, &internal_errors.ErrorWithStatusCode{Message: expiredMsg, StatusCode: http.StatusBadRequest}
		}
		return nil, &internal_errors.ErrorWithStatusCode{Message: invalidMsg, StatusCode: http.StatusBadRequest}
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, &internal_errors.ErrorWithStatusCode{Message: invalidMsg, StatusCode: http.StatusBadRequest}
	}
	return claims, nil
}
