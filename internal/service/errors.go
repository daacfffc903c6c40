package service

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"

	domainerrors "github.com/sacredrosary/rosary-server/internal/errors"
	"github.com/sacredrosary/rosary-server/internal/id"
	"github.com/sacredrosary/rosary-server/internal/store"
)

// storeError converts a store failure into a domain error. Missing rows
// become NOT_FOUND with msg; anything unexpected becomes INTERNAL_ERROR.
func storeError(err error, msg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return domainerrors.NotFound(msg)
	case errors.Is(err, store.ErrAlreadyExists):
		return domainerrors.Wrap(err, domainerrors.CodeAlreadyExists, "already exists")
	default:
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "storage failure")
	}
}

// normalizeUserID validates a user id and returns its canonical form.
func normalizeUserID(userID string) (string, error) {
	canonical, err := id.NormalizeUserID(strings.TrimSpace(userID))
	if err != nil {
		return "", domainerrors.ValidationWithDetails("validation failed", map[string]string{
			"userId": "must be a valid UUID",
		})
	}
	return canonical, nil
}

// foldKey is the case-insensitive lookup form of a username or email.
func foldKey(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
