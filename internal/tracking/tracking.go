// Package tracking issues the citizen-facing complaint identifiers.
// They are 128-bit random UUIDs, unrelated to the internal row IDs, so
// complaints cannot be enumerated by walking an integer sequence.
package tracking

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// MaxAttempts bounds the regenerate-and-retry loop on a tracking-id
// collision. With a 128-bit space one retry is already paranoia.
const MaxAttempts = 3

// NewID returns a fresh random tracking identifier.
func NewID() string {
	return uuid.New().String()
}

// Parse validates an incoming tracking identifier.
func Parse(s string) (string, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// IsUniqueViolation reports whether err is a unique-constraint error
// on the tracking id, the signal to regenerate and retry.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, "tracking")
	}
	// Fallback for stores that only surface the message text.
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique") &&
		strings.Contains(strings.ToLower(err.Error()), "tracking")
}
