package db

import (
	"strings"

	pkgerrors "github.com/musical-basics/crowdfunding-page-test/pkg/errors"
)

// IsUniqueViolation reports whether the provided error is a unique-constraint
// violation. Postgres errors are detected by SQLSTATE; the message fallbacks
// cover sqlite and drivers that flatten the error to text.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if pkgerrors.IsUniqueViolation(err) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
