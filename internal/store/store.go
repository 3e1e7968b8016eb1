package store

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrKeyTaken is returned when a domain/key pair is already in use.
	ErrKeyTaken = errors.New("key is already taken")

	// ErrProjectSlugTaken is returned when a project slug already exists.
	ErrProjectSlugTaken = errors.New("project slug is already taken")

	// ErrAlreadyMember is returned when adding a user to a project twice.
	ErrAlreadyMember = errors.New("user is already a member of this project")

	// ErrDomainTaken is returned when a domain is already registered.
	ErrDomainTaken = errors.New("domain is already registered")

	// ErrTagTaken is returned when a project already has a tag with the same name.
	ErrTagTaken = errors.New("tag name is already taken")

	// ErrEmailTaken is returned when a user with the same email exists.
	ErrEmailTaken = errors.New("email is already registered")

	// ErrEmailInvalid is returned when an email is empty or lacks an "@".
	ErrEmailInvalid = errors.New("email is invalid")
)

// isUniqueConstraintError checks whether err indicates a unique constraint violation.
// Works across SQLite, PostgreSQL, and MySQL.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || // SQLite & PostgreSQL
		strings.Contains(msg, "duplicate key") || // PostgreSQL
		strings.Contains(msg, "duplicate entry") // MySQL
}

// now returns the current UTC time truncated to the microsecond precision all
// three databases can store, so values returned to callers match what a later
// read yields.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
