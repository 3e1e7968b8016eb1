package links

import (
	"errors"
	"fmt"

	"github.com/joestump/shortlinks/internal/store"
)

// MaxBulkLinks is the most links one bulk request may create.
const MaxBulkLinks = 100

var (
	// ErrTooManyLinks is returned when a bulk request exceeds MaxBulkLinks.
	ErrTooManyLinks = fmt.Errorf("at most %d links can be created at a time", MaxBulkLinks)

	// ErrDomainNotAllowed is returned when a link targets a domain the
	// project has not registered.
	ErrDomainNotAllowed = errors.New("domain does not belong to this project")

	// ErrKeyExhausted is returned when no free random key was found.
	ErrKeyExhausted = errors.New("could not generate a unique key")
)

// ValidationError reports the first invalid item of a request.
type ValidationError struct {
	Index   int
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid link at index %d: %s", e.Index, e.Message)
}

// ConflictError reports a domain/key pair that is already used, either by a
// stored link or by an earlier item of the same request.
type ConflictError struct {
	Index  int
	Domain string
	Key    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("duplicate key at index %d: %s/%s already exists", e.Index, e.Domain, e.Key)
}

func (e *ConflictError) Unwrap() error { return store.ErrKeyTaken }
