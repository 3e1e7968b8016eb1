package store

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrProjectSlugInvalid is returned when a project slug does not match the required pattern.
	ErrProjectSlugInvalid = errors.New("project slug must match [a-z0-9][a-z0-9-]*[a-z0-9] and be at most 48 characters")

	// ErrDomainInvalid is returned when a domain is not a bare lowercase host name.
	ErrDomainInvalid = errors.New("domain must be a host name such as go.example.com")

	slugRe   = regexp.MustCompile(`^[a-z0-9]([a-z0-9\-]*[a-z0-9])?$`)
	domainRe = regexp.MustCompile(`^([a-z0-9]([a-z0-9\-]*[a-z0-9])?\.)+[a-z]{2,}$`)
)

// ValidateProjectSlug checks that slug conforms to the project slug format.
// It does NOT check uniqueness; the unique index on
// projects.slug enforces that.
func ValidateProjectSlug(slug string) error {
	if len(slug) > 48 || !slugRe.MatchString(slug) {
		return ErrProjectSlugInvalid
	}
	return nil
}

// NormalizeDomain lowercases d and validates it as a host name.
func NormalizeDomain(d string) (string, error) {
	d = strings.ToLower(strings.TrimSpace(d))
	if len(d) > 190 || !domainRe.MatchString(d) {
		return "", ErrDomainInvalid
	}
	return d, nil
}
