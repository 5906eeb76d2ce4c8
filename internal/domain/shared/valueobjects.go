// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"regexp"
	"strconv"
	"strings"
)

// ═══════════════════════════════════════════════════════════════════════════
// Email Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Email represents a user email address. It is the sole natural key for
// cross-collection joins, so comparisons are always exact (case-sensitive)
// after trimming surrounding whitespace.
type Email string

// Deliberately loose: the store accepted whatever the auth provider sent,
// so we only reject values that cannot possibly be addresses.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// IsValid checks if the email has a plausible address shape.
func (e Email) IsValid() bool {
	return emailRegex.MatchString(string(e))
}

// String returns the string representation.
func (e Email) String() string {
	return string(e)
}

// IsEmpty checks if the email is empty.
func (e Email) IsEmpty() bool {
	return e == ""
}

// NewEmail creates a new Email with validation. The value is trimmed but
// never lowercased: emails are matched case-sensitively across collections.
func NewEmail(value string) (Email, error) {
	e := Email(strings.TrimSpace(value))
	if !e.IsValid() {
		return "", ErrInvalidEmail
	}
	return e, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Canonical ID Value Object
// ═══════════════════════════════════════════════════════════════════════════

// CanonicalID is the string form used for every cross-collection id
// comparison. The store keeps native ObjectIDs in one collection and plain
// strings in another, so raw type equality is never trusted; both sides are
// reduced to this form before joining.
type CanonicalID string

var hexIDRegex = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// IsValid checks if the ID is a 24-character hex string (ObjectID form).
func (c CanonicalID) IsValid() bool {
	return hexIDRegex.MatchString(string(c))
}

// String returns the string representation.
func (c CanonicalID) String() string {
	return string(c)
}

// IsEmpty checks if the ID is empty.
func (c CanonicalID) IsEmpty() bool {
	return c == ""
}

// NewCanonicalID creates a CanonicalID with validation.
func NewCanonicalID(id string) (CanonicalID, error) {
	c := CanonicalID(strings.ToLower(strings.TrimSpace(id)))
	if !c.IsValid() {
		return "", NewDomainError("shared", "NewCanonicalID", ErrInvalidID, "invalid id format, expected 24-char hex")
	}
	return c, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Percentage Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Percentage represents a ratio scaled to 0..100. It is not clamped at 100:
// some derived figures (attempted percentage) legitimately exceed it when
// numerator and denominator come from different populations.
type Percentage float64

// Float64 returns the underlying float value.
func (p Percentage) Float64() float64 {
	return float64(p)
}

// Ratio computes part/total scaled to 100, returning 0 for an empty total.
func Ratio(part, total int) Percentage {
	if total == 0 {
		return 0
	}
	return Percentage(float64(part) / float64(total) * 100)
}

// ═══════════════════════════════════════════════════════════════════════════
// Pagination Value Object
// ═══════════════════════════════════════════════════════════════════════════

// PageSize is the fixed page size used by every listing operation.
const PageSize = 10

// Pagination represents pagination parameters for listing operations.
// The page size is fixed; only the page number varies.
type Pagination struct {
	Page int
}

// NewPagination creates a Pagination, defaulting to page 1 when the
// requested page is absent or non-positive.
func NewPagination(page int) Pagination {
	if page <= 0 {
		page = 1
	}
	return Pagination{Page: page}
}

// ParsePage parses a raw page parameter, defaulting to 1 when the value is
// absent or not a number. Mirrors the lenient parsing of the public API.
func ParsePage(raw string) Pagination {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return NewPagination(1)
	}
	return NewPagination(n)
}

// Skip returns the number of items to skip.
func (p Pagination) Skip() int {
	return (p.Page - 1) * PageSize
}

// Limit returns the page size.
func (p Pagination) Limit() int {
	return PageSize
}

// TotalPages returns ceil(totalItems / PageSize).
func (p Pagination) TotalPages(totalItems int) int {
	if totalItems <= 0 {
		return 0
	}
	return (totalItems + PageSize - 1) / PageSize
}

// Slice applies the pagination window to n items and returns the [from, to)
// bounds. A page past the end yields an empty window, not an error.
func (p Pagination) Slice(n int) (from, to int) {
	from = p.Skip()
	if from > n {
		return n, n
	}
	to = from + PageSize
	if to > n {
		to = n
	}
	return from, to
}
