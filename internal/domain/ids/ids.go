package ids

import (
	"crypto/rand"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	ulidRegex = regexp.MustCompile(`(?i)^[0-9A-HJKMNP-TV-Z]{26}$`)

	ErrInvalidULID = errors.New("invalid ULID")
)

// Prefixes for the sequential identifiers minted by the stores.
const (
	EventPrefix    = "event"
	FeedbackPrefix = "feedback"
)

// NewULID generates a new ULID string.
func NewULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// IsULID returns true when value is a valid ULID (case-insensitive Crockford Base32).
func IsULID(value string) bool {
	return ulidRegex.MatchString(strings.TrimSpace(value))
}

func ValidateULID(value string) error {
	if !IsULID(value) {
		return ErrInvalidULID
	}
	return nil
}

// Sequential formats the n-th identifier for prefix, e.g. Sequential("event", 4) = "event4".
func Sequential(prefix string, n int) string {
	return prefix + strconv.Itoa(n)
}

// ParseSequential extracts n from an identifier produced by Sequential.
func ParseSequential(prefix, id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, prefix)
	if !ok || rest == "" {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n <= 0 || strconv.Itoa(n) != rest {
		return 0, false
	}
	return n, true
}
