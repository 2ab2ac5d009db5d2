package pagination

import (
	"encoding/base64"
	"errors"
	"iter"
	"strconv"
	"strings"
)

var ErrInvalidCursor = errors.New("invalid cursor")

const (
	DefaultLimit = 50
	MaxLimit     = 200

	cursorPrefix = "after:"
)

// EncodeCursor encodes the id of the last item on a page as
// base64(after:<id>).
func EncodeCursor(id string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(cursorPrefix + strings.TrimSpace(id)))
}

// DecodeCursor reverses EncodeCursor.
func DecodeCursor(cursor string) (string, error) {
	cursor = strings.TrimSpace(cursor)
	if cursor == "" {
		return "", ErrInvalidCursor
	}
	decoded, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return "", ErrInvalidCursor
	}
	id, ok := strings.CutPrefix(string(decoded), cursorPrefix)
	if !ok || strings.TrimSpace(id) == "" {
		return "", ErrInvalidCursor
	}
	return id, nil
}

// ParseLimit reads a page size, applying DefaultLimit to an empty value
// and clamping to MaxLimit.
func ParseLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errors.New("limit must be a positive integer")
	}
	return min(n, MaxLimit), nil
}

// Page collects up to limit items from seq that follow the item keyed
// afterID. Iteration stops as soon as the page is known to be complete,
// so later items are never evaluated. next is empty on the last page.
// ErrInvalidCursor is returned when afterID is not in seq.
func Page[T any](seq iter.Seq[T], key func(T) string, afterID string, limit int) (items []T, next string, err error) {
	skipping := afterID != ""
	items = make([]T, 0, min(limit, DefaultLimit))
	more := false
	for item := range seq {
		if skipping {
			if key(item) == afterID {
				skipping = false
			}
			continue
		}
		if len(items) == limit {
			more = true
			break
		}
		items = append(items, item)
	}
	if skipping {
		return nil, "", ErrInvalidCursor
	}
	if more && len(items) > 0 {
		next = EncodeCursor(key(items[len(items)-1]))
	}
	return items, next, nil
}
