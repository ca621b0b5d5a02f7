package slug

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

const fallback = "item"

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases s and collapses every run of characters outside [a-z0-9] into a single dash.
func Slugify(s string) string {
	out := strings.ToLower(strings.TrimSpace(s))
	out = nonAlnum.ReplaceAllString(out, "-")
	out = strings.Trim(out, "-")
	if out == "" {
		return fallback
	}
	return out
}

// ExistsFunc reports whether a candidate slug is already taken.
type ExistsFunc func(ctx context.Context, candidate string) (bool, error)

// EnsureUnique returns base, or the first of base-2, base-3, ... that exists reports as free.
func EnsureUnique(ctx context.Context, base string, exists ExistsFunc) (string, error) {
	candidate := base
	for i := 2; ; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
