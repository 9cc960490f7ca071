// Package paging collects items from page-token paginated backend reads.
package paging

import (
	"context"
	"strings"
)

// Fetch reads the page at token and returns its items and the next token.
// A blank next token ends the listing.
type Fetch[T any] func(ctx context.Context, token string) (items []T, next string, err error)

// Options bound a collection.
type Options struct {
	// Limit caps the number of items returned. Zero means no cap.
	Limit int
	// MaxPages caps the number of fetches. Zero means no cap.
	MaxPages int
}

// Collect follows page tokens until the listing ends or a bound is reached.
// A token that repeats the previous one ends the listing.
func Collect[T any](ctx context.Context, opts Options, fetch Fetch[T]) ([]T, error) {
	var out []T
	token := ""
	for page := 0; opts.MaxPages <= 0 || page < opts.MaxPages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		items, next, err := fetch(ctx, token)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
		if opts.Limit > 0 && len(out) >= opts.Limit {
			return out[:opts.Limit], nil
		}
		next = strings.TrimSpace(next)
		if next == "" || next == token {
			break
		}
		token = next
	}
	return out, nil
}
