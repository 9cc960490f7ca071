package paging

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func pages(data map[string][]int, next map[string]string, calls *[]string) Fetch[int] {
	return func(_ context.Context, token string) ([]int, string, error) {
		*calls = append(*calls, token)
		return data[token], next[token], nil
	}
}

func TestCollectFollowsTokens(t *testing.T) {
	t.Parallel()

	var calls []string
	got, err := Collect(context.Background(), Options{}, pages(
		map[string][]int{"": {1, 2}, "b": {3}, "c": {4}},
		map[string]string{"": "b", "b": "c"},
		&calls,
	))
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if diff := cmp.Diff([]int{1, 2, 3, 4}, got); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"", "b", "c"}, calls); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectStopsAtLimit(t *testing.T) {
	t.Parallel()

	var calls []string
	got, err := Collect(context.Background(), Options{Limit: 3}, pages(
		map[string][]int{"": {1, 2}, "b": {3, 4}, "c": {5}},
		map[string]string{"": "b", "b": "c"},
		&calls,
	))
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, got); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
	if len(calls) != 2 {
		t.Fatalf("fetches = %d, want 2", len(calls))
	}
}

func TestCollectStopsAtMaxPages(t *testing.T) {
	t.Parallel()

	var calls []string
	got, err := Collect(context.Background(), Options{MaxPages: 1}, pages(
		map[string][]int{"": {1}, "b": {2}},
		map[string]string{"": "b"},
		&calls,
	))
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(got) != 1 || len(calls) != 1 {
		t.Fatalf("got %v after %d fetches, want one page", got, len(calls))
	}
}

func TestCollectStopsOnRepeatedToken(t *testing.T) {
	t.Parallel()

	var calls []string
	_, err := Collect(context.Background(), Options{}, pages(
		map[string][]int{"": {1}, "b": {2}},
		map[string]string{"": "b", "b": "b"},
		&calls,
	))
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("fetches = %d, want 2", len(calls))
	}
}

func TestCollectReturnsFetchError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	_, err := Collect(context.Background(), Options{}, func(context.Context, string) ([]int, string, error) {
		return nil, "", boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Collect() error = %v, want %v", err, boom)
	}
}

func TestCollectHonorsCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Collect(ctx, Options{}, func(context.Context, string) ([]int, string, error) {
		t.Fatal("fetch called after cancel")
		return nil, "", nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Collect() error = %v, want context.Canceled", err)
	}
}
