package requestctx

import (
	"context"
	"testing"
)

func TestUserIDFromContextRoundTrip(t *testing.T) {
	ctx := WithUserID(context.Background(), "user-42")
	got := UserIDFromContext(ctx)
	if got != "user-42" {
		t.Fatalf("UserIDFromContext = %q, want %q", got, "user-42")
	}
}

func TestUserIDFromContextEmpty(t *testing.T) {
	got := UserIDFromContext(context.Background())
	if got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestUserIDFromContextNil(t *testing.T) {
	//nolint:staticcheck // nil context is part of the contract.
	got := UserIDFromContext(nil)
	if got != "" {
		t.Fatalf("expected empty string for nil context, got %q", got)
	}
}

func TestPrincipalFromContextRejectsBlankUser(t *testing.T) {
	ctx := WithPrincipal(context.Background(), Principal{UserID: "  ", DisplayName: "Ana"})
	if _, ok := PrincipalFromContext(ctx); ok {
		t.Fatal("expected blank user id to read as signed out")
	}
}

func TestPrincipalFromContextRoundTrip(t *testing.T) {
	ctx := WithPrincipal(context.Background(), Principal{UserID: "user-7", DisplayName: "Ana"})
	got, ok := PrincipalFromContext(ctx)
	if !ok {
		t.Fatal("expected principal")
	}
	if got.DisplayName != "Ana" {
		t.Fatalf("DisplayName = %q, want %q", got.DisplayName, "Ana")
	}
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), " req-1 ")
	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Fatalf("RequestIDFromContext = %q, want %q", got, "req-1")
	}
}
