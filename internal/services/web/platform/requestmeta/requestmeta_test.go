package requestmeta

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSameOrigin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		policy  SchemePolicy
		host    string
		headers map[string]string
		want    bool
	}{
		{name: "matching origin", host: "agora.test", headers: map[string]string{"Origin": "http://agora.test"}, want: true},
		{name: "matching origin explicit port", host: "agora.test:80", headers: map[string]string{"Origin": "http://agora.test"}, want: true},
		{name: "foreign origin", host: "agora.test", headers: map[string]string{"Origin": "http://evil.test"}},
		{name: "scheme mismatch", host: "agora.test", headers: map[string]string{"Origin": "https://agora.test"}},
		{name: "referer fallback", host: "localhost:8080", headers: map[string]string{"Referer": "http://localhost:8080/projects/p1"}, want: true},
		{name: "port mismatch", host: "localhost:8080", headers: map[string]string{"Referer": "http://localhost:9090/"}},
		{name: "no proof", host: "agora.test"},
		{
			name:    "forwarded proto trusted",
			policy:  SchemePolicy{TrustForwardedProto: true},
			host:    "agora.test",
			headers: map[string]string{"Origin": "https://agora.test", "X-Forwarded-Proto": "https"},
			want:    true,
		},
		{
			name:    "forwarded proto ignored by default",
			host:    "agora.test",
			headers: map[string]string{"Origin": "https://agora.test", "X-Forwarded-Proto": "https"},
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodPost, "/projects/p1/vote", nil)
			req.Host = tc.host
			for key, value := range tc.headers {
				req.Header.Set(key, value)
			}
			if got := tc.policy.SameOrigin(req); got != tc.want {
				t.Fatalf("SameOrigin() = %v, want %v", got, tc.want)
			}
		})
	}
	if (SchemePolicy{}).SameOrigin(nil) {
		t.Fatal("nil request reported same-origin")
	}
}

func TestIsHTTPS(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if (SchemePolicy{}).IsHTTPS(req) {
		t.Fatal("plain request reported https")
	}
	req.TLS = &tls.ConnectionState{}
	if !(SchemePolicy{}).IsHTTPS(req) {
		t.Fatal("tls request not reported https")
	}
}

func TestRequireSameOrigin(t *testing.T) {
	t.Parallel()

	handler := (SchemePolicy{}).RequireSameOrigin(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	for origin, want := range map[string]int{
		"http://agora.test": http.StatusNoContent,
		"http://evil.test":  http.StatusForbidden,
		"":                  http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodPost, "/reload", nil)
		req.Host = "agora.test"
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != want {
			t.Fatalf("origin %q: status = %d, want %d", origin, rr.Code, want)
		}
	}
}
