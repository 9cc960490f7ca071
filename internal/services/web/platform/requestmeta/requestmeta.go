// Package requestmeta answers scheme and origin questions about requests.
package requestmeta

import (
	"net/http"
	"net/url"
	"strings"
)

// SchemePolicy controls whether proxy headers decide the request scheme.
// X-Forwarded-Proto is ignored unless TrustForwardedProto is set.
type SchemePolicy struct {
	TrustForwardedProto bool
}

// Scheme returns "https" or "http" for the request.
func (p SchemePolicy) Scheme(r *http.Request) string {
	if r == nil {
		return ""
	}
	if p.TrustForwardedProto {
		switch forwarded := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto"))); forwarded {
		case "http", "https":
			return forwarded
		}
	}
	if r.URL != nil {
		switch scheme := strings.ToLower(r.URL.Scheme); scheme {
		case "http", "https":
			return scheme
		}
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

// IsHTTPS reports whether the request should be treated as HTTPS.
func (p SchemePolicy) IsHTTPS(r *http.Request) bool {
	return p.Scheme(r) == "https"
}

// SameOrigin reports whether the Origin header, or the Referer when Origin is
// absent, names the same scheme, host and port as the request itself.
func (p SchemePolicy) SameOrigin(r *http.Request) bool {
	if r == nil {
		return false
	}
	self := origin{scheme: p.Scheme(r)}
	self.host, self.port = splitHost(r.Host)
	if self.host == "" && r.URL != nil {
		self.host, self.port = splitHost(r.URL.Host)
	}
	if self.host == "" {
		return false
	}
	self = self.withDefaultPort()

	claimed := strings.TrimSpace(r.Header.Get("Origin"))
	if claimed == "" {
		claimed = strings.TrimSpace(r.Header.Get("Referer"))
	}
	if claimed == "" {
		return false
	}
	parsed, err := url.Parse(claimed)
	if err != nil || parsed.Scheme == "" {
		return false
	}
	other := origin{
		scheme: strings.ToLower(parsed.Scheme),
		host:   strings.ToLower(parsed.Hostname()),
		port:   parsed.Port(),
	}.withDefaultPort()
	return other.host != "" && other.port != "" && other == self
}

type origin struct {
	scheme string
	host   string
	port   string
}

func (o origin) withDefaultPort() origin {
	if o.port != "" {
		return o
	}
	switch o.scheme {
	case "https":
		o.port = "443"
	case "http":
		o.port = "80"
	}
	return o
}

func splitHost(raw string) (string, string) {
	parsed, err := url.Parse("//" + strings.TrimSpace(raw))
	if err != nil {
		return "", ""
	}
	return strings.ToLower(parsed.Hostname()), parsed.Port()
}

// RequireSameOrigin rejects requests whose Origin or Referer does not match
// the request itself with 403.
func (p SchemePolicy) RequireSameOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !p.SameOrigin(r) {
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
