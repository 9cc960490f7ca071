// Package flash provides one-time web notices persisted across redirects.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	apperrors "github.com/civicspace/agora/internal/services/web/platform/errors"
	"github.com/civicspace/agora/internal/services/web/platform/requestmeta"
)

// CookieName is the cookie carrying the pending notice.
const CookieName = "agora_flash"

// Kind classifies flash notice presentation.
type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindError   Kind = "error"
)

// Notice stores one flash message reference.
type Notice struct {
	Kind Kind   `json:"kind"`
	Key  string `json:"key"`
}

// NoticeSuccess creates a success notice for the provided localization key.
func NoticeSuccess(key string) Notice {
	return Notice{Kind: KindSuccess, Key: key}
}

// NoticeInfo creates an informational notice.
func NoticeInfo(key string) Notice {
	return Notice{Kind: KindInfo, Key: key}
}

// NoticeError creates an error notice.
func NoticeError(key string) Notice {
	return Notice{Kind: KindError, Key: key}
}

// NoticeFromError builds an error notice from a typed error, falling back to
// the generic failure key.
func NoticeFromError(err error) Notice {
	key := apperrors.LocalizationKey(err)
	if key == "" {
		key = "error.generic"
	}
	return NoticeError(key)
}

// Writer stores and clears notices under a scheme policy.
type Writer struct {
	Policy requestmeta.SchemePolicy
}

// Write stores a flash notice cookie for the next page render.
func (fw Writer) Write(w http.ResponseWriter, r *http.Request, notice Notice) {
	if w == nil {
		return
	}
	normalized, ok := normalizeNotice(notice)
	if !ok {
		return
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return
	}
	http.SetCookie(w, fw.cookie(r, base64.RawURLEncoding.EncodeToString(payload), 0))
}

// Clear expires any flash notice cookie.
func (fw Writer) Clear(w http.ResponseWriter, r *http.Request) {
	if w == nil {
		return
	}
	http.SetCookie(w, fw.cookie(r, "", -1))
}

func (fw Writer) cookie(r *http.Request, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   fw.Policy.IsHTTPS(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
}

// Write stores a notice with the default scheme policy.
func Write(w http.ResponseWriter, r *http.Request, notice Notice) {
	Writer{}.Write(w, r, notice)
}

// ReadAndClear reads and clears the flash notice cookie.
func ReadAndClear(w http.ResponseWriter, r *http.Request) (Notice, bool) {
	if r == nil {
		return Notice{}, false
	}
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie == nil {
		return Notice{}, false
	}
	Writer{}.Clear(w, r)
	return decodeNotice(cookie.Value)
}

func decodeNotice(raw string) (Notice, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return Notice{}, false
	}
	decoded, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return Notice{}, false
	}
	var notice Notice
	if err := json.Unmarshal(decoded, &notice); err != nil {
		return Notice{}, false
	}
	return normalizeNotice(notice)
}

func normalizeNotice(notice Notice) (Notice, bool) {
	notice.Key = strings.TrimSpace(notice.Key)
	if notice.Key == "" {
		return Notice{}, false
	}
	notice.Kind = Kind(strings.ToLower(strings.TrimSpace(string(notice.Kind))))
	switch notice.Kind {
	case KindSuccess, KindInfo, KindError:
		return notice, true
	default:
		return Notice{}, false
	}
}
