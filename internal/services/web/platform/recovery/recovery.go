// Package recovery implements the application-wide error boundary. Responses
// are buffered until they complete, so a handler that panics or reports a
// fault is replaced by the recovery view instead of a half-rendered page.
package recovery

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/civicspace/agora/internal/platform/logging"
	"github.com/civicspace/agora/internal/platform/requestctx"
	"github.com/civicspace/agora/internal/services/web/platform/httpx"
	webi18n "github.com/civicspace/agora/internal/services/web/platform/i18n"
	"github.com/civicspace/agora/internal/services/web/routepath"
	"github.com/civicspace/agora/internal/services/web/templates"
	"github.com/starfederation/datastar-go/datastar"
	"go.uber.org/zap"
)

// Options configure the recovery view.
type Options struct {
	SiteName  string
	ReloadURL string
}

// Middleware installs the boundary around next.
func Middleware(opts Options) httpx.Middleware {
	if opts.ReloadURL == "" {
		opts.ReloadURL = routepath.Reload
	}
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bw := &boundaryWriter{w: w, header: cloneHeader(w.Header())}
			defer func() {
				if recovered := recover(); recovered != nil {
					if recovered == http.ErrAbortHandler {
						panic(recovered)
					}
					bw.fault(fmt.Errorf("panic: %v", recovered))
					logFault(r, bw.err, zap.Stack("stack"))
				} else if bw.faulted {
					logFault(r, bw.err)
				}
				if bw.faulted {
					renderRecovery(bw, r, opts)
					return
				}
				bw.commit()
			}()
			next.ServeHTTP(bw, r)
		})
	}
}

// Fault reports an unrecoverable rendering failure. Everything the handler
// wrote so far is discarded and later writes are ignored; the boundary
// renders the recovery view once the handler returns. Without a boundary the
// request gets a bare 500.
func Fault(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		err = errors.New("unspecified fault")
	}
	if bw := findBoundary(w); bw != nil {
		bw.fault(err)
		return
	}
	logFault(r, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Faulted reports whether the boundary around w has already faulted.
func Faulted(w http.ResponseWriter) bool {
	bw := findBoundary(w)
	return bw != nil && bw.faulted
}

func findBoundary(w http.ResponseWriter) *boundaryWriter {
	for w != nil {
		if bw, ok := w.(*boundaryWriter); ok {
			return bw
		}
		unwrapper, ok := w.(interface{ Unwrap() http.ResponseWriter })
		if !ok {
			return nil
		}
		w = unwrapper.Unwrap()
	}
	return nil
}

func logFault(r *http.Request, err error, fields ...zap.Field) {
	ctx := httpx.RequestContext(r)
	base := []zap.Field{
		zap.String("request_id", requestctx.RequestIDFromContext(ctx)),
		zap.Error(err),
	}
	if r != nil {
		base = append(base, zap.String("method", r.Method), zap.String("path", r.URL.Path))
	}
	logging.FromContext(ctx).Error("render fault", append(base, fields...)...)
}

func renderRecovery(bw *boundaryWriter, r *http.Request, opts Options) {
	w := bw.w
	loc := webi18n.ResolveLocalizer(w, r)
	data := templates.Recovery{
		Lang:      loc.Tag().String(),
		SiteName:  opts.SiteName,
		ReloadURL: opts.ReloadURL,
	}
	layout, err := templates.Layout()
	if err != nil {
		logFault(r, err)
		if !bw.committed {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}

	if httpx.IsDatastarRequest(r) {
		// The patch replaces the whole application root, also when the
		// stream already started.
		sse := datastar.NewSSE(w, r)
		if err := sse.PatchElementTempl(layout.Component(loc, templates.EntryRecoveryPatch, data)); err != nil {
			logFault(r, err)
		}
		return
	}
	if bw.committed {
		return
	}

	var buf bytes.Buffer
	if err := layout.Component(loc, templates.EntryRecovery, data).Render(httpx.RequestContext(r), &buf); err != nil {
		logFault(r, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write(buf.Bytes())
}

// boundaryWriter holds headers and body until the handler finishes or
// flushes. Once flushed, output streams straight through.
type boundaryWriter struct {
	w      http.ResponseWriter
	header http.Header
	status int
	buf    bytes.Buffer

	committed bool
	faulted   bool
	err       error
}

func (b *boundaryWriter) Header() http.Header {
	return b.header
}

func (b *boundaryWriter) WriteHeader(code int) {
	if b.faulted || b.status != 0 {
		return
	}
	b.status = code
}

func (b *boundaryWriter) Write(p []byte) (int, error) {
	if b.faulted {
		return len(p), nil
	}
	if b.status == 0 {
		b.status = http.StatusOK
	}
	if b.committed {
		return b.w.Write(p)
	}
	return b.buf.Write(p)
}

// Flush commits the buffered response so event streams reach the client.
func (b *boundaryWriter) Flush() {
	if b.faulted {
		return
	}
	b.commit()
	_ = http.NewResponseController(b.w).Flush()
}

func (b *boundaryWriter) Unwrap() http.ResponseWriter {
	return b.w
}

func (b *boundaryWriter) fault(err error) {
	if b.faulted {
		return
	}
	b.faulted, b.err = true, err
	b.buf.Reset()
}

func (b *boundaryWriter) commit() {
	if b.committed {
		return
	}
	b.committed = true
	dst := b.w.Header()
	for key, values := range b.header {
		dst[key] = values
	}
	status := b.status
	if status == 0 {
		status = http.StatusOK
	}
	b.w.WriteHeader(status)
	if b.buf.Len() > 0 {
		_, _ = b.w.Write(b.buf.Bytes())
		b.buf.Reset()
	}
}

func cloneHeader(h http.Header) http.Header {
	if h == nil {
		return http.Header{}
	}
	return h.Clone()
}
