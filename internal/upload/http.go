package upload

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"tech-radar/internal/httputil"
	"tech-radar/internal/store"
)

// envelopeSlack covers the JSON wrapper around a base64 payload.
const envelopeSlack = 64 << 10

// HTTPHandler adapts the Service to net/http. A request whose Content-Type is
// application/json carries the JSON envelope; any other body is raw base64
// with the file's own content type in the header.
func HTTPHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := Request{
			Method: r.Method,
			Header: r.Header,
			Query:  r.URL.Query(),
		}
		if r.Body != nil {
			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, svc.maxEncodedSize()))
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					write(w, svc.TooLarge())
					return
				}
				write(w, *badRequest("Could not read request body"))
				return
			}
			req.Body = string(body)
		}
		mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		req.IsBase64Encoded = mt != "application/json"

		write(w, svc.Handle(r.Context(), req))
	}
}

// StatusHandler reports the ledger entry for ?key=uploads/...
func StatusHandler(ledger store.Ledger, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Query().Get("key")
		if key == "" {
			httputil.Fail(log, w, "key query parameter is required", nil, http.StatusBadRequest)
			return
		}
		outcome, err := ledger.GetOutcome(r.Context(), key)
		if errors.Is(err, store.ErrOutcomeNotFound) {
			httputil.Fail(log, w, "no processing outcome recorded", err, http.StatusNotFound)
			return
		}
		if err != nil {
			httputil.Fail(log, w, "failed to read processing outcome", err, http.StatusInternalServerError)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, outcome)
	}
}

// maxEncodedSize bounds the request body: base64 inflates by 4/3.
func (s *Service) maxEncodedSize() int64 {
	if s.cfg.MaxSize <= 0 {
		return 1 << 62
	}
	return s.cfg.MaxSize*4/3 + envelopeSlack
}

func write(w http.ResponseWriter, resp Response) {
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.StatusCode)
	if len(resp.Body) > 0 {
		_, _ = w.Write(resp.Body)
	}
}
