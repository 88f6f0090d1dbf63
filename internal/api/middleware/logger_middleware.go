package middleware

import (
	"net/http"
	"time"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/util"
	"github.com/rs/zerolog"
)

type StatusRecoder struct {
	http.ResponseWriter
	status int
}

func (w *StatusRecoder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *StatusRecoder) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// LoggerMiddleware 記錄 request 請求
func LoggerMiddleware(logger *zerolog.Logger) func(next http.Handler) http.Handler {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recoder := &StatusRecoder{ResponseWriter: w}
			next.ServeHTTP(recoder, r)

			identity := util.GetIdentityFromContext(r.Context())
			status := recoder.Status()

			evt := logger.Info()
			if status >= http.StatusInternalServerError {
				evt = logger.Error()
			}
			evt.Str("request_id", util.GetRequestIDFromContext(r.Context())).
				Int64("user_id", identity.UserID).
				Str("method", r.Method).
				Str("url", r.URL.String()).
				Int("status", status).
				Dur("duration", time.Since(start)).
				Msg("request completed")
		})
	}
}
