package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type ctxKey struct{}

var claimsKey ctxKey

// ClaimsFromContext возвращает данные администратора, положенные RequireAdmin.
func ClaimsFromContext(ctx context.Context) (*usecase.AccessClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*usecase.AccessClaims)
	return claims, ok
}

// statusWriter запоминает код ответа и ошибку, переданную в WriteError.
type statusWriter struct {
	http.ResponseWriter
	status int
	err    error
}

// errorRecorder реализуют обертки ResponseWriter, которым нужна ошибка ответа.
type errorRecorder interface {
	recordError(err error)
}

func (s *statusWriter) recordError(err error) {
	s.err = err
}

func (s *statusWriter) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusWriter) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// RequireAdmin пропускает запрос только с действующим access-токеном администратора.
func RequireAdmin(authUsecase usecase.AuthUC, logger logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := authUsecase.Authenticate(r.Context(), bearerToken(r))
			if err != nil {
				code, _ := ToHTTPResponse(err)
				if code == http.StatusUnauthorized {
					logger.Debugf("admin request rejected: %v", err)
					WriteSuccess(w, http.StatusUnauthorized, NewErrorResponse(e.ErrUnauthorized.Error()))
					return
				}
				WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
		})
	}
}

// RequestLogger пишет метод, маршрут, статус и длительность каждого запроса и обновляет метрики.
func RequestLogger(logger logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			duration := time.Since(start)
			path := routePattern(r)
			status := strconv.Itoa(sw.status)

			httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(duration.Seconds())

			switch {
			case sw.status >= http.StatusInternalServerError:
				if sw.err != nil {
					logger.Errorf(sw.err, "%s %s -> %d (%s)", r.Method, path, sw.status, duration)
				} else {
					logger.Warnf("%s %s -> %d (%s), no error recorded", r.Method, path, sw.status, duration)
				}
			case sw.status >= http.StatusBadRequest:
				logger.Warnf("%s %s -> %d (%s)", r.Method, path, sw.status, duration)
			default:
				logger.Debugf("%s %s -> %d (%s)", r.Method, path, sw.status, duration)
			}
		})
	}
}

// countAdminOperations считает изменения каталога из админки.
func countAdminOperations(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		if r.Method == http.MethodGet {
			return
		}
		adminOperations.WithLabelValues(r.Method, routePattern(r), strconv.Itoa(sw.status)).Inc()
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}

	return r.URL.Path
}
