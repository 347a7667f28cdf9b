package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/DocQuery/internal/config"
	"github.com/akolanti/DocQuery/internal/metrics"
	"github.com/akolanti/DocQuery/pkg/logger_i"
	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

// Chain runs every request through trace, auth and rate limiting before the
// handler, and records the outcome in the request counter.
type Chain struct {
	authToken    string
	noAuthBypass bool
	rateLimit    bool
	limiter      *IPRateLimiter
}

func NewChain(rt config.Runtime) *Chain {
	return &Chain{
		authToken:    rt.AuthToken,
		noAuthBypass: rt.NoAuthBypass,
		rateLimit:    rt.RateLimit,
		limiter:      NewIPRateLimiter(rate.Limit(config.RATE_LIMIT_PER_SECOND), config.BURST_RATE_LIMIT_PER_SECOND, config.RATE_LIMIT_IDLE_EXPIRY),
	}
}

// Handler adapts Wrap for chi's router.Use.
func (c *Chain) Handler(next http.Handler) http.Handler {
	return c.Wrap(next.ServeHTTP)
}

func (c *Chain) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: http.StatusOK}
		re := c.processRequest(requestResponseStruct{req: r, writer: rec})

		if !handleBadRequest(re) {
			metrics.HttpRequestsTotal.WithLabelValues(routeLabel(re.req), strconv.Itoa(rec.Status)).Inc()
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(routeLabel(re.req), strconv.Itoa(rec.Status)).Inc()
	}
}

func (c *Chain) processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re = injectTrace(re)
	re.logger.Debug("New request received", "method", re.req.Method, "path", re.req.URL.Path)

	re = c.authenticate(re)
	if re.badRequest.isBadRequest {
		return re
	}
	if c.rateLimit {
		re = c.rateLimiter(re)
	}
	return re
}

// routeLabel prefers the chi pattern so ids do not blow up label cardinality.
func routeLabel(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
