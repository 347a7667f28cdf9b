package middleware

import (
	"context"
	"crypto/subtle"
	"net"
	"net/http"
	"strings"

	"github.com/akolanti/DocQuery/internal/adapter/utils"
	"github.com/akolanti/DocQuery/internal/config"
	"github.com/akolanti/DocQuery/internal/handlers"
	"github.com/akolanti/DocQuery/pkg/logger_i"
)

func injectTrace(re requestResponseStruct) requestResponseStruct {
	req := re.req
	trace := req.Header.Get("X-Trace-Id")
	if trace == "" {
		trace = utils.GetNewUUID()
	}
	re.logger = re.logger.With("traceId", trace)
	ctx := context.WithValue(req.Context(), config.TRACE_ID_KEY, trace)
	re.writer.Header().Set("X-Trace-Id", trace)
	re.req = req.WithContext(ctx)
	return re
}

func (c *Chain) authenticate(re requestResponseStruct) requestResponseStruct {
	if !c.IsValidBearerToken(re.req.Header.Get("Authorization"), re.logger) {
		re.badRequest = failureStruct{
			isBadRequest: true,
			httpCode:     http.StatusUnauthorized,
			errorMessage: "Unauthorized",
		}
		return re
	}
	re.logger.Debug("Authorized")
	return re
}

func (c *Chain) IsValidBearerToken(authHeader string, log *logger_i.Logger) bool {
	if c.noAuthBypass {
		log.Debug("auth bypass enabled")
		return true
	}
	if c.authToken == "" {
		log.Error("No auth token configured, refusing request")
		return false
	}
	if authHeader == "" {
		log.Warn("Empty authorization header")
		return false
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		log.Warn("No Bearer header")
		return false
	}
	if subtle.ConstantTimeCompare([]byte(strings.TrimPrefix(authHeader, "Bearer ")), []byte(c.authToken)) != 1 {
		log.Warn("Invalid authorization header")
		return false
	}
	return true
}

func (c *Chain) rateLimiter(re requestResponseStruct) requestResponseStruct {
	ip, _, err := net.SplitHostPort(re.req.RemoteAddr)
	if err != nil {
		ip = re.req.RemoteAddr
	}

	if !c.limiter.GetLimiter(ip).Allow() {
		re.logger.Warn("Too many requests", "ip", ip)
		re.badRequest = failureStruct{
			isBadRequest: true,
			httpCode:     http.StatusTooManyRequests,
			errorMessage: "Rate limit exceeded. Slow down",
		}
	}
	return re
}

// handleBadRequest writes the refusal, if any, and reports whether the request may proceed.
func handleBadRequest(re requestResponseStruct) bool {
	if re.badRequest.isBadRequest {
		re.logger.Warn("Bad request", "httpCode", re.badRequest.httpCode, "errorMessage", re.badRequest.errorMessage, "IP", re.req.RemoteAddr)
		handlers.WriteErrorResponse(re.writer, re.badRequest.httpCode, "", re.badRequest.errorMessage)
		return false
	}
	return true
}
