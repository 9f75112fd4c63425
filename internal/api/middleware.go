// internal/api/middleware.go
package api

import (
	"context"
	"strconv"
	"time"

	"job-board/internal/common/errors"
	"job-board/internal/common/metrics"
	"job-board/internal/common/observability"
	"job-board/internal/common/session"
	"job-board/internal/models"
	requirerole "job-board/internal/workers/auth/require-role"
	resolvesession "job-board/internal/workers/auth/resolve-session"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

func route(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return "unmatched"
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info("request completed", map[string]interface{}{
			"method":     c.Request.Method,
			"route":      route(c),
			"status":     c.Writer.Status(),
			"durationMs": time.Since(start).Milliseconds(),
		})
	}
}

func (s *Server) metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		r := route(c)
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, r, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, r).Observe(time.Since(start).Seconds())
	}
}

// tracing opens one server span per request.
func (s *Server) tracing() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := observability.StartSpan(c.Request.Context(), c.Request.Method+" "+route(c),
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route(c)),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= 500 {
			span.SetStatus(codes.Error, strconv.Itoa(status))
		}
	}
}

func requestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// resolveSession attaches the caller's session to the request context.
// Requests without a usable token continue anonymously.
func (s *Server) resolveSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" || s.ops.ResolveSession == nil {
			c.Next()
			return
		}

		out, err := s.ops.ResolveSession(c.Request.Context(), &resolvesession.Input{Token: token})
		if err != nil {
			s.abort(c, err, "")
			return
		}
		if out.Authenticated && out.Session != nil {
			c.Request = c.Request.WithContext(session.WithSession(c.Request.Context(), out.Session))
		}
		c.Next()
	}
}

// requireRole guards a route group. An empty role only needs a signed-in user.
func (s *Server) requireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, _ := session.FromContext(c.Request.Context())
		decision := requirerole.Check(sess, role, s.now())
		if decision.Allowed {
			c.Next()
			return
		}

		var err error = errors.NewForbiddenError(decision.Reason)
		if decision.RedirectTo == requirerole.SignInPath {
			err = errors.NewUnauthenticatedError(decision.Reason)
		}
		s.abort(c, err, decision.RedirectTo)
	}
}

// currentUser returns the session set by resolveSession; nil for anonymous callers.
func currentUser(c *gin.Context) *models.Session {
	sess, _ := session.FromContext(c.Request.Context())
	return sess
}
