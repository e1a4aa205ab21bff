package api

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"time"

	"shopfront/internal/session"
	"shopfront/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const sessionContextKey = "shopfront_session_data"

// sessionCookieMaxAge keeps the cookie alive as long as the Redis TTL
// refreshes it.
const sessionCookieMaxAge = int(14 * 24 * time.Hour / time.Second)

// currentSession returns the session the middleware attached to the
// request. Nil only for routes registered outside the middleware chain.
func currentSession(c *gin.Context) *session.Data {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil
	}
	return v.(*session.Data)
}

// sessionMiddleware loads the browser session from the cookie, creating a
// fresh anonymous one when absent or expired, and persists it after the
// handler when it was mutated.
func (h *Handler) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var sess *session.Data
		if id, err := c.Cookie(h.cookieName); err == nil && id != "" {
			loaded, err := h.sessions.Load(c.Request.Context(), id)
			if err != nil {
				h.logger.Error("Failed to load session", zap.Error(err))
			}
			sess = loaded
		}
		if sess == nil {
			sess = session.New()
			h.setSessionCookie(c, sess.ID)
		}

		c.Set(sessionContextKey, sess)
		c.Next()

		if sess.Dirty() {
			if err := h.sessions.Save(c.Request.Context(), sess); err != nil {
				h.logger.Error("Failed to save session", zap.Error(err))
			}
		}
	}
}

// setSessionCookie must run before any response body is written.
func (h *Handler) setSessionCookie(c *gin.Context, id string) {
	c.SetCookie(h.cookieName, id, sessionCookieMaxAge, "/", "", h.secureCookies, true)
}

// csrfMiddleware validates the anti-forgery token on every state-changing
// request against the per-session secret, before any handler touches the
// data model.
func (h *Handler) csrfMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		sess := currentSession(c)
		token := c.PostForm("csrf_token")
		if sess == nil || token == "" ||
			subtle.ConstantTimeCompare([]byte(token), []byte(sess.CSRFToken)) != 1 {
			util.CSRFRejectionsTotal.Inc()
			h.renderError(c, http.StatusForbidden, "Invalid or missing form token")
			c.Abort()
			return
		}
		c.Next()
	}
}

// requireLogin redirects anonymous sessions to the login page.
func (h *Handler) requireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		if sess == nil || !sess.IsAuthenticated() {
			if sess != nil {
				sess.AddFlash(session.FlashWarning, "Please log in first.")
			}
			c.Redirect(http.StatusSeeOther, "/login/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
