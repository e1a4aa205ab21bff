package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"shopfront/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCookieName = "test_session"

func newTestRouter(t *testing.T) (*gin.Engine, *session.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions := session.NewMemoryStore()
	h := NewHandler(nil, nil, nil, nil, nil, sessions, testCookieName, false)

	router := gin.New()
	router.SetFuncMap(TemplateFuncs())
	router.LoadHTMLGlob("../../web/templates/*.html")
	router.Use(h.sessionMiddleware())
	router.Use(h.csrfMiddleware())

	router.GET("/page/", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	router.POST("/submit/", func(c *gin.Context) { c.String(http.StatusOK, "submitted") })

	private := router.Group("/", h.requireLogin())
	private.GET("/private/", func(c *gin.Context) { c.String(http.StatusOK, "secret") })

	return router, sessions
}

func seedSession(t *testing.T, sessions *session.MemoryStore, userID int64) *session.Data {
	t.Helper()
	sess := session.New()
	if userID != 0 {
		sess.UserID = userID
	}
	require.NoError(t, sessions.Save(context.Background(), sess))
	return sess
}

func postForm(router *gin.Engine, sess *session.Data, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if sess != nil {
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: sess.ID})
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCSRFMissingToken(t *testing.T) {
	router, sessions := newTestRouter(t)
	sess := seedSession(t, sessions, 0)

	w := postForm(router, sess, "/submit/", url.Values{})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NotContains(t, w.Body.String(), "submitted")
}

func TestCSRFWrongToken(t *testing.T) {
	router, sessions := newTestRouter(t)
	sess := seedSession(t, sessions, 0)

	w := postForm(router, sess, "/submit/", url.Values{"csrf_token": {"bogus"}})

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCSRFValidToken(t *testing.T) {
	router, sessions := newTestRouter(t)
	sess := seedSession(t, sessions, 0)

	w := postForm(router, sess, "/submit/", url.Values{"csrf_token": {sess.CSRFToken}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "submitted", w.Body.String())
}

func TestCSRFAnotherSessionsToken(t *testing.T) {
	router, sessions := newTestRouter(t)
	sess := seedSession(t, sessions, 0)
	other := seedSession(t, sessions, 0)

	w := postForm(router, sess, "/submit/", url.Values{"csrf_token": {other.CSRFToken}})

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCSRFSkipsGet(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/page/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSessionMiddlewareIssuesCookie(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/page/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var issued *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == testCookieName {
			issued = cookie
		}
	}
	require.NotNil(t, issued)
	assert.NotEmpty(t, issued.Value)
	assert.True(t, issued.HttpOnly)
}

func TestSessionMiddlewareReusesExistingSession(t *testing.T) {
	router, sessions := newTestRouter(t)
	sess := seedSession(t, sessions, 0)

	req := httptest.NewRequest(http.MethodGet, "/page/", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: sess.ID})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	for _, cookie := range w.Result().Cookies() {
		assert.NotEqual(t, testCookieName, cookie.Name, "existing session should not be reissued")
	}
}

func TestRequireLoginRedirectsAnonymous(t *testing.T) {
	router, sessions := newTestRouter(t)
	sess := seedSession(t, sessions, 0)

	req := httptest.NewRequest(http.MethodGet, "/private/", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: sess.ID})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login/", w.Header().Get("Location"))
}

func TestRequireLoginAllowsAuthenticated(t *testing.T) {
	router, sessions := newTestRouter(t)
	sess := seedSession(t, sessions, 42)

	req := httptest.NewRequest(http.MethodGet, "/private/", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: sess.ID})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "secret", w.Body.String())
}
