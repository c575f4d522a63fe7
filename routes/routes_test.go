package routes

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return SetupRouter(Handlers{}, []byte("secret"), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHealthz(t *testing.T) {
	w := httptest.NewRecorder()
	testRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := testRouter()
	for _, rt := range []struct{ method, path string }{
		{http.MethodGet, "/user/profile"},
		{http.MethodGet, "/foods"},
		{http.MethodPost, "/meals"},
		{http.MethodDelete, "/meals/abc"},
		{http.MethodGet, "/daily-logs"},
		{http.MethodGet, "/analytics"},
		{http.MethodGet, "/ws/alerts"},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(rt.method, rt.path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, rt.method+" "+rt.path)
	}
}

func TestHTTPHandler_CORSAndRequestID(t *testing.T) {
	h := NewHTTPHandler(testRouter(), []string{"https://app.example.com"})

	req := httptest.NewRequest(http.MethodOptions, "/meals", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
