package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestLocalOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Recovery(zap.NewNop()), RequestLogger(zap.NewNop()), LocalOnly())
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	cases := map[string]int{
		"127.0.0.1:5123": http.StatusOK,
		"[::1]:5123":     http.StatusOK,
		"192.0.2.1:1234": http.StatusForbidden,
		"garbage":        http.StatusForbidden,
	}
	for addr, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, addr)
	}

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.RemoteAddr = "127.0.0.1:5123"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
