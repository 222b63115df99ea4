package logger

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"social-system/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitLoggerWritesFile(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	filename := filepath.Join(t.TempDir(), "logs", "app.log")
	l, err := InitLogger(config.LogConfig{Level: "debug", Filename: filename, MaxSize: 1})
	require.NoError(t, err)
	require.NotNil(t, l)

	Info("启动", zap.String("k", "v"))
	_ = Sync()
	assert.FileExists(t, filename)
}

func TestRequestMiddlewares(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })

	r := gin.New()
	r.Use(RequestIDMiddleware(), RequestLogger(), ErrorLoggerMiddleware())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, "fixed-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "fixed-id", w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	assert.Equal(t, 1, logs.FilterMessage("HTTP请求发生panic").Len())
	assert.Equal(t, 2, logs.FilterMessage("HTTP请求成功").Len())
	assert.Equal(t, 1, logs.FilterMessage("HTTP请求错误").Len())
	assert.Equal(t, 1, logs.FilterField(zap.String("request_id", "fixed-id")).Len())
}
