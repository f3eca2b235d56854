package utils

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroLogger(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	e := echo.New()
	e.Use(ZeroLogger(&logger))
	e.GET("/missing", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set(echo.HeaderXRequestID, "abc")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "abc", line["id"])
	assert.Equal(t, "/missing", line["uri"])
	assert.EqualValues(t, http.StatusNotFound, line["status"])
}

func TestLevelForStatus(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, levelForStatus(200))
	assert.Equal(t, zerolog.InfoLevel, levelForStatus(302))
	assert.Equal(t, zerolog.WarnLevel, levelForStatus(404))
	assert.Equal(t, zerolog.ErrorLevel, levelForStatus(502))
}
