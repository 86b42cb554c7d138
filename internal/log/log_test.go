package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	dec := json.NewDecoder(buf)
	for dec.More() {
		var m map[string]interface{}
		require.NoError(t, dec.Decode(&m))
		out = append(out, m)
	}
	return out
}

func TestJSONFormatter(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(buf, logrus.DebugLevel)

	l.WithField("error", errors.New("boom")).Warn("careful")
	l.Debug("plain")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)

	assert.Equal(t, "warning", lines[0]["level"])
	assert.Equal(t, "careful", lines[0]["message"])
	assert.NotEmpty(t, lines[0]["time"])
	assert.Equal(t, map[string]interface{}{"error": "boom"}, lines[0]["fields"])

	assert.Equal(t, "plain", lines[1]["message"])
	assert.NotContains(t, lines[1], "fields")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, logrus.WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, logrus.InfoLevel, ParseLevel(""))
	assert.Equal(t, logrus.InfoLevel, ParseLevel("chatty"))
}

func TestRequestLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(buf, logrus.InfoLevel)

	e := echo.New()
	e.Use(RequestLogger(l))
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, "hi") })
	e.GET("/fail", func(c echo.Context) error { return errors.New("kaput") })

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)

	ok := lines[0]["fields"].(map[string]interface{})
	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "GET", ok["method"])
	assert.Equal(t, "/", ok["uri"])
	assert.EqualValues(t, http.StatusOK, ok["status"])

	failed := lines[1]["fields"].(map[string]interface{})
	assert.Equal(t, "error", lines[1]["level"])
	assert.EqualValues(t, http.StatusInternalServerError, failed["status"])
	assert.Equal(t, "kaput", failed["error"])
}
