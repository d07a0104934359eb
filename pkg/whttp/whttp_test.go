package whttp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendHTTPRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
		b, _ := io.ReadAll(r.Body)
		assert.Equal(t, `{"a":1}`, string(b))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c, err := NewClient(ClientOptions{Timeout: 5 * time.Second})
	require.NoError(t, err)
	res, err := SendHTTPRequest(context.Background(), &WHTTPReq{
		URL:     srv.URL,
		Method:  http.MethodPost,
		Headers: []WHTTPHeader{{Name: "Authorization", Value: "Bearer k"}},
		Body:    []byte(`{"a":1}`),
	}, c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.True(t, res.OK())
	assert.Equal(t, `{"ok":true}`, res.BodyString())
}

func TestServerErrorsAreReturned(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html><head><title>\n Bad Gateway \n</title></head></html>"))
	}))
	defer srv.Close()

	c, err := NewClient(ClientOptions{})
	require.NoError(t, err)
	res, err := SendHTTPRequest(context.Background(), &WHTTPReq{URL: srv.URL}, c)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.False(t, res.OK())
	assert.Equal(t, "Bad Gateway", res.HTTPTitle)
	assert.Equal(t, "Bad Gateway", ErrorMessage(res))
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"error":{"message":"quota exceeded"}}`, "quota exceeded"},
		{`{"status":"REQUEST_DENIED","error_message":"key invalid"}`, "key invalid"},
		{`{"error":"Missing placeId"}`, "Missing placeId"},
		{`not json`, "HTTP 500 Internal Server Error"},
		{`{"error":{"code":1}}`, "HTTP 500 Internal Server Error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ErrorMessage(&WHTTPRes{StatusCode: 500, Body: []byte(tt.body)}), tt.body)
	}
}

func TestNewClientRejectsBadProxy(t *testing.T) {
	_, err := NewClient(ClientOptions{Proxy: "://nope"})
	assert.Error(t, err)
}

func TestRedactURL(t *testing.T) {
	assert.Equal(t, "http://h/p?input=REDACTED&key=REDACTED", RedactURL("http://h/p?input=hotel&key=SECRET"))
	assert.Equal(t, "http://h/p", RedactURL("http://h/p"))
	assert.Equal(t, `Get "http://h/p?key=REDACTED": refused`, RedactText(`Get "http://h/p?key=SECRET": refused`))
	assert.Equal(t, "no urls here", RedactText("no urls here"))
	assert.Equal(t, "token REDACTED", Scrub("token SECRET", "SECRET", ""))
}

func TestTransportErrorHidesQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	c, err := NewClient(ClientOptions{Timeout: 2 * time.Second})
	require.NoError(t, err)
	_, err = SendHTTPRequest(context.Background(), &WHTTPReq{URL: addr + "/x?key=SECRET-KEY-123"}, c)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SECRET-KEY-123")
	assert.Contains(t, err.Error(), "key=REDACTED")
}

func TestLeveledLoggerScrubsURLs(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	l := leveledLogger{logger}

	u, err := url.Parse("http://h/autocomplete/json?input=hotel&key=SECRET-KEY-123")
	require.NoError(t, err)
	l.Debug("performing request", "method", "GET", "url", u)
	l.Debug("retrying request", "request", "GET "+u.String(), "timeout", time.Second)
	l.Error("request failed", "error", &url.Error{Op: "Get", URL: u.String(), Err: io.EOF})

	require.Len(t, hook.AllEntries(), 3)
	for _, e := range hook.AllEntries() {
		for k, v := range e.Data {
			assert.NotContains(t, fmt.Sprint(v), "SECRET-KEY-123", "%s field %s", e.Message, k)
		}
	}
}
