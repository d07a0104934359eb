// Package whttp is the outbound HTTP layer shared by the places and LLM
// clients: one retryable client per upstream, small request/response
// structs, and error text extraction from upstream bodies.
package whttp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"golang.org/x/net/html"

	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/internal/utils"
)

const UserAgent = "raden/1.0 (+pocket-advance)"

type WHTTPHeader struct {
	Name  string
	Value string
}

type WHTTPReq struct {
	URL     string
	Method  string
	Headers []WHTTPHeader
	Body    []byte
}

type WHTTPRes struct {
	StatusCode int
	Body       []byte
	HTTPTitle  string
}

// BodyString returns the raw body as text.
func (r *WHTTPRes) BodyString() string { return string(r.Body) }

// OK reports a 2xx status.
func (r *WHTTPRes) OK() bool { return r.StatusCode >= 200 && r.StatusCode < 300 }

// ClientOptions configure NewClient.
type ClientOptions struct {
	Timeout  time.Duration
	Proxy    string
	RetryMax int
}

// NewClient builds a retryable client that logs through utils.Log and hands
// failed responses back to the caller instead of swallowing them.
func NewClient(opts ClientOptions) (*retryablehttp.Client, error) {
	c := retryablehttp.NewClient()
	c.Logger = leveledLogger{utils.Log}
	c.RetryMax = opts.RetryMax
	c.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if opts.Timeout > 0 {
		c.HTTPClient.Timeout = opts.Timeout
	}
	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %v", err)
		}
		c.HTTPClient.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	}
	return c, nil
}

// SendHTTPRequest performs wReq and reads the whole body. Non-2xx responses
// are returned, not treated as errors.
func SendHTTPRequest(ctx context.Context, wReq *WHTTPReq, client *retryablehttp.Client) (*WHTTPRes, error) {
	var body interface{}
	if wReq.Body != nil {
		body = bytes.NewReader(wReq.Body)
	}
	method := wReq.Method
	if method == "" {
		method = http.MethodGet
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, wReq.URL, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")
	if wReq.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range wReq.Headers {
		req.Header.Set(h.Name, h.Value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, redactError(err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	wRes := &WHTTPRes{StatusCode: resp.StatusCode, Body: bodyBytes}
	if strings.Contains(resp.Header.Get("Content-Type"), "html") {
		if title, ok := getHTMLTitle(wRes.BodyString()); ok {
			wRes.HTTPTitle = strings.ToValidUTF8(strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(title, "\n", ""), "\r", "")), "")
		}
	}
	return wRes, nil
}

// ErrorMessage pulls a human readable reason out of a failed response:
// a JSON error message, an HTML page title, or the status text.
func ErrorMessage(res *WHTTPRes) string {
	if gjson.ValidBytes(res.Body) {
		doc := gjson.ParseBytes(res.Body)
		for _, path := range []string{"error.message", "error_message", "error", "message"} {
			if v := doc.Get(path); v.Type == gjson.String && strings.TrimSpace(v.Str) != "" {
				return v.Str
			}
		}
	}
	if res.HTTPTitle != "" {
		return res.HTTPTitle
	}
	return fmt.Sprintf("HTTP %d %s", res.StatusCode, http.StatusText(res.StatusCode))
}

func isTitleElement(n *html.Node) bool {
	return n.Type == html.ElementNode && n.Data == "title"
}

func traverse(n *html.Node) (string, bool) {
	if isTitleElement(n) {
		if n.FirstChild != nil {
			return n.FirstChild.Data, true
		}
		return "", true
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		result, ok := traverse(c)
		if ok {
			return result, ok
		}
	}

	return "", false
}

func getHTMLTitle(body string) (string, bool) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		utils.Log.Debugf("whttp: failed to parse HTML body: %v", err)
		return "", false
	}
	return traverse(doc)
}

// Redacted replaces query values in URLs that leave this package.
const Redacted = "REDACTED"

// RedactURL blanks every query value of raw, so keys sent as query
// parameters never reach error text or logs.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return Redacted
	}
	redactQuery(u)
	return u.String()
}

func redactQuery(u *url.URL) {
	if u.RawQuery == "" {
		return
	}
	q := u.Query()
	for k := range q {
		q[k] = []string{Redacted}
	}
	u.RawQuery = q.Encode()
}

// redactError returns err with any request URL inside it redacted.
func redactError(err error) error {
	var ue *url.Error
	if !errors.As(err, &ue) {
		return err
	}
	return &url.Error{Op: ue.Op, URL: RedactURL(ue.URL), Err: ue.Err}
}

// Scrub replaces every occurrence of each non-empty secret in s.
func Scrub(s string, secrets ...string) string {
	for _, sec := range secrets {
		if sec != "" {
			s = strings.ReplaceAll(s, sec, Redacted)
		}
	}
	return s
}

// leveledLogger adapts logrus to retryablehttp.LeveledLogger.
type leveledLogger struct {
	l *logrus.Logger
}

func fields(kv []interface{}) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		f[fmt.Sprint(kv[i])] = scrubValue(kv[i+1])
	}
	return f
}

// scrubValue redacts the URLs retryablehttp logs, whether passed as a
// *url.URL, inside an error, or in a "METHOD URL" description string.
func scrubValue(v interface{}) interface{} {
	switch x := v.(type) {
	case *url.URL:
		if x == nil {
			return x
		}
		c := *x
		redactQuery(&c)
		return c.String()
	case error:
		return RedactText(x.Error())
	case string:
		return RedactText(x)
	}
	return v
}

// RedactText redacts the query values of every URL-looking word in s.
func RedactText(s string) string {
	words := strings.Fields(s)
	changed := false
	for i, w := range words {
		if !strings.Contains(w, "://") || !strings.Contains(w, "?") {
			continue
		}
		trimmed := strings.Trim(w, `"':,`)
		words[i] = strings.Replace(w, trimmed, RedactURL(trimmed), 1)
		changed = true
	}
	if !changed {
		return s
	}
	return strings.Join(words, " ")
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.l.WithFields(fields(kv)).Debug(msg) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.l.WithFields(fields(kv)).Debug(msg) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.l.WithFields(fields(kv)).Debug(msg) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.l.WithFields(fields(kv)).Debug(msg) }
