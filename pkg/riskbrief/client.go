package riskbrief

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/pkg/advance"
	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/pkg/whttp"
)

// Request is the body of POST /api/risk-brief.
type Request struct {
	Advance    advance.Advance `json:"advance"`
	RedactMode bool            `json:"redactMode"`
}

// ParseRequest reads a risk brief request body leniently. An empty body is
// an empty request; mistyped advance fields are blanked rather than rejected.
func ParseRequest(body []byte) (Request, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return Request{}, nil
	}
	if !gjson.ValidBytes(body) {
		return Request{}, fmt.Errorf("invalid JSON body")
	}
	doc := gjson.ParseBytes(body)
	var req Request
	if raw := doc.Get("advance"); raw.IsObject() {
		req.Advance = advance.Restore([]byte(raw.Raw), advance.Advance{})
	}
	req.RedactMode = truthy(doc.Get("redactMode"))
	return req, nil
}

func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.True:
		return true
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		return r.Str != ""
	case gjson.JSON:
		return true
	default:
		return false
	}
}

// HTTPError is a non-2xx answer from a risk brief endpoint. Body is the
// response text verbatim.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body != "" {
		return e.Body
	}
	return "Risk brief failed"
}

// Client calls a remote risk brief endpoint, such as another raden serve.
type Client struct {
	url  string
	http *retryablehttp.Client
}

// NewClient targets baseURL, which may be a server root or the full
// /api/risk-brief URL.
func NewClient(baseURL string, opts whttp.ClientOptions) (*Client, error) {
	u := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if u == "" {
		return nil, fmt.Errorf("risk brief client: empty URL")
	}
	if !strings.HasSuffix(u, "/api/risk-brief") {
		u += "/api/risk-brief"
	}
	hc, err := whttp.NewClient(opts)
	if err != nil {
		return nil, err
	}
	return &Client{url: u, http: hc}, nil
}

// Generate posts the advance and decodes the brief.
func (c *Client) Generate(ctx context.Context, a advance.Advance, redact bool) (RiskBrief, error) {
	body, err := json.Marshal(Request{Advance: a, RedactMode: redact})
	if err != nil {
		return RiskBrief{}, err
	}
	res, err := whttp.SendHTTPRequest(ctx, &whttp.WHTTPReq{URL: c.url, Method: "POST", Body: body}, c.http)
	if err != nil {
		return RiskBrief{}, fmt.Errorf("risk brief request: %w", err)
	}
	if !res.OK() {
		return RiskBrief{}, &HTTPError{StatusCode: res.StatusCode, Body: res.BodyString()}
	}
	return decodeBrief(res.Body)
}

// decodeBrief accepts only a JSON object and coerces it, so a well-formed
// but partial body still yields complete defaults.
func decodeBrief(body []byte) (RiskBrief, error) {
	if !gjson.ValidBytes(body) {
		return RiskBrief{}, ErrSchemaViolation
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return RiskBrief{}, ErrSchemaViolation
	}
	return CoerceResult(doc), nil
}
