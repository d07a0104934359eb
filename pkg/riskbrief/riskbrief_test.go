package riskbrief

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/pkg/advance"
	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/pkg/whttp"
)

const briefJSON = `{"summary":"Low profile dinner.","disclaimer":"Planning aid.","threat_level":"LOW","primary_risk_drivers":["Public venue"],"planning_confidence":"MEDIUM","confidence_rationale":"ER unknown","vulnerabilities":[{"title":"One exit","note":"Kitchen door"}],"recommended_mitigations":[{"title":"Walk exits","steps":"Before arrival"}],"go_no_go":{"go_if":["Route clear"],"no_go_if":["Crowd at door"]},"day_of_operator_focus":["Door"],"missing_info_questions":["PD phone?"]}`

func TestNewProvider(t *testing.T) {
	for _, name := range []string{"", "openai", "Anthropic", "gemini"} {
		_, err := NewProvider(Config{Provider: name})
		assert.ErrorIs(t, err, ErrMissingAPIKey, name)
	}
	_, err := NewProvider(Config{Provider: "llama", APIKey: "k"})
	assert.EqualError(t, err, "unsupported AI provider: llama")

	for _, name := range []string{"openai", "anthropic", "gemini"} {
		p, err := NewProvider(Config{Provider: name, APIKey: "k"})
		require.NoError(t, err)
		assert.Equal(t, name, p.Name())
	}
	assert.Equal(t, "GEMINI_API_KEY", KeyEnv("gemini"))
	assert.Equal(t, "OPENAI_API_KEY", KeyEnv(""))
}

func TestOpenAIProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		req := gjson.ParseBytes(body)
		assert.Equal(t, "gpt-4.1-mini", req.Get("model").String())
		assert.Equal(t, "system", req.Get("input.0.role").String())
		assert.Equal(t, "input_text", req.Get("input.1.content.0.type").String())
		assert.Equal(t, "user prompt", req.Get("input.1.content.0.text").String())
		assert.Equal(t, "json_schema", req.Get("text.format.type").String())
		assert.Equal(t, "risk_brief", req.Get("text.format.name").String())
		assert.True(t, req.Get("text.format.strict").Bool())
		assert.Equal(t, "object", req.Get("text.format.schema.type").String())

		w.Write([]byte(`{"output_text":"{\"summary\":\"ok\"}"}`))
	}))
	defer srv.Close()

	p, err := NewProvider(Config{APIKey: "sk-test", Endpoint: srv.URL})
	require.NoError(t, err)
	text, err := p.Complete(context.Background(), "system prompt", "user prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"summary":"ok"}`, text)
}

func TestOpenAIOutputText(t *testing.T) {
	body := `{"output":[{"type":"message","content":[{"type":"refusal","text":"no"},{"type":"output_text","text":"{\"a\":1}"}]}]}`
	assert.Equal(t, `{"a":1}`, openAIOutputText([]byte(body)))
	assert.Equal(t, "", openAIOutputText([]byte(`{"output":[]}`)))
}

func TestOpenAIUpstreamError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"boom"}}`))
	}))
	defer srv.Close()

	p, err := NewProvider(Config{APIKey: "k", Endpoint: srv.URL})
	require.NoError(t, err)
	_, err = p.Complete(context.Background(), "s", "u")
	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, http.StatusInternalServerError, ue.StatusCode)
	assert.Equal(t, `{"error":{"message":"boom"}}`, err.Error())
	assert.Equal(t, 1, calls)

	assert.Equal(t, "OpenAI request failed", (&UpstreamError{Provider: "OpenAI"}).Error())
}

func TestAnthropicProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "ak-test", r.Header.Get("X-Api-Key"))
		body, _ := io.ReadAll(r.Body)
		req := gjson.ParseBytes(body)
		assert.Contains(t, req.Get("system.0.text").String(), "Return ONLY one JSON object")
		assert.Equal(t, "user prompt", req.Get("messages.0.content.0.text").String())

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-test",
			"content":[{"type":"text","text":"{\"summary\":"},{"type":"text","text":"\"ok\"}"}],
			"stop_reason":"end_turn","usage":{"input_tokens":3,"output_tokens":4}}`))
	}))
	defer srv.Close()

	p, err := NewProvider(Config{Provider: "anthropic", APIKey: "ak-test", Endpoint: srv.URL + "/"})
	require.NoError(t, err)
	text, err := p.Complete(context.Background(), "system prompt", "user prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"summary":"ok"}`, text)
}

func TestGeminiProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-test:generateContent"), r.URL.Path)
		assert.True(t, r.Header.Get("X-Goog-Api-Key") == "gk-test" || r.URL.Query().Get("key") == "gk-test")
		body, _ := io.ReadAll(r.Body)
		req := gjson.ParseBytes(body)
		assert.Equal(t, "application/json", req.Get("generationConfig.responseMimeType").String())
		assert.Contains(t, req.Get("systemInstruction.parts.0.text").String(), "Return ONLY one JSON object")
		assert.Equal(t, "user prompt", req.Get("contents.0.parts.0.text").String())

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"summary\":\"ok\"}"}]},"finishReason":"STOP"}]}`))
	}))
	defer srv.Close()

	p, err := NewProvider(Config{Provider: "gemini", APIKey: "gk-test", Model: "gemini-test", Endpoint: srv.URL + "/"})
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, p.Name())
	text, err := p.Complete(context.Background(), "system prompt", "user prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"summary":"ok"}`, text)
}

func TestGeminiUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`))
	}))
	defer srv.Close()

	p, err := NewProvider(Config{Provider: "gemini", APIKey: "gk-test", Endpoint: srv.URL + "/"})
	require.NoError(t, err)
	_, err = p.Complete(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini API error")
}

type fakeProvider struct {
	system, user string
	reply        string
	err          error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(ctx context.Context, system, user string) (string, error) {
	f.system, f.user = system, user
	return f.reply, f.err
}

func sampleAdvance() advance.Advance {
	a := advance.Default("2026-03-14")
	a.DetailName = "Harbor\x00 Gala"
	a.ERPhone = "555-1234"
	a.Agents = []advance.Agent{{Name: "Kim", Phone: "555-0001"}}
	return a
}

func TestGenerator(t *testing.T) {
	f := &fakeProvider{reply: briefJSON}
	g := NewGenerator(f)

	brief, err := g.Generate(context.Background(), sampleAdvance(), true)
	require.NoError(t, err)
	assert.Equal(t, ThreatLow, brief.ThreatLevel)
	assert.Equal(t, []string{"Route clear"}, brief.GoNoGo.GoIf)

	assert.Equal(t, systemPrompt, f.system)
	require.True(t, strings.HasPrefix(f.user, "Pocket Advance:\n{\n  \""))
	assert.Contains(t, f.user, `"detailName": "Harbor Gala"`)
	assert.Contains(t, f.user, `"erPhone": "REDACTED"`)
	assert.NotContains(t, f.user, "555-")

	_, err = g.Generate(context.Background(), sampleAdvance(), false)
	require.NoError(t, err)
	assert.Contains(t, f.user, "555-1234")
}

func TestGeneratorGarbageReply(t *testing.T) {
	g := NewGenerator(&fakeProvider{reply: "{not valid json"})
	brief, err := g.Generate(context.Background(), sampleAdvance(), false)
	require.NoError(t, err)
	assert.Equal(t, emptyBrief(), brief)
}

func TestGeneratorUpstreamFailure(t *testing.T) {
	boom := errors.New("connection reset")
	g := NewGenerator(&fakeProvider{err: boom})
	_, err := g.Generate(context.Background(), sampleAdvance(), false)
	assert.ErrorIs(t, err, boom)
}

func TestClient(t *testing.T) {
	var status int
	var reply string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/risk-brief", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		assert.True(t, gjson.GetBytes(body, "redactMode").Bool())
		assert.Equal(t, "Harbor\x00 Gala", gjson.GetBytes(body, "advance.detailName").String())
		w.WriteHeader(status)
		w.Write([]byte(reply))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL+"/", whttp.ClientOptions{})
	require.NoError(t, err)
	ctx := context.Background()

	status, reply = http.StatusOK, briefJSON
	brief, err := c.Generate(ctx, sampleAdvance(), true)
	require.NoError(t, err)
	assert.Equal(t, "Low profile dinner.", brief.Summary)

	status, reply = http.StatusOK, `{"summary":"partial"}`
	brief, err = c.Generate(ctx, sampleAdvance(), true)
	require.NoError(t, err)
	assert.Equal(t, ConfidenceMedium, brief.PlanningConfidence)
	assert.Equal(t, []string{}, brief.MissingInfoQuestions)

	status, reply = http.StatusOK, "<html>oops</html>"
	_, err = c.Generate(ctx, sampleAdvance(), true)
	assert.ErrorIs(t, err, ErrSchemaViolation)

	status, reply = http.StatusInternalServerError, `{"error":"Missing OPENAI_API_KEY environment variable."}`
	_, err = c.Generate(ctx, sampleAdvance(), true)
	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, `{"error":"Missing OPENAI_API_KEY environment variable."}`, err.Error())

	status, reply = http.StatusBadGateway, ""
	_, err = c.Generate(ctx, sampleAdvance(), true)
	assert.EqualError(t, err, "Risk brief failed")
}

func TestNewClientURL(t *testing.T) {
	c, err := NewClient("http://localhost:8080/api/risk-brief", whttp.ClientOptions{})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api/risk-brief", c.url)

	_, err = NewClient(" ", whttp.ClientOptions{})
	assert.Error(t, err)
}

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest(nil)
	require.NoError(t, err)
	assert.False(t, req.RedactMode)
	assert.Equal(t, "", req.Advance.DetailName)

	req, err = ParseRequest([]byte(`{"advance":{"detailName":"Gala","venueName":5,"boloPois":[{"type":"X","subject":"Van"}]},"redactMode":1}`))
	require.NoError(t, err)
	assert.True(t, req.RedactMode)
	assert.Equal(t, "Gala", req.Advance.DetailName)
	assert.Equal(t, "", req.Advance.VenueName)
	require.Len(t, req.Advance.BoloPois, 1)
	assert.Equal(t, advance.KindBOLO, req.Advance.BoloPois[0].Type)

	req, err = ParseRequest([]byte(`{"redactMode":"yes"}`))
	require.NoError(t, err)
	assert.True(t, req.RedactMode)

	_, err = ParseRequest([]byte(`{nope`))
	assert.Error(t, err)
}
