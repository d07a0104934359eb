package riskbrief

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/pkg/whttp"
)

const (
	defaultOpenAIModel    = "gpt-4.1-mini"
	defaultOpenAIEndpoint = "https://api.openai.com/v1/responses"
)

// openAIProvider talks to the Responses API with a strict json_schema format.
type openAIProvider struct {
	apiKey   string
	model    string
	endpoint string
	client   *retryablehttp.Client
}

func newOpenAIProvider(cfg Config) (*openAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, missingKey(ProviderOpenAI)
	}
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultOpenAIEndpoint
	}
	client, err := whttp.NewClient(whttp.ClientOptions{Timeout: cfg.Timeout, Proxy: cfg.Proxy})
	if err != nil {
		return nil, err
	}
	return &openAIProvider{apiKey: cfg.APIKey, model: model, endpoint: endpoint, client: client}, nil
}

func (p *openAIProvider) Name() string { return ProviderOpenAI }

type openAIRequest struct {
	Model string          `json:"model"`
	Input []openAIMessage `json:"input"`
	Text  openAIText      `json:"text"`
}

type openAIMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type openAIInputText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type openAIText struct {
	Format openAIFormat `json:"format"`
}

type openAIFormat struct {
	Type   string          `json:"type"`
	Name   string          `json:"name"`
	Strict bool            `json:"strict"`
	Schema json.RawMessage `json:"schema"`
}

func (p *openAIProvider) Complete(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(openAIRequest{
		Model: p.model,
		Input: []openAIMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: []openAIInputText{{Type: "input_text", Text: user}}},
		},
		Text: openAIText{Format: openAIFormat{
			Type:   "json_schema",
			Name:   "risk_brief",
			Strict: true,
			Schema: Schema,
		}},
	})
	if err != nil {
		return "", err
	}

	res, err := whttp.SendHTTPRequest(ctx, &whttp.WHTTPReq{
		URL:     p.endpoint,
		Method:  "POST",
		Headers: []whttp.WHTTPHeader{{Name: "Authorization", Value: "Bearer " + p.apiKey}},
		Body:    body,
	}, p.client)
	if err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}
	if !res.OK() {
		return "", &UpstreamError{Provider: "OpenAI", StatusCode: res.StatusCode, Body: res.BodyString()}
	}
	return openAIOutputText(res.Body), nil
}

// openAIOutputText reads output_text, falling back to the first output_text
// part of the first output item.
func openAIOutputText(body []byte) string {
	doc := gjson.ParseBytes(body)
	if t := doc.Get("output_text"); t.Type == gjson.String && t.Str != "" {
		return t.Str
	}
	return doc.Get(`output.0.content.#(type=="output_text").text`).String()
}
