package riskbrief

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// geminiProvider creates its client on first use since construction needs
// a context.
type geminiProvider struct {
	cfg   Config
	model string

	once      sync.Once
	client    *genai.Client
	clientErr error
}

func newGeminiProvider(cfg Config) (*geminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, missingKey(ProviderGemini)
	}
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	return &geminiProvider{cfg: cfg, model: model}, nil
}

func (p *geminiProvider) Name() string { return ProviderGemini }

func (p *geminiProvider) connect(ctx context.Context) (*genai.Client, error) {
	p.once.Do(func() {
		cc := &genai.ClientConfig{
			APIKey:     p.cfg.APIKey,
			Backend:    genai.BackendGeminiAPI,
			HTTPClient: &http.Client{Timeout: p.cfg.Timeout},
		}
		if p.cfg.Endpoint != "" {
			cc.HTTPOptions = genai.HTTPOptions{BaseURL: p.cfg.Endpoint}
		}
		p.client, p.clientErr = genai.NewClient(ctx, cc)
		if p.clientErr != nil {
			p.clientErr = fmt.Errorf("failed to create GenAI client: %w", p.clientErr)
		}
	})
	return p.client, p.clientErr
}

func (p *geminiProvider) Complete(ctx context.Context, system, user string) (string, error) {
	client, err := p.connect(ctx)
	if err != nil {
		return "", err
	}
	resp, err := client.Models.GenerateContent(ctx, p.model, genai.Text(user), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system+jsonOnlySuffix, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}
	return resp.Text(), nil
}
