package riskbrief

import (
	"context"
	"fmt"

	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/internal/utils"
	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/pkg/advance"
)

// Generator produces risk briefs through one provider.
type Generator struct {
	provider Provider
}

func NewGenerator(p Provider) *Generator {
	return &Generator{provider: p}
}

// Generate sanitizes a, redacts it when asked, sends it to the provider and
// coerces the answer. Only transport and upstream failures are errors; any
// text the model returns becomes a valid brief.
func (g *Generator) Generate(ctx context.Context, a advance.Advance, redact bool) (RiskBrief, error) {
	input := advance.Redact(advance.Sanitize(a), redact)
	user, err := userPrompt(input)
	if err != nil {
		return RiskBrief{}, err
	}

	utils.Log.Debugf("[riskbrief] requesting brief from %s (redact=%v)", g.provider.Name(), redact)
	text, err := g.provider.Complete(ctx, systemPrompt, user)
	if err != nil {
		utils.Log.Warnf("[riskbrief] %s failed: %v", g.provider.Name(), err)
		return RiskBrief{}, fmt.Errorf("generating risk brief: %w", err)
	}
	brief := Coerce([]byte(text))
	utils.Log.Debugf("[riskbrief] got %s brief with %d mitigations", brief.ThreatLevel, len(brief.RecommendedMitigations))
	return brief, nil
}
