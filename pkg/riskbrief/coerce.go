package riskbrief

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Field bounds: characters are counted in runes.
const (
	maxSummary    = 800
	maxDisclaimer = 300
	maxRationale  = 400

	maxDrivers     = 6
	maxDriverLen   = 200
	maxVulns       = 8
	maxVulnTitle   = 140
	maxVulnNote    = 320
	maxMitigations = 10
	maxMitTitle    = 140
	maxMitSteps    = 500
	maxGoItems     = 6
	maxGoLen       = 200
	maxFocus       = 6
	maxFocusLen    = 200
	maxQuestions   = 12
	maxQuestionLen = 220
)

// Coerce turns raw model output into a RiskBrief. It never fails: text that
// holds no JSON object is treated as {}, and every field that is missing or
// of the wrong type takes its default. Coerce is idempotent over its own
// JSON encoding.
func Coerce(raw []byte) RiskBrief {
	return CoerceResult(parseObject(raw))
}

// CoerceResult coerces an already parsed JSON value.
func CoerceResult(in gjson.Result) RiskBrief {
	return RiskBrief{
		Summary:             truncate(str(in.Get("summary")), maxSummary),
		Disclaimer:          truncate(str(in.Get("disclaimer")), maxDisclaimer),
		ThreatLevel:         threatLevel(in.Get("threat_level")),
		PrimaryRiskDrivers:  stringList(in.Get("primary_risk_drivers"), maxDrivers, maxDriverLen),
		PlanningConfidence:  confidence(in.Get("planning_confidence")),
		ConfidenceRationale: truncate(str(in.Get("confidence_rationale")), maxRationale),
		Vulnerabilities: objectList(in.Get("vulnerabilities"), maxVulns, func(v gjson.Result) Vulnerability {
			return Vulnerability{
				Title: truncate(str(v.Get("title")), maxVulnTitle),
				Note:  truncate(str(v.Get("note")), maxVulnNote),
			}
		}, func(v Vulnerability) string { return v.Title }),
		RecommendedMitigations: objectList(in.Get("recommended_mitigations"), maxMitigations, func(v gjson.Result) Mitigation {
			return Mitigation{
				Title: truncate(str(v.Get("title")), maxMitTitle),
				Steps: truncate(str(v.Get("steps")), maxMitSteps),
			}
		}, func(m Mitigation) string { return m.Title }),
		GoNoGo: GoNoGo{
			GoIf:   stringList(in.Get("go_no_go.go_if"), maxGoItems, maxGoLen),
			NoGoIf: stringList(in.Get("go_no_go.no_go_if"), maxGoItems, maxGoLen),
		},
		DayOfOperatorFocus:   stringList(in.Get("day_of_operator_focus"), maxFocus, maxFocusLen),
		MissingInfoQuestions: stringList(in.Get("missing_info_questions"), maxQuestions, maxQuestionLen),
	}
}

// parseObject finds the JSON object in raw, falling back to an empty one.
func parseObject(raw []byte) gjson.Result {
	if gjson.ValidBytes(raw) {
		if r := gjson.ParseBytes(raw); r.IsObject() {
			return r
		}
		return gjson.Parse("{}")
	}
	if block := ExtractJSONObject(string(raw)); block != "" && gjson.Valid(block) {
		return gjson.Parse(block)
	}
	return gjson.Parse("{}")
}

func str(r gjson.Result) string {
	if r.Type != gjson.String {
		return ""
	}
	return r.Str
}

// truncate cuts s to max runes. Invalid UTF-8 is replaced so the result
// survives a JSON round trip unchanged.
func truncate(s string, max int) string {
	s = strings.ToValidUTF8(s, "�")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func threatLevel(r gjson.Result) ThreatLevel {
	switch t := ThreatLevel(str(r)); t {
	case ThreatLow, ThreatModerate, ThreatElevated, ThreatHigh:
		return t
	}
	return ThreatModerate
}

func confidence(r gjson.Result) Confidence {
	switch c := Confidence(str(r)); c {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
		return c
	}
	return ConfidenceMedium
}

// stringList keeps string items that are not blank after truncation, up to
// maxItems. A non-array yields an empty list.
func stringList(r gjson.Result, maxItems, maxLen int) []string {
	out := []string{}
	if !r.IsArray() {
		return out
	}
	r.ForEach(func(_, v gjson.Result) bool {
		s := truncate(str(v), maxLen)
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
		return len(out) < maxItems
	})
	return out
}

// objectList maps array items with conv and drops those whose title is blank.
func objectList[T any](r gjson.Result, maxItems int, conv func(gjson.Result) T, title func(T) string) []T {
	out := []T{}
	if !r.IsArray() {
		return out
	}
	r.ForEach(func(_, v gjson.Result) bool {
		item := conv(v)
		if strings.TrimSpace(title(item)) != "" {
			out = append(out, item)
		}
		return len(out) < maxItems
	})
	return out
}
