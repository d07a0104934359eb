// Package riskbrief asks an LLM for a planning risk brief about an Advance
// and forces whatever comes back into a bounded, well-formed RiskBrief.
package riskbrief

type ThreatLevel string

const (
	ThreatLow      ThreatLevel = "LOW"
	ThreatModerate ThreatLevel = "MODERATE"
	ThreatElevated ThreatLevel = "ELEVATED"
	ThreatHigh     ThreatLevel = "HIGH"
)

type Confidence string

const (
	ConfidenceLow    Confidence = "LOW"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceHigh   Confidence = "HIGH"
)

type Vulnerability struct {
	Title string `json:"title"`
	Note  string `json:"note"`
}

type Mitigation struct {
	Title string `json:"title"`
	Steps string `json:"steps"`
}

type GoNoGo struct {
	GoIf   []string `json:"go_if"`
	NoGoIf []string `json:"no_go_if"`
}

// RiskBrief is the structured brief. It is never persisted.
type RiskBrief struct {
	Summary                string          `json:"summary"`
	Disclaimer             string          `json:"disclaimer"`
	ThreatLevel            ThreatLevel     `json:"threat_level"`
	PrimaryRiskDrivers     []string        `json:"primary_risk_drivers"`
	PlanningConfidence     Confidence      `json:"planning_confidence"`
	ConfidenceRationale    string          `json:"confidence_rationale"`
	Vulnerabilities        []Vulnerability `json:"vulnerabilities"`
	RecommendedMitigations []Mitigation    `json:"recommended_mitigations"`
	GoNoGo                 GoNoGo          `json:"go_no_go"`
	DayOfOperatorFocus     []string        `json:"day_of_operator_focus"`
	MissingInfoQuestions   []string        `json:"missing_info_questions"`
}
