// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package analysis

// Level is the overall security level assigned to a password by the evaluator.
type Level string

const (
	LevelCritical Level = "critical"
	LevelWeak     Level = "weak"
	LevelFair     Level = "fair"
	LevelGood     Level = "good"
	LevelStrong   Level = "strong"
)

// Severity classifies a failed criterion. It is only meaningful when the check did not pass.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// CheckResult is the outcome of a single NIST SP 800-63B criterion.
type CheckResult struct {
	ID          string   `json:"id" validate:"required"`
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Passed      bool     `json:"passed"`
	Score       float64  `json:"score" validate:"gte=0"`
	MaxScore    float64  `json:"max_score" validate:"gte=0"`
	NistRef     string   `json:"nist_ref"`
	Severity    Severity `json:"severity" validate:"omitempty,oneof=critical warning info"`
}

// Result is the full analysis returned by the evaluator for one password.
//
// Percentage is expected to be 100 * Score / MaxScore, but the evaluator is the one computing it
// and consumers display it as given.
type Result struct {
	PasswordLength     uint          `json:"password_length"`
	EntropyBits        float64       `json:"entropy_bits" validate:"gte=0"`
	CharsetSize        uint          `json:"charset_size"`
	EstimatedCrackTime string        `json:"estimated_crack_time"`
	Score              float64       `json:"score" validate:"gte=0"`
	MaxScore           float64       `json:"max_score" validate:"gte=0"`
	Percentage         float64       `json:"percentage"`
	Level              Level         `json:"level" validate:"required"`
	LevelLabel         string        `json:"level_label"`
	Checks             []CheckResult `json:"checks" validate:"dive"`
	Recommendations    []string      `json:"recommendations"`
}

// LevelConfig is the display treatment of a Level.
type LevelConfig struct {
	Color string
	Glow  string
}

var (
	// LevelConfigs maps every Level to its color and glow. Read only.
	LevelConfigs = map[Level]LevelConfig{
		LevelCritical: {Color: "#ff2d55", Glow: "rgba(255,45,85,0.35)"},
		LevelWeak:     {Color: "#ff6b35", Glow: "rgba(255,107,53,0.35)"},
		LevelFair:     {Color: "#ffd60a", Glow: "rgba(255,214,10,0.35)"},
		LevelGood:     {Color: "#34c759", Glow: "rgba(52,199,89,0.30)"},
		LevelStrong:   {Color: "#00ff9f", Glow: "rgba(0,255,159,0.35)"},
	}

	// NeutralLevelConfig is used when there is no result to take a level from.
	NeutralLevelConfig = LevelConfig{Color: "#00ff9f", Glow: "rgba(0,255,159,0.25)"}

	// SeverityIcons maps each severity tier to its glyph.
	SeverityIcons = map[Severity]string{
		SeverityCritical: "◈",
		SeverityWarning:  "◆",
		SeverityInfo:     "◇",
	}
)

// PassIcon is shown for every passed check, whatever its severity.
const PassIcon = "✓"

// LevelConfigFor returns the configuration of the level, and false for unknown levels.
func LevelConfigFor(level Level) (LevelConfig, bool) {
	cfg, ok := LevelConfigs[level]
	return cfg, ok
}
