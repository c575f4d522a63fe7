package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/FlowDomain/NutriLog/models"
	"github.com/FlowDomain/NutriLog/utils"

	"gopkg.in/yaml.v3"
)

// gradingFile mirrors the YAML layout; nil fields keep the built-in default.
type gradingFile struct {
	PenaltyFactor     *float64 `yaml:"penalty_factor"`
	FeedbackThreshold *float64 `yaml:"feedback_threshold"`
	Thresholds        struct {
		A *float64 `yaml:"a"`
		B *float64 `yaml:"b"`
		C *float64 `yaml:"c"`
	} `yaml:"thresholds"`
	DefaultTargets *struct {
		Carbs   float64 `yaml:"carbs"`
		Protein float64 `yaml:"protein"`
		Fats    float64 `yaml:"fats"`
	} `yaml:"default_targets"`
}

// LoadGrading returns the default grading constants overlaid with path.
// An empty path means defaults only.
func LoadGrading(path string) (utils.GradingConfig, error) {
	cfg := utils.DefaultGradingConfig()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading grading config: %w", err)
	}
	return parseGrading(raw)
}

func parseGrading(raw []byte) (utils.GradingConfig, error) {
	cfg := utils.DefaultGradingConfig()

	var f gradingFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return cfg, fmt.Errorf("parsing grading config: %w", err)
	}

	setIf(&cfg.PenaltyFactor, f.PenaltyFactor)
	setIf(&cfg.FeedbackThreshold, f.FeedbackThreshold)
	setIf(&cfg.Thresholds.A, f.Thresholds.A)
	setIf(&cfg.Thresholds.B, f.Thresholds.B)
	setIf(&cfg.Thresholds.C, f.Thresholds.C)
	if t := f.DefaultTargets; t != nil {
		cfg.DefaultTargets = models.MacroTargets{Carbs: t.Carbs, Protein: t.Protein, Fats: t.Fats}
		if cfg.DefaultTargets.Sum() <= 0 {
			return cfg, errors.New("invalid grading config: default_targets must not be all zero")
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid grading config: %w", err)
	}
	return cfg, nil
}

func setIf(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
