package matching

import (
	"fmt"
	"math"

	"lineage-workers/internal/common/errors"
	"lineage-workers/internal/lineage/fullname"
)

// Config tunes candidate scoring. The zero value is not usable; start from
// DefaultConfig.
type Config struct {
	FatherWeight           float64 `json:"fatherWeight" mapstructure:"father_weight"`
	GrandfatherWeight      float64 `json:"grandfatherWeight" mapstructure:"grandfather_weight"`
	GreatGrandfatherWeight float64 `json:"greatGrandfatherWeight" mapstructure:"great_grandfather_weight"`
	MinimumTotalScore      float64 `json:"minimumTotalScore" mapstructure:"minimum_total_score"`
	MinimumFatherScore     float64 `json:"minimumFatherScore" mapstructure:"minimum_father_score"`
	IncludeLowConfidence   bool    `json:"includeLowConfidence" mapstructure:"include_low_confidence"`
	FamilyName             string  `json:"familyName,omitempty" mapstructure:"family_name"`
	FamilyNameEn           string  `json:"familyNameEn,omitempty" mapstructure:"family_name_en"`
}

func DefaultConfig() Config {
	return Config{
		FatherWeight:           40,
		GrandfatherWeight:      35,
		GreatGrandfatherWeight: 25,
		MinimumTotalScore:      40,
		MinimumFatherScore:     70,
		IncludeLowConfidence:   true,
		FamilyName:             fullname.DefaultFamilyName,
		FamilyNameEn:           fullname.DefaultFamilyNameEn,
	}
}

// Override is a per-request partial configuration. Nil fields keep the
// base value.
type Override struct {
	FatherWeight           *float64 `json:"fatherWeight,omitempty"`
	GrandfatherWeight      *float64 `json:"grandfatherWeight,omitempty"`
	GreatGrandfatherWeight *float64 `json:"greatGrandfatherWeight,omitempty"`
	MinimumTotalScore      *float64 `json:"minimumTotalScore,omitempty"`
	MinimumFatherScore     *float64 `json:"minimumFatherScore,omitempty"`
	IncludeLowConfidence   *bool    `json:"includeLowConfidence,omitempty"`
}

// Apply merges o onto c field by field.
func (c Config) Apply(o *Override) Config {
	if o == nil {
		return c
	}
	if o.FatherWeight != nil {
		c.FatherWeight = *o.FatherWeight
	}
	if o.GrandfatherWeight != nil {
		c.GrandfatherWeight = *o.GrandfatherWeight
	}
	if o.GreatGrandfatherWeight != nil {
		c.GreatGrandfatherWeight = *o.GreatGrandfatherWeight
	}
	if o.MinimumTotalScore != nil {
		c.MinimumTotalScore = *o.MinimumTotalScore
	}
	if o.MinimumFatherScore != nil {
		c.MinimumFatherScore = *o.MinimumFatherScore
	}
	if o.IncludeLowConfidence != nil {
		c.IncludeLowConfidence = *o.IncludeLowConfidence
	}
	return c
}

// Validate rejects non-positive weights and thresholds outside 0-100 with
// an INVALID_CONFIGURATION error.
func (c Config) Validate() error {
	weights := []struct {
		name  string
		value float64
	}{
		{"fatherWeight", c.FatherWeight},
		{"grandfatherWeight", c.GrandfatherWeight},
		{"greatGrandfatherWeight", c.GreatGrandfatherWeight},
	}
	for _, w := range weights {
		if math.IsNaN(w.value) || math.IsInf(w.value, 0) || w.value <= 0 {
			return errors.NewInvalidConfigurationError(fmt.Sprintf("%s must be positive, got %v", w.name, w.value))
		}
	}

	thresholds := []struct {
		name  string
		value float64
	}{
		{"minimumTotalScore", c.MinimumTotalScore},
		{"minimumFatherScore", c.MinimumFatherScore},
	}
	for _, th := range thresholds {
		if math.IsNaN(th.value) || th.value < 0 || th.value > 100 {
			return errors.NewInvalidConfigurationError(fmt.Sprintf("%s must be within 0-100, got %v", th.name, th.value))
		}
	}
	return nil
}
