package director

import "fmt"

type DirectorStyle int

const (
	StyleAuthentic DirectorStyle = iota
	StyleCompetitive
	StyleDramatic
	StyleArcade
	StyleSimulation
	StyleBalanced
)

func (s DirectorStyle) String() string {
	switch s {
	case StyleAuthentic:
		return "Authentic"
	case StyleCompetitive:
		return "Competitive"
	case StyleDramatic:
		return "Dramatic"
	case StyleArcade:
		return "Arcade"
	case StyleSimulation:
		return "Simulation"
	case StyleBalanced:
		return "Balanced"
	default:
		return "Unknown"
	}
}

type RubberBandLevel int

const (
	RubberBandNone RubberBandLevel = iota
	RubberBandVeryLight
	RubberBandLight
	RubberBandModerate
	RubberBandStrong
	RubberBandVeryStrong
)

func (l RubberBandLevel) String() string {
	switch l {
	case RubberBandNone:
		return "None"
	case RubberBandVeryLight:
		return "Very Light"
	case RubberBandLight:
		return "Light"
	case RubberBandModerate:
		return "Moderate"
	case RubberBandStrong:
		return "Strong"
	case RubberBandVeryStrong:
		return "Very Strong"
	default:
		return "Unknown"
	}
}

func (l RubberBandLevel) Multiplier() float64 {
	switch l {
	case RubberBandVeryLight:
		return 0.25
	case RubberBandLight:
		return 0.5
	case RubberBandModerate:
		return 1.0
	case RubberBandStrong:
		return 1.5
	case RubberBandVeryStrong:
		return 2.0
	default:
		return 0
	}
}

type RubberBandConfig struct {
	Level              RubberBandLevel `json:"level" yaml:"level"`
	MaxSpeedBoost      float64         `json:"max_speed_boost" yaml:"max_speed_boost"`
	MaxSpeedReduction  float64         `json:"max_speed_reduction" yaml:"max_speed_reduction"`
	ActivationDistance float64         `json:"activation_distance" yaml:"activation_distance"`
	CooldownTime       float64         `json:"cooldown_time" yaml:"cooldown_time"`
	RampUpTime         float64         `json:"ramp_up_time" yaml:"ramp_up_time"`
	HandlingBoost      float64         `json:"handling_boost" yaml:"handling_boost"`
	NitroRechargeBonus float64         `json:"nitro_recharge_bonus" yaml:"nitro_recharge_bonus"`
	AffectsPlayer      bool            `json:"affects_player" yaml:"affects_player"`
	AffectsAI          bool            `json:"affects_ai" yaml:"affects_ai"`
	ScaleWithPosition  bool            `json:"scale_with_position" yaml:"scale_with_position"`
}

func DefaultRubberBandConfig() RubberBandConfig {
	return RubberBandConfig{
		Level:              RubberBandModerate,
		MaxSpeedBoost:      1.1,
		MaxSpeedReduction:  0.95,
		ActivationDistance: 100,
		CooldownTime:       3,
		RampUpTime:         2,
		HandlingBoost:      1.05,
		NitroRechargeBonus: 1.2,
		AffectsPlayer:      true,
		AffectsAI:          true,
		ScaleWithPosition:  true,
	}
}

// Malformed tuning is clamped at the point of use rather than rejected.

func (c RubberBandConfig) maxBoost() float64 {
	if c.MaxSpeedBoost < 1 {
		return 1
	}

	return c.MaxSpeedBoost
}

func (c RubberBandConfig) maxReduction() float64 {
	return clamp(c.MaxSpeedReduction, 0, 1)
}

func (c RubberBandConfig) activationDistance() float64 {
	if c.ActivationDistance < 1 {
		return 1
	}

	return c.ActivationDistance
}

func (c RubberBandConfig) rampUpTime() float64 {
	if c.RampUpTime < 0.1 {
		return 0.1
	}

	return c.RampUpTime
}

type DramaConfig struct {
	CloseRaceThreshold      float64 `json:"close_race_threshold" yaml:"close_race_threshold"`
	PhotoFinishWindow       float64 `json:"photo_finish_window" yaml:"photo_finish_window"`
	ComebackThreshold       int     `json:"comeback_threshold" yaml:"comeback_threshold"`
	LeadChangeTensionWeight float64 `json:"lead_change_tension_weight" yaml:"lead_change_tension_weight"`
	TensionBuildupRate      float64 `json:"tension_buildup_rate" yaml:"tension_buildup_rate"`
	MinDramaCooldown        float64 `json:"min_drama_cooldown" yaml:"min_drama_cooldown"`
	EnableDramaticMoments   bool    `json:"enable_dramatic_moments" yaml:"enable_dramatic_moments"`
	EnableRivalries         bool    `json:"enable_rivalries" yaml:"enable_rivalries"`
	EnableComebackDrama     bool    `json:"enable_comeback_drama" yaml:"enable_comeback_drama"`
	EnableUnderdogStory     bool    `json:"enable_underdog_story" yaml:"enable_underdog_story"`
}

func DefaultDramaConfig() DramaConfig {
	return DramaConfig{
		CloseRaceThreshold:      3.0,
		PhotoFinishWindow:       0.5,
		ComebackThreshold:       5,
		LeadChangeTensionWeight: 1.5,
		TensionBuildupRate:      0.1,
		MinDramaCooldown:        10.0,
		EnableDramaticMoments:   true,
		EnableRivalries:         true,
		EnableComebackDrama:     true,
		EnableUnderdogStory:     true,
	}
}

func (c DramaConfig) closeRaceThreshold() float64 {
	if c.CloseRaceThreshold <= 0 {
		return 0.001
	}

	return c.CloseRaceThreshold
}

type PacingConfig struct {
	EarlyRaceThreshold float64 `json:"early_race_threshold" yaml:"early_race_threshold"`
	MidRaceThreshold   float64 `json:"mid_race_threshold" yaml:"mid_race_threshold"`
	LateRaceThreshold  float64 `json:"late_race_threshold" yaml:"late_race_threshold"`
	FinalLapIntensity  float64 `json:"final_lap_intensity" yaml:"final_lap_intensity"`
	StartChaosWindow   float64 `json:"start_chaos_window" yaml:"start_chaos_window"`
	MidRaceSettleTime  float64 `json:"mid_race_settle_time" yaml:"mid_race_settle_time"`
	EndGamePushTime    float64 `json:"end_game_push_time" yaml:"end_game_push_time"`
}

func DefaultPacingConfig() PacingConfig {
	return PacingConfig{
		EarlyRaceThreshold: 0.25,
		MidRaceThreshold:   0.50,
		LateRaceThreshold:  0.75,
		FinalLapIntensity:  1.3,
		StartChaosWindow:   10,
		MidRaceSettleTime:  5,
		EndGamePushTime:    30,
	}
}

type AIDifficultyConfig struct {
	Name                 string          `json:"name" yaml:"name"`
	SpeedMultiplier      float64         `json:"speed_multiplier" yaml:"speed_multiplier"`
	MistakeFrequency     float64         `json:"mistake_frequency" yaml:"mistake_frequency"`
	WreckFrequency       float64         `json:"wreck_frequency" yaml:"wreck_frequency"`
	AggressionBase       float64         `json:"aggression_base" yaml:"aggression_base"`
	ConsistencyFactor    float64         `json:"consistency_factor" yaml:"consistency_factor"`
	BrakingSkill         float64         `json:"braking_skill" yaml:"braking_skill"`
	CorneringSkill       float64         `json:"cornering_skill" yaml:"cornering_skill"`
	RacingLineOptimality float64         `json:"racing_line_optimality" yaml:"racing_line_optimality"`
	DraftingAwareness    float64         `json:"drafting_awareness" yaml:"drafting_awareness"`
	RubberBandLevel      RubberBandLevel `json:"rubber_band_level" yaml:"rubber_band_level"`
}

const (
	PresetEasy = iota
	PresetNormal
	PresetHard
	PresetExpert
	PresetLegendary
)

// DifficultyPresets returns the five built-in difficulty tiers, ordered
// Easy to Legendary.
func DifficultyPresets() []AIDifficultyConfig {
	return []AIDifficultyConfig{
		{
			Name:                 "Easy",
			SpeedMultiplier:      0.85,
			MistakeFrequency:     0.5,
			WreckFrequency:       0.2,
			AggressionBase:       0.3,
			ConsistencyFactor:    0.6,
			BrakingSkill:         0.5,
			CorneringSkill:       0.5,
			RacingLineOptimality: 0.6,
			DraftingAwareness:    0.6,
			RubberBandLevel:      RubberBandVeryStrong,
		},
		{
			Name:                 "Normal",
			SpeedMultiplier:      0.95,
			MistakeFrequency:     0.35,
			WreckFrequency:       0.1,
			AggressionBase:       0.5,
			ConsistencyFactor:    0.75,
			BrakingSkill:         0.7,
			CorneringSkill:       0.7,
			RacingLineOptimality: 0.75,
			DraftingAwareness:    0.75,
			RubberBandLevel:      RubberBandModerate,
		},
		{
			Name:                 "Hard",
			SpeedMultiplier:      1.0,
			MistakeFrequency:     0.25,
			WreckFrequency:       0.05,
			AggressionBase:       0.65,
			ConsistencyFactor:    0.85,
			BrakingSkill:         0.8,
			CorneringSkill:       0.8,
			RacingLineOptimality: 0.85,
			DraftingAwareness:    0.85,
			RubberBandLevel:      RubberBandLight,
		},
		{
			Name:                 "Expert",
			SpeedMultiplier:      1.05,
			MistakeFrequency:     0.15,
			WreckFrequency:       0.02,
			AggressionBase:       0.75,
			ConsistencyFactor:    0.95,
			BrakingSkill:         0.9,
			CorneringSkill:       0.9,
			RacingLineOptimality: 0.95,
			DraftingAwareness:    0.9,
			RubberBandLevel:      RubberBandVeryLight,
		},
		{
			Name:                 "Legendary",
			SpeedMultiplier:      1.1,
			MistakeFrequency:     0.0,
			WreckFrequency:       0.0,
			AggressionBase:       0.85,
			ConsistencyFactor:    1.0,
			BrakingSkill:         1.0,
			CorneringSkill:       1.0,
			RacingLineOptimality: 1.0,
			DraftingAwareness:    1.0,
			RubberBandLevel:      RubberBandNone,
		},
	}
}

func DifficultyPreset(level int) AIDifficultyConfig {
	presets := DifficultyPresets()

	if level < 0 {
		level = 0
	}

	if level > len(presets)-1 {
		level = len(presets) - 1
	}

	return presets[level]
}

func DefaultAIDifficultyConfig() AIDifficultyConfig {
	return DifficultyPreset(PresetNormal)
}

type DirectorConfig struct {
	Style      DirectorStyle      `json:"style" yaml:"style"`
	RubberBand RubberBandConfig   `json:"rubber_band" yaml:"rubber_band"`
	Drama      DramaConfig        `json:"drama" yaml:"drama"`
	Pacing     PacingConfig       `json:"pacing" yaml:"pacing"`
	Difficulty AIDifficultyConfig `json:"difficulty" yaml:"difficulty"`
}

func DefaultDirectorConfig() DirectorConfig {
	return DirectorConfig{
		Style:      StyleBalanced,
		RubberBand: DefaultRubberBandConfig(),
		Drama:      DefaultDramaConfig(),
		Pacing:     DefaultPacingConfig(),
		Difficulty: DefaultAIDifficultyConfig(),
	}
}

func (c DirectorConfig) String() string {
	return fmt.Sprintf("Style: %s, Rubber Band: %s, Difficulty: %s", c.Style, c.RubberBand.Level, c.Difficulty.Name)
}
