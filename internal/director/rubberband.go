package director

import "math"

// RubberBandEngine narrows the finishing-time spread without directly
// moving any vehicle: it only publishes bounded advisory modifiers, which
// the physics layer polls.
type RubberBandEngine struct {
	state  *RaceState
	plugin Plugin
	logger Logger
}

func NewRubberBandEngine(state *RaceState, plugin Plugin, logger Logger) *RubberBandEngine {
	return &RubberBandEngine{
		state:  state,
		plugin: plugin,
		logger: logger,
	}
}

func (rb *RubberBandEngine) Update(deltaTime float64) {
	config := rb.state.rubberBand

	if config.Level == RubberBandNone {
		return
	}

	numRacers := len(rb.state.racers)

	for _, racer := range rb.state.racers {
		if !racer.racing() {
			continue
		}

		if racer.IsPlayer && !config.AffectsPlayer {
			continue
		}

		if !racer.IsPlayer && !config.AffectsAI {
			continue
		}

		target := rb.targetModifier(racer, numRacers)

		racer.SpeedModifier = interpTo(racer.SpeedModifier, target, deltaTime, 1.0/config.rampUpTime())

		if racer.CurrentPosition > numRacers/2 {
			racer.HandlingModifier = config.HandlingBoost
		} else {
			racer.HandlingModifier = 1.0
		}

		rb.updateAdjustment(racer, target)
	}
}

// targetModifier computes the unsmoothed speed modifier for one racer. The
// result is always inside [MaxSpeedReduction, MaxSpeedBoost].
func (rb *RubberBandEngine) targetModifier(racer *Racer, numRacers int) float64 {
	config := rb.state.rubberBand

	modifier := 1.0

	levelMultiplier := config.Level.Multiplier()

	if levelMultiplier == 0 {
		return 1.0
	}

	var factor float64

	if config.ScaleWithPosition {
		factor = positionFactor(racer.CurrentPosition, numRacers)
	}

	maxBoost := config.maxBoost()
	maxReduction := config.maxReduction()

	if factor < 0 {
		boost := math.Abs(factor) * (maxBoost - 1) * levelMultiplier
		modifier = 1 + clamp(boost, 0, maxBoost-1)
	} else if factor > 0.5 {
		reduction := factor * (1 - maxReduction) * levelMultiplier
		modifier = 1 - clamp(reduction, 0, 1-maxReduction)
	}

	// escalate the boost once the racer has dropped beyond the activation
	// distance, capped at +50%
	activation := config.activationDistance()

	if racer.DistanceToLeader > activation && modifier > 1 {
		escalation := clamp((racer.DistanceToLeader-activation)/activation, 0, 1)
		modifier = 1 + (modifier-1)*(1+escalation*0.5)
	}

	if rb.state.currentPhase == PhaseFinalLap || rb.state.currentPhase == PhasePhotoFinish {
		if modifier > 1 {
			modifier = 1 + (modifier-1)*rb.state.pacing.FinalLapIntensity
		}
	}

	return clamp(modifier, maxReduction, maxBoost)
}

func (rb *RubberBandEngine) updateAdjustment(racer *Racer, target float64) {
	var adjustment PositionAdjustment

	switch {
	case target > 1.005:
		adjustment = AdjustmentSpeedBoost
	case target < 0.995:
		adjustment = AdjustmentSpeedReduction
	case racer.HandlingModifier > 1:
		adjustment = AdjustmentBetterHandling
	default:
		adjustment = AdjustmentNone
	}

	if adjustment == racer.CurrentAdjustment {
		return
	}

	racer.CurrentAdjustment = adjustment

	if adjustment == AdjustmentNone {
		return
	}

	if err := rb.plugin.OnRubberBandApplied(*racer, racer.SpeedModifier); err != nil {
		rb.logger.WithError(err).Errorf("Plugin OnRubberBandApplied errored")
	}
}

// NitroRechargeModifier is a simple unsmoothed step: the trailing half of
// the field recharges nitro faster.
func (rb *RubberBandEngine) NitroRechargeModifier(racer *Racer) float64 {
	if rb.state.rubberBand.Level == RubberBandNone {
		return 1.0
	}

	if racer.CurrentPosition > len(rb.state.racers)/2 {
		return rb.state.rubberBand.NitroRechargeBonus
	}

	return 1.0
}
