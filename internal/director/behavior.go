package director

import "math/rand"

// BehaviorClassifier maps each AI racer to a recommended behaviour state
// once per tick. The result is a hint for the steering layer, never an
// instruction.
type BehaviorClassifier struct {
	state  *RaceState
	plugin Plugin
	logger Logger
}

func NewBehaviorClassifier(state *RaceState, plugin Plugin, logger Logger) *BehaviorClassifier {
	return &BehaviorClassifier{
		state:  state,
		plugin: plugin,
		logger: logger,
	}
}

func (bc *BehaviorClassifier) Update() {
	for _, racer := range bc.state.racers {
		if racer.IsPlayer || !racer.racing() {
			continue
		}

		racer.BehaviorState = bc.classify(racer)
	}
}

// classify applies the priority-ordered behaviour rules. A mistake always
// transitions to recovery on the next tick, so mistakes are never a steady
// state.
func (bc *BehaviorClassifier) classify(racer *Racer) AIBehaviorState {
	if racer.BehaviorState == BehaviorMistake {
		return BehaviorRecovery
	}

	state := bc.state
	closeThreshold := state.drama.closeRaceThreshold()

	if racer.CurrentPosition == 1 {
		if racer.gapToBehindSeconds() < closeThreshold {
			if racer.AggressionLevel > 0.6 {
				return BehaviorBlocking
			}

			return BehaviorDefensive
		}

		return BehaviorNormal
	}

	if racer.gapToAheadSeconds() < closeThreshold {
		if racer.AggressionLevel > 0.5 {
			return BehaviorAggressive
		}

		return BehaviorHunting
	}

	if racer.DistanceToLeader > state.rubberBand.activationDistance() {
		return BehaviorCatchUp
	}

	if racer.CurrentPosition <= 3 && state.currentPhase >= PhaseLateRace {
		if racer.AggressionLevel > 0.7 {
			return BehaviorAggressive
		}

		return BehaviorHunting
	}

	if racer.IsRival {
		return BehaviorAggressive
	}

	return BehaviorNormal
}

// RequestMistake rolls against the difficulty's mistake frequency scaled by
// severity. On success the racer enters the Mistake state and takes a
// proportional speed penalty which recovers through the normal rubber-band
// smoothing. Reports whether the mistake triggered.
func (bc *BehaviorClassifier) RequestMistake(id RacerID, severity float64) bool {
	racer, ok := bc.state.racer(id)

	if !ok || racer.IsPlayer || !racer.racing() {
		return false
	}

	severity = clamp(severity, 0, 1)

	chance := bc.state.difficulty.MistakeFrequency * severity

	if chance <= 0 || rand.Float64() >= chance {
		return false
	}

	racer.BehaviorState = BehaviorMistake

	floor := bc.state.rubberBand.maxReduction()
	racer.SpeedModifier = clamp(racer.SpeedModifier*(1-0.1*severity), floor, bc.state.rubberBand.maxBoost())

	bc.logger.Debugf("%s made a mistake (severity %.2f)", racer.Name, severity)

	return true
}
