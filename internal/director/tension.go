package director

type RaceTension int

const (
	TensionCalm RaceTension = iota
	TensionMild
	TensionModerate
	TensionIntense
	TensionExtreme
)

func (t RaceTension) String() string {
	switch t {
	case TensionCalm:
		return "Calm"
	case TensionMild:
		return "Mild"
	case TensionModerate:
		return "Moderate"
	case TensionIntense:
		return "Intense"
	case TensionExtreme:
		return "Extreme"
	default:
		return "Unknown"
	}
}

func tensionLevelForScore(score float64) RaceTension {
	switch {
	case score < 0.2:
		return TensionCalm
	case score < 0.4:
		return TensionMild
	case score < 0.6:
		return TensionModerate
	case score < 0.8:
		return TensionIntense
	default:
		return TensionExtreme
	}
}

// TensionMeter folds gap closeness, lead changes, race phase and player
// context into a single smoothed 0..1 score.
type TensionMeter struct {
	state  *RaceState
	plugin Plugin
	logger Logger
}

func NewTensionMeter(state *RaceState, plugin Plugin, logger Logger) *TensionMeter {
	return &TensionMeter{
		state:  state,
		plugin: plugin,
		logger: logger,
	}
}

func (tm *TensionMeter) Update(deltaTime float64) {
	target := tm.targetScore()

	tm.state.tensionScore = interpTo(tm.state.tensionScore, target, deltaTime, tm.state.drama.TensionBuildupRate*10)

	tm.updateLevel()
}

func (tm *TensionMeter) targetScore() float64 {
	state := tm.state

	var target float64

	threshold := state.drama.closeRaceThreshold()

	if state.closestGapSeconds < threshold {
		target += (threshold - state.closestGapSeconds) / threshold * 0.4
	}

	leadChangeFactor := float64(state.leadChanges) / 10.0

	if leadChangeFactor > 1 {
		leadChangeFactor = 1
	}

	target += leadChangeFactor * 0.2

	switch state.currentPhase {
	case PhaseLateRace:
		target += 0.2
	case PhaseFinalLap:
		target += 0.3
	case PhasePhotoFinish:
		target += 0.5
	}

	if player, ok := state.player(); ok {
		if player.CurrentPosition <= 3 {
			target += 0.2
		}

		if player.StartingPosition-player.CurrentPosition >= state.drama.ComebackThreshold {
			target += 0.15
		}
	}

	return clamp(target, 0, 1)
}

// Bump nudges the smoothed score directly, bypassing the target. Used for
// one-off excitement spikes such as near misses.
func (tm *TensionMeter) Bump(amount float64) {
	tm.state.tensionScore = clamp(tm.state.tensionScore+amount, 0, 1)

	tm.updateLevel()
}

func (tm *TensionMeter) updateLevel() {
	level := tensionLevelForScore(tm.state.tensionScore)

	if level == tm.state.tensionLevel {
		return
	}

	tm.state.tensionLevel = level

	tm.logger.Debugf("Race tension is now: %s (%.2f)", level, tm.state.tensionScore)

	if err := tm.plugin.OnTensionChange(level, tm.state.tensionScore); err != nil {
		tm.logger.WithError(err).Errorf("Plugin OnTensionChange errored")
	}
}
