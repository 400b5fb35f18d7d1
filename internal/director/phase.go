package director

type RacePhase int

const (
	PhasePreRace RacePhase = iota
	PhaseStart
	PhaseEarlyRace
	PhaseMidRace
	PhaseLateRace
	PhaseFinalLap
	PhasePhotoFinish
	PhaseFinished
)

func (p RacePhase) String() string {
	switch p {
	case PhasePreRace:
		return "Pre Race"
	case PhaseStart:
		return "Start"
	case PhaseEarlyRace:
		return "Early Race"
	case PhaseMidRace:
		return "Mid Race"
	case PhaseLateRace:
		return "Late Race"
	case PhaseFinalLap:
		return "Final Lap"
	case PhasePhotoFinish:
		return "Photo Finish"
	case PhaseFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// PhaseManager drives the race through its phases. Transitions only ever
// move forwards; the phase resets to PreRace only via ResetRace.
type PhaseManager struct {
	state  *RaceState
	plugin Plugin
	logger Logger
}

func NewPhaseManager(state *RaceState, plugin Plugin, logger Logger) *PhaseManager {
	return &PhaseManager{
		state:  state,
		plugin: plugin,
		logger: logger,
	}
}

func (pm *PhaseManager) Update() {
	pm.advanceTo(pm.desiredPhase())
}

func (pm *PhaseManager) desiredPhase() RacePhase {
	state := pm.state

	if state.raceTime < state.pacing.StartChaosWindow {
		return PhaseStart
	}

	progress := state.raceProgress()

	switch {
	case progress < state.pacing.EarlyRaceThreshold:
		return PhaseEarlyRace
	case progress < state.pacing.MidRaceThreshold:
		return PhaseMidRace
	case progress < state.pacing.LateRaceThreshold:
		return PhaseLateRace
	}

	if !state.anyRacerOnFinalLap() {
		// past the late-race boundary but nobody has reached the final
		// lap yet, hold
		return PhaseLateRace
	}

	if state.tensionScore > 0.7 && state.closestGapSeconds < state.drama.PhotoFinishWindow*2 {
		return PhasePhotoFinish
	}

	return PhaseFinalLap
}

// onFinalLapReached is the fast path taken by SetRacerLap: the phase flips
// the moment any racer starts the final lap, without waiting for the next
// tick.
func (pm *PhaseManager) onFinalLapReached() {
	pm.advanceTo(PhaseFinalLap)
}

func (pm *PhaseManager) advanceTo(phase RacePhase) {
	if phase <= pm.state.currentPhase {
		return
	}

	pm.state.currentPhase = phase

	pm.logger.Infof("Race phase changed to: %s", phase)

	if err := pm.plugin.OnRacePhaseChange(phase); err != nil {
		pm.logger.WithError(err).Errorf("Plugin OnRacePhaseChange errored")
	}
}
