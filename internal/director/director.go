package director

import (
	"sort"

	"github.com/pkg/errors"
)

// Director is the race pacing and drama engine. It ingests per-tick racer
// telemetry and produces bounded rubber-band modifiers, a smoothed tension
// signal, AI behaviour hints and cooldown-gated dramatic moments.
//
// A Director is an explicit owned instance: construct one per race session
// with New and drive it from a single goroutine. It has no internal threads,
// timers or I/O; UpdateDirector runs once per simulation step on the
// caller's thread and consumers poll the modifiers and hints each tick.
type Director struct {
	state  *RaceState
	plugin Plugin
	logger Logger

	registry   *RacerRegistry
	gaps       *GapCalculator
	tension    *TensionMeter
	rubberBand *RubberBandEngine
	phase      *PhaseManager
	behavior   *BehaviorClassifier
	drama      *DramaManager
	stats      *StatsTracker
}

// New builds a Director with the given config. A nil plugin is replaced by
// a no-op implementation. InitializeRace must be called before StartRace.
func New(config DirectorConfig, plugin Plugin, logger Logger) (*Director, error) {
	if plugin == nil {
		plugin = nilPlugin{}
	}

	state := newRaceState(config)

	phase := NewPhaseManager(state, plugin, logger)
	drama := NewDramaManager(state, plugin, logger)

	d := &Director{
		state:      state,
		plugin:     plugin,
		logger:     logger,
		phase:      phase,
		drama:      drama,
		registry:   NewRacerRegistry(state, drama, phase, plugin, logger),
		gaps:       NewGapCalculator(state, logger),
		tension:    NewTensionMeter(state, plugin, logger),
		rubberBand: NewRubberBandEngine(state, plugin, logger),
		behavior:   NewBehaviorClassifier(state, plugin, logger),
		stats:      NewStatsTracker(state, logger),
	}

	d.registry.onRaceComplete = d.EndRace

	if err := plugin.Init(d, logger); err != nil {
		return nil, errors.Wrap(err, "could not initialise plugin")
	}

	return d, nil
}

// InitializeRace sets the race geometry and resets all per-race state. It
// must precede StartRace; this is a caller contract, not a runtime check.
func (d *Director) InitializeRace(totalLaps int, trackLength float64) {
	if totalLaps < 1 {
		totalLaps = 1
	}

	if trackLength < 100 {
		trackLength = 100
	}

	d.ResetRace()

	d.state.totalLaps = totalLaps
	d.state.trackLength = trackLength

	d.logger.Infof("Race initialised: %d laps, %.0fm track", totalLaps, trackLength)
}

func (d *Director) StartRace() {
	d.state.raceActive = true
	d.state.raceTime = 0

	for _, racer := range d.state.racers {
		racer.IsActive = true
		racer.CurrentLap = 1
		racer.LapProgress = 0
	}

	d.state.stats.ActiveRacers = len(d.state.racers)

	d.phase.advanceTo(PhaseStart)

	d.logger.Infof("Race started with %d racers", len(d.state.racers))

	if err := d.plugin.OnRaceStart(RaceInfo{
		TotalLaps:   d.state.totalLaps,
		TrackLength: d.state.trackLength,
		NumRacers:   len(d.state.racers),
	}); err != nil {
		d.logger.WithError(err).Errorf("Plugin OnRaceStart errored")
	}
}

func (d *Director) EndRace() {
	if !d.state.raceActive {
		return
	}

	d.state.raceActive = false

	d.phase.advanceTo(PhaseFinished)

	d.stats.Update(0)
	d.stats.Finalize()

	d.logger.Infof("Race finished: %d lead changes, %.2f tension", d.state.leadChanges, d.state.tensionScore)

	if err := d.plugin.OnRaceFinished(d.state.stats); err != nil {
		d.logger.WithError(err).Errorf("Plugin OnRaceFinished errored")
	}
}

// ResetRace destroys all racers and per-race state. Configuration survives.
func (d *Director) ResetRace() {
	state := d.state

	state.racers = make(map[RacerID]*Racer)
	state.finishOrder = nil

	state.playerID = NoRacer
	state.leaderID = NoRacer

	state.raceActive = false
	state.raceTime = 0

	state.currentPhase = PhasePreRace
	state.tensionScore = 0
	state.tensionLevel = TensionCalm

	state.leadChanges = 0
	state.closestGap = distanceUnknown
	state.closestGapSeconds = distanceUnknown

	state.stats = newRaceStatistics()

	d.drama.reset()
	d.stats.reset()
}

func (d *Director) IsRaceActive() bool {
	return d.state.raceActive
}

// UpdateDirector runs one control tick. deltaTime is wall-clock seconds
// since the previous tick; all smoothing scales by it, so convergence is
// frame-rate independent and a zero delta moves nothing.
func (d *Director) UpdateDirector(deltaTime float64) {
	if !d.state.raceActive {
		return
	}

	d.state.raceTime += deltaTime

	d.phase.Update()
	d.gaps.Update()
	d.tension.Update(deltaTime)
	d.rubberBand.Update(deltaTime)
	d.behavior.Update()
	d.drama.Scan()
	d.stats.Update(deltaTime)
}

// Racer lifecycle and telemetry, delegated to the registry.

func (d *Director) RegisterRacer(name string, isPlayer bool, startPosition int) RacerID {
	return d.registry.RegisterRacer(name, isPlayer, startPosition)
}

func (d *Director) UnregisterRacer(id RacerID) {
	d.registry.UnregisterRacer(id)
}

func (d *Director) UpdateRacerState(id RacerID, position int, speed, progress float64) {
	d.registry.UpdateRacerState(id, position, speed, progress)
}

func (d *Director) SetRacerLap(id RacerID, lap int) {
	d.registry.SetRacerLap(id, lap)
}

func (d *Director) SetRacerFinished(id RacerID, finishTime float64) {
	d.registry.SetRacerFinished(id, finishTime)
}

func (d *Director) SetRacerWrecked(id RacerID) {
	d.registry.SetRacerWrecked(id)
}

func (d *Director) SetRacerAggression(id RacerID, aggression float64) {
	d.registry.SetRacerAggression(id, aggression)
}

func (d *Director) DesignateRival(id RacerID, isRival bool) {
	d.registry.DesignateRival(id, isRival)
}

func (d *Director) RecordTakedown(attackerID, victimID RacerID) {
	d.registry.RecordTakedown(attackerID, victimID)
}

// RecordNearMiss reports an avoided collision between two racers. It bumps
// tension and may trigger a wreck-avoidance moment when the gap was tight.
func (d *Director) RecordNearMiss(primary, secondary RacerID, gapSeconds float64) {
	d.tension.Bump(0.05)
	d.drama.OnNearMiss(primary, secondary, gapSeconds)
}

// RecordPerfectLap reports an externally-timed lap. A new session-fastest
// lap becomes a dramatic moment.
func (d *Director) RecordPerfectLap(id RacerID, lapTime float64) {
	if lapTime < d.state.stats.FastestLap {
		d.drama.Trigger(MomentPerfectLap, id, NoRacer)
	}

	d.stats.RecordLap(lapTime)
}

func (d *Director) RequestMistake(id RacerID, severity float64) bool {
	return d.behavior.RequestMistake(id, severity)
}

// Modifier getters, polled by the vehicle layer. Unknown ids yield the
// neutral modifier.

func (d *Director) GetSpeedModifier(id RacerID) float64 {
	if racer, ok := d.state.racer(id); ok {
		return racer.SpeedModifier
	}

	return 1.0
}

func (d *Director) GetHandlingModifier(id RacerID) float64 {
	if racer, ok := d.state.racer(id); ok {
		return racer.HandlingModifier
	}

	return 1.0
}

func (d *Director) GetNitroRechargeModifier(id RacerID) float64 {
	if racer, ok := d.state.racer(id); ok {
		return d.rubberBand.NitroRechargeModifier(racer)
	}

	return 1.0
}

func (d *Director) GetRecommendedBehavior(id RacerID) AIBehaviorState {
	if racer, ok := d.state.racer(id); ok {
		return racer.BehaviorState
	}

	return BehaviorNormal
}

// Snapshots.

func (d *Director) GetRacerState(id RacerID) (Racer, error) {
	racer, ok := d.state.racer(id)

	if !ok {
		return Racer{}, ErrRacerNotFound
	}

	return *racer, nil
}

func (d *Director) GetAllRacerStates() []Racer {
	racers := make([]Racer, 0, len(d.state.racers))

	for _, racer := range d.state.racers {
		racers = append(racers, *racer)
	}

	sort.Slice(racers, func(i, j int) bool {
		return racers[i].CurrentPosition < racers[j].CurrentPosition
	})

	return racers
}

func (d *Director) GetPlayerState() (Racer, error) {
	return d.GetRacerState(d.state.playerID)
}

func (d *Director) GetLeaderState() (Racer, error) {
	for _, racer := range d.state.racers {
		if racer.CurrentPosition == 1 {
			return *racer, nil
		}
	}

	return Racer{}, ErrRacerNotFound
}

func (d *Director) GetDirectorState() DirectorState {
	state := d.state

	directorState := DirectorState{
		Phase:         state.currentPhase,
		TensionScore:  state.tensionScore,
		TensionLevel:  state.tensionLevel,
		CurrentMoment: d.drama.CurrentMoment(),
		RaceProgress:  state.raceProgress(),
		RaceTime:      state.raceTime,
		LeadChanges:   state.leadChanges,
		LeaderID:      state.leaderID,
		PlayerID:      state.playerID,
		ClosestGap:    state.closestGapSeconds,
		ActiveRacers:  state.stats.ActiveRacers,
	}

	if player, ok := state.player(); ok {
		expected := float64(player.StartingPosition+len(state.racers)) / 2.0

		position := player.CurrentPosition

		if position < 1 {
			position = 1
		}

		directorState.PlayerPerformance = expected / float64(position)
	}

	directorState.IsCloseRace = state.closestGapSeconds < state.drama.CloseRaceThreshold
	directorState.PhotoFinishPossible = state.currentPhase >= PhaseFinalLap && state.currentPhase < PhaseFinished && directorState.IsCloseRace

	return directorState
}

func (d *Director) GetCurrentPhase() RacePhase {
	return d.state.currentPhase
}

func (d *Director) GetTensionScore() float64 {
	return d.state.tensionScore
}

func (d *Director) GetTensionLevel() RaceTension {
	return d.state.tensionLevel
}

func (d *Director) GetRaceProgress() float64 {
	return d.state.raceProgress()
}

func (d *Director) GetLeadChanges() int {
	return d.state.leadChanges
}

func (d *Director) GetFinishOrder() []RacerID {
	order := make([]RacerID, len(d.state.finishOrder))
	copy(order, d.state.finishOrder)

	return order
}

func (d *Director) GetDramaticEvents() []RaceEvent {
	return d.drama.Events()
}

func (d *Director) GetCurrentMoment() DramaticMoment {
	return d.drama.CurrentMoment()
}

func (d *Director) GetRaceStatistics() RaceStatistics {
	return d.state.stats
}

// Configuration. Tunables are immutable per race by convention; setters
// exist for the session owner to reconfigure between races.

func (d *Director) SetDirectorStyle(style DirectorStyle) {
	d.state.style = style

	d.applyDirectorStyle()

	d.logger.Infof("Director style set to: %s", style)
}

func (d *Director) GetDirectorStyle() DirectorStyle {
	return d.state.style
}

func (d *Director) SetRubberBandConfig(config RubberBandConfig) {
	d.state.rubberBand = config
}

func (d *Director) GetRubberBandConfig() RubberBandConfig {
	return d.state.rubberBand
}

func (d *Director) SetDramaConfig(config DramaConfig) {
	d.state.drama = config
}

func (d *Director) GetDramaConfig() DramaConfig {
	return d.state.drama
}

func (d *Director) SetPacingConfig(config PacingConfig) {
	d.state.pacing = config
}

func (d *Director) GetPacingConfig() PacingConfig {
	return d.state.pacing
}

func (d *Director) SetAIDifficulty(config AIDifficultyConfig) {
	d.state.difficulty = config

	for _, racer := range d.state.racers {
		if !racer.IsPlayer {
			racer.PerformanceLevel = config.SpeedMultiplier
		}
	}
}

func (d *Director) GetAIDifficulty() AIDifficultyConfig {
	return d.state.difficulty
}

// SetDifficultyPreset applies one of the built-in tiers. The rubber-band
// config is reset to defaults before the preset's level is applied.
func (d *Director) SetDifficultyPreset(level int) {
	preset := DifficultyPreset(level)

	d.SetAIDifficulty(preset)

	rubberBand := DefaultRubberBandConfig()
	rubberBand.Level = preset.RubberBandLevel

	d.state.rubberBand = rubberBand

	d.logger.Infof("Difficulty preset applied: %s (rubber band: %s)", preset.Name, preset.RubberBandLevel)
}

func (d *Director) applyDirectorStyle() {
	switch d.state.style {
	case StyleAuthentic:
		d.state.rubberBand.Level = RubberBandVeryLight
		d.state.drama.EnableDramaticMoments = false
	case StyleCompetitive:
		d.state.rubberBand.Level = RubberBandModerate
		d.state.drama.EnableDramaticMoments = true
	case StyleDramatic:
		d.state.rubberBand.Level = RubberBandStrong
		d.state.drama.EnableDramaticMoments = true
		d.state.drama.EnableRivalries = true
		d.state.drama.EnableUnderdogStory = true
	case StyleArcade:
		d.state.rubberBand.Level = RubberBandVeryStrong
		d.state.drama.EnableDramaticMoments = true
	case StyleSimulation:
		d.state.rubberBand.Level = RubberBandNone
		d.state.drama.EnableDramaticMoments = false
	default:
		d.state.rubberBand.Level = RubberBandModerate
		d.state.drama.EnableDramaticMoments = true
	}
}
