package director

import (
	"math/rand"

	"github.com/google/uuid"
)

// RacerRegistry owns the racer table. Telemetry may race ahead of
// registration, so every setter is a silent no-op for unknown ids.
type RacerRegistry struct {
	state  *RaceState
	plugin Plugin
	logger Logger

	drama *DramaManager
	phase *PhaseManager

	// onRaceComplete runs once no racer remains active and unfinished.
	onRaceComplete func()
}

func NewRacerRegistry(state *RaceState, drama *DramaManager, phase *PhaseManager, plugin Plugin, logger Logger) *RacerRegistry {
	return &RacerRegistry{
		state:  state,
		drama:  drama,
		phase:  phase,
		plugin: plugin,
		logger: logger,
	}
}

func (rr *RacerRegistry) RegisterRacer(name string, isPlayer bool, startPosition int) RacerID {
	id := RacerID(uuid.New().String())

	racer := &Racer{
		ID:               id,
		Name:             name,
		IsPlayer:         isPlayer,
		IsActive:         true,
		StartingPosition: startPosition,
		CurrentPosition:  startPosition,
		BestPosition:     startPosition,
		WorstPosition:    startPosition,
		CurrentLap:       1,
		MaxSpeed:         200,
		SkillRating:      0.5,
		AggressionLevel:  0.5,
		PerformanceLevel: 1.0,
		SpeedModifier:    1.0,
		HandlingModifier: 1.0,
		DistanceToBehind: distanceUnknown,
	}

	if !isPlayer {
		racer.SkillRating = (0.3 + rand.Float64()*0.6) * rr.state.difficulty.RacingLineOptimality
		racer.AggressionLevel = 0.2 + rand.Float64()*0.6
		racer.PerformanceLevel = rr.state.difficulty.SpeedMultiplier
	}

	rr.state.racers[id] = racer

	if isPlayer {
		rr.state.playerID = id
	}

	rr.state.stats.TotalRacers++
	rr.state.stats.ActiveRacers++

	rr.logger.Debugf("Registered racer: %s (P%d, player: %t)", name, startPosition, isPlayer)

	return id
}

func (rr *RacerRegistry) UnregisterRacer(id RacerID) {
	racer, ok := rr.state.racer(id)

	if !ok {
		return
	}

	if racer.racing() {
		rr.state.stats.ActiveRacers--
	}

	rr.state.stats.TotalRacers--

	delete(rr.state.racers, id)

	if id == rr.state.playerID {
		rr.state.playerID = NoRacer
	}

	if id == rr.state.leaderID {
		rr.state.leaderID = NoRacer
	}
}

func (rr *RacerRegistry) UpdateRacerState(id RacerID, position int, speed, progress float64) {
	racer, ok := rr.state.racer(id)

	if !ok {
		return
	}

	oldPosition := racer.CurrentPosition

	racer.CurrentPosition = position
	racer.CurrentSpeed = speed
	racer.LapProgress = progress

	// a wrecked racer sending telemetry again has recovered
	if !racer.IsActive && !racer.HasFinished {
		racer.IsActive = true
		rr.state.stats.ActiveRacers++
	}

	if speed > racer.MaxSpeed {
		racer.MaxSpeed = speed
	}

	if oldPosition == position {
		return
	}

	racer.PositionChanges++
	rr.state.stats.TotalPositionChanges++

	if position < racer.BestPosition {
		racer.BestPosition = position
	}

	if position > racer.WorstPosition {
		racer.WorstPosition = position
	}

	if position == 1 && oldPosition != 1 {
		oldLeader := rr.state.leaderID
		rr.state.leaderID = id
		rr.state.leadChanges++
		rr.state.stats.TotalLeadChanges++

		if err := rr.plugin.OnLeadChange(*racer, rr.state.leadChanges); err != nil {
			rr.logger.WithError(err).Errorf("Plugin OnLeadChange errored")
		}

		rr.drama.Trigger(MomentLeadChange, id, oldLeader)
	}

	if err := rr.plugin.OnPositionChange(*racer, position); err != nil {
		rr.logger.WithError(err).Errorf("Plugin OnPositionChange errored")
	}
}

func (rr *RacerRegistry) SetRacerLap(id RacerID, lap int) {
	racer, ok := rr.state.racer(id)

	if !ok {
		return
	}

	racer.CurrentLap = lap

	if lap >= rr.state.totalLaps && rr.state.anyRacerOnFinalLap() {
		rr.phase.onFinalLapReached()
	}
}

func (rr *RacerRegistry) SetRacerFinished(id RacerID, finishTime float64) {
	racer, ok := rr.state.racer(id)

	if !ok || racer.HasFinished {
		return
	}

	racer.HasFinished = true
	racer.IsActive = false
	racer.FinishTime = finishTime

	rr.state.finishOrder = append(rr.state.finishOrder, id)
	rr.state.stats.FinishedRacers++
	rr.state.stats.ActiveRacers--

	finishPosition := len(rr.state.finishOrder)

	rr.logger.Infof("%s finished in P%d (%.3fs)", racer.Name, finishPosition, finishTime)

	if err := rr.plugin.OnRacerFinished(*racer, finishPosition); err != nil {
		rr.logger.WithError(err).Errorf("Plugin OnRacerFinished errored")
	}

	if finishPosition >= 2 {
		previous, ok := rr.state.racer(rr.state.finishOrder[finishPosition-2])

		if ok {
			gap := finishTime - previous.FinishTime

			if gap < rr.state.stats.ClosestGap {
				rr.state.stats.ClosestGap = gap
			}

			if gap < rr.state.drama.PhotoFinishWindow {
				rr.drama.Trigger(MomentPhotoFinish, id, previous.ID)
			}
		}
	}

	for _, other := range rr.state.racers {
		if other.racing() {
			return
		}
	}

	if rr.onRaceComplete != nil {
		rr.onRaceComplete()
	}
}

func (rr *RacerRegistry) SetRacerWrecked(id RacerID) {
	racer, ok := rr.state.racer(id)

	if !ok || !racer.racing() {
		return
	}

	racer.IsActive = false
	racer.TimesWrecked++

	rr.state.stats.WreckedRacers++
	rr.state.stats.TotalWrecks++
	rr.state.stats.ActiveRacers--
}

func (rr *RacerRegistry) SetRacerAggression(id RacerID, aggression float64) {
	racer, ok := rr.state.racer(id)

	if !ok {
		return
	}

	racer.AggressionLevel = clamp(aggression, 0, 1)
}

func (rr *RacerRegistry) DesignateRival(id RacerID, isRival bool) {
	racer, ok := rr.state.racer(id)

	if !ok {
		return
	}

	racer.IsRival = isRival

	if isRival && racer.AggressionLevel < 0.7 {
		racer.AggressionLevel = 0.7
	}
}

func (rr *RacerRegistry) RecordTakedown(attackerID, victimID RacerID) {
	if attacker, ok := rr.state.racer(attackerID); ok {
		attacker.Takedowns++
	}

	if victim, ok := rr.state.racer(victimID); ok {
		victim.TimesWrecked++
	}

	rr.state.stats.TotalTakedowns++
}
