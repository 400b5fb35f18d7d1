package director

import "fmt"

// DramaManager owns the append-only dramatic event log and the cooldown
// gate. The per-tick scan is gated by MinDramaCooldown; event-driven
// triggers (lead change, photo finish, perfect lap, wreck avoidance) bypass
// the gate but still stamp it.
type DramaManager struct {
	state  *RaceState
	plugin Plugin
	logger Logger

	events        []RaceEvent
	currentMoment DramaticMoment
	lastDramaTime float64
}

func NewDramaManager(state *RaceState, plugin Plugin, logger Logger) *DramaManager {
	return &DramaManager{
		state:  state,
		plugin: plugin,
		logger: logger,
	}
}

func (dm *DramaManager) Scan() {
	state := dm.state

	if !state.drama.EnableDramaticMoments {
		return
	}

	if state.raceTime-dm.lastDramaTime < state.drama.MinDramaCooldown {
		return
	}

	if player, ok := state.player(); ok {
		positionsGained := player.StartingPosition - player.CurrentPosition

		if state.drama.EnableComebackDrama && positionsGained >= state.drama.ComebackThreshold && player.CurrentPosition <= 3 {
			dm.Trigger(MomentComeback, player.ID, NoRacer)
			return
		}

		if state.drama.EnableUnderdogStory && player.StartingPosition >= len(state.racers)-1 && player.CurrentPosition == 1 {
			dm.Trigger(MomentUnderdog, player.ID, NoRacer)
			return
		}

		if player.CurrentPosition == 1 &&
			player.DistanceToBehind > state.rubberBand.activationDistance()*2 &&
			player.DistanceToBehind < distanceUnknown &&
			state.currentPhase == PhaseLateRace {
			dm.Trigger(MomentDominance, player.ID, NoRacer)
			return
		}
	}

	if state.closestGapSeconds < state.drama.CloseRaceThreshold &&
		state.currentPhase >= PhaseMidRace &&
		dm.currentMoment != MomentCloseRace {
		dm.Trigger(MomentCloseRace, state.leaderID, NoRacer)
		return
	}

	if state.drama.EnableRivalries {
		if player, ok := state.player(); ok {
			for _, racer := range state.racers {
				if racer.IsRival && racer.racing() && abs(racer.CurrentPosition-player.CurrentPosition) <= 1 {
					dm.Trigger(MomentRivalry, player.ID, racer.ID)
					return
				}
			}
		}
	}
}

// OnNearMiss bumps an avoided-collision into a dramatic moment when the two
// cars were genuinely close.
func (dm *DramaManager) OnNearMiss(primary, secondary RacerID, gapSeconds float64) {
	if !dm.state.drama.EnableDramaticMoments {
		return
	}

	if gapSeconds < dm.state.drama.closeRaceThreshold()/2 {
		dm.Trigger(MomentWreckAvoidance, primary, secondary)
	}
}

// Trigger appends one immutable RaceEvent and makes it the current moment
// shown to presentation until superseded.
func (dm *DramaManager) Trigger(moment DramaticMoment, primary, secondary RacerID) {
	if !dm.state.drama.EnableDramaticMoments {
		return
	}

	dm.currentMoment = moment
	dm.lastDramaTime = dm.state.raceTime

	event := RaceEvent{
		ID:             newEventID(),
		Moment:         moment,
		Timestamp:      dm.state.raceTime,
		PrimaryRacer:   primary,
		SecondaryRacer: secondary,
		Intensity:      dm.state.tensionScore,
		Description:    moment.String(),
	}

	if racer, ok := dm.state.racer(primary); ok {
		event.Lap = racer.CurrentLap
		event.Description = fmt.Sprintf("%s: %s", moment, racer.Name)
	}

	dm.events = append(dm.events, event)
	dm.state.stats.TotalDramaticMoments++

	dm.logger.Infof("Dramatic moment: %s (lap %d, intensity %.2f)", event.Description, event.Lap, event.Intensity)

	if err := dm.plugin.OnDramaticMoment(event); err != nil {
		dm.logger.WithError(err).Errorf("Plugin OnDramaticMoment errored")
	}
}

func (dm *DramaManager) CurrentMoment() DramaticMoment {
	return dm.currentMoment
}

// Events returns a copy of the event log.
func (dm *DramaManager) Events() []RaceEvent {
	events := make([]RaceEvent, len(dm.events))
	copy(events, dm.events)

	return events
}

func (dm *DramaManager) reset() {
	dm.events = nil
	dm.currentMoment = MomentNone
	dm.lastDramaTime = 0
}

func abs(a int) int {
	if a < 0 {
		return -a
	}

	return a
}
