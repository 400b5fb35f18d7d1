package director

import (
	"sort"
	"testing"
)

func TestRegisterRacerDefaults(t *testing.T) {
	d := newTestDirector(t, DefaultDirectorConfig(), nil)
	d.InitializeRace(3, 5000)

	playerID := d.RegisterRacer("Player", true, 4)
	aiID := d.RegisterRacer("AI", false, 5)

	player, err := d.GetRacerState(playerID)

	if err != nil {
		t.Fatalf("could not fetch player: %s", err)
	}

	if !player.IsPlayer {
		t.Error("player flag not set")
	}

	if player.CurrentPosition != 4 || player.StartingPosition != 4 || player.BestPosition != 4 || player.WorstPosition != 4 {
		t.Errorf("player positions not initialised from grid slot: %+v", player)
	}

	if player.SpeedModifier != 1.0 || player.HandlingModifier != 1.0 {
		t.Error("modifiers must start neutral")
	}

	if player.SkillRating != 0.5 || player.AggressionLevel != 0.5 {
		t.Error("player skill/aggression should be 0.5")
	}

	if player.PerformanceLevel != 1.0 {
		t.Error("player performance should be 1.0")
	}

	if player.CurrentLap != 1 {
		t.Error("racers start on lap 1")
	}

	ai, err := d.GetRacerState(aiID)

	if err != nil {
		t.Fatalf("could not fetch AI: %s", err)
	}

	difficulty := d.GetAIDifficulty()

	if ai.PerformanceLevel != difficulty.SpeedMultiplier {
		t.Errorf("AI performance %f should come from difficulty speed multiplier %f", ai.PerformanceLevel, difficulty.SpeedMultiplier)
	}

	if ai.SkillRating < 0.3*difficulty.RacingLineOptimality || ai.SkillRating > 0.9*difficulty.RacingLineOptimality {
		t.Errorf("AI skill %f outside expected range", ai.SkillRating)
	}

	if ai.AggressionLevel < 0.2 || ai.AggressionLevel > 0.8 {
		t.Errorf("AI aggression %f outside expected range", ai.AggressionLevel)
	}

	stats := d.GetRaceStatistics()

	if stats.TotalRacers != 2 || stats.ActiveRacers != 2 {
		t.Errorf("registration not counted: %+v", stats)
	}
}

func TestUnregisterRoundTrip(t *testing.T) {
	d := newTestDirector(t, DefaultDirectorConfig(), nil)
	d.InitializeRace(3, 5000)

	d.RegisterRacer("A", false, 1)
	countBefore := len(d.GetAllRacerStates())
	statsBefore := d.GetRaceStatistics()

	id := d.RegisterRacer("B", false, 2)
	d.UnregisterRacer(id)

	if len(d.GetAllRacerStates()) != countBefore {
		t.Errorf("racer count not restored: %d != %d", len(d.GetAllRacerStates()), countBefore)
	}

	if _, err := d.GetRacerState(id); err != ErrRacerNotFound {
		t.Error("unregistered racer still resolvable")
	}

	stats := d.GetRaceStatistics()

	if stats.TotalRacers != statsBefore.TotalRacers || stats.ActiveRacers != statsBefore.ActiveRacers {
		t.Errorf("statistics not restored: %+v != %+v", stats, statsBefore)
	}

	if d.GetSpeedModifier(id) != 1.0 {
		t.Error("unregistered racer should read neutral modifiers")
	}
}

func TestUnregisterPlayerClearsPlayerRef(t *testing.T) {
	d := newTestDirector(t, DefaultDirectorConfig(), nil)
	d.InitializeRace(3, 5000)

	playerID := d.RegisterRacer("Player", true, 1)
	d.UnregisterRacer(playerID)

	if _, err := d.GetPlayerState(); err != ErrRacerNotFound {
		t.Error("player state still resolvable after unregister")
	}
}

// Scenario: a player starting P4 in an 8-car grid works its way to P1.
// Exactly one lead change must be recorded.
func TestLeadChangeFiresOncePerDistinctLeader(t *testing.T) {
	plugin := &recordingPlugin{}
	d := newTestDirector(t, DefaultDirectorConfig(), plugin)

	d.InitializeRace(3, 5000)

	// grid of 8: AI in P1-P3, the player P4, AI in P5-P8
	var ids [8]RacerID

	for i := 0; i < 8; i++ {
		if i == 3 {
			ids[i] = d.RegisterRacer("Player", true, 4)
		} else {
			ids[i] = d.RegisterRacer("AI", false, i+1)
		}
	}

	d.StartRace()

	playerID := ids[3]

	// move the player forwards one position at a time, swapping with the
	// car ahead
	for target := 3; target >= 1; target-- {
		displaced := ids[target-1]

		d.UpdateRacerState(displaced, target+1, 50, 0.1)
		d.UpdateRacerState(playerID, target, 50, 0.1)
	}

	if d.GetLeadChanges() != 1 {
		t.Errorf("expected exactly 1 lead change, got %d", d.GetLeadChanges())
	}

	if plugin.leadChanges != 1 {
		t.Errorf("expected exactly 1 OnLeadChange callback, got %d", plugin.leadChanges)
	}

	if got := plugin.countMoment(MomentLeadChange); got != 1 {
		t.Errorf("expected exactly 1 LeadChange event, got %d", got)
	}

	state := d.GetDirectorState()

	if state.LeaderID != playerID {
		t.Error("leader id not updated")
	}

	// repeating the same telemetry must not fire again
	d.UpdateRacerState(playerID, 1, 50, 0.1)

	if d.GetLeadChanges() != 1 {
		t.Error("lead change fired without a position change")
	}
}

func TestPositionsRemainPermutation(t *testing.T) {
	d := newTestDirector(t, DefaultDirectorConfig(), nil)
	ids := startGrid(d, 6, 3, 5000)

	// rotate positions a few times
	for round := 0; round < 5; round++ {
		for i, id := range ids {
			position := ((i + round) % len(ids)) + 1

			d.UpdateRacerState(id, position, 50, 0.1)
		}

		d.UpdateDirector(0.1)

		var positions []int

		for _, racer := range d.GetAllRacerStates() {
			if racer.IsActive && !racer.HasFinished {
				positions = append(positions, racer.CurrentPosition)
			}
		}

		sort.Ints(positions)

		for i, position := range positions {
			if position != i+1 {
				t.Fatalf("positions are not a permutation of 1..N: %v", positions)
			}
		}
	}
}

func TestBestAndWorstPositionTracking(t *testing.T) {
	d := newTestDirector(t, DefaultDirectorConfig(), nil)
	ids := startGrid(d, 6, 3, 5000)

	id := ids[2] // starts P3

	d.UpdateRacerState(id, 5, 50, 0.1)
	d.UpdateRacerState(id, 2, 50, 0.2)

	racer, _ := d.GetRacerState(id)

	if racer.BestPosition != 2 {
		t.Errorf("expected best position 2, got %d", racer.BestPosition)
	}

	if racer.WorstPosition != 5 {
		t.Errorf("expected worst position 5, got %d", racer.WorstPosition)
	}

	if racer.PositionChanges != 2 {
		t.Errorf("expected 2 position changes, got %d", racer.PositionChanges)
	}
}

func TestFinishOrderAppendOnlyAndUnique(t *testing.T) {
	d := newTestDirector(t, DefaultDirectorConfig(), nil)
	ids := startGrid(d, 3, 3, 5000)

	d.SetRacerFinished(ids[1], 100)
	d.SetRacerFinished(ids[1], 105) // repeated finish must be ignored
	d.SetRacerFinished(ids[0], 101)

	order := d.GetFinishOrder()

	if len(order) != 2 {
		t.Fatalf("expected 2 finishers, got %d", len(order))
	}

	if order[0] != ids[1] || order[1] != ids[0] {
		t.Error("finish order wrong")
	}

	racer, _ := d.GetRacerState(ids[1])

	if !compareFloatsTolerance(racer.FinishTime, 100) {
		t.Errorf("repeated finish overwrote finish time: %f", racer.FinishTime)
	}

	if d.IsRaceActive() != true {
		t.Error("race ended with a racer still running")
	}

	d.SetRacerFinished(ids[2], 110)

	if d.IsRaceActive() {
		t.Error("race should end once every racer has finished")
	}
}

func TestWreckedRacerExcludedUntilRecovery(t *testing.T) {
	d := newTestDirector(t, DefaultDirectorConfig(), nil)
	ids := startGrid(d, 3, 3, 5000)

	d.SetRacerWrecked(ids[2])

	stats := d.GetRaceStatistics()

	if stats.ActiveRacers != 2 || stats.WreckedRacers != 1 || stats.TotalWrecks != 1 {
		t.Errorf("wreck not counted: %+v", stats)
	}

	racer, _ := d.GetRacerState(ids[2])

	if racer.IsActive {
		t.Error("wrecked racer still active")
	}

	// fresh telemetry recovers the racer
	d.UpdateRacerState(ids[2], 3, 30, 0.1)

	racer, _ = d.GetRacerState(ids[2])

	if !racer.IsActive {
		t.Error("telemetry did not recover the wrecked racer")
	}

	if d.GetRaceStatistics().ActiveRacers != 3 {
		t.Error("active count not restored on recovery")
	}
}

func TestRecordTakedown(t *testing.T) {
	d := newTestDirector(t, DefaultDirectorConfig(), nil)
	ids := startGrid(d, 3, 3, 5000)

	d.RecordTakedown(ids[1], ids[2])

	attacker, _ := d.GetRacerState(ids[1])
	victim, _ := d.GetRacerState(ids[2])

	if attacker.Takedowns != 1 {
		t.Error("takedown not credited to attacker")
	}

	if victim.TimesWrecked != 1 {
		t.Error("takedown not counted against victim")
	}

	if d.GetRaceStatistics().TotalTakedowns != 1 {
		t.Error("takedown not counted in stats")
	}
}

func TestDesignateRivalRaisesAggression(t *testing.T) {
	d := newTestDirector(t, DefaultDirectorConfig(), nil)
	ids := startGrid(d, 3, 3, 5000)

	d.SetRacerAggression(ids[1], 0.3)
	d.DesignateRival(ids[1], true)

	racer, _ := d.GetRacerState(ids[1])

	if !racer.IsRival {
		t.Error("rival flag not set")
	}

	if racer.AggressionLevel < 0.7 {
		t.Errorf("rival aggression should be at least 0.7, got %f", racer.AggressionLevel)
	}

	d.SetRacerAggression(ids[1], 5)

	racer, _ = d.GetRacerState(ids[1])

	if racer.AggressionLevel != 1 {
		t.Errorf("aggression not clamped: %f", racer.AggressionLevel)
	}
}
