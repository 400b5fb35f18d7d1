package director

import (
	"testing"
)

func countMoments(events []RaceEvent, moment DramaticMoment) int {
	count := 0

	for _, event := range events {
		if event.Moment == moment {
			count++
		}
	}

	return count
}

func TestDramaScanGatedByCooldown(t *testing.T) {
	d := newTestDirector(t, DefaultDirectorConfig(), nil)
	startGrid(d, 8, 3, 1000)

	// a textbook comeback, but inside the cooldown window
	player, _ := d.state.player()
	player.StartingPosition = 8
	player.CurrentPosition = 1

	d.state.raceTime = 5
	d.drama.Scan()

	if len(d.GetDramaticEvents()) != 0 {
		t.Fatalf("scan fired inside the cooldown window: %v", d.GetDramaticEvents())
	}

	d.state.raceTime = 10
	d.drama.Scan()

	events := d.GetDramaticEvents()

	if len(events) != 1 || events[0].Moment != MomentComeback {
		t.Fatalf("expected a single comeback, got %v", events)
	}

	if events[0].PrimaryRacer != player.ID {
		t.Errorf("comeback attributed to %s, not the player", events[0].PrimaryRacer)
	}

	// the trigger stamps the gate: an immediate rescan stays quiet
	d.drama.Scan()

	if len(d.GetDramaticEvents()) != 1 {
		t.Errorf("scan re-fired before the cooldown elapsed")
	}
}

func TestUnderdogStory(t *testing.T) {
	config := DefaultDirectorConfig()
	config.Drama.EnableComebackDrama = false

	d := newTestDirector(t, config, nil)
	startGrid(d, 8, 3, 1000)

	player, _ := d.state.player()
	player.StartingPosition = 7
	player.CurrentPosition = 1

	d.state.raceTime = 30
	d.drama.Scan()

	events := d.GetDramaticEvents()

	if len(events) != 1 || events[0].Moment != MomentUnderdog {
		t.Fatalf("expected an underdog story, got %v", events)
	}

	if d.GetCurrentMoment() != MomentUnderdog {
		t.Errorf("current moment is %s", d.GetCurrentMoment())
	}
}

func TestDominanceRequiresLateRaceAndDaylight(t *testing.T) {
	d := newTestDirector(t, DefaultDirectorConfig(), nil)
	startGrid(d, 8, 3, 1000)

	player, _ := d.state.player()
	player.CurrentPosition = 1
	player.DistanceToBehind = 250

	d.state.raceTime = 30
	d.drama.Scan()

	if len(d.GetDramaticEvents()) != 0 {
		t.Fatalf("dominance fired before the late race: %v", d.GetDramaticEvents())
	}

	d.state.currentPhase = PhaseLateRace
	d.drama.Scan()

	events := d.GetDramaticEvents()

	if len(events) != 1 || events[0].Moment != MomentDominance {
		t.Fatalf("expected dominance, got %v", events)
	}
}

func TestCloseRaceNotRetriggeredWhileCurrent(t *testing.T) {
	d := newTestDirector(t, DefaultDirectorConfig(), nil)
	ids := startGrid(d, 8, 3, 1000)

	d.state.currentPhase = PhaseMidRace
	d.state.closestGapSeconds = 1.0

	d.state.raceTime = 30
	d.drama.Scan()

	if d.GetCurrentMoment() != MomentCloseRace {
		t.Fatalf("expected a close race, got %s", d.GetCurrentMoment())
	}

	// still close after the cooldown: not re-announced
	d.state.raceTime = 60
	d.drama.Scan()

	if got := countMoments(d.GetDramaticEvents(), MomentCloseRace); got != 1 {
		t.Fatalf("close race announced %d times", got)
	}

	// a rivalry takes over as current moment, then the close race may fire
	// again
	d.DesignateRival(ids[1], true)

	rival, _ := d.state.racer(ids[1])
	rival.CurrentPosition = 2

	d.drama.Scan()

	if d.GetCurrentMoment() != MomentRivalry {
		t.Fatalf("expected a rivalry, got %s", d.GetCurrentMoment())
	}

	d.state.raceTime = 90
	d.drama.Scan()

	if got := countMoments(d.GetDramaticEvents(), MomentCloseRace); got != 2 {
		t.Errorf("close race should re-fire once superseded, got %d", got)
	}
}

func TestRivalryRequiresAdjacency(t *testing.T) {
	d := newTestDirector(t, DefaultDirectorConfig(), nil)
	ids := startGrid(d, 8, 3, 1000)

	d.DesignateRival(ids[4], true)

	d.state.raceTime = 30
	d.drama.Scan()

	if len(d.GetDramaticEvents()) != 0 {
		t.Fatalf("rivalry fired four positions apart: %v", d.GetDramaticEvents())
	}

	rival, _ := d.state.racer(ids[4])
	rival.CurrentPosition = 2

	d.drama.Scan()

	events := d.GetDramaticEvents()

	if len(events) != 1 || events[0].Moment != MomentRivalry {
		t.Fatalf("expected a rivalry, got %v", events)
	}

	if events[0].SecondaryRacer != ids[4] {
		t.Errorf("rivalry secondary racer is %s", events[0].SecondaryRacer)
	}
}

func TestNearMissBecomesWreckAvoidanceOnlyWhenTight(t *testing.T) {
	d := newTestDirector(t, DefaultDirectorConfig(), nil)
	ids := startGrid(d, 4, 3, 1000)

	d.RecordNearMiss(ids[1], ids[2], 2.0)

	if len(d.GetDramaticEvents()) != 0 {
		t.Errorf("a two second gap is not a wreck avoidance")
	}

	d.RecordNearMiss(ids[1], ids[2], 0.4)

	events := d.GetDramaticEvents()

	if len(events) != 1 || events[0].Moment != MomentWreckAvoidance {
		t.Fatalf("expected a wreck avoidance, got %v", events)
	}
}

func TestPhotoFinishRecordedOnTightFinish(t *testing.T) {
	plugin := &recordingPlugin{}
	d := newTestDirector(t, DefaultDirectorConfig(), plugin)
	ids := startGrid(d, 4, 3, 1000)

	d.SetRacerFinished(ids[0], 100.0)
	d.SetRacerFinished(ids[1], 100.3)
	d.SetRacerFinished(ids[2], 108.0)
	d.SetRacerFinished(ids[3], 115.0)

	if got := plugin.countMoment(MomentPhotoFinish); got != 1 {
		t.Fatalf("expected exactly one photo finish, got %d", got)
	}

	stats := d.GetRaceStatistics()

	if !compareFloatsTolerance(stats.ClosestGap, 0.3) {
		t.Errorf("expected closest gap 0.3, got %f", stats.ClosestGap)
	}
}

func TestDramaticMomentsCanBeDisabledOutright(t *testing.T) {
	config := DefaultDirectorConfig()
	config.Drama.EnableDramaticMoments = false

	d := newTestDirector(t, config, nil)
	ids := startGrid(d, 8, 3, 1000)

	player, _ := d.state.player()
	player.StartingPosition = 8
	player.CurrentPosition = 1

	d.state.raceTime = 30
	d.drama.Scan()

	// event-driven triggers are muted as well
	d.RecordNearMiss(ids[1], ids[2], 0.1)
	d.drama.Trigger(MomentPerfectLap, ids[0], NoRacer)

	if len(d.GetDramaticEvents()) != 0 {
		t.Errorf("dramatic moments produced while disabled: %v", d.GetDramaticEvents())
	}

	if d.GetRaceStatistics().TotalDramaticMoments != 0 {
		t.Errorf("dramatic moment counted while disabled")
	}
}

func TestEventLogIsACopy(t *testing.T) {
	d := newTestDirector(t, DefaultDirectorConfig(), nil)
	ids := startGrid(d, 4, 3, 1000)

	d.RecordNearMiss(ids[1], ids[2], 0.1)

	events := d.GetDramaticEvents()
	events[0].Moment = MomentDominance

	if d.GetDramaticEvents()[0].Moment != MomentWreckAvoidance {
		t.Error("mutating the returned slice leaked into the event log")
	}
}
