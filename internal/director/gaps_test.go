package director

import "testing"

func TestGapCalculation(t *testing.T) {
	d := newTestDirector(t, DefaultDirectorConfig(), nil)

	const trackLength = 1000.0

	ids := startGrid(d, 3, 3, trackLength)

	// leader at 0.5, P2 at 0.4, P3 at 0.1 - all at 50 units/s
	d.UpdateRacerState(ids[0], 1, 50, 0.5)
	d.UpdateRacerState(ids[1], 2, 50, 0.4)
	d.UpdateRacerState(ids[2], 3, 50, 0.1)

	d.UpdateDirector(0.1)

	leader, _ := d.GetRacerState(ids[0])
	second, _ := d.GetRacerState(ids[1])
	third, _ := d.GetRacerState(ids[2])

	if leader.DistanceToLeader != 0 || leader.DistanceToAhead != 0 {
		t.Errorf("leader should have zero leader/ahead distances: %+v", leader)
	}

	if !compareFloatsTolerance(leader.DistanceToBehind, 100) {
		t.Errorf("expected leader distance-to-behind 100, got %f", leader.DistanceToBehind)
	}

	if !compareFloatsTolerance(second.DistanceToLeader, 100) {
		t.Errorf("expected P2 distance-to-leader 100, got %f", second.DistanceToLeader)
	}

	if !compareFloatsTolerance(second.DistanceToAhead, 100) {
		t.Errorf("expected P2 distance-to-ahead 100, got %f", second.DistanceToAhead)
	}

	if !compareFloatsTolerance(second.DistanceToBehind, 300) {
		t.Errorf("expected P2 distance-to-behind 300, got %f", second.DistanceToBehind)
	}

	if !compareFloatsTolerance(third.DistanceToLeader, 400) {
		t.Errorf("expected P3 distance-to-leader 400, got %f", third.DistanceToLeader)
	}

	if !compareFloatsTolerance(third.DistanceToAhead, 300) {
		t.Errorf("expected P3 distance-to-ahead 300, got %f", third.DistanceToAhead)
	}

	if third.DistanceToBehind != distanceUnknown {
		t.Errorf("last racer should have unknown distance-to-behind, got %f", third.DistanceToBehind)
	}

	// closest gap is P2's 100 units at 50 units/s = 2 seconds
	if !compareFloatsTolerance(d.state.closestGap, 100) {
		t.Errorf("expected closest gap 100, got %f", d.state.closestGap)
	}

	if !compareFloatsTolerance(d.state.closestGapSeconds, 2) {
		t.Errorf("expected closest gap 2s, got %f", d.state.closestGapSeconds)
	}
}

func TestGapCalculationSkipsWreckedAndFinished(t *testing.T) {
	d := newTestDirector(t, DefaultDirectorConfig(), nil)

	ids := startGrid(d, 4, 3, 1000)

	d.UpdateRacerState(ids[0], 1, 50, 0.6)
	d.UpdateRacerState(ids[1], 2, 50, 0.5)
	d.UpdateRacerState(ids[2], 3, 50, 0.45)
	d.UpdateRacerState(ids[3], 4, 50, 0.2)

	d.SetRacerWrecked(ids[1])
	d.SetRacerFinished(ids[0], 50)

	// ids[2] and ids[3] keep racing; positions renumber
	d.UpdateRacerState(ids[2], 1, 50, 0.45)
	d.UpdateRacerState(ids[3], 2, 50, 0.2)

	d.UpdateDirector(0.1)

	racer, _ := d.GetRacerState(ids[2])

	if racer.DistanceToLeader != 0 {
		t.Errorf("surviving leader should have zero distance-to-leader, got %f", racer.DistanceToLeader)
	}

	chaser, _ := d.GetRacerState(ids[3])

	if !compareFloatsTolerance(chaser.DistanceToAhead, 250) {
		t.Errorf("expected chaser gap 250, got %f", chaser.DistanceToAhead)
	}
}

func TestClosestGapIgnoresNonPositiveGaps(t *testing.T) {
	d := newTestDirector(t, DefaultDirectorConfig(), nil)

	ids := startGrid(d, 3, 3, 1000)

	// two racers level on progress, third far back
	d.UpdateRacerState(ids[0], 1, 50, 0.5)
	d.UpdateRacerState(ids[1], 2, 50, 0.5)
	d.UpdateRacerState(ids[2], 3, 50, 0.1)

	d.UpdateDirector(0.1)

	if !compareFloatsTolerance(d.state.closestGap, 400) {
		t.Errorf("zero gap should be ignored, expected 400, got %f", d.state.closestGap)
	}
}
