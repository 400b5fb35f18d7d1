package director

// GapCalculator derives per-racer spacing from lap progress each tick.
//
// Distances are computed from 0..1 lap-progress deltas multiplied by the
// track length, with no lap-number offset. Racers a whole lap apart will
// have their true gap understated. This matches the behaviour the rest of
// the engine (activation distances, drama thresholds) is tuned against.
type GapCalculator struct {
	state  *RaceState
	logger Logger
}

func NewGapCalculator(state *RaceState, logger Logger) *GapCalculator {
	return &GapCalculator{
		state:  state,
		logger: logger,
	}
}

func (gc *GapCalculator) Update() {
	racers := gc.state.racingRacers()

	smallestGap := distanceUnknown
	smallestGapSeconds := distanceUnknown

	for i, racer := range racers {
		if i == 0 {
			racer.DistanceToLeader = 0
			racer.DistanceToAhead = 0
		} else {
			racer.DistanceToLeader = (racers[0].LapProgress - racer.LapProgress) * gc.state.trackLength

			ahead := racers[i-1]
			gap := (ahead.LapProgress - racer.LapProgress) * gc.state.trackLength
			racer.DistanceToAhead = gap

			if gap > 0 {
				if gap < smallestGap {
					smallestGap = gap
				}

				if seconds := racer.gapToAheadSeconds(); seconds < smallestGapSeconds {
					smallestGapSeconds = seconds
				}
			}
		}

		if i < len(racers)-1 {
			behind := racers[i+1]
			racer.DistanceToBehind = (racer.LapProgress - behind.LapProgress) * gc.state.trackLength
		} else {
			racer.DistanceToBehind = distanceUnknown
		}
	}

	gc.state.closestGap = smallestGap
	gc.state.closestGapSeconds = smallestGapSeconds

	if smallestGapSeconds < gc.state.stats.ClosestGap {
		gc.state.stats.ClosestGap = smallestGapSeconds
	}
}
