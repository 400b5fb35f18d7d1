package director

import (
	"sort"

	"github.com/pkg/errors"
)

var ErrRacerNotFound = errors.New("director: racer not found")

const distanceUnknown = 999999.0

// RaceState is the shared state every manager reads and mutates. Access is
// single-threaded by contract: all setters and the tick run on the same
// goroutine.
type RaceState struct {
	rubberBand RubberBandConfig
	drama      DramaConfig
	pacing     PacingConfig
	difficulty AIDifficultyConfig
	style      DirectorStyle

	racers      map[RacerID]*Racer
	finishOrder []RacerID

	playerID RacerID
	leaderID RacerID

	totalLaps   int
	trackLength float64

	raceActive bool
	raceTime   float64

	currentPhase RacePhase
	tensionScore float64
	tensionLevel RaceTension

	leadChanges int

	// live gap readings, recomputed by the GapCalculator each tick
	closestGap        float64
	closestGapSeconds float64

	stats RaceStatistics
}

func newRaceState(config DirectorConfig) *RaceState {
	return &RaceState{
		rubberBand:        config.RubberBand,
		drama:             config.Drama,
		pacing:            config.Pacing,
		difficulty:        config.Difficulty,
		style:             config.Style,
		racers:            make(map[RacerID]*Racer),
		totalLaps:         3,
		trackLength:       5000,
		closestGap:        distanceUnknown,
		closestGapSeconds: distanceUnknown,
		stats:             newRaceStatistics(),
	}
}

func (rs *RaceState) racer(id RacerID) (*Racer, bool) {
	racer, ok := rs.racers[id]

	return racer, ok
}

func (rs *RaceState) player() (*Racer, bool) {
	return rs.racer(rs.playerID)
}

// racingRacers returns the active, unfinished racers sorted by current
// position.
func (rs *RaceState) racingRacers() []*Racer {
	var racers []*Racer

	for _, racer := range rs.racers {
		if racer.racing() {
			racers = append(racers, racer)
		}
	}

	sort.Slice(racers, func(i, j int) bool {
		return racers[i].CurrentPosition < racers[j].CurrentPosition
	})

	return racers
}

// raceProgress is the mean completed fraction of the race across active,
// unfinished racers.
func (rs *RaceState) raceProgress() float64 {
	if rs.totalLaps <= 0 {
		return 0
	}

	var total float64
	var count int

	for _, racer := range rs.racers {
		if !racer.racing() {
			continue
		}

		total += (float64(racer.CurrentLap-1) + racer.LapProgress) / float64(rs.totalLaps)
		count++
	}

	if count == 0 {
		return 0
	}

	return total / float64(count)
}

func (rs *RaceState) anyRacerOnFinalLap() bool {
	for _, racer := range rs.racers {
		if racer.CurrentLap >= rs.totalLaps && !racer.HasFinished {
			return true
		}
	}

	return false
}
