package director

// RaceStatistics is the read-only rollup exposed to presentation and
// results generation.
type RaceStatistics struct {
	TotalRacers    int `json:"total_racers"`
	ActiveRacers   int `json:"active_racers"`
	FinishedRacers int `json:"finished_racers"`
	WreckedRacers  int `json:"wrecked_racers"`

	TotalLeadChanges     int `json:"total_lead_changes"`
	TotalPositionChanges int `json:"total_position_changes"`
	TotalTakedowns       int `json:"total_takedowns"`
	TotalWrecks          int `json:"total_wrecks"`
	TotalDramaticMoments int `json:"total_dramatic_moments"`

	AverageSpeed  float64 `json:"average_speed"`
	TotalDistance float64 `json:"total_distance"`

	FastestLap float64 `json:"fastest_lap"`
	SlowestLap float64 `json:"slowest_lap"`

	WinningMargin float64 `json:"winning_margin"`
	ClosestGap    float64 `json:"closest_gap"`
	AverageGap    float64 `json:"average_gap"`
	TotalRaceTime float64 `json:"total_race_time"`
}

func newRaceStatistics() RaceStatistics {
	return RaceStatistics{
		FastestLap: distanceUnknown,
		ClosestGap: distanceUnknown,
	}
}

// StatsTracker accumulates per-tick aggregates and finalises the rollup at
// race end.
type StatsTracker struct {
	state  *RaceState
	logger Logger

	gapSum  float64
	gapTime float64
}

func NewStatsTracker(state *RaceState, logger Logger) *StatsTracker {
	return &StatsTracker{
		state:  state,
		logger: logger,
	}
}

func (st *StatsTracker) Update(deltaTime float64) {
	var totalSpeed float64
	var count int

	for _, racer := range st.state.racers {
		if !racer.racing() {
			continue
		}

		totalSpeed += racer.CurrentSpeed
		count++
	}

	if count > 0 {
		st.state.stats.AverageSpeed = totalSpeed / float64(count)
	}

	st.state.stats.TotalDistance += totalSpeed * deltaTime

	// Time-weighted so the tick rate does not skew the average.
	if st.state.closestGapSeconds < distanceUnknown {
		st.gapSum += st.state.closestGapSeconds * deltaTime
		st.gapTime += deltaTime
	}
}

func (st *StatsTracker) reset() {
	st.gapSum = 0
	st.gapTime = 0
}

func (st *StatsTracker) RecordLap(lapTime float64) {
	if lapTime < st.state.stats.FastestLap {
		st.state.stats.FastestLap = lapTime
	}

	if lapTime > st.state.stats.SlowestLap {
		st.state.stats.SlowestLap = lapTime
	}
}

func (st *StatsTracker) Finalize() {
	stats := &st.state.stats

	stats.TotalRaceTime = st.state.raceTime

	if st.gapTime > 0 {
		stats.AverageGap = st.gapSum / st.gapTime
	}

	if len(st.state.finishOrder) >= 2 {
		first, okFirst := st.state.racer(st.state.finishOrder[0])
		second, okSecond := st.state.racer(st.state.finishOrder[1])

		if okFirst && okSecond {
			stats.WinningMargin = second.FinishTime - first.FinishTime
		}
	}

	st.logger.Infof("Race statistics: %d lead changes, %d position changes, %d dramatic moments, winning margin %.3fs",
		stats.TotalLeadChanges, stats.TotalPositionChanges, stats.TotalDramaticMoments, stats.WinningMargin)
}
