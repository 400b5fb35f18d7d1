package main

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"midnightgrind.dev/mgrd/internal/director"
)

type SimulationConfig struct {
	NumRacers   int     `json:"num_racers" yaml:"num_racers"`
	TotalLaps   int     `json:"total_laps" yaml:"total_laps"`
	TrackLength float64 `json:"track_length" yaml:"track_length"`
	TickRate    int     `json:"tick_rate" yaml:"tick_rate"`
	Seed        int64   `json:"seed" yaml:"seed"`
}

func defaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		NumRacers:   8,
		TotalLaps:   3,
		TrackLength: 5000,
		TickRate:    20,
		Seed:        time.Now().UnixNano(),
	}
}

// simRacer drives one fake car: a base speed from a stable pace plus noise,
// always multiplied by the Director's advisory speed modifier.
type simRacer struct {
	id   director.RacerID
	name string

	pace     float64
	lap      int
	progress float64
	total    float64
	lapStart float64
	finished bool
}

// simulator feeds synthetic telemetry into the Director at a fixed tick
// rate until every racer finishes. It stands in for the vehicle physics
// layer described by the Director's external interfaces.
type simulator struct {
	director *director.Director
	config   SimulationConfig
	logger   *logrus.Logger

	racers  []*simRacer
	rand    *rand.Rand
	stopped chan struct{}
}

func newSimulator(d *director.Director, config SimulationConfig, logger *logrus.Logger) *simulator {
	if config.NumRacers < 2 {
		config.NumRacers = 2
	}

	if config.TickRate < 1 {
		config.TickRate = 20
	}

	return &simulator{
		director: d,
		config:   config,
		logger:   logger,
		rand:     rand.New(rand.NewSource(config.Seed)),
		stopped:  make(chan struct{}),
	}
}

func (s *simulator) stop() {
	select {
	case <-s.stopped:
	default:
		close(s.stopped)
	}
}

func (s *simulator) run() {
	d := s.director

	d.InitializeRace(s.config.TotalLaps, s.config.TrackLength)

	for i := 0; i < s.config.NumRacers; i++ {
		isPlayer := i == 0

		name := "Player"

		if !isPlayer {
			name = fmt.Sprintf("AI Driver %d", i)
		}

		startPosition := i + 1

		racer := &simRacer{
			name: name,
			pace: 45 + s.rand.Float64()*10,
			lap:  1,
		}

		racer.id = d.RegisterRacer(name, isPlayer, startPosition)

		s.racers = append(s.racers, racer)
	}

	// give the player a mid-grid rival
	if len(s.racers) > 2 {
		d.DesignateRival(s.racers[len(s.racers)/2].id, true)
	}

	d.StartRace()

	interval := time.Second / time.Duration(s.config.TickRate)
	deltaTime := interval.Seconds()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var raceTime float64

	for d.IsRaceActive() {
		select {
		case <-s.stopped:
			s.logger.Infof("Simulation interrupted")

			d.EndRace()

			return
		case <-ticker.C:
		}

		raceTime += deltaTime

		s.tick(deltaTime, raceTime)

		d.UpdateDirector(deltaTime)
	}

	stats := d.GetRaceStatistics()

	s.logger.Infof("Simulation complete: %.1fs race time, fastest lap %.2fs, winning margin %.3fs",
		stats.TotalRaceTime, stats.FastestLap, stats.WinningMargin)
}

func (s *simulator) tick(deltaTime, raceTime float64) {
	d := s.director

	for _, racer := range s.racers {
		if racer.finished {
			continue
		}

		speed := racer.pace * (0.95 + s.rand.Float64()*0.1) * d.GetSpeedModifier(racer.id)

		racer.total += speed * deltaTime
		racer.progress += speed * deltaTime / s.config.TrackLength

		if racer.progress >= 1 {
			racer.progress -= 1
			racer.lap++

			d.RecordPerfectLap(racer.id, raceTime-racer.lapStart)
			racer.lapStart = raceTime

			if racer.lap > s.config.TotalLaps {
				racer.finished = true

				d.SetRacerFinished(racer.id, raceTime)
				continue
			}

			d.SetRacerLap(racer.id, racer.lap)
		}

		// the occasional unforced error keeps the field honest
		if s.rand.Float64() < 0.001 {
			d.RequestMistake(racer.id, 0.3+s.rand.Float64()*0.7)
		}
	}

	s.updatePositions()
}

func (s *simulator) updatePositions() {
	running := make([]*simRacer, 0, len(s.racers))

	for _, racer := range s.racers {
		if !racer.finished {
			running = append(running, racer)
		}
	}

	sort.Slice(running, func(i, j int) bool {
		return running[i].total > running[j].total
	})

	for i, racer := range running {
		speed := racer.pace

		s.director.UpdateRacerState(racer.id, i+1, speed, racer.progress)
	}
}
