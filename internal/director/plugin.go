package director

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Plugin receives typed callbacks from the Director. Callbacks run
// synchronously with respect to the tick; errors are logged by the caller
// and never stop the race.
type Plugin interface {
	Init(director DirectorPlugin, logger Logger) error

	OnRaceStart(info RaceInfo) error
	OnRacePhaseChange(phase RacePhase) error
	OnTensionChange(level RaceTension, score float64) error

	OnLeadChange(racer Racer, totalChanges int) error
	OnPositionChange(racer Racer, newPosition int) error
	OnRubberBandApplied(racer Racer, modifier float64) error

	OnDramaticMoment(event RaceEvent) error
	OnRacerFinished(racer Racer, finishPosition int) error
	OnRaceFinished(stats RaceStatistics) error
}

// DirectorPlugin is the query surface the Director exposes to its plugins.
type DirectorPlugin interface {
	GetRacerState(id RacerID) (Racer, error)
	GetAllRacerStates() []Racer
	GetDirectorState() DirectorState
	GetRaceStatistics() RaceStatistics
	GetDramaticEvents() []RaceEvent
	GetFinishOrder() []RacerID
	GenerateResults() *RaceResults

	RequestMistake(id RacerID, severity float64) bool
	SetRacerAggression(id RacerID, aggression float64)
	DesignateRival(id RacerID, isRival bool)
}

type RaceInfo struct {
	TotalLaps   int     `json:"total_laps"`
	TrackLength float64 `json:"track_length"`
	NumRacers   int     `json:"num_racers"`
}

type multiPlugin struct {
	plugins []Plugin
}

func MultiPlugin(plugins ...Plugin) Plugin {
	return &multiPlugin{plugins: plugins}
}

func (mp *multiPlugin) Init(director DirectorPlugin, logger Logger) error {
	g, _ := errgroup.WithContext(context.Background())

	for _, plugin := range mp.plugins {
		plugin := plugin
		g.Go(func() error {
			return plugin.Init(director, logger)
		})
	}

	return g.Wait()
}

func (mp *multiPlugin) OnRaceStart(info RaceInfo) error {
	g, _ := errgroup.WithContext(context.Background())

	for _, plugin := range mp.plugins {
		plugin := plugin
		g.Go(func() error {
			return plugin.OnRaceStart(info)
		})
	}

	return g.Wait()
}

func (mp *multiPlugin) OnRacePhaseChange(phase RacePhase) error {
	g, _ := errgroup.WithContext(context.Background())

	for _, plugin := range mp.plugins {
		plugin := plugin
		g.Go(func() error {
			return plugin.OnRacePhaseChange(phase)
		})
	}

	return g.Wait()
}

func (mp *multiPlugin) OnTensionChange(level RaceTension, score float64) error {
	g, _ := errgroup.WithContext(context.Background())

	for _, plugin := range mp.plugins {
		plugin := plugin
		g.Go(func() error {
			return plugin.OnTensionChange(level, score)
		})
	}

	return g.Wait()
}

func (mp *multiPlugin) OnLeadChange(racer Racer, totalChanges int) error {
	g, _ := errgroup.WithContext(context.Background())

	for _, plugin := range mp.plugins {
		plugin := plugin
		g.Go(func() error {
			return plugin.OnLeadChange(racer, totalChanges)
		})
	}

	return g.Wait()
}

func (mp *multiPlugin) OnPositionChange(racer Racer, newPosition int) error {
	g, _ := errgroup.WithContext(context.Background())

	for _, plugin := range mp.plugins {
		plugin := plugin
		g.Go(func() error {
			return plugin.OnPositionChange(racer, newPosition)
		})
	}

	return g.Wait()
}

func (mp *multiPlugin) OnRubberBandApplied(racer Racer, modifier float64) error {
	g, _ := errgroup.WithContext(context.Background())

	for _, plugin := range mp.plugins {
		plugin := plugin
		g.Go(func() error {
			return plugin.OnRubberBandApplied(racer, modifier)
		})
	}

	return g.Wait()
}

func (mp *multiPlugin) OnDramaticMoment(event RaceEvent) error {
	g, _ := errgroup.WithContext(context.Background())

	for _, plugin := range mp.plugins {
		plugin := plugin
		g.Go(func() error {
			return plugin.OnDramaticMoment(event)
		})
	}

	return g.Wait()
}

func (mp *multiPlugin) OnRacerFinished(racer Racer, finishPosition int) error {
	g, _ := errgroup.WithContext(context.Background())

	for _, plugin := range mp.plugins {
		plugin := plugin
		g.Go(func() error {
			return plugin.OnRacerFinished(racer, finishPosition)
		})
	}

	return g.Wait()
}

func (mp *multiPlugin) OnRaceFinished(stats RaceStatistics) error {
	g, _ := errgroup.WithContext(context.Background())

	for _, plugin := range mp.plugins {
		plugin := plugin
		g.Go(func() error {
			return plugin.OnRaceFinished(stats)
		})
	}

	return g.Wait()
}

type nilPlugin struct{}

func (n nilPlugin) Init(_ DirectorPlugin, _ Logger) error {
	return nil
}

func (n nilPlugin) OnRaceStart(_ RaceInfo) error {
	return nil
}

func (n nilPlugin) OnRacePhaseChange(_ RacePhase) error {
	return nil
}

func (n nilPlugin) OnTensionChange(_ RaceTension, _ float64) error {
	return nil
}

func (n nilPlugin) OnLeadChange(_ Racer, _ int) error {
	return nil
}

func (n nilPlugin) OnPositionChange(_ Racer, _ int) error {
	return nil
}

func (n nilPlugin) OnRubberBandApplied(_ Racer, _ float64) error {
	return nil
}

func (n nilPlugin) OnDramaticMoment(_ RaceEvent) error {
	return nil
}

func (n nilPlugin) OnRacerFinished(_ Racer, _ int) error {
	return nil
}

func (n nilPlugin) OnRaceFinished(_ RaceStatistics) error {
	return nil
}
