package director

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

const CurrentResultsVersion = 1

type RaceResults struct {
	Version     int     `json:"Version"`
	TotalLaps   int     `json:"TotalLaps"`
	TrackLength float64 `json:"TrackLength"`

	Result     []*ResultLine  `json:"Result"`
	Racers     []*ResultRacer `json:"Racers"`
	Events     []RaceEvent    `json:"Events"`
	Statistics RaceStatistics `json:"Statistics"`

	Date        time.Time `json:"Date"`
	ResultsFile string    `json:"ResultsFile"`
}

type ResultLine struct {
	FinishPosition int     `json:"FinishPosition"`
	RacerID        RacerID `json:"RacerId"`
	RacerName      string  `json:"RacerName"`
	IsPlayer       bool    `json:"IsPlayer"`
	FinishTime     float64 `json:"FinishTime"`
	GapToWinner    float64 `json:"GapToWinner"`
}

type ResultRacer struct {
	RacerID          RacerID `json:"RacerId"`
	Name             string  `json:"Name"`
	IsPlayer         bool    `json:"IsPlayer"`
	StartingPosition int     `json:"StartingPosition"`
	FinalPosition    int     `json:"FinalPosition"`
	BestPosition     int     `json:"BestPosition"`
	WorstPosition    int     `json:"WorstPosition"`
	PositionChanges  int     `json:"PositionChanges"`
	Takedowns        int     `json:"Takedowns"`
	TimesWrecked     int     `json:"TimesWrecked"`
	MaxSpeed         float64 `json:"MaxSpeed"`
	Finished         bool    `json:"Finished"`
}

// GenerateResults builds the results document for the current race. It can
// be called at any time; before EndRace it reflects the race so far.
func (d *Director) GenerateResults() *RaceResults {
	state := d.state

	var result []*ResultLine
	var racers []*ResultRacer

	var winnerTime float64

	for i, id := range state.finishOrder {
		racer, ok := state.racer(id)

		if !ok {
			continue
		}

		if i == 0 {
			winnerTime = racer.FinishTime
		}

		result = append(result, &ResultLine{
			FinishPosition: i + 1,
			RacerID:        racer.ID,
			RacerName:      racer.Name,
			IsPlayer:       racer.IsPlayer,
			FinishTime:     racer.FinishTime,
			GapToWinner:    racer.FinishTime - winnerTime,
		})
	}

	for _, racer := range d.GetAllRacerStates() {
		racers = append(racers, &ResultRacer{
			RacerID:          racer.ID,
			Name:             racer.Name,
			IsPlayer:         racer.IsPlayer,
			StartingPosition: racer.StartingPosition,
			FinalPosition:    racer.CurrentPosition,
			BestPosition:     racer.BestPosition,
			WorstPosition:    racer.WorstPosition,
			PositionChanges:  racer.PositionChanges,
			Takedowns:        racer.Takedowns,
			TimesWrecked:     racer.TimesWrecked,
			MaxSpeed:         racer.MaxSpeed,
			Finished:         racer.HasFinished,
		})
	}

	resultDate := time.Now()

	return &RaceResults{
		Version:     CurrentResultsVersion,
		TotalLaps:   state.totalLaps,
		TrackLength: state.trackLength,
		Result:      result,
		Racers:      racers,
		Events:      d.drama.Events(),
		Statistics:  state.stats,
		Date:        resultDate,
		ResultsFile: fmt.Sprintf("%d_%d_%d_%d_%d_race.json", resultDate.Year(), resultDate.Month(), resultDate.Day(), resultDate.Hour(), resultDate.Minute()),
	}
}

// SaveResults writes the results document to basePath/results.
func SaveResults(basePath string, results *RaceResults, logger Logger) error {
	dir := filepath.Join(basePath, "results")

	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "could not create results directory")
	}

	path := filepath.Join(dir, results.ResultsFile)

	logger.Infof("Saving race results to: %s", path)

	file, err := os.Create(path)

	if err != nil {
		return errors.Wrapf(err, "could not create results file: %s", path)
	}

	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "\t")

	return encoder.Encode(results)
}
