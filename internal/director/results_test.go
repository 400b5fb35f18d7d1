package director

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func TestGenerateResultsOrderAndGaps(t *testing.T) {
	d := newTestDirector(t, DefaultDirectorConfig(), nil)
	ids := startGrid(d, 4, 3, 1000)

	d.UpdateDirector(90)

	d.SetRacerFinished(ids[2], 90.0)
	d.SetRacerFinished(ids[0], 91.2)
	d.SetRacerFinished(ids[1], 95.0)
	d.SetRacerWrecked(ids[3])

	// call the race with three finishers and one car in the wall
	d.EndRace()

	results := d.GenerateResults()

	if results.Version != CurrentResultsVersion {
		t.Errorf("expected version %d, got %d", CurrentResultsVersion, results.Version)
	}

	if len(results.Result) != 3 {
		t.Fatalf("expected 3 result lines, got %d", len(results.Result))
	}

	if results.Result[0].RacerID != ids[2] || results.Result[0].GapToWinner != 0 {
		t.Errorf("wrong winner line: %+v", results.Result[0])
	}

	if !compareFloatsTolerance(results.Result[1].GapToWinner, 1.2) {
		t.Errorf("expected a 1.2s gap for P2, got %f", results.Result[1].GapToWinner)
	}

	for i := 1; i < len(results.Result); i++ {
		if results.Result[i].FinishPosition != results.Result[i-1].FinishPosition+1 {
			t.Errorf("finish positions not sequential: %+v", results.Result)
		}
	}

	// every entrant appears in the racer roster, finished or not
	if len(results.Racers) != 4 {
		t.Fatalf("expected 4 roster entries, got %d", len(results.Racers))
	}

	for _, racer := range results.Racers {
		if racer.RacerID == ids[3] {
			if racer.Finished {
				t.Error("wrecked racer marked as finished")
			}

			if racer.TimesWrecked != 1 {
				t.Errorf("wreck not recorded in roster: %+v", racer)
			}
		}
	}
}

func TestSaveResultsWritesJSON(t *testing.T) {
	d := newTestDirector(t, DefaultDirectorConfig(), nil)
	ids := startGrid(d, 2, 3, 1000)

	d.UpdateDirector(60)
	d.SetRacerFinished(ids[0], 60.0)
	d.SetRacerFinished(ids[1], 62.0)

	results := d.GenerateResults()

	dir, err := ioutil.TempDir("", "mgrd-results")

	if err != nil {
		t.Fatal(err)
	}

	defer os.RemoveAll(dir)

	if err := SaveResults(dir, results, testLogger); err != nil {
		t.Fatalf("Could not save results: %s", err)
	}

	data, err := ioutil.ReadFile(filepath.Join(dir, "results", results.ResultsFile))

	if err != nil {
		t.Fatalf("Could not read results back: %s", err)
	}

	var loaded RaceResults

	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("Results file is not valid JSON: %s", err)
	}

	if len(loaded.Result) != 2 || loaded.TotalLaps != 3 {
		t.Errorf("results did not round-trip: %+v", loaded)
	}
}
