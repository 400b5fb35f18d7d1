package plugins

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"midnightgrind.dev/mgrd/internal/director"
)

func TestStorePluginPersistsRaceResults(t *testing.T) {
	dir, err := ioutil.TempDir("", "mgrd-store")

	if err != nil {
		t.Fatal(err)
	}

	defer os.RemoveAll(dir)

	store, err := NewStorePlugin(filepath.Join(dir, "results.db"))

	if err != nil {
		t.Fatalf("Could not open results store: %s", err)
	}

	defer store.Close()

	d, err := director.New(director.DefaultDirectorConfig(), store, logrus.New())

	if err != nil {
		t.Fatalf("Could not build director: %s", err)
	}

	d.InitializeRace(2, 1000)

	playerID := d.RegisterRacer("Player", true, 1)
	aiID := d.RegisterRacer("AI", false, 2)

	d.StartRace()
	d.UpdateDirector(60)

	d.SetRacerFinished(playerID, 60.0)
	d.SetRacerFinished(aiID, 61.5)

	// the race ending triggered OnRaceFinished, which persisted the results
	expected := d.GenerateResults()

	loaded, err := store.LoadResults(expected.ResultsFile)

	if err != nil {
		t.Fatalf("Could not load stored results: %s", err)
	}

	if loaded.Version != director.CurrentResultsVersion {
		t.Errorf("expected version %d, got %d", director.CurrentResultsVersion, loaded.Version)
	}

	if len(loaded.Result) != 2 {
		t.Fatalf("expected 2 result lines, got %d", len(loaded.Result))
	}

	if loaded.Result[0].RacerID != playerID || !loaded.Result[0].IsPlayer {
		t.Errorf("wrong winner: %+v", loaded.Result[0])
	}

	if loaded.Result[1].GapToWinner != 1.5 {
		t.Errorf("expected a 1.5s gap to the winner, got %f", loaded.Result[1].GapToWinner)
	}

	if loaded.Statistics.FinishedRacers != 2 {
		t.Errorf("statistics not persisted: %+v", loaded.Statistics)
	}
}

func TestStorePluginLoadMissingResults(t *testing.T) {
	dir, err := ioutil.TempDir("", "mgrd-store")

	if err != nil {
		t.Fatal(err)
	}

	defer os.RemoveAll(dir)

	store, err := NewStorePlugin(filepath.Join(dir, "results.db"))

	if err != nil {
		t.Fatalf("Could not open results store: %s", err)
	}

	defer store.Close()

	if err := store.Init(nil, logrus.New()); err != nil {
		t.Fatalf("Could not initialise results store: %s", err)
	}

	if _, err := store.LoadResults("2020_1_1_0_0_race.json"); err == nil {
		t.Error("expected an error for results that were never stored")
	}
}
