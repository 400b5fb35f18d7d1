package plugins

import (
	"encoding/json"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"midnightgrind.dev/mgrd/internal/director"
)

var resultsBucketName = []byte("results")

// StorePlugin persists the results document of every finished race into a
// bbolt database, keyed by results file name.
type StorePlugin struct {
	db       *bolt.DB
	director director.DirectorPlugin
	logger   director.Logger
}

func NewStorePlugin(path string) (*StorePlugin, error) {
	db, err := bolt.Open(path, 0644, nil)

	if err != nil {
		return nil, errors.Wrapf(err, "could not open results store: %s", path)
	}

	return &StorePlugin{db: db}, nil
}

func (s *StorePlugin) Init(director director.DirectorPlugin, logger director.Logger) error {
	s.director = director
	s.logger = logger

	return s.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(resultsBucketName)

		return err
	})
}

func (s *StorePlugin) Close() error {
	return s.db.Close()
}

func (s *StorePlugin) OnRaceFinished(_ director.RaceStatistics) error {
	results := s.director.GenerateResults()

	data, err := json.Marshal(results)

	if err != nil {
		return errors.Wrap(err, "could not encode race results")
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(resultsBucketName)

		if bucket == nil {
			return errors.New("results bucket does not exist")
		}

		return bucket.Put([]byte(results.ResultsFile), data)
	})

	if err != nil {
		return errors.Wrap(err, "could not store race results")
	}

	s.logger.Infof("Stored race results: %s", results.ResultsFile)

	return nil
}

// LoadResults reads a previously-stored results document back out of the
// store.
func (s *StorePlugin) LoadResults(resultsFile string) (*director.RaceResults, error) {
	var results *director.RaceResults

	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(resultsBucketName)

		if bucket == nil {
			return errors.New("results bucket does not exist")
		}

		data := bucket.Get([]byte(resultsFile))

		if data == nil {
			return errors.Errorf("no results stored for: %s", resultsFile)
		}

		return json.Unmarshal(data, &results)
	})

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (s *StorePlugin) OnRaceStart(_ director.RaceInfo) error {
	return nil
}

func (s *StorePlugin) OnRacePhaseChange(_ director.RacePhase) error {
	return nil
}

func (s *StorePlugin) OnTensionChange(_ director.RaceTension, _ float64) error {
	return nil
}

func (s *StorePlugin) OnLeadChange(_ director.Racer, _ int) error {
	return nil
}

func (s *StorePlugin) OnPositionChange(_ director.Racer, _ int) error {
	return nil
}

func (s *StorePlugin) OnRubberBandApplied(_ director.Racer, _ float64) error {
	return nil
}

func (s *StorePlugin) OnDramaticMoment(_ director.RaceEvent) error {
	return nil
}

func (s *StorePlugin) OnRacerFinished(_ director.Racer, _ int) error {
	return nil
}
