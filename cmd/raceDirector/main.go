package main

import (
	"flag"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"midnightgrind.dev/mgrd/internal/director"
	"midnightgrind.dev/mgrd/internal/director/plugins"
)

var configPath string

func init() {
	flag.StringVar(&configPath, "c", "./config.yml", "config path")
	flag.Parse()
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetLevel(logrus.DebugLevel)

	logger.Infof("Starting Midnight Grind race director")

	config, err := readConfig()

	if err != nil {
		logger.WithError(err).Fatalf("Could not read config at %s", configPath)
	}

	var pluginList []director.Plugin

	if config.WebsocketPort > 0 {
		pluginList = append(pluginList, plugins.NewWebsocketPlugin(config.WebsocketPort))
	}

	if config.MetricsPort > 0 {
		pluginList = append(pluginList, plugins.NewMetricsPlugin(config.MetricsPort))
	}

	var store *plugins.StorePlugin

	if config.StorePath != "" {
		store, err = plugins.NewStorePlugin(config.StorePath)

		if err != nil {
			logger.WithError(err).Fatal("Could not open results store")
		}

		defer store.Close()

		pluginList = append(pluginList, store)
	}

	d, err := director.New(config.Director, director.MultiPlugin(pluginList...), logger)

	if err != nil {
		logger.WithError(err).Fatal("Could not initialise race director")
	}

	if config.DifficultyPreset != nil {
		d.SetDifficultyPreset(*config.DifficultyPreset)
	}

	if config.HTTPPort > 0 {
		httpServer := director.NewHTTP(config.HTTPPort, d, logger)

		if err := httpServer.Listen(); err != nil {
			logger.WithError(err).Fatal("Could not start HTTP server")
		}

		defer httpServer.Close()
	}

	sim := newSimulator(d, config.Simulation, logger)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	go func() {
		for range c {
			sim.stop()
		}
	}()

	sim.run()

	results := d.GenerateResults()

	if err := director.SaveResults(".", results, logger); err != nil {
		logger.WithError(err).Errorf("Could not save race results")
	}

	logger.Infof("Race director stopped. Exiting")
}

type Config struct {
	Director         director.DirectorConfig `json:"director" yaml:"director"`
	DifficultyPreset *int                    `json:"difficulty_preset" yaml:"difficulty_preset"`

	HTTPPort      uint16 `json:"http_port" yaml:"http_port"`
	WebsocketPort uint16 `json:"websocket_port" yaml:"websocket_port"`
	MetricsPort   uint16 `json:"metrics_port" yaml:"metrics_port"`
	StorePath     string `json:"store_path" yaml:"store_path"`

	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
}

func readConfig() (*Config, error) {
	conf := &Config{
		Director:   director.DefaultDirectorConfig(),
		Simulation: defaultSimulationConfig(),
	}

	f, err := os.Open(configPath)

	if os.IsNotExist(err) {
		return conf, nil
	} else if err != nil {
		return nil, err
	}

	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&conf); err != nil {
		return nil, err
	}

	return conf, nil
}
