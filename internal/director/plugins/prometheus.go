package plugins

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"midnightgrind.dev/mgrd/internal/director"
)

// MetricsPlugin exports Director signals as prometheus metrics.
type MetricsPlugin struct {
	port   uint16
	server *http.Server

	tensionScore prometheus.Gauge
	racePhase    prometheus.Gauge
	activeRacers prometheus.Gauge

	leadChanges  prometheus.Counter
	eventsByType *prometheus.CounterVec
	racesTotal   prometheus.Counter
}

func NewMetricsPlugin(port uint16) *MetricsPlugin {
	return &MetricsPlugin{
		port: port,
		tensionScore: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "mgrd_tension_score",
			Help: "Current smoothed race tension (0..1)",
		}),
		racePhase: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "mgrd_race_phase",
			Help: "Current race phase as an ordinal",
		}),
		activeRacers: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "mgrd_active_racers",
			Help: "Racers currently active and unfinished",
		}),
		leadChanges: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mgrd_lead_changes_total",
			Help: "Total number of lead changes",
		}),
		eventsByType: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mgrd_dramatic_moments_total",
			Help: "Dramatic moments triggered, by type",
		}, []string{"moment"}),
		racesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mgrd_races_finished_total",
			Help: "Races run to completion",
		}),
	}
}

func (m *MetricsPlugin) Init(_ director.DirectorPlugin, logger director.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	m.server = &http.Server{
		Handler: mux,
		Addr:    fmt.Sprintf(":%d", m.port),
	}

	go func() {
		err := m.server.ListenAndServe()

		if err == http.ErrServerClosed {
			return
		} else if err != nil {
			logger.WithError(err).Errorf("Could not start metrics server")
		}
	}()

	logger.Infof("Prometheus metrics listening on port: %d", m.port)

	return nil
}

func (m *MetricsPlugin) Close() error {
	if m.server == nil {
		return nil
	}

	return m.server.Close()
}

func (m *MetricsPlugin) OnRaceStart(info director.RaceInfo) error {
	m.activeRacers.Set(float64(info.NumRacers))

	return nil
}

func (m *MetricsPlugin) OnRacePhaseChange(phase director.RacePhase) error {
	m.racePhase.Set(float64(phase))

	return nil
}

func (m *MetricsPlugin) OnTensionChange(_ director.RaceTension, score float64) error {
	m.tensionScore.Set(score)

	return nil
}

func (m *MetricsPlugin) OnLeadChange(_ director.Racer, _ int) error {
	m.leadChanges.Inc()

	return nil
}

func (m *MetricsPlugin) OnPositionChange(_ director.Racer, _ int) error {
	return nil
}

func (m *MetricsPlugin) OnRubberBandApplied(_ director.Racer, _ float64) error {
	return nil
}

func (m *MetricsPlugin) OnDramaticMoment(event director.RaceEvent) error {
	m.eventsByType.WithLabelValues(event.Moment.String()).Inc()

	return nil
}

func (m *MetricsPlugin) OnRacerFinished(_ director.Racer, _ int) error {
	return nil
}

func (m *MetricsPlugin) OnRaceFinished(_ director.RaceStatistics) error {
	m.racesTotal.Inc()

	return nil
}
