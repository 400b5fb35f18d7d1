package director

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi"
)

// HTTP serves read-only JSON snapshots of the Director for external
// dashboards. It never mutates race state.
type HTTP struct {
	server *http.Server
	logger Logger

	port     uint16
	director *Director
}

func NewHTTP(port uint16, director *Director, logger Logger) *HTTP {
	return &HTTP{
		port:     port,
		director: director,
		logger:   logger,
	}
}

func (h *HTTP) Listen() error {
	h.logger.Infof("HTTP server listening on port: %d", h.port)

	h.server = &http.Server{
		Handler: h.Router(),
		Addr:    fmt.Sprintf(":%d", h.port),
	}

	go func() {
		err := h.server.ListenAndServe()

		if err == http.ErrServerClosed {
			return
		} else if err != nil {
			h.logger.WithError(err).Errorf("Could not start HTTP server")
		}
	}()

	return nil
}

func (h *HTTP) Close() error {
	if h.server == nil {
		return nil
	}

	return h.server.Close()
}

func (h *HTTP) Router() http.Handler {
	router := chi.NewRouter()
	router.Get("/state", h.State)
	router.Get("/leaderboard", h.Leaderboard)
	router.Get("/events", h.Events)
	router.Get("/stats", h.Stats)
	router.Get("/results", h.Results)
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.logger.Debugf("Could not find HTTP response for URL: %s", r.URL.String())

		http.NotFound(w, r)
	})

	return router
}

func (h *HTTP) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.director.GetDirectorState())
}

type LeaderboardLine struct {
	Position         int             `json:"position"`
	Name             string          `json:"name"`
	IsPlayer         bool            `json:"is_player"`
	Lap              int             `json:"lap"`
	Speed            float64         `json:"speed"`
	DistanceToLeader float64         `json:"distance_to_leader"`
	SpeedModifier    float64         `json:"speed_modifier"`
	Behavior         AIBehaviorState `json:"behavior"`
	Finished         bool            `json:"finished"`
}

func (h *HTTP) Leaderboard(w http.ResponseWriter, r *http.Request) {
	var leaderboard []*LeaderboardLine

	for _, racer := range h.director.GetAllRacerStates() {
		leaderboard = append(leaderboard, &LeaderboardLine{
			Position:         racer.CurrentPosition,
			Name:             racer.Name,
			IsPlayer:         racer.IsPlayer,
			Lap:              racer.CurrentLap,
			Speed:            racer.CurrentSpeed,
			DistanceToLeader: racer.DistanceToLeader,
			SpeedModifier:    racer.SpeedModifier,
			Behavior:         racer.BehaviorState,
			Finished:         racer.HasFinished,
		})
	}

	writeJSON(w, leaderboard)
}

func (h *HTTP) Events(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.director.GetDramaticEvents())
}

func (h *HTTP) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.director.GetRaceStatistics())
}

func (h *HTTP) Results(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.director.GenerateResults())
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Add("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}
