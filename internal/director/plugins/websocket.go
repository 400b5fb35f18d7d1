package plugins

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"midnightgrind.dev/mgrd/internal/director"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WebsocketPlugin streams every Director event to connected websocket
// clients as typed JSON messages. Slow or broken clients are dropped.
type WebsocketPlugin struct {
	port   uint16
	logger director.Logger

	server *http.Server

	mutex   sync.Mutex
	clients map[*websocket.Conn]bool
}

type wsMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func NewWebsocketPlugin(port uint16) *WebsocketPlugin {
	return &WebsocketPlugin{
		port:    port,
		clients: make(map[*websocket.Conn]bool),
	}
}

func (w *WebsocketPlugin) Init(_ director.DirectorPlugin, logger director.Logger) error {
	w.logger = logger

	mux := http.NewServeMux()
	mux.HandleFunc("/events", w.handleEvents)

	w.server = &http.Server{
		Handler: mux,
		Addr:    fmt.Sprintf(":%d", w.port),
	}

	go func() {
		err := w.server.ListenAndServe()

		if err == http.ErrServerClosed {
			return
		} else if err != nil {
			logger.WithError(err).Errorf("Could not start websocket server")
		}
	}()

	logger.Infof("Websocket event stream listening on port: %d", w.port)

	return nil
}

func (w *WebsocketPlugin) Close() error {
	if w.server == nil {
		return nil
	}

	return errors.Wrap(w.server.Close(), "could not close websocket server")
}

func (w *WebsocketPlugin) handleEvents(rw http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(rw, r, nil)

	if err != nil {
		w.logger.WithError(err).Errorf("Could not upgrade websocket connection")
		return
	}

	w.mutex.Lock()
	w.clients[conn] = true
	w.mutex.Unlock()

	w.logger.Debugf("Websocket client connected: %s", conn.RemoteAddr())
}

func (w *WebsocketPlugin) broadcast(messageType string, data interface{}) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	message := wsMessage{Type: messageType, Data: data}

	for conn := range w.clients {
		if err := conn.WriteJSON(message); err != nil {
			w.logger.WithError(err).Debugf("Dropping websocket client: %s", conn.RemoteAddr())

			_ = conn.Close()
			delete(w.clients, conn)
		}
	}

	return nil
}

func (w *WebsocketPlugin) OnRaceStart(info director.RaceInfo) error {
	return w.broadcast("race_start", info)
}

func (w *WebsocketPlugin) OnRacePhaseChange(phase director.RacePhase) error {
	return w.broadcast("phase_change", phase.String())
}

func (w *WebsocketPlugin) OnTensionChange(level director.RaceTension, score float64) error {
	return w.broadcast("tension_change", map[string]interface{}{
		"level": level.String(),
		"score": score,
	})
}

func (w *WebsocketPlugin) OnLeadChange(racer director.Racer, totalChanges int) error {
	return w.broadcast("lead_change", map[string]interface{}{
		"racer":         racer,
		"total_changes": totalChanges,
	})
}

func (w *WebsocketPlugin) OnPositionChange(racer director.Racer, newPosition int) error {
	return w.broadcast("position_change", map[string]interface{}{
		"racer":    racer,
		"position": newPosition,
	})
}

func (w *WebsocketPlugin) OnRubberBandApplied(racer director.Racer, modifier float64) error {
	return w.broadcast("rubber_band", map[string]interface{}{
		"racer":    racer,
		"modifier": modifier,
	})
}

func (w *WebsocketPlugin) OnDramaticMoment(event director.RaceEvent) error {
	return w.broadcast("dramatic_moment", event)
}

func (w *WebsocketPlugin) OnRacerFinished(racer director.Racer, finishPosition int) error {
	return w.broadcast("racer_finished", map[string]interface{}{
		"racer":    racer,
		"position": finishPosition,
	})
}

func (w *WebsocketPlugin) OnRaceFinished(stats director.RaceStatistics) error {
	return w.broadcast("race_finished", stats)
}
