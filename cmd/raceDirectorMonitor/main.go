package main

import (
	"encoding/json"
	"flag"
	"os"
	"os/signal"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var address string

func init() {
	flag.StringVar(&address, "addr", "ws://localhost:9700/events", "race director websocket address")
	flag.Parse()
}

type wsMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	logger.Infof("Connecting to race director at: %s", address)

	conn, _, err := websocket.DefaultDialer.Dial(address, nil)

	if err != nil {
		logger.WithError(errors.Wrap(err, "dial failed")).Fatal("Could not connect to race director")
	}

	defer conn.Close()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	go func() {
		<-c

		_ = conn.Close()
		os.Exit(0)
	}()

	for {
		var message wsMessage

		if err := conn.ReadJSON(&message); err != nil {
			logger.WithError(err).Fatal("Connection to race director lost")
		}

		logger.WithField("event", message.Type).Infof("%s", string(message.Data))
	}
}
