package main

import (
	"log"

	"github.com/sweeney/ledring/internal/mqtt"
	"github.com/sweeney/ledring/internal/ring"
)

// logSink writes diagnostic lines to the process log.
type logSink struct{}

func (logSink) Emit(line string) {
	log.Print(line)
}

// diagSinks fans a diagnostic line out to every sink.
type diagSinks []ring.Diagnostics

func (d diagSinks) Emit(line string) {
	for _, s := range d {
		s.Emit(line)
	}
}

// nopPublisher stands in when no broker is configured.
type nopPublisher struct{}

func (nopPublisher) Emit(string) {}

func (nopPublisher) PublishSystem(mqtt.SystemEvent) error { return nil }

func (nopPublisher) Close() error { return nil }
