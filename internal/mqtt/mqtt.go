// Package mqtt carries diagnostic lines and lifecycle events to an MQTT
// broker. Nothing is ever subscribed to: the ring is not controlled over MQTT.
package mqtt

import (
	"encoding/json"
	"time"
)

// TopicDiag is the MQTT topic for diagnostic lines.
const TopicDiag = "ledring/diag"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "ledring/system"

// Publisher publishes diagnostics and lifecycle events.
type Publisher interface {
	// Emit sends one diagnostic line. It never blocks and never fails:
	// lines are buffered or dropped while the broker is unreachable.
	Emit(line string)

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (STARTUP, SHUTDOWN, OFFLINE).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string
	Reason     string // signal name, shutdown only
	RawPayload []byte // if set, FormatSystemPayload returns it directly
	Retained   bool
}

// DiagPayload is the JSON envelope for a diagnostic line.
type DiagPayload struct {
	Diag DiagInner `json:"diag"`
}

// DiagInner contains the diagnostic line.
type DiagInner struct {
	Timestamp string `json:"timestamp"`
	Line      string `json:"line"`
}

// FormatDiagPayload creates the JSON payload for a diagnostic line.
func FormatDiagPayload(ts time.Time, line string) ([]byte, error) {
	return json.Marshal(DiagPayload{
		Diag: DiagInner{
			Timestamp: ts.UTC().Format(time.RFC3339Nano),
			Line:      line,
		},
	})
}

// SystemPayload is the JSON envelope for events that carry no status
// snapshot, such as the last-will OFFLINE message.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	return json.Marshal(SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	})
}
