package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string     `json:"event,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	Ready         bool       `json:"ready"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Ring          RingJSON   `json:"ring"`
	Counts        CountsJSON `json:"gesture_counts"`
	Dropped       uint32     `json:"dropped_events"`
	Missed        uint32     `json:"missed_deadlines"`
	Config        ConfigJSON `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// RingJSON is the JSON representation of the selection state.
type RingJSON struct {
	Current  int    `json:"current"`
	Next     int    `json:"next"`
	LEDOn    bool   `json:"led_on"`
	Forward  bool   `json:"forward"`
	Flashing bool   `json:"flashing"`
	Mode     string `json:"mode"`
}

// CountsJSON is the JSON representation of gesture counts.
type CountsJSON struct {
	Click       int `json:"click"`
	DoubleClick int `json:"double_click"`
	Hold        int `json:"hold"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Variant     string `json:"variant"`
	LEDs        int    `json:"leds"`
	ClockHz     uint32 `json:"clock_hz"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
}

// Mode names what the ring is doing: STARTING before the first update,
// then FLASHING or BLINKING.
func Mode(snap Snapshot) string {
	switch {
	case !snap.Started:
		return "STARTING"
	case snap.Ring.Flashing:
		return "FLASHING"
	default:
		return "BLINKING"
	}
}

func buildInner(snap Snapshot) StatusInner {
	r := snap.Ring
	return StatusInner{
		Ready:         snap.Started,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Ring: RingJSON{
			Current:  r.Current,
			Next:     r.Next,
			LEDOn:    r.LEDOn,
			Forward:  r.Forward,
			Flashing: r.Flashing,
			Mode:     Mode(snap),
		},
		Counts: CountsJSON{
			Click:       r.Counts.Click,
			DoubleClick: r.Counts.DoubleClick,
			Hold:        r.Counts.Hold,
		},
		Dropped: r.Dropped,
		Missed:  r.Missed,
		Config: ConfigJSON{
			Variant:     snap.Config.Variant,
			LEDs:        snap.Config.LEDs,
			ClockHz:     snap.Config.ClockHz,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
