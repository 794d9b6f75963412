package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/ledring/internal/status"
)

// ledView is one cell of the ring diagram.
type ledView struct {
	Index   int
	Class   string
	Pending bool
}

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"direction": func(forward bool) string {
		if forward {
			return "forward"
		}
		return "reverse"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="2">
<title>LED Ring</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.ring { display: flex; gap: 8px; margin: 1em 0; }
.led { width: 28px; height: 28px; border-radius: 50%; background: #ddd; text-align: center; line-height: 28px; font-size: 0.8em; }
.led.lit { background: #f2c200; }
.led.selected { border: 2px solid #f2c200; line-height: 24px; width: 24px; height: 24px; }
.led.pending { outline: 2px dashed #888; }
.led.flash { background: #f25c00; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>LED Ring <small>({{.Config.Variant}})</small></h1>

<h2>Ring</h2>
<div class="ring">{{range .LEDs}}<div class="led {{.Class}}{{if .Pending}} pending{{end}}">{{.Index}}</div>{{end}}</div>
<table>
<tr><th>Mode</th><td id="mode">{{.Mode}}</td></tr>
<tr><th>Current</th><td>{{.Ring.Current}}</td></tr>
<tr><th>Next</th><td>{{.Ring.Next}}</td></tr>
<tr><th>Direction</th><td>{{direction .Ring.Forward}}</td></tr>
</table>

<h2>Gestures</h2>
<table>
<tr><th>Click</th><td>{{.Ring.Counts.Click}}</td></tr>
<tr><th>Double click</th><td>{{.Ring.Counts.DoubleClick}}</td></tr>
<tr><th>Hold</th><td>{{.Ring.Counts.Hold}}</td></tr>
<tr><th>Dropped</th><td>{{.Ring.Dropped}}</td></tr>
<tr><th>Missed deadlines</th><td>{{.Ring.Missed}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{if .Config.Broker}}{{.Config.Broker}}{{else}}disabled{{end}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Clock</th><td>{{.Config.ClockHz}} Hz</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

// ringView lays out the ring for the template. While flashing every LED
// shows the flash colour; otherwise only the current LED can be lit.
func ringView(snap status.Snapshot) []ledView {
	r := snap.Ring
	leds := make([]ledView, snap.Config.LEDs)
	for i := range leds {
		v := ledView{Index: i, Pending: snap.Started && i == r.Next && r.Next != r.Current}
		switch {
		case r.Flashing:
			v.Class = "flash"
		case i == r.Current && r.LEDOn:
			v.Class = "selected lit"
		case i == r.Current:
			v.Class = "selected"
		}
		leds[i] = v
	}
	return leds
}

func renderHTML(w io.Writer, snap status.Snapshot) {
	data := struct {
		status.Snapshot
		Uptime time.Duration
		Mode   string
		LEDs   []ledView
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
		Mode:     status.Mode(snap),
		LEDs:     ringView(snap),
	}
	indexTmpl.Execute(w, data)
}
