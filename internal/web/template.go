package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/sound-and-vision/internal/status"
)

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
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Sound and Vision: {{.NodeID}}</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.ready { color: green; font-weight: bold; }
.unknown { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Sound and Vision: {{.NodeID}}</h1>

<h2>Node</h2>
<table>
<tr><th>Group</th><td>{{.Group}}</td></tr>
<tr><th>Pin profile</th><td>{{.Profile}}</td></tr>
<tr><th>Baseline</th><td class="{{if .Node.Baselined}}ready{{else}}unknown{{end}}">{{if .Node.Baselined}}{{.Node.Baseline}}{{else}}not taken{{end}}</td></tr>
<tr><th>Light level</th><td>{{.Node.LightLevel}}</td></tr>
<tr><th>Phase</th><td>{{.Node.Phase}}</td></tr>
</table>

<h2>Thresholds</h2>
<table>
<tr><th>Colour</th><td id="color">{{.Color}}</td></tr>
<tr><th>Tone</th><td id="tone">{{.Tone}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}}, {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>Call Counts</h2>
<table>
<tr><th>Heartbeats sent</th><td>{{.Node.Counts.Heartbeats}}</td></tr>
<tr><th>Light reports sent</th><td>{{.Node.Counts.LightReports}}</td></tr>
<tr><th>Colour commands sent</th><td>{{.Node.Counts.ColorCommands}}</td></tr>
<tr><th>Received</th><td>{{.Node.Counts.Received}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Status</th><td>{{if eq .Config.StatusIntervalMs 0}}disabled{{else}}{{.Config.StatusIntervalMs}}ms{{end}}</td></tr>
<tr><th>Store</th><td>{{.Config.Store}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a> | <a href="/metrics">metrics</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot, color, tone string) error {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
		Color  string
		Tone   string
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
		Color:    color,
		Tone:     tone,
	}
	return indexTmpl.Execute(w, data)
}
