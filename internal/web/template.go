package web

import (
	"html/template"
	"io"

	"github.com/meridian-iot/gatekeeper/internal/config"
	"github.com/meridian-iot/gatekeeper/internal/logic"
	"github.com/meridian-iot/gatekeeper/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"stateName": func(s logic.GateState) string { return s.String() },
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Gatekeeper</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
fieldset { margin: 1em 0; }
label { display: inline-block; width: 6em; }
input[type=text], input[type=password] { width: 60%; }
</style>
</head>
<body>
<h1>Gatekeeper</h1>

<h2>State</h2>
<table>
<tr><th>Gate</th><td>{{stateName .Snapshot.State}}</td></tr>
<tr><th>LS-A (open)</th><td class="{{if .Snapshot.LimitOpen}}on{{else}}off{{end}}">{{if .Snapshot.LimitOpen}}asserted{{else}}clear{{end}}</td></tr>
<tr><th>LS-C (closed)</th><td class="{{if .Snapshot.LimitClosed}}on{{else}}off{{end}}">{{if .Snapshot.LimitClosed}}asserted{{else}}clear{{end}}</td></tr>
<tr><th>Motor open</th><td class="{{if .Snapshot.MotorOpen}}on{{else}}off{{end}}">{{if .Snapshot.MotorOpen}}on{{else}}off{{end}}</td></tr>
<tr><th>Motor close</th><td class="{{if .Snapshot.MotorClose}}on{{else}}off{{end}}">{{if .Snapshot.MotorClose}}on{{else}}off{{end}}</td></tr>
</table>

<h2>Wi-Fi</h2>
<form method="post" action="/">
<input type="hidden" name="act" value="wifi">
<fieldset>
<label for="ssid">SSID</label><input type="text" id="ssid" name="ssid" value="{{.Config.WifiSSID}}"><br>
<label for="pass">Password</label><input type="password" id="pass" name="pass">
</fieldset>
<button type="submit">Save Wi-Fi</button>
</form>

<h2>MQTT</h2>
<form method="post" action="/">
<input type="hidden" name="act" value="mqtt">
<fieldset>
<label for="broker">Broker</label><input type="text" id="broker" name="broker" value="{{.Config.BrokerURI}}"><br>
<label for="t1">Cmd topic</label><input type="text" id="t1" name="t1" value="{{.Config.TopicCmd}}"><br>
<label for="t2">Status topic</label><input type="text" id="t2" name="t2" value="{{.Config.TopicStat}}"><br>
<label for="t3">Telemetry topic</label><input type="text" id="t3" name="t3" value="{{.Config.TopicTele}}">
</fieldset>
<button type="submit">Save MQTT</button>
</form>

<h2>Reset</h2>
<form method="get" action="/">
<input type="hidden" name="wipe" value="1">
<button type="submit">Wipe configuration</button>
</form>
</body>
</html>
`

const wipeConfirmationHTML = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Gatekeeper</title></head>
<body>
<p>Configuration wiped. Restarting into provisioning mode.</p>
</body>
</html>
`

func renderIndex(w io.Writer, rec config.Record, snap status.Snapshot) {
	data := struct {
		Config   config.Record
		Snapshot status.Snapshot
	}{Config: rec, Snapshot: snap}
	indexTmpl.Execute(w, data)
}
