package server

import (
	"html/template"
	"net/http"

	"github.com/bluenet-io/bluenet/internal/eventlog"
	"github.com/bluenet-io/bluenet/internal/model"
)

const recentEventLimit = 20

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="5">
<title>BlueNet Boundary Monitor</title>
<style>
body { font-family: monospace; margin: 2em; background: #0b1e2d; color: #d8e6f0; }
h1 { color: #4db8ff; }
table { border-collapse: collapse; margin-top: 1em; }
th, td { border: 1px solid #2a4a63; padding: 4px 10px; text-align: left; }
.inside { color: #6fdc8c; }
.outside { color: #ff6b6b; }
.stat { display: inline-block; margin-right: 2em; }
.stat b { font-size: 1.4em; }
button { font-family: monospace; background: #15314a; color: #d8e6f0; border: 1px solid #2a4a63; padding: 4px 12px; margin-right: 0.5em; cursor: pointer; }
</style>
<script>
function hit(path) { fetch(path).then(function() { location.reload(); }); }
</script>
</head>
<body>
<h1>BlueNet Boundary Monitor</h1>
<p>Session {{.SessionID}} &middot; feed {{if .FeedRunning}}running{{else}}stopped{{end}} &middot; alerts {{.AlertMode}}</p>
<p>
<button onclick="hit('/start-boundary-test')">start boundary test</button>
<button onclick="hit('/stop-boundary-test')">stop</button>
<button onclick="hit('/test-emergency-call')">test alert channel</button>
</p>
<div>
<span class="stat"><b>{{.Summary.TotalCrossings}}</b> crossings</span>
<span class="stat"><b>{{.Summary.Violations}}</b> violation reports</span>
<span class="stat"><b>{{.Summary.Escalations}}</b> escalations ({{.Summary.SuccessRate}}% ok)</span>
</div>
{{if .Latest}}
<p>Last position: {{printf "%.6f" .Latest.Latitude}}, {{printf "%.6f" .Latest.Longitude}}
&mdash; <span class="{{if .Latest.Inside}}inside{{else}}outside{{end}}">{{if .Latest.Inside}}INSIDE{{else}}OUTSIDE{{end}}</span></p>
{{else}}
<p>No position reports yet.</p>
{{end}}
<table>
<tr><th>Time (UTC)</th><th>Lat</th><th>Lon</th><th>Status</th><th>Crossed</th><th>Distance</th><th>Escalation</th></tr>
{{range .Events}}
<tr>
<td>{{.Timestamp.Format "15:04:05"}}</td>
<td>{{printf "%.5f" .Latitude}}</td>
<td>{{printf "%.5f" .Longitude}}</td>
<td class="{{if .Inside}}inside{{else}}outside{{end}}">{{if .Inside}}inside{{else}}outside{{end}}</td>
<td>{{if .BoundaryCrossed}}{{.CrossingDirection}}{{end}}</td>
<td>{{if .DistanceKnown}}{{printf "%.0f m" .DistanceMeters}}{{else}}n/a{{end}}</td>
<td>{{if .EscalationAuthorized}}authorized{{end}}</td>
</tr>
{{end}}
</table>
</body>
</html>
`))

type dashboardData struct {
	SessionID   string
	FeedRunning bool
	AlertMode   string
	Summary     eventlog.Summary
	Latest      *model.DecisionRecord
	Events      []model.DecisionRecord
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	summary, err := s.store.Summarize()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	events, err := s.store.RecentEvents(recentEventLimit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	// Headers are already out; a render error mid-body is unrecoverable.
	_ = dashboardTmpl.Execute(w, dashboardData{
		SessionID:   s.engine.SessionID(),
		FeedRunning: s.FeedRunning(),
		AlertMode:   s.alertMode(),
		Summary:     summary,
		Latest:      summary.Latest,
		Events:      events,
	})
}
