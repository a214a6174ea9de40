package cli

import (
	"fmt"
	"text/template"
	"time"
)

// timeLayout формат времени в выводе команд
const timeLayout = "2006-01-02 15:04"

var templateFuncs = template.FuncMap{
	"when": func(t time.Time) string {
		if t.IsZero() {
			return "never"
		}
		return t.Local().Format(timeLayout)
	},
}

const statusTemplate = `=== MissionFlow Status ===

Server:     {{.Server}}
Connection: {{if .Online}}online{{else}}offline{{end}}
{{- if .Actor}}
Actor:      {{.Actor}}
{{- else}}
Actor:      not authenticated
{{- end}}
Last sync:  {{when .LastSync}}
Data saver: {{if .DataSaver}}on{{else}}off{{end}}

Pending actions: {{.Pending}}
Failed actions:  {{.Failed}}
`

const actionTemplate = `#{{.ID}} {{.Operation}} {{.Collection}}{{if .TargetID}} {{.TargetID}}{{end}} [{{.Status}}] queued {{when .Timestamp}}
{{- if .Error}}
    {{.Error}} (attempts: {{.Attempts}})
{{- end}}
`

var (
	statusTmpl = template.Must(template.New("status").Funcs(templateFuncs).Parse(statusTemplate))
	actionTmpl = template.Must(template.New("action").Funcs(templateFuncs).Parse(actionTemplate))
)

type statusView struct {
	LastSync  time.Time
	Server    string
	Actor     string
	Pending   int
	Failed    int
	Online    bool
	DataSaver bool
}

// actionView плоское представление действия для шаблона
type actionView struct {
	Timestamp  time.Time
	Operation  string
	Collection string
	TargetID   string
	Status     string
	Error      string
	ID         uint64
	Attempts   int
}

func formatHours(h float64) string {
	return fmt.Sprintf("%.1fh", h)
}
