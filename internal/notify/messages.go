package notify

import (
	"fmt"
	"html/template"
	"strings"
	"time"
)

// DeadlineLayout is how deadlines are shown in chat messages.
const DeadlineLayout = "2006-01-02 15:04"

var messageTemplates = template.Must(template.New("messages").Funcs(template.FuncMap{
	"deadline": func(t time.Time) string { return t.UTC().Format(DeadlineLayout) },
}).Parse(`
{{- define "new_task" -}}
📋 New task: <b>{{.Title}}</b>
{{- if .Description}}
Description: {{.Description}}
{{- end}}
Deadline: {{deadline .Deadline}}
{{- end -}}

{{- define "overdue" -}}
⏰ Task overdue: <b>{{.Title}}</b>
Deadline: {{deadline .Deadline}}
{{- end -}}
`))

// Render builds the HTML parse-mode text for job. User-supplied fields are escaped.
func Render(job Job) (string, error) {
	var b strings.Builder
	if err := messageTemplates.ExecuteTemplate(&b, string(job.Kind), job.Task); err != nil {
		return "", fmt.Errorf("render %s message: %w", job.Kind, err)
	}
	return b.String(), nil
}
