package bot

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/phrazzld/tasklink-api/internal/domain"
	"github.com/phrazzld/tasklink-api/internal/notify"
)

// Fixed replies
const (
	MsgNoTasks          = "🎉 You have no tasks yet!"
	MsgNotLinked        = "🔒 Your Telegram is not linked to an account yet.\n\nSend /login to get a code and enter it on the website."
	MsgListFailed       = "⚠️ Could not load tasks. Try again later."
	MsgCompleted        = "✅ Task completed."
	MsgTaskNotFound     = "❌ Task not found or not yours."
	MsgCompleteFailed   = "⚠️ Could not complete the task."
	MsgCompleteBadInput = "❌ Invalid command format. Example: /complete_5"
	MsgUnknownCommand   = "🤔 Unknown command. Try /tasks or /login."
)

var replyTemplates = template.Must(template.New("replies").Funcs(template.FuncMap{
	"deadline": func(t domain.Task) string { return t.Deadline.UTC().Format(notify.DeadlineLayout) },
}).Parse(`
{{- define "start" -}}
👋 Hi! This bot helps you manage tasks from the web app.

To use it:
1️⃣ Sign in on the web and open the Telegram link form
2️⃣ Enter this code: {{.}}
3️⃣ Then send /tasks
{{- end -}}

{{- define "login" -}}
🔐 To link Telegram to your account:

1️⃣ Sign in to the web app
2️⃣ Open <b>Link Telegram</b>
3️⃣ Enter this code: <code>{{.}}</code>

After linking, use /tasks
{{- end -}}

{{- define "task" -}}
<b>{{.Title}}</b>
🕓 Deadline: {{deadline .}}
{{if .Completed}}✅ Completed{{else}}❌ Not completed

To complete:
/complete_{{.ID}}{{end}}
{{- end -}}
`))

func render(name string, data any) string {
	var b strings.Builder
	if err := replyTemplates.ExecuteTemplate(&b, name, data); err != nil {
		// Templates are static; failure means a programming error.
		panic(fmt.Sprintf("render %s: %v", name, err))
	}
	return b.String()
}

// RenderStart greets a user and shows their binding code.
func RenderStart(externalID int64) string { return render("start", externalID) }

// RenderLogin shows the binding code with linking instructions.
func RenderLogin(externalID int64) string { return render("login", externalID) }

// RenderTask summarizes one task. Incomplete tasks carry a /complete_<id> hint.
func RenderTask(task domain.Task) string { return render("task", task) }
