package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"

	"todo/internal/domain"
	"todo/internal/errors"
	"todo/internal/logging"
)

//go:embed templates/*.html
var templatesFS embed.FS

func parseTemplates() (*template.Template, error) {
	return template.ParseFS(templatesFS, "templates/*.html")
}

type tasksView struct {
	Tasks []domain.Task
}

// renderHTML executes a template into a buffer first so a template failure
// never leaves a half-written response.
func (h *Handler) renderHTML(w http.ResponseWriter, r *http.Request, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		h.writeTextError(w, r, errors.NewStorageError("render", err).WithContext("template", name))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logging.Debugf("write %s: %v", name, err)
	}
}

// renderTaskList re-reads every task and renders the list fragment
func (h *Handler) renderTaskList(w http.ResponseWriter, r *http.Request, status int) {
	tasks, err := h.service.ListTasks(r.Context())
	if err != nil {
		h.writeTextError(w, r, err)
		return
	}
	h.renderHTML(w, r, status, "tasks.html", tasksView{Tasks: tasks})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Debugf("encode response: %v", err)
	}
}
