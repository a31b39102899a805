package server

import (
	"encoding/json"
	"fmt"
	"html/template"
	"mime"
	"net/http"

	"github.com/gorilla/mux"

	"todo/internal/config"
	"todo/internal/errors"
	"todo/internal/services"
	"todo/internal/validation"
)

// Handler serves both the HTML and the JSON surface over one TaskService
type Handler struct {
	service      services.TaskService
	templates    *template.Template
	validator    *validation.TaskValidator
	maxBodyBytes int64
}

// NewHandler parses the embedded templates and returns a ready Handler
func NewHandler(service services.TaskService, cfg *config.Config) (*Handler, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	templates, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Handler{
		service:      service,
		templates:    templates,
		validator:    validation.NewTaskValidatorWithConfig(cfg),
		maxBodyBytes: cfg.Server.MaxBodyBytes,
	}, nil
}

type createTaskRequest struct {
	Content string `json:"content"`
	Done    bool   `json:"done"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// Index serves the static landing page
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.renderHTML(w, r, http.StatusOK, "index.html", nil)
}

// Health reports whether the store answers
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Ping(r.Context()); err != nil {
		logError(r, err)
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// ListTasksHTML renders the task list fragment
func (h *Handler) ListTasksHTML(w http.ResponseWriter, r *http.Request) {
	h.renderTaskList(w, r, http.StatusOK)
}

// CreateTaskHTML accepts JSON or form input and re-renders the list
func (h *Handler) CreateTaskHTML(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeCreate(w, r)
	if err != nil {
		h.writeTextError(w, r, err)
		return
	}
	if _, err := h.service.CreateTask(r.Context(), req.Content, req.Done); err != nil {
		h.writeTextError(w, r, err)
		return
	}
	h.renderTaskList(w, r, http.StatusCreated)
}

// ToggleTaskHTML flips done and re-renders the list
func (h *Handler) ToggleTaskHTML(w http.ResponseWriter, r *http.Request) {
	id, err := h.taskID(r)
	if err != nil {
		h.writeTextError(w, r, err)
		return
	}
	if _, err := h.service.ToggleTask(r.Context(), id); err != nil {
		h.writeTextError(w, r, err)
		return
	}
	h.renderTaskList(w, r, http.StatusOK)
}

// DeleteTaskHTML deletes the task and re-renders the list
func (h *Handler) DeleteTaskHTML(w http.ResponseWriter, r *http.Request) {
	id, err := h.taskID(r)
	if err != nil {
		h.writeTextError(w, r, err)
		return
	}
	if err := h.service.DeleteTask(r.Context(), id); err != nil {
		h.writeTextError(w, r, err)
		return
	}
	h.renderTaskList(w, r, http.StatusOK)
}

// ListTasksJSON returns every task as a JSON array
func (h *Handler) ListTasksJSON(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.ListTasks(r.Context())
	if err != nil {
		h.writeJSONError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// GetTaskJSON returns a single task as JSON
func (h *Handler) GetTaskJSON(w http.ResponseWriter, r *http.Request) {
	id, err := h.taskID(r)
	if err != nil {
		h.writeJSONError(w, r, err)
		return
	}
	task, err := h.service.GetTask(r.Context(), id)
	if err != nil {
		h.writeJSONError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// CreateTaskJSON creates a task from a JSON body
func (h *Handler) CreateTaskJSON(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeJSON(w, r)
	if err != nil {
		h.writeJSONError(w, r, err)
		return
	}
	task, err := h.service.CreateTask(r.Context(), req.Content, req.Done)
	if err != nil {
		h.writeJSONError(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/api/tasks/%d", task.ID))
	writeJSON(w, http.StatusCreated, task)
}

// ToggleTaskJSON flips done and returns the updated task
func (h *Handler) ToggleTaskJSON(w http.ResponseWriter, r *http.Request) {
	id, err := h.taskID(r)
	if err != nil {
		h.writeJSONError(w, r, err)
		return
	}
	task, err := h.service.ToggleTask(r.Context(), id)
	if err != nil {
		h.writeJSONError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// DeleteTaskJSON deletes the task; deleting a missing id still succeeds
func (h *Handler) DeleteTaskJSON(w http.ResponseWriter, r *http.Request) {
	id, err := h.taskID(r)
	if err != nil {
		h.writeJSONError(w, r, err)
		return
	}
	if err := h.service.DeleteTask(r.Context(), id); err != nil {
		h.writeJSONError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) taskID(r *http.Request) (int64, error) {
	id, err := h.validator.ParseTaskID(mux.Vars(r)["id"])
	if err != nil {
		return 0, validationError(err)
	}
	return id, nil
}

// decodeCreate reads a create request from JSON, multipart or urlencoded input
func (h *Handler) decodeCreate(w http.ResponseWriter, r *http.Request) (createTaskRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		return h.decodeJSON(w, r)
	}
	return h.decodeForm(w, r, mediaType)
}

func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request) (createTaskRequest, error) {
	var req createTaskRequest
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, errors.NewValidationError("request body must be a JSON object with content and done", err)
	}
	return req, nil
}

// decodeForm reads the named fields content and done
func (h *Handler) decodeForm(w http.ResponseWriter, r *http.Request, mediaType string) (createTaskRequest, error) {
	var req createTaskRequest
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)

	var err error
	if mediaType == "multipart/form-data" {
		err = r.ParseMultipartForm(h.maxBodyBytes)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return req, errors.NewValidationError("malformed form body", err)
	}

	done, err := h.validator.ParseDone(r.PostFormValue("done"))
	if err != nil {
		return req, validationError(err)
	}
	req.Content = r.PostFormValue("content")
	req.Done = done
	return req, nil
}

func validationError(err error) error {
	message := "invalid request"
	if ve, ok := err.(*validation.ValidationError); ok {
		message = ve.GetUserFriendlyMessage()
	}
	return errors.NewValidationError(message, err)
}
