package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires every route. Each route has one fixed output format:
// /tasks writes HTML (except the single-task GET, which is JSON) and
// /api/tasks writes JSON. PUT toggles done and takes no body.
func NewRouter(h *Handler) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", h.Index).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	r.HandleFunc("/tasks", h.ListTasksHTML).Methods(http.MethodGet)
	r.HandleFunc("/tasks", h.CreateTaskHTML).Methods(http.MethodPost)
	r.HandleFunc("/tasks/{id}", h.GetTaskJSON).Methods(http.MethodGet)
	r.HandleFunc("/tasks/{id}", h.ToggleTaskHTML).Methods(http.MethodPut)
	r.HandleFunc("/tasks/{id}", h.DeleteTaskHTML).Methods(http.MethodDelete)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/tasks", h.ListTasksJSON).Methods(http.MethodGet)
	api.HandleFunc("/tasks", h.CreateTaskJSON).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{id}", h.GetTaskJSON).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}", h.ToggleTaskJSON).Methods(http.MethodPut)
	api.HandleFunc("/tasks/{id}", h.DeleteTaskJSON).Methods(http.MethodDelete)

	return requestIDMiddleware(accessLogMiddleware(recoverMiddleware(r)))
}
