package server

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"html/template"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/internal/config"
	"todo/internal/domain"
	"todo/internal/errors"
	"todo/internal/logging"
	"todo/internal/repository/sqlite"
	"todo/internal/services"
)

type testEnv struct {
	handler *Handler
	router  http.Handler
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "todo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	cfg := config.NewConfig()
	handler, err := NewHandler(services.NewTaskService(repo, cfg), cfg)
	require.NoError(t, err)
	return &testEnv{handler: handler, router: NewRouter(handler)}
}

func (e *testEnv) do(t *testing.T, method, target string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) postJSON(t *testing.T, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, http.MethodPost, target, bytes.NewBufferString(body), "application/json")
}

func (e *testEnv) listJSON(t *testing.T) []domain.Task {
	t.Helper()
	rec := e.do(t, http.MethodGet, "/api/tasks", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tasks []domain.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	return tasks
}

func decodeTask(t *testing.T, rec *httptest.ResponseRecorder) domain.Task {
	t.Helper()
	var task domain.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	return task
}

func multipartBody(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

// failingService fails every call with err
type failingService struct {
	err error
}

func (f *failingService) CreateTask(context.Context, string, bool) (*domain.Task, error) {
	return nil, f.err
}
func (f *failingService) GetTask(context.Context, int64) (*domain.Task, error) {
	return nil, f.err
}
func (f *failingService) ListTasks(context.Context) ([]domain.Task, error) {
	return nil, f.err
}
func (f *failingService) ToggleTask(context.Context, int64) (*domain.Task, error) {
	return nil, f.err
}
func (f *failingService) DeleteTask(context.Context, int64) error { return f.err }
func (f *failingService) Ping(context.Context) error { return f.err }

func TestIndex(t *testing.T) {
	env := setupTestEnv(t)

	rec := env.do(t, http.MethodGet, "/", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), `hx-get="/tasks"`)
}

func TestCreateGetToggleDeleteFlow(t *testing.T) {
	env := setupTestEnv(t)

	rec := env.postJSON(t, "/api/tasks", `{"content":"buy milk","done":false}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeTask(t, rec)
	assert.Equal(t, domain.Task{ID: 1, Content: "buy milk", Done: false}, created)
	assert.Equal(t, "/api/tasks/1", rec.Header().Get("Location"))

	rec = env.do(t, http.MethodGet, "/tasks/1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"content":"buy milk","done":false}`, rec.Body.String())

	rec = env.do(t, http.MethodPut, "/tasks/1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `class="done"`)

	rec = env.do(t, http.MethodGet, "/tasks/1", nil, "")
	assert.JSONEq(t, `{"id":1,"content":"buy milk","done":true}`, rec.Body.String())

	rec = env.do(t, http.MethodDelete, "/tasks/1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/tasks/1", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateTask_ContentStoredAsSubmitted(t *testing.T) {
	env := setupTestEnv(t)

	rec := env.postJSON(t, "/api/tasks", `{"content":"  buy milk  "}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "  buy milk  ", decodeTask(t, rec).Content)

	body, contentType := multipartBody(t, map[string]string{"content": " walk dog\n"})
	rec = env.do(t, http.MethodPost, "/tasks", body, contentType)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/tasks/1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"content":"  buy milk  ","done":false}`, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/tasks/2", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, " walk dog\n", decodeTask(t, rec).Content)
}

func TestListTasksHTML(t *testing.T) {
	env := setupTestEnv(t)

	rec := env.do(t, http.MethodGet, "/tasks", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Nothing to do.")

	env.postJSON(t, "/api/tasks", `{"content":"first"}`)
	env.postJSON(t, "/api/tasks", `{"content":"<script>alert(1)</script>"}`)

	rec = env.do(t, http.MethodGet, "/tasks", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, 2, strings.Count(body, `<li id="task-`))
	assert.Less(t, strings.Index(body, `id="task-1"`), strings.Index(body, `id="task-2"`))
	assert.NotContains(t, body, "<script>alert(1)</script>", "content must be escaped")
	assert.Contains(t, body, "&lt;script&gt;")
}

func TestCreateTaskHTML_Multipart(t *testing.T) {
	env := setupTestEnv(t)

	body, contentType := multipartBody(t, map[string]string{"content": "walk dog"})
	rec := env.do(t, http.MethodPost, "/tasks", body, contentType)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "walk dog")

	body, contentType = multipartBody(t, map[string]string{"content": "feed cat", "done": "on"})
	rec = env.do(t, http.MethodPost, "/tasks", body, contentType)
	require.Equal(t, http.StatusCreated, rec.Code)

	tasks := env.listJSON(t)
	require.Len(t, tasks, 2)
	assert.False(t, tasks[0].Done)
	assert.True(t, tasks[1].Done)
	assert.Equal(t, "feed cat", tasks[1].Content)
}

func TestCreateTaskHTML_URLEncodedAndJSON(t *testing.T) {
	env := setupTestEnv(t)

	form := url.Values{"content": {"water plants"}, "done": {"true"}}
	rec := env.do(t, http.MethodPost, "/tasks", bytes.NewBufferString(form.Encode()), "application/x-www-form-urlencoded")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.postJSON(t, "/tasks", `{"content":"call mum","done":false}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "call mum")

	tasks := env.listJSON(t)
	require.Len(t, tasks, 2)
	assert.Equal(t, domain.Task{ID: 1, Content: "water plants", Done: true}, tasks[0])
}

func TestCreateTask_EmptyContentRejected(t *testing.T) {
	env := setupTestEnv(t)
	env.postJSON(t, "/api/tasks", `{"content":"keep me"}`)

	tests := []struct {
		name   string
		method string
		target string
		body   func() (*bytes.Buffer, string)
	}{
		{"json api", http.MethodPost, "/api/tasks", func() (*bytes.Buffer, string) {
			return bytes.NewBufferString(`{"content":"","done":true}`), "application/json"
		}},
		{"json html route", http.MethodPost, "/tasks", func() (*bytes.Buffer, string) {
			return bytes.NewBufferString(`{"content":"   "}`), "application/json"
		}},
		{"multipart missing content", http.MethodPost, "/tasks", func() (*bytes.Buffer, string) {
			return multipartBody(t, map[string]string{"done": "on"})
		}},
		{"malformed json", http.MethodPost, "/api/tasks", func() (*bytes.Buffer, string) {
			return bytes.NewBufferString(`{"content":`), "application/json"
		}},
		{"bad done value", http.MethodPost, "/tasks", func() (*bytes.Buffer, string) {
			return multipartBody(t, map[string]string{"content": "x", "done": "maybe"})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := tt.body()
			rec := env.do(t, tt.method, tt.target, body, contentType)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Len(t, env.listJSON(t), 1, "no new row may be persisted")
		})
	}
}

func TestCreateTaskJSON_ErrorBody(t *testing.T) {
	env := setupTestEnv(t)

	rec := env.postJSON(t, "/api/tasks", `{"content":""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"content is required","code":"VALIDATION_FAILED"}`, rec.Body.String())
}

func TestGetTask_NotFoundAndBadID(t *testing.T) {
	env := setupTestEnv(t)
	env.postJSON(t, "/api/tasks", `{"content":"only"}`)

	rec := env.do(t, http.MethodGet, "/tasks/2", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "task not found: 2")

	rec = env.do(t, http.MethodGet, "/api/tasks/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPut, "/tasks/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestToggleTask(t *testing.T) {
	env := setupTestEnv(t)
	env.postJSON(t, "/api/tasks", `{"content":"flip","done":false}`)

	rec := env.do(t, http.MethodPut, "/api/tasks/1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeTask(t, rec).Done)

	rec = env.do(t, http.MethodPut, "/api/tasks/1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeTask(t, rec).Done, "toggling twice restores the original value")

	rec = env.do(t, http.MethodPut, "/api/tasks/99", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPut, "/tasks/99", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteTask_Idempotent(t *testing.T) {
	env := setupTestEnv(t)
	env.postJSON(t, "/api/tasks", `{"content":"gone soon"}`)

	rec := env.do(t, http.MethodDelete, "/api/tasks/1", nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/tasks/1", nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodDelete, "/tasks/1", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/tasks/1", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListTasksJSON_OrderedAndNeverNull(t *testing.T) {
	env := setupTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/tasks", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	for _, content := range []string{"c", "b", "a"} {
		env.postJSON(t, "/api/tasks", `{"content":"`+content+`"}`)
	}
	env.do(t, http.MethodPut, "/api/tasks/2", nil, "")
	env.do(t, http.MethodDelete, "/api/tasks/1", nil, "")
	env.postJSON(t, "/api/tasks", `{"content":"d"}`)

	tasks := env.listJSON(t)
	require.Len(t, tasks, 3)
	for i := 1; i < len(tasks); i++ {
		assert.Less(t, tasks[i-1].ID, tasks[i].ID)
	}
}

func TestStorageErrorsAreOpaque(t *testing.T) {
	storageErr := errors.NewStorageError("list tasks", stderrors.New(`relation "tasks" does not exist`))
	handler, err := NewHandler(&failingService{err: storageErr}, nil)
	require.NoError(t, err)
	router := NewRouter(handler)

	for _, target := range []string{"/tasks", "/api/tasks", "/tasks/1"} {
		t.Run(target, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Contains(t, rec.Body.String(), errors.OpaqueMessage)
			assert.NotContains(t, rec.Body.String(), "relation")
		})
	}
}

func TestTemplateFailureIsStorageError(t *testing.T) {
	var logs bytes.Buffer
	restore := logging.SetOutput(&logs)
	defer restore()

	env := setupTestEnv(t)
	env.handler.templates = template.Must(template.New("tasks.html").Parse(`{{.Missing.Field}}`))

	rec := env.do(t, http.MethodGet, "/tasks", nil, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, errors.OpaqueMessage+"\n", rec.Body.String())

	logged := logs.String()
	assert.Contains(t, logged, "GET /tasks request_id="+rec.Header().Get(RequestIDHeader))
	assert.Contains(t, logged, "operation=render template=tasks.html")
}

func TestHealth(t *testing.T) {
	env := setupTestEnv(t)

	rec := env.do(t, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	handler, err := NewHandler(&failingService{err: errors.NewStorageError("ping", nil)}, nil)
	require.NoError(t, err)
	rec = httptest.NewRecorder()
	NewRouter(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	env := setupTestEnv(t)

	rec := env.do(t, http.MethodPatch, "/tasks/1", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRequestBodyLimit(t *testing.T) {
	env := setupTestEnv(t)
	env.handler.maxBodyBytes = 16

	rec := env.postJSON(t, "/api/tasks", `{"content":"this body is far too long"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, env.listJSON(t))
}
