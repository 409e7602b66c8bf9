package task

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush/taskflow/internal/auth"
	"github.com/ayush/taskflow/internal/models"
	"github.com/ayush/taskflow/internal/store"
	"github.com/ayush/taskflow/internal/web"
)

// TaskStore defines the interface for task persistence. Every operation is
// parameterized by the owner so authorization cannot be forgotten on a new
// endpoint.
type TaskStore interface {
	Insert(ctx context.Context, t *models.Task) (*models.Task, error)
	ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Task, error)
	GetByID(ctx context.Context, ownerID primitive.ObjectID, id string) (*models.Task, error)
	Update(ctx context.Context, ownerID primitive.ObjectID, id string, req *models.UpdateTaskRequest) (*models.Task, error)
	Delete(ctx context.Context, ownerID primitive.ObjectID, id string) (*models.Task, error)
}

// Handler holds task HTTP handlers. All routes sit behind the access guard,
// so auth.UserFrom always yields the caller.
type Handler struct {
	tasks TaskStore
}

func NewHandler(tasks TaskStore) *Handler {
	return &Handler{tasks: tasks}
}

type listResponse struct {
	Count int           `json:"count"`
	Tasks []models.Task `json:"tasks"`
}

// Create stores a new task owned by the caller.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())

	var req models.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Fail(w, http.StatusBadRequest, web.CodeValidation, "invalid request body")
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		web.Fail(w, http.StatusBadRequest, web.CodeValidation, err.Error())
		return
	}

	created, err := h.tasks.Insert(r.Context(), &models.Task{
		OwnerID:     user.ID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		log.Printf("insert task: %v", err)
		web.Internal(w)
		return
	}
	web.JSON(w, http.StatusCreated, map[string]*models.Task{"task": created})
}

// List returns all of the caller's tasks, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())

	tasks, err := h.tasks.ListByOwner(r.Context(), user.ID)
	if err != nil {
		log.Printf("list tasks: %v", err)
		web.Internal(w)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	web.JSON(w, http.StatusOK, listResponse{Count: len(tasks), Tasks: tasks})
}

// Get returns a single task owned by the caller.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())

	t, err := h.tasks.GetByID(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		h.storeError(w, err, "get task")
		return
	}
	web.JSON(w, http.StatusOK, map[string]*models.Task{"task": t})
}

// Update applies a partial update to a task owned by the caller.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())

	var req models.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Fail(w, http.StatusBadRequest, web.CodeValidation, "invalid request body")
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		web.Fail(w, http.StatusBadRequest, web.CodeValidation, err.Error())
		return
	}

	t, err := h.tasks.Update(r.Context(), user.ID, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.storeError(w, err, "update task")
		return
	}
	web.JSON(w, http.StatusOK, map[string]*models.Task{"task": t})
}

// Delete removes a task owned by the caller and returns the deleted copy.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())

	t, err := h.tasks.Delete(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		h.storeError(w, err, "delete task")
		return
	}
	web.JSON(w, http.StatusOK, map[string]*models.Task{"task": t})
}

// storeError maps a store failure: ErrNotFound covers missing, non-owned,
// and malformed ids alike; everything else is internal.
func (h *Handler) storeError(w http.ResponseWriter, err error, op string) {
	if errors.Is(err, store.ErrNotFound) {
		web.Fail(w, http.StatusNotFound, web.CodeNotFound, "task not found")
		return
	}
	log.Printf("%s: %v", op, err)
	web.Internal(w)
}
