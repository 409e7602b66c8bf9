package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task status values.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Task priority values.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a single to-do item owned by exactly one user. JSON names follow
// the client API contract (camelCase); bson names are storage-internal.
type Task struct {
	ID          primitive.ObjectID `json:"id"                    bson:"_id,omitempty"`
	OwnerID     primitive.ObjectID `json:"ownerId"               bson:"owner_id"`
	Title       string             `json:"title"                 bson:"title"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Status      Status             `json:"status"                bson:"status"`
	Priority    Priority           `json:"priority"              bson:"priority"`
	DueDate     *time.Time         `json:"dueDate,omitempty"     bson:"due_date,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"             bson:"created_at"`
	UpdatedAt   time.Time          `json:"updatedAt"             bson:"updated_at"`
}

// CreateTaskRequest is the JSON body for POST /api/v1/tasks.
// Status and Priority default to todo/medium when omitted.
type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
}

func (r *CreateTaskRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	if r.Status == "" {
		r.Status = StatusTodo
	}
	if r.Priority == "" {
		r.Priority = PriorityMedium
	}
}

func (r *CreateTaskRequest) Validate() error {
	if err := validateTitle(r.Title); err != nil {
		return err
	}
	if err := validateDescription(r.Description); err != nil {
		return err
	}
	if !r.Status.Valid() {
		return &ValidationError{Field: "status", Message: "status must be one of todo, in-progress, done"}
	}
	if !r.Priority.Valid() {
		return &ValidationError{Field: "priority", Message: "priority must be one of low, medium, high"}
	}
	return nil
}

// UpdateTaskRequest is the JSON body for PUT /api/v1/tasks/{id}. All fields
// are optional; only the ones present in the body are applied.
type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *Status    `json:"status"`
	Priority    *Priority  `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
}

func (r *UpdateTaskRequest) Normalize() {
	if r.Title != nil {
		t := strings.TrimSpace(*r.Title)
		r.Title = &t
	}
	if r.Description != nil {
		d := strings.TrimSpace(*r.Description)
		r.Description = &d
	}
}

func (r *UpdateTaskRequest) Validate() error {
	if r.Title != nil {
		if err := validateTitle(*r.Title); err != nil {
			return err
		}
	}
	if r.Description != nil {
		if err := validateDescription(*r.Description); err != nil {
			return err
		}
	}
	if r.Status != nil && !r.Status.Valid() {
		return &ValidationError{Field: "status", Message: "status must be one of todo, in-progress, done"}
	}
	if r.Priority != nil && !r.Priority.Valid() {
		return &ValidationError{Field: "priority", Message: "priority must be one of low, medium, high"}
	}
	return nil
}

func validateTitle(title string) error {
	if title == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if n := utf8.RuneCountInString(title); n < 3 || n > 100 {
		return &ValidationError{Field: "title", Message: "title must be between 3 and 100 characters"}
	}
	return nil
}

func validateDescription(desc string) error {
	if utf8.RuneCountInString(desc) > 500 {
		return &ValidationError{Field: "description", Message: "description must be at most 500 characters"}
	}
	return nil
}
