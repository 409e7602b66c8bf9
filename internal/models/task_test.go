package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateTaskRequestDefaults(t *testing.T) {
	req := CreateTaskRequest{Title: "  Ship v1  "}
	req.Normalize()

	assert.Equal(t, "Ship v1", req.Title)
	assert.Equal(t, StatusTodo, req.Status)
	assert.Equal(t, PriorityMedium, req.Priority)
	require.NoError(t, req.Validate())
}

func TestCreateTaskRequestValidate(t *testing.T) {
	cases := []struct {
		name string
		req  CreateTaskRequest
		ok   bool
	}{
		{"valid", CreateTaskRequest{Title: "Ship v1", Status: StatusTodo, Priority: PriorityHigh}, true},
		{"missing title", CreateTaskRequest{}, false},
		{"title too short", CreateTaskRequest{Title: "ab"}, false},
		{"title too long", CreateTaskRequest{Title: strings.Repeat("x", 101)}, false},
		{"title at max", CreateTaskRequest{Title: strings.Repeat("x", 100)}, true},
		{"description too long", CreateTaskRequest{Title: "Ship v1", Description: strings.Repeat("x", 501)}, false},
		{"bad status", CreateTaskRequest{Title: "Ship v1", Status: "paused"}, false},
		{"bad priority", CreateTaskRequest{Title: "Ship v1", Priority: "urgent"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.req.Normalize()
			err := tc.req.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
			}
		})
	}
}

func TestUpdateTaskRequestValidate(t *testing.T) {
	short := "ab"
	good := "New title"
	badStatus := Status("paused")
	done := StatusDone

	empty := UpdateTaskRequest{}
	assert.NoError(t, empty.Validate(), "empty partial update is valid")

	valid := UpdateTaskRequest{Title: &good, Status: &done}
	assert.NoError(t, valid.Validate())

	badTitle := UpdateTaskRequest{Title: &short}
	assert.Error(t, badTitle.Validate())

	badEnum := UpdateTaskRequest{Status: &badStatus}
	assert.Error(t, badEnum.Validate())
}

func TestTaskWireFieldNames(t *testing.T) {
	// The API contract uses camelCase field names; a client sending dueDate
	// must not have it silently dropped.
	var create CreateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Ship v1","dueDate":"2026-09-15T00:00:00Z"}`), &create))
	require.NotNil(t, create.DueDate)
	assert.Equal(t, 2026, create.DueDate.Year())

	var update UpdateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"dueDate":"2026-09-15T00:00:00Z"}`), &update))
	require.NotNil(t, update.DueDate)

	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	out, err := json.Marshal(Task{
		ID:      primitive.NewObjectID(),
		OwnerID: primitive.NewObjectID(),
		Title:   "Ship v1",
		DueDate: &due,
	})
	require.NoError(t, err)
	for _, key := range []string{`"ownerId"`, `"dueDate"`, `"createdAt"`, `"updatedAt"`} {
		assert.Contains(t, string(out), key)
	}
	for _, key := range []string{`"owner_id"`, `"due_date"`, `"created_at"`, `"updated_at"`} {
		assert.NotContains(t, string(out), key)
	}
}

func TestTitleBoundsCountRunes(t *testing.T) {
	// Bounds are character counts, not byte counts.
	atMax := CreateTaskRequest{Title: strings.Repeat("本", 100)}
	atMax.Normalize()
	assert.NoError(t, atMax.Validate())

	over := CreateTaskRequest{Title: strings.Repeat("本", 101)}
	over.Normalize()
	assert.Error(t, over.Validate())

	desc := CreateTaskRequest{Title: "Ship v1", Description: strings.Repeat("ü", 500)}
	desc.Normalize()
	assert.NoError(t, desc.Validate())
}

func TestUpdateTaskRequestNormalizeTrims(t *testing.T) {
	title := "  padded  "
	req := UpdateTaskRequest{Title: &title}
	req.Normalize()
	assert.Equal(t, "padded", *req.Title)
}
