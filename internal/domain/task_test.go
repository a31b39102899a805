package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		done     bool
		expected Task
	}{
		{
			name:     "creates open task",
			content:  "buy milk",
			expected: Task{Content: "buy milk"},
		},
		{
			name:     "creates done task",
			content:  "walk dog",
			done:     true,
			expected: Task{Content: "walk dog", Done: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewTask(tt.content, tt.done))
		})
	}
}

func TestTask_String(t *testing.T) {
	assert.Equal(t, "buy milk", Task{Content: "buy milk"}.String())
}

func TestTask_JSON(t *testing.T) {
	data, err := json.Marshal(Task{ID: 1, Content: "buy milk", Done: false})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"content":"buy milk","done":false}`, string(data))
}
