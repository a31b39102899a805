package domain

// Task represents a to-do item in the domain model.
// Its JSON form is the wire shape of every JSON endpoint.
type Task struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
	Done    bool   `json:"done"`
}

// NewTask creates a new, not yet persisted Task.
func NewTask(content string, done bool) Task {
	return Task{
		Content: content,
		Done:    done,
	}
}

// String returns the task content for display purposes.
func (t Task) String() string {
	return t.Content
}
