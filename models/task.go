package models

// Recurrence cadences accepted on a task. An empty Recurring means the task
// is one-shot and is never regenerated.
const (
	RecurringDaily  = "daily"
	RecurringWeekly = "weekly"
)

// Task is a kitchen duty (cleaning, checks). Archived+completed tasks with a
// recurring cadence are the input of the recurring-task regenerator.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	AssignedTo  string `json:"assignedTo,omitempty"`
	Recurring   string `json:"recurring,omitempty"`
	Completed   bool   `json:"completed"`
	CompletedAt string `json:"completedAt,omitempty"`
	Archived    bool   `json:"archived"`
	CreatedAt   string `json:"createdAt"`
}
