package queue

type TaskType string

const (
	TaskTypeAutoAssign     TaskType = "auto_assign"
	TaskTypeProcessPending TaskType = "process_pending"
)

// Trigger names what caused a routing task, for logs and traces.
type Trigger string

const (
	TriggerSubmit Trigger = "submit"
	TriggerAPI    Trigger = "api"
	TriggerCLI    Trigger = "cli"
	TriggerCron   Trigger = "cron"
)

type Task struct {
	TaskType   TaskType
	QuestionID *int64
	Trigger    Trigger
	TraceID    *string
	Attempt    int
}
