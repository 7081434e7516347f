package domain

import "time"

// RunStatus описывает состояние запуска пайплайна.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Ключи реестра запусков.
const (
	KeyLastRun  = "last_run"
	KeyRunsList = "runs_list"
	KeyLogs     = "logs"
)

// Story описывает одну новость-кандидата из внешнего источника.
// После сборки история не меняется: ранжирование и дедупликация
// только отбирают и переставляют элементы.
type Story struct {
	Title       string     `json:"title"`
	Link        string     `json:"link"`
	Description string     `json:"description,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	Score       int        `json:"score,omitempty"`
	SourceTag   string     `json:"sourceTag,omitempty"`
}

// SourceDocument содержит отрендеренный markdown одного источника.
type SourceDocument struct {
	Name    string
	Path    string
	Content string
}

// Run описывает одно выполнение пайплайна сбора.
type Run struct {
	ID           string     `json:"id"`
	Date         string     `json:"date"`
	Status       RunStatus  `json:"status"`
	StartedAt    time.Time  `json:"startedAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	StoryCount   int        `json:"storyCount,omitempty"`
	SourcesCount int        `json:"sourcesCount,omitempty"`
	Error        string     `json:"error,omitempty"`
	Logs         []string   `json:"logs"`
}
