package ailog

import "time"

// RequestLog represents a row in the request_logs table: one AI-assisted
// generation request and its output, kept as project history.
type RequestLog struct {
	ID         int64
	ProjectID  int64
	Endpoint   string
	InputText  string
	OutputText string
	CreatedAt  time.Time
}
