package ailog

import (
	"context"
	"errors"
)

// ErrLogNotFound is returned when a request log record is not found within
// the given project.
var ErrLogNotFound = errors.New("request log not found")

// Repository provides append and read operations on the request_logs table.
// History is append-only; entries disappear only when their project does.
type Repository interface {
	Create(ctx context.Context, l *RequestLog) error
	GetByID(ctx context.Context, projectID, id int64) (*RequestLog, error)
	ListByProject(ctx context.Context, projectID int64) ([]RequestLog, error)
}
