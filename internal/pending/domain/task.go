package domain

import (
	"errors"
	"time"

	sharedDomain "github.com/davicafu/autostock/shared/domain"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrInsightNotFound = errors.New("insight not found")
)

type TaskKind string

const (
	KindMissingPhotos         TaskKind = "missing_photos"
	KindMissingAdvertisement  TaskKind = "missing_advertisement"
	KindOrphanedAdvertisement TaskKind = "orphaned_advertisement"
	KindPriceMismatch         TaskKind = "price_mismatch"
	KindMissingDocumentation  TaskKind = "missing_documentation"
)

type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskCompleted TaskStatus = "completed"
)

// PendingTask es una cosa que requiere atención, derivada por los
// procedimientos remotos. pending → completed solo por acción explícita
// o por recálculo remoto.
type PendingTask struct {
	ID             string              `json:"id"`
	ReferenceID    *string             `json:"reference_id,omitempty"`
	ReferenceTable *string             `json:"reference_table,omitempty"`
	Kind           TaskKind            `json:"kind"`
	Description    string              `json:"description"`
	Store          *sharedDomain.Store `json:"store,omitempty"`
	Status         TaskStatus          `json:"status"`
	CreatedAt      time.Time           `json:"created_at"`
	CompletedAt    *time.Time          `json:"completed_at,omitempty"`
}

func (t PendingTask) IsPending() bool { return t.Status == TaskPending }
