package domain

import (
	"errors"

	sharedDomain "github.com/davicafu/autostock/shared/domain"
)

// Mensajes del resultado; coinciden con los errores centinela.
const (
	MsgNotAuthenticated = "not authenticated"
	MsgNotImplemented   = "not implemented"
	MsgInProgress       = "action already in progress"
)

var (
	ErrNotAuthenticated = errors.New(MsgNotAuthenticated)
	ErrNotImplemented   = errors.New(MsgNotImplemented)
	ErrInProgress       = errors.New(MsgInProgress)
)

type ActionKind string

const (
	KindPublishAdvertisement ActionKind = "publish_advertisement"
	KindResolveInsight       ActionKind = "resolve_insight"
	KindCreateTask           ActionKind = "create_task"
)

// Target identifica el recurso sobre el que actúa una acción.
type Target struct {
	Resource string `json:"resource"`
	ID       string `json:"id"`
}

// Action es una variante cerrada: cada tipo lleva solo sus campos.
type Action interface {
	Kind() ActionKind
	Target() Target
	isAction()
}

type PublishAdvertisement struct {
	AdvertisementID string `json:"advertisement_id"`
}

func (PublishAdvertisement) Kind() ActionKind { return KindPublishAdvertisement }
func (a PublishAdvertisement) Target() Target {
	return Target{Resource: "advertisement", ID: a.AdvertisementID}
}
func (PublishAdvertisement) isAction() {}

type ResolveInsight struct {
	InsightID string `json:"insight_id"`
}

func (ResolveInsight) Kind() ActionKind { return KindResolveInsight }
func (a ResolveInsight) Target() Target {
	return Target{Resource: "insight", ID: a.InsightID}
}
func (ResolveInsight) isAction() {}

// CreateTask está reservado; el ejecutor no lo implementa.
type CreateTask struct {
	TaskKind    string             `json:"kind"`
	ReferenceID string             `json:"reference_id,omitempty"`
	Store       sharedDomain.Store `json:"store,omitempty"`
	Description string             `json:"description,omitempty"`
}

func (CreateTask) Kind() ActionKind { return KindCreateTask }
func (a CreateTask) Target() Target { return Target{Resource: "task", ID: a.ReferenceID} }
func (CreateTask) isAction() {}

// Result es la forma uniforme de cualquier acción.
type Result struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`

	// Err conserva el error de origen para mapearlo (no se serializa).
	Err error `json:"-"`
}

func Succeeded(message string, data interface{}) Result {
	return Result{Success: true, Message: message, Data: data}
}

func Failed(err error) Result {
	return Result{Success: false, Message: err.Error(), Err: err}
}
