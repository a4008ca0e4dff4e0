package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrUnknownAction = errors.New("unknown maintenance action")
	ErrUnsupported   = errors.New("remote procedures are not supported by this database")
)

// Action es uno de los procedimientos remotos de mantenimiento.
type Action string

const (
	ActionRecalculate           Action = "recalculate_all_pendencies"
	ActionDetectInconsistencies Action = "detect_advertisement_inconsistencies"
	ActionCleanupObsolete       Action = "cleanup_obsolete_tasks"
	ActionSyncCurrentState      Action = "sync_tasks_with_current_state"
)

// ConsolidatedStateProcedure devuelve el estado consolidado de tareas.
const ConsolidatedStateProcedure = "get_consolidated_task_state"

var aliases = map[string]Action{
	"recalculate":            ActionRecalculate,
	"detect_inconsistencies": ActionDetectInconsistencies,
	"cleanup_obsolete":       ActionCleanupObsolete,
	"sync_current_state":     ActionSyncCurrentState,
}

// Actions lista las cuatro acciones en orden estable.
func Actions() []Action {
	return []Action{ActionRecalculate, ActionDetectInconsistencies, ActionCleanupObsolete, ActionSyncCurrentState}
}

// ParseAction acepta el nombre del procedimiento o su alias corto.
func ParseAction(raw string) (Action, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if a, ok := aliases[name]; ok {
		return a, nil
	}
	for _, a := range Actions() {
		if string(a) == name {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, raw)
}

// Procedure es el nombre de la función remota.
func (a Action) Procedure() string { return string(a) }

type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
)

// Status es el estado de una acción: idle → running → idle.
type Status struct {
	Action     Action          `json:"action"`
	State      State           `json:"state"`
	LastRunAt  *time.Time      `json:"last_run_at,omitempty"`
	LastError  string          `json:"last_error,omitempty"`
	LastResult json.RawMessage `json:"last_result,omitempty"`
}

// Procedures invoca funciones remotas por nombre.
type Procedures interface {
	Call(ctx context.Context, procedure string) (json.RawMessage, error)
}
