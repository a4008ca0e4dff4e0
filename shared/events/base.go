package events

import (
	"encoding/json"
	"reflect"
	"time"
)

// Base de todos los eventos de integración
type IntegrationEvent struct {
	Type      string          `json:"type"`
	Key       string          `json:"key,omitempty"` // id del agregado, usado como clave de partición
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"` // contenido específico del evento
}

func (e IntegrationEvent) PartitionKey() string { return e.Key }

type EventMetadata struct {
	Type  reflect.Type
	Topic string
}

// NewIntegrationEvent serializa data dentro del sobre común.
func NewIntegrationEvent(eventType, key string, data interface{}) (IntegrationEvent, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return IntegrationEvent{}, err
	}
	return IntegrationEvent{Type: eventType, Key: key, Timestamp: time.Now().UTC(), Data: raw}, nil
}
