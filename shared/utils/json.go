package utils

import (
	"encoding/json"

	"go.uber.org/zap"
)

// UnmarshalAndHandle decodifica el Data de un evento de integración en T y
// llama a handler. Un payload inválido se registra y se descarta.
func UnmarshalAndHandle[T any](log *zap.Logger, eventType string, data json.RawMessage, handler func(T)) bool {
	if len(data) == 0 {
		log.Warn("Event without data", zap.String("event_type", eventType))
		return false
	}
	var evt T
	if err := json.Unmarshal(data, &evt); err != nil {
		log.Warn("Failed to unmarshal event data", zap.String("event_type", eventType), zap.Error(err))
		return false
	}
	handler(evt)
	return true
}
