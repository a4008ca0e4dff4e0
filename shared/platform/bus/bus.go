package bus

import "context"

type Keyer interface {
	PartitionKey() string
}

// La semántica de topic/nombre y formato del payload la deciden los adapters.
type EventPublisher interface {
	Publish(ctx context.Context, event interface{}) error
}

// MessageHandler es cualquier consumidor de mensajes del bus (Kafka o memoria).
type MessageHandler interface {
	HandleMessage(ctx context.Context, key string, payload []byte)
}
