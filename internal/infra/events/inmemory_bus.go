package events

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	sharedBus "github.com/davicafu/autostock/shared/platform/bus"
)

// InMemoryEventBus implementa un bus de eventos para UN solo topic.
type InMemoryEventBus struct {
	subscribers []chan []byte
	mu          sync.RWMutex
	topic       string
}

var _ sharedBus.EventPublisher = (*InMemoryEventBus)(nil)

// NewInMemoryEventBus crea un bus de eventos para un topic específico.
func NewInMemoryEventBus(topic string) *InMemoryEventBus {
	return &InMemoryEventBus{
		subscribers: make([]chan []byte, 0),
		topic:       topic,
	}
}

// Publish serializa el evento y lo entrega a todos los suscriptores.
// Si el buffer de un suscriptor está lleno el mensaje se descarta para él.
func (b *InMemoryEventBus) Publish(ctx context.Context, event interface{}) error {
	payloadBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subscribers {
		select {
		case sub <- payloadBytes:
		default:
		}
	}
	return nil
}

// Subscribe suscribe un nuevo oyente a este bus.
func (b *InMemoryEventBus) Subscribe(bufferSize int) <-chan []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	subChan := make(chan []byte, bufferSize)
	b.subscribers = append(b.subscribers, subChan)
	return subChan
}

// Consume suscribe handler y lo alimenta en una goroutine hasta que ctx termine.
func (b *InMemoryEventBus) Consume(ctx context.Context, handler sharedBus.MessageHandler, bufferSize int, log *zap.Logger) {
	ch := b.Subscribe(bufferSize)
	log.Info("🎧 Iniciando listener en memoria", zap.String("topic", b.topic))

	go func() {
		for {
			select {
			case <-ctx.Done():
				log.Info("Listener en memoria detenido", zap.String("topic", b.topic))
				return
			case payload := <-ch:
				// La 'key' no es relevante en el bus en memoria.
				handler.HandleMessage(ctx, "", payload)
			}
		}
	}()
}
