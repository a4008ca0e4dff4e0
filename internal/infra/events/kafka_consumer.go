package events

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	sharedBus "github.com/davicafu/autostock/shared/platform/bus"
)

// retryBackoff es la espera tras un error de lectura.
const retryBackoff = time.Second

// ConsumerAdapter lee un topic de Kafka y entrega cada mensaje al handler.
// El offset se confirma después de procesar: entrega al menos una vez.
type ConsumerAdapter struct {
	reader  *kafka.Reader
	handler sharedBus.MessageHandler
	log     *zap.Logger
	done    chan struct{}
}

func NewConsumerAdapter(reader *kafka.Reader, handler sharedBus.MessageHandler, log *zap.Logger) *ConsumerAdapter {
	return &ConsumerAdapter{
		reader:  reader,
		handler: handler,
		log:     log.With(zap.String("topic", reader.Config().Topic), zap.String("group", reader.Config().GroupID)),
		done:    make(chan struct{}),
	}
}

// Start lanza el bucle de consumo; termina cuando ctx se cancela.
func (c *ConsumerAdapter) Start(ctx context.Context) {
	c.log.Info("🎧 Iniciando consumidor de Kafka", zap.Strings("brokers", c.reader.Config().Brokers))

	go func() {
		defer close(c.done)
		for {
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					c.log.Info("Consumidor de Kafka detenido")
					return
				}
				c.log.Error("Error al leer mensaje de Kafka", zap.Error(err))
				if !sleep(ctx, retryBackoff) {
					return
				}
				continue
			}

			c.handler.HandleMessage(ctx, string(msg.Key), msg.Value)

			if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
				// el mensaje se volverá a entregar tras un rebalanceo
				c.log.Warn("⚠️ Commit de offset fallido",
					zap.Int("partition", msg.Partition), zap.Int64("offset", msg.Offset), zap.Error(err))
			}
		}
	}()
}

// Done se cierra cuando el bucle de consumo ha terminado.
func (c *ConsumerAdapter) Done() <-chan struct{} {
	return c.done
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
