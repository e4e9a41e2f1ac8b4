package rabbitmq

import (
	"context"
	"fmt"
	"log"

	"github.com/streadway/amqp"
)

// ConsumerMessage запускает потребителя очереди. Каждое сообщение передаётся
// в handler; при ошибке обработки сообщение возвращается в очередь.
func ConsumerMessage(ctx context.Context, ch *amqp.Channel, queueName string, handler func([]byte) error) error {
	const op = "rabbitmq.ConsumerMessage"
	delivery, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-delivery:
				if !ok {
					return
				}
				if err := handler(d.Body); err != nil {
					log.Printf("%s: handler error: %v", op, err)
					if nackErr := d.Nack(false, true); nackErr != nil {
						log.Printf("%s: nack error: %v", op, nackErr)
					}
					continue
				}
				if ackErr := d.Ack(false); ackErr != nil {
					log.Printf("%s: ack error: %v", op, ackErr)
				}
			}
		}
	}()

	return nil
}
