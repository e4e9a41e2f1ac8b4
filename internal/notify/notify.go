// Package notify публикует события движка в exchange notifications.
package notify

import (
	"github.com/streadway/amqp"

	"github.com/workbridge/marketplace-engine/internal/lib/rabbitmq"
)

// Publisher публикует события в шину уведомлений.
type Publisher struct {
	ch       *amqp.Channel
	exchange string
}

// NewPublisher создаёт Publisher поверх настроенного канала.
func NewPublisher(ch *amqp.Channel, exchange string) *Publisher {
	return &Publisher{ch: ch, exchange: exchange}
}

// Publish сериализует событие и отправляет его с заданным routing key.
func (p *Publisher) Publish(routingKey string, message any) error {
	return rabbitmq.PublishMessage(p.ch, p.exchange, routingKey, message)
}
