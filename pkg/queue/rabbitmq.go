package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ReportsExchange carries report lifecycle events, routed by event kind
// ("report.created", "report.updated").
const ReportsExchange = "reports"

func ConnectRabbitMQ(uri string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open channel: %w", err)
	}

	return conn, ch, nil
}

// DeclareReportsExchange sets up the durable direct exchange used for
// report lifecycle events.
func DeclareReportsExchange(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(ReportsExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}
	return nil
}

// ConsumeMessages binds a durable queue to the reports exchange for the given
// routing keys and starts consuming from it.
func ConsumeMessages(ch *amqp.Channel, queueName string, routingKeys ...string) (<-chan amqp.Delivery, error) {
	if err := DeclareReportsExchange(ch); err != nil {
		return nil, err
	}

	q, err := ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	for _, key := range routingKeys {
		if err := ch.QueueBind(q.Name, key, ReportsExchange, false, nil); err != nil {
			return nil, fmt.Errorf("failed to bind queue: %w", err)
		}
	}

	msgs, err := ch.Consume(q.Name, "", true, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register consumer: %w", err)
	}
	return msgs, nil
}
