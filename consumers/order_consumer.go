package consumers

import (
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"ordnery-backend/config"
	"ordnery-backend/models"
)

// StartOrderConsumer drains the order event queue and the dead letter queue.
// Consumption is observational: events are logged for operations, malformed
// payloads are rejected onto the DLQ.
func StartOrderConsumer(ch *amqp.Channel, cfg *config.Config) {
	msgs, err := ch.Consume(
		cfg.OrderQueue,
		"ordnery-backend", // consumer tag
		false,             // auto-ack
		false,             // exclusive
		false,             // no-local
		false,             // no-wait
		nil,
	)
	if err != nil {
		log.Printf("Failed to register order event consumer: %v", err)
		return
	}

	go func() {
		for msg := range msgs {
			processOrderEvent(msg)
		}
	}()

	dlqMsgs, err := ch.Consume(
		cfg.DeadLetterQueue,
		"ordnery-backend-dlq", // consumer tag
		false,                 // auto-ack
		false,                 // exclusive
		false,                 // no-local
		false,                 // no-wait
		nil,
	)
	if err != nil {
		log.Printf("Failed to register DLQ consumer: %v", err)
		return
	}

	go func() {
		for msg := range dlqMsgs {
			processDeadLetter(msg)
		}
	}()
}

func processOrderEvent(msg amqp.Delivery) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic in event processing: %v", r)
		}
	}()

	var event models.OrderEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.Printf("Invalid order event payload: %s", msg.Body)
		_ = msg.Nack(false, false) // reject to DLQ, do not requeue
		return
	}

	switch event.Type {
	case "created":
		log.Printf("Order %d created for user %d, total %.2f", event.OrderID, event.UserID, event.Total)
	case "status_updated":
		log.Printf("Order %d moved to status %s", event.OrderID, event.Status)
	case "deleted":
		log.Printf("Order %d deleted", event.OrderID)
	default:
		log.Printf("Unknown order event type: %s", event.Type)
	}

	_ = msg.Ack(false)
}

func processDeadLetter(msg amqp.Delivery) {
	log.Printf("Received dead letter: %s", msg.Body)
	_ = msg.Ack(false)
}
