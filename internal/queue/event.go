// Package queue defines message payloads exchanged over the message broker
// and the RabbitMQ publisher and consumer that move them.
package queue

// InquiryQueueName is the durable queue inquiry events are routed to.
const InquiryQueueName = "inquiry.created"

// InquiryCreatedEvent is published when a buyer sends a message about a
// home.  It carries enough for a notifier to reach the realtor without
// querying the primary database.
type InquiryCreatedEvent struct {
	MessageID  uint64 `json:"message_id"`
	HomeID     uint64 `json:"home_id"`
	Address    string `json:"address"`
	RealtorID  uint64 `json:"realtor_id"`
	BuyerID    uint64 `json:"buyer_id"`
	BuyerName  string `json:"buyer_name"`
	BuyerEmail string `json:"buyer_email"`
	Message    string `json:"message"`
	CreatedAt  string `json:"created_at"`
}
