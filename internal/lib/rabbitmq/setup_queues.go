package rabbitmq

// QueueConfig описывает очередь уведомлений и её routing key
// в exchange notifications.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// Routing keys событий движка бронирований.
const (
	KeyBookingCreated        = "booking.created"
	KeyPaymentReview         = "payment.review"
	KeyPaymentConfirmed      = "payment.confirmed"
	KeyPaymentRejected       = "payment.rejected"
	KeyPayoutPaid            = "payout.paid"
	KeySubscriptionRequested = "subscription.requested"
	KeySubscriptionApproved  = "subscription.approved"
)

// GetNotificationQueues возвращает очереди, которые разбирает
// сервис отправки уведомлений.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notification.booking-created", RoutingKey: KeyBookingCreated},
		{QueueName: "notification.payment-review", RoutingKey: KeyPaymentReview},
		{QueueName: "notification.payment-confirmed", RoutingKey: KeyPaymentConfirmed},
		{QueueName: "notification.payment-rejected", RoutingKey: KeyPaymentRejected},
		{QueueName: "notification.payout-paid", RoutingKey: KeyPayoutPaid},
		{QueueName: "notification.subscription-requested", RoutingKey: KeySubscriptionRequested},
		{QueueName: "notification.subscription-approved", RoutingKey: KeySubscriptionApproved},
	}
}
