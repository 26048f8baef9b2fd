package email

import (
	"context"

	"github.com/skyreserve/skyreserve/internal/kafka"
)

type Publisher interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Queue hands mail to the notifications topic instead of talking SMTP from
// the request path; the worker drains the topic and delivers.
type Queue struct {
	producer Publisher
	topic    string
}

func NewQueue(producer Publisher, topic string) *Queue {
	return &Queue{producer: producer, topic: topic}
}

func (q *Queue) Send(ctx context.Context, to, subject, body string) error {
	return q.producer.Publish(ctx, q.topic, to, kafka.NotificationEvent{
		Type:    "verification_code",
		To:      to,
		Subject: subject,
		Body:    body,
	})
}
