package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"nota/internal/notify"
)

// NotificationType is set as the AMQP message type.
const NotificationType = "nota.notification"

// NotificationMessage is the wire form of a notification.
type NotificationMessage struct {
	ID           string              `json:"id"`
	Notification notify.Notification `json:"notification"`
	PublishedAt  time.Time           `json:"publishedAt"`
}

func NewNotificationMessage(n notify.Notification) *NotificationMessage {
	return &NotificationMessage{
		ID:           uuid.NewString(),
		Notification: n,
		PublishedAt:  time.Now().UTC(),
	}
}

func (m *NotificationMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// NotificationMessageFromJSON decodes a message and validates its notification.
func NotificationMessageFromJSON(data []byte) (*NotificationMessage, error) {
	var msg NotificationMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Notification.Validate(); err != nil {
		return nil, fmt.Errorf("message %s: %w", msg.ID, err)
	}
	return &msg, nil
}
