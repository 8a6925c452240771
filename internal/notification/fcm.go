package notification

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
)

// messageSender is the part of *messaging.Client FCMService uses.
type messageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type FCMService struct {
	client messageSender
}

// NewFCMService creates the messaging client from the shared Firebase app.
func NewFCMService(ctx context.Context, app *firebase.App) (*FCMService, error) {
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}
	return &FCMService{client: client}, nil
}

// UserTopic is the FCM topic a user's devices subscribe to. Sending to a topic
// means no device tokens have to be stored server side.
func UserTopic(userID string) string {
	return "user_" + userID
}

func (s *FCMService) SendPush(ctx context.Context, n *Notification) error {
	stringData := make(map[string]string, len(n.Data))
	for k, v := range n.Data {
		stringData[k] = fmt.Sprintf("%v", v)
	}

	message := &messaging.Message{
		Topic: UserTopic(n.UserID),
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Body,
		},
		Data: stringData,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound: "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}

	id, err := s.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("FCM: failed to send %s to user %s: %w", n.Type, n.UserID, err)
	}

	log.Printf("FCM: Sent %s to %s (message %s)", n.Type, message.Topic, id)
	return nil
}
