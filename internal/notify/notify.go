// Package notify delivers transient user-visible notifications. Production
// uses FCM; the log notifier covers local runs without Firebase credentials.
package notify

import (
	"context"
	"log"

	"firebase.google.com/go/v4/messaging"

	"kart/internal/types"
)

// TokenResolver maps a customer id to their current FCM device token.
type TokenResolver interface {
	DeviceToken(ctx context.Context, customerID types.ID) (string, bool)
}

// FCMNotifier pushes notifications through Firebase Cloud Messaging.
type FCMNotifier struct {
	client *messaging.Client
	tokens TokenResolver
}

func NewFCMNotifier(client *messaging.Client, tokens TokenResolver) *FCMNotifier {
	return &FCMNotifier{client: client, tokens: tokens}
}

func (n *FCMNotifier) Notify(ctx context.Context, customerID types.ID, title, body string) {
	token, ok := n.tokens.DeviceToken(ctx, customerID)
	if !ok {
		log.Printf("notify: no device token for %s, dropping %q", customerID, title)
		return
	}
	_, err := n.client.Send(ctx, &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	})
	if err != nil {
		// Notifications are transient; a failed push is never fatal.
		log.Printf("notify: fcm send to %s: %v", customerID, err)
	}
}

// LogNotifier writes notifications to the process log.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, customerID types.ID, title, body string) {
	log.Printf("notify: [%s] %s: %s", customerID, title, body)
}
