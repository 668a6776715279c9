// Package push holds web push subscriptions used to reach technicians whose
// app is in the background.
package push

import "time"

// Subscription is one browser/device push endpoint with its encryption keys.
type Subscription struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Endpoint  string    `json:"endpoint"`
	P256dh    string    `json:"p256dh"`
	Auth      string    `json:"auth"`
	CreatedAt time.Time `json:"created_at"`
}
