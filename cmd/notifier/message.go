package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/georgemunganga/dalin-backend/internal/modules/notify"
	"github.com/georgemunganga/dalin-backend/internal/modules/profile"
	kafkaGo "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var statusLabels = map[string]string{
	"pending":                "Pending approval",
	"approved":               "Order placed with the seller",
	"in_transit_intl":        "On the way to Iraq",
	"arrived_at_hub":         "Arrived at our local branch",
	"out_for_local_delivery": "Out for delivery",
	"delivered":              "Delivered",
	"cancel_requested":       "Cancellation requested",
	"cancelled":              "Cancelled",
}

// Recipients resolves the customer a change belongs to.
type Recipients interface {
	GetProfileByID(ctx context.Context, id string) (*profile.Profile, error)
}

type statusHandler struct {
	recipients Recipients
	mailer     Mailer
	ordersURL  string
	log        *zap.Logger
}

func (h *statusHandler) Handle(ctx context.Context, msg kafkaGo.Message) error {
	var c notify.Change
	if err := json.Unmarshal(msg.Value, &c); err != nil {
		return fmt.Errorf("decode status change: %w", err)
	}

	p, err := h.recipients.GetProfileByID(ctx, c.CustomerID.String())
	if err != nil {
		return fmt.Errorf("resolve customer %s: %w", c.CustomerID, err)
	}

	subject, body := render(c, greetingName(p), h.ordersURL)
	if err := h.mailer.Send(ctx, p.Email, subject, body); err != nil {
		return fmt.Errorf("send to %s: %w", p.Email, err)
	}
	h.log.Info("status email sent",
		zap.String("order_id", c.OrderID.String()),
		zap.String("new_status", c.NewStatus))
	return nil
}

func greetingName(p *profile.Profile) string {
	if name := strings.TrimSpace(p.FirstName); name != "" {
		return name
	}
	return p.Email
}

func render(c notify.Change, name, ordersURL string) (string, string) {
	label, ok := statusLabels[c.NewStatus]
	if !ok {
		label = c.NewStatus
	}
	subject := fmt.Sprintf("Update on order %s", shortID(c.OrderID.String()))

	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", name)
	fmt.Fprintf(&b, "The status of your order %s has changed.\n\n", shortID(c.OrderID.String()))
	fmt.Fprintf(&b, "New status: %s\n", label)
	if note := strings.TrimSpace(c.TrackingNote); note != "" {
		fmt.Fprintf(&b, "Tracking note: %s\n", note)
	}
	if ordersURL != "" {
		fmt.Fprintf(&b, "\nYou can follow your orders at %s\n", ordersURL)
	}
	b.WriteString("\nThank you for shopping with Dalin.\n")
	return subject, b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
