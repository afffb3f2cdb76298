// Package notify delivers offer status emails through a pluggable Sender.
package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/google/uuid"
	"github.com/nikh123/RealEstateHub/internal/model"
)

// Sender delivers one email. Implementations must honour ctx cancellation.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type SenderFunc func(ctx context.Context, to, subject, htmlBody string) error

func (f SenderFunc) Send(ctx context.Context, to, subject, htmlBody string) error {
	return f(ctx, to, subject, htmlBody)
}

// OfferStatusChange is everything needed to tell a buyer their offer moved.
type OfferStatusChange struct {
	OfferID    uuid.UUID
	PropertyID uuid.UUID
	OldStatus  model.OfferStatus
	NewStatus  model.OfferStatus
	Recipient  string
	RequestID  string
}

func RenderOfferStatus(c OfferStatusChange) (subject, body string) {
	subject = "Offer Status Update - " + c.OfferID.String()

	color, mark := "blue", "•"
	switch c.NewStatus {
	case model.OfferStatusAccepted:
		color, mark = "green", "✓"
	case model.OfferStatusRejected:
		color, mark = "red", "✗"
	case model.OfferStatusWithdrawn:
		color, mark = "orange", "⚠"
	}

	var b strings.Builder
	b.WriteString("<h2>Offer Status Update</h2>")
	fmt.Fprintf(&b, "<p><strong>Offer ID:</strong> %s</p>", c.OfferID)
	fmt.Fprintf(&b, "<p><strong>Property ID:</strong> %s</p>", c.PropertyID)
	fmt.Fprintf(&b, "<p><strong>Previous Status:</strong> %s</p>", html.EscapeString(string(c.OldStatus)))
	fmt.Fprintf(&b, "<p><strong>New Status:</strong> <span style='color: %s'>%s %s</span></p>", color, mark, html.EscapeString(string(c.NewStatus)))
	b.WriteString("<hr>")
	b.WriteString("<p><em>This is an automated notification from RealEstateHub</em></p>")
	return subject, b.String()
}
