// Package notify composes and delivers the lifecycle notifications.
// Delivery is strictly best-effort: every outcome is reported back as
// a Result the caller logs and moves past, never as an error that
// could fail the triggering request.
package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"urbaniq/backend/internal/config"
	"urbaniq/backend/internal/lifecycle"
	"urbaniq/backend/internal/models"
)

// Result is the outcome of one dispatch attempt.
type Result struct {
	Sent   bool
	Reason string
}

// Dispatcher validates recipients and sends lifecycle notifications.
type Dispatcher struct {
	cfg      config.NotifyConfig
	mailer   Mailer
	resolver MXResolver
	telegram *TelegramChannel
	log      *zap.Logger
}

// NewDispatcher wires the dispatcher. mailer, resolver and telegram
// may each be nil; the corresponding capability degrades gracefully.
func NewDispatcher(cfg config.NotifyConfig, mailer Mailer, resolver MXResolver, telegram *TelegramChannel, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{cfg: cfg, mailer: mailer, resolver: resolver, telegram: telegram, log: log}
}

// Dispatch sends the email for one lifecycle event and fires the SMS
// and telegram side channels. It never returns an error.
func (d *Dispatcher) Dispatch(ctx context.Context, event lifecycle.Event, c *models.Complaint, recipient *models.User) Result {
	res := d.sendEmail(ctx, event, c, recipient)
	if res.Sent {
		d.log.Info("notification sent",
			zap.String("event", string(event)),
			zap.String("tracking_id", c.TrackingID),
			zap.String("recipient", recipient.Email))
	} else {
		d.log.Info("notification skipped",
			zap.String("event", string(event)),
			zap.String("tracking_id", c.TrackingID),
			zap.String("reason", res.Reason))
	}

	d.sendSMSPlaceholder(c, recipient)

	if d.telegram != nil && event == lifecycle.EventCreated {
		d.telegram.AnnounceCreated(c)
	}
	return res
}

func (d *Dispatcher) sendEmail(ctx context.Context, event lifecycle.Event, c *models.Complaint, recipient *models.User) Result {
	if recipient == nil || recipient.Email == "" {
		return Result{Reason: "recipient has no email address"}
	}
	if reason := d.ValidateRecipient(ctx, recipient.Email); reason != "" {
		return Result{Reason: reason}
	}

	subject, body := composeMessage(event, c)
	if subject == "" {
		return Result{Reason: fmt.Sprintf("no message for event %q", event)}
	}
	if err := d.mailer.Send(recipient.Email, subject, body); err != nil {
		return Result{Reason: err.Error()}
	}
	return Result{Sent: true}
}

func composeMessage(event lifecycle.Event, c *models.Complaint) (subject, body string) {
	shortDesc := truncate(c.Description, 120)
	link := c.TrackingLink()

	switch event {
	case lifecycle.EventCreated:
		subject = fmt.Sprintf("Report submitted: %s", c.Title)
		body = fmt.Sprintf("Thank you for your report.\n\nTitle: %s\nDescription: %s\nReport ID: %d\nTracking: %s\n",
			c.Title, shortDesc, c.ID, link)
	case lifecycle.EventInReview:
		subject = fmt.Sprintf("Report in review: %s", c.Title)
		body = fmt.Sprintf("Your report is now being reviewed by %s.\n\nTitle: %s\nTracking: %s\n",
			c.AssignedDepartment.Name, c.Title, link)
	case lifecycle.EventResolved:
		subject = fmt.Sprintf("Report resolved: %s", c.Title)
		body = fmt.Sprintf("Your report has been resolved.\n\nTitle: %s\nTracking: %s\n", c.Title, link)
	}
	return subject, body
}

// sendSMSPlaceholder logs the SMS that would be sent if an SMS gateway
// were wired up. No phone number on file means no line at all.
func (d *Dispatcher) sendSMSPlaceholder(c *models.Complaint, recipient *models.User) {
	if recipient == nil || recipient.PhoneNumber == nil || *recipient.PhoneNumber == "" {
		return
	}
	d.log.Info("sms placeholder",
		zap.String("to", *recipient.PhoneNumber),
		zap.Uint("report", c.ID),
		zap.String("department", c.AssignedDepartment.Name),
		zap.String("status", c.Status),
		zap.String("track", c.TrackingLink()))
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
