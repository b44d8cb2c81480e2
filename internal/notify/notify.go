// Package notify delivers the contact form by email and publishes admin audit
// events. A channel without a client is disabled and sends nothing.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"internship-portal/internal/common/aws"
	"internship-portal/internal/common/errors"
	"internship-portal/internal/common/logger"
	"internship-portal/internal/common/metrics"
	"internship-portal/internal/models"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// EmailSender is satisfied by *aws.SESClient.
type EmailSender interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

// Publisher is satisfied by *aws.SNSClient.
type Publisher interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

type Options struct {
	Email          EmailSender
	FromEmail      string
	SupportAddress string

	Publisher Publisher
	TopicARN  string

	Logger logger.Logger
}

type Notifier struct {
	email          EmailSender
	from           string
	supportAddress string
	publisher      Publisher
	topicARN       string
	log            logger.Logger
	now            func() time.Time
}

func New(opts Options) *Notifier {
	if opts.Logger == nil {
		opts.Logger = logger.NewStructured("info", "json")
	}
	return &Notifier{
		email:          opts.Email,
		from:           opts.FromEmail,
		supportAddress: opts.SupportAddress,
		publisher:      opts.Publisher,
		topicARN:       opts.TopicARN,
		log:            opts.Logger.WithFields(map[string]interface{}{"component": "notify"}),
		now:            time.Now,
	}
}

func (n *Notifier) EmailEnabled() bool { return n.email != nil }

func (n *Notifier) EventsEnabled() bool { return n.publisher != nil }

// SendContact forwards a contact form submission to the support address,
// with the visitor as reply-to.
func (n *Notifier) SendContact(ctx context.Context, msg models.ContactMessage) error {
	if !n.EmailEnabled() {
		n.log.Info("email channel disabled, contact message dropped", map[string]interface{}{
			"from":    msg.Email,
			"subject": msg.Subject,
		})
		metrics.NotificationsSent.WithLabelValues("ses", "disabled").Inc()
		return nil
	}

	subject := fmt.Sprintf("[Contact] %s", msg.Subject)
	body := fmt.Sprintf("From: %s <%s>\n\n%s\n", msg.Name, msg.Email, msg.Message)

	out, err := n.email.SendEmail(ctx, aws.PlainTextEmail(n.from, n.supportAddress, msg.Email, subject, body))
	if err != nil {
		metrics.NotificationsSent.WithLabelValues("ses", "error").Inc()
		n.log.Error("failed to send contact email", map[string]interface{}{"error": err.Error()})
		return errors.NewNotificationSendFailedError("ses", err)
	}

	metrics.NotificationsSent.WithLabelValues("ses", "sent").Inc()
	fields := map[string]interface{}{"subject": msg.Subject}
	if out != nil && out.MessageId != nil {
		fields["messageId"] = *out.MessageId
	}
	n.log.Info("contact email sent", fields)
	return nil
}

// SettingsChangedEvent is the audit payload published after an admin edits
// the system settings.
type SettingsChangedEvent struct {
	Type      string                `json:"type"`
	ActorID   string                `json:"actor_id"`
	ActorName string                `json:"actor_name"`
	Settings  models.SystemSettings `json:"settings"`
	ChangedAt time.Time             `json:"changed_at"`
}

const EventSettingsChanged = "settings.changed"

func (n *Notifier) PublishSettingsChanged(ctx context.Context, actor models.User, settings models.SystemSettings) error {
	if !n.EventsEnabled() {
		n.log.Debug("event channel disabled, settings audit skipped", map[string]interface{}{"actorId": actor.ID})
		metrics.NotificationsSent.WithLabelValues("sns", "disabled").Inc()
		return nil
	}

	payload, err := json.Marshal(SettingsChangedEvent{
		Type:      EventSettingsChanged,
		ActorID:   actor.ID,
		ActorName: actor.Name,
		Settings:  settings,
		ChangedAt: n.now().UTC(),
	})
	if err != nil {
		return errors.NewInternalError(err)
	}

	if _, err := n.publisher.Publish(ctx, aws.TopicEvent(n.topicARN, EventSettingsChanged, "System settings changed", string(payload))); err != nil {
		metrics.NotificationsSent.WithLabelValues("sns", "error").Inc()
		n.log.Error("failed to publish settings event", map[string]interface{}{"error": err.Error()})
		return errors.NewNotificationSendFailedError("sns", err)
	}

	metrics.NotificationsSent.WithLabelValues("sns", "sent").Inc()
	n.log.Info("settings event published", map[string]interface{}{"actorId": actor.ID})
	return nil
}
