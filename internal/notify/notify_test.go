package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"internship-portal/internal/common/errors"
	"internship-portal/internal/common/logger"
	"internship-portal/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mocks
// ==========================

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ses.SendEmailOutput), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sns.PublishOutput), args.Error(1)
}

func contactMessage() models.ContactMessage {
	return models.ContactMessage{Name: "Jo", Email: "jo@example.com", Subject: "Partnership", Message: "We would like to post internships."}
}

// ==========================
// SendContact
// ==========================

func TestSendContact_Disabled(t *testing.T) {
	n := New(Options{Logger: logger.NewTestLogger(t)})
	assert.False(t, n.EmailEnabled())
	assert.NoError(t, n.SendContact(context.Background(), contactMessage()))
}

func TestSendContact_SendsToSupport(t *testing.T) {
	sender := new(MockEmailSender)
	sender.On("SendEmail", mock.Anything, mock.MatchedBy(func(in *ses.SendEmailInput) bool {
		return *in.Source == "no-reply@portal.io" &&
			in.Destination.ToAddresses[0] == "support@portal.io" &&
			in.ReplyToAddresses[0] == "jo@example.com" &&
			*in.Message.Subject.Data == "[Contact] Partnership"
	})).Return(&ses.SendEmailOutput{MessageId: aws.String("m-1")}, nil)

	n := New(Options{Email: sender, FromEmail: "no-reply@portal.io", SupportAddress: "support@portal.io", Logger: logger.NewTestLogger(t)})

	require.NoError(t, n.SendContact(context.Background(), contactMessage()))
	sender.AssertExpectations(t)
}

func TestSendContact_Failure(t *testing.T) {
	sender := new(MockEmailSender)
	sender.On("SendEmail", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("throttled"))

	n := New(Options{Email: sender, FromEmail: "a@x.io", SupportAddress: "b@x.io", Logger: logger.NewTestLogger(t)})

	err := n.SendContact(context.Background(), contactMessage())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNotificationSendFailed))
}

// ==========================
// PublishSettingsChanged
// ==========================

func TestPublishSettingsChanged(t *testing.T) {
	fixed := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	var captured *sns.PublishInput

	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, mock.AnythingOfType("*sns.PublishInput")).
		Run(func(args mock.Arguments) { captured = args.Get(1).(*sns.PublishInput) }).
		Return(&sns.PublishOutput{}, nil)

	n := New(Options{Publisher: pub, TopicARN: "arn:topic", Logger: logger.NewTestLogger(t)})
	n.now = func() time.Time { return fixed }

	settings := models.SystemSettings{RegistrationOpen: true, MaxApplicationsPerStudent: 5}
	require.NoError(t, n.PublishSettingsChanged(context.Background(), models.User{ID: "admin-1", Name: "Root"}, settings))

	require.NotNil(t, captured)
	assert.Equal(t, "arn:topic", *captured.TopicArn)

	var event SettingsChangedEvent
	require.NoError(t, json.Unmarshal([]byte(*captured.Message), &event))
	assert.Equal(t, EventSettingsChanged, event.Type)
	assert.Equal(t, "admin-1", event.ActorID)
	assert.Equal(t, 5, event.Settings.MaxApplicationsPerStudent)
	assert.True(t, event.ChangedAt.Equal(fixed))
}

func TestPublishSettingsChanged_DisabledAndFailure(t *testing.T) {
	n := New(Options{Logger: logger.NewTestLogger(t)})
	assert.NoError(t, n.PublishSettingsChanged(context.Background(), models.User{}, models.SystemSettings{}))

	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("no such topic"))
	n = New(Options{Publisher: pub, TopicARN: "arn", Logger: logger.NewTestLogger(t)})

	err := n.PublishSettingsChanged(context.Background(), models.User{ID: "a"}, models.SystemSettings{})
	assert.True(t, errors.Is(err, errors.ErrCodeNotificationSendFailed))
}
