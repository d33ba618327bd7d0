package notify_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"urbaniq/backend/internal/config"
	"urbaniq/backend/internal/lifecycle"
	"urbaniq/backend/internal/models"
	"urbaniq/backend/internal/notify"
)

// MockMailer records delivery attempts.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(to, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}

// stubResolver answers the MX gate with a fixed verdict.
type stubResolver struct {
	hasMX bool
}

func (r stubResolver) HasMX(ctx context.Context, domain string) bool { return r.hasMX }

func testComplaint() *models.Complaint {
	return &models.Complaint{
		ID:                 42,
		TrackingID:         "3f1a9e4c-0000-4000-8000-000000000042",
		Title:              "Broken streetlight",
		Description:        "The streetlight at the corner has been out for a week.",
		Status:             lifecycle.StatusOpen,
		AssignedDepartment: models.Department{ID: 4, Name: "Electricity"},
	}
}

func userWithEmail(email string) *models.User {
	return &models.User{ID: 10, Email: email}
}

// TestDispatch_AllowedRecipient verifies a trusted-provider address
// with resolvable mail reaches the mailer.
func TestDispatch_AllowedRecipient(t *testing.T) {
	mailer := new(MockMailer)
	mailer.On("Send", "citizen1@gmail.com", mock.Anything, mock.Anything).Return(nil).Once()

	d := notify.NewDispatcher(config.DefaultNotifyConfig(), mailer, stubResolver{hasMX: true}, nil, nil)
	res := d.Dispatch(context.Background(), lifecycle.EventCreated, testComplaint(), userWithEmail("citizen1@gmail.com"))

	assert.True(t, res.Sent)
	assert.Empty(t, res.Reason)
	mailer.AssertExpectations(t)
}

// TestDispatch_BlockedDomainNeverSends verifies an address on a
// placeholder domain never results in an attempted send.
func TestDispatch_BlockedDomainNeverSends(t *testing.T) {
	mailer := new(MockMailer)

	d := notify.NewDispatcher(config.DefaultNotifyConfig(), mailer, stubResolver{hasMX: true}, nil, nil)
	res := d.Dispatch(context.Background(), lifecycle.EventCreated, testComplaint(), userWithEmail("someone@example.com"))

	assert.False(t, res.Sent)
	assert.Contains(t, res.Reason, "placeholder")
	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

// TestDispatch_MXGate verifies MX failures block delivery when a
// resolver is wired in, and are skipped entirely when it is not.
func TestDispatch_MXGate(t *testing.T) {
	t.Run("resolver present, no MX", func(t *testing.T) {
		mailer := new(MockMailer)
		d := notify.NewDispatcher(config.DefaultNotifyConfig(), mailer, stubResolver{hasMX: false}, nil, nil)

		res := d.Dispatch(context.Background(), lifecycle.EventCreated, testComplaint(), userWithEmail("citizen1@gmail.com"))

		assert.False(t, res.Sent)
		assert.Contains(t, res.Reason, "mail exchanger")
		mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("resolver absent, gate skipped", func(t *testing.T) {
		mailer := new(MockMailer)
		mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
		d := notify.NewDispatcher(config.DefaultNotifyConfig(), mailer, nil, nil, nil)

		res := d.Dispatch(context.Background(), lifecycle.EventCreated, testComplaint(), userWithEmail("citizen1@gmail.com"))

		assert.True(t, res.Sent)
		mailer.AssertExpectations(t)
	})
}

// TestDispatch_NoTransport verifies a missing mailer degrades into a
// reasoned rejection, never an error.
func TestDispatch_NoTransport(t *testing.T) {
	d := notify.NewDispatcher(config.DefaultNotifyConfig(), nil, nil, nil, nil)
	res := d.Dispatch(context.Background(), lifecycle.EventCreated, testComplaint(), userWithEmail("citizen1@gmail.com"))

	assert.False(t, res.Sent)
	assert.Equal(t, "mail transport not configured", res.Reason)
}

// TestDispatch_SendFailureIsContained verifies a transport error is
// reported in the result, not raised.
func TestDispatch_SendFailureIsContained(t *testing.T) {
	mailer := new(MockMailer)
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError).Once()

	d := notify.NewDispatcher(config.DefaultNotifyConfig(), mailer, nil, nil, nil)
	res := d.Dispatch(context.Background(), lifecycle.EventCreated, testComplaint(), userWithEmail("citizen1@gmail.com"))

	assert.False(t, res.Sent)
	assert.NotEmpty(t, res.Reason)
}

// TestDispatch_NoEmailOnFile covers recipients without an address.
func TestDispatch_NoEmailOnFile(t *testing.T) {
	d := notify.NewDispatcher(config.DefaultNotifyConfig(), new(MockMailer), nil, nil, nil)
	res := d.Dispatch(context.Background(), lifecycle.EventCreated, testComplaint(), userWithEmail(""))

	assert.False(t, res.Sent)
	assert.Contains(t, res.Reason, "no email")
}
