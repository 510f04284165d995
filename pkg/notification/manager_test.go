package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendEmail(t *testing.T) {
	mock := &MockNotifier{}

	nm, err := NewNotificationManager(
		WithNotifier(EmailSystem, mock),
		WithOTPCodeTemplate(),
	)
	require.NoError(t, err)

	err = nm.SendEmail(OTPCodeNotice, NotificationData{
		To:   "alice@example.com",
		Data: map[string]string{"Passcode": "123456"},
	})
	require.NoError(t, err)

	require.Len(t, mock.SentNotifications, 1)
	assert.Equal(t, "alice@example.com", mock.SentNotifications[0].To)
	assert.Equal(t, "123456", mock.SentNotifications[0].Data["Passcode"])
}

func TestSend_UnregisteredNoticeType(t *testing.T) {
	nm, err := NewNotificationManager(WithNotifier(EmailSystem, &MockNotifier{}))
	require.NoError(t, err)

	err = nm.SendEmail(OTPCodeNotice, NotificationData{To: "alice@example.com"})
	assert.Error(t, err)
}

func TestSend_UnregisteredSystem(t *testing.T) {
	nm, err := NewNotificationManager(WithOTPCodeTemplate())
	require.NoError(t, err)

	err = nm.SendEmail(OTPCodeNotice, NotificationData{To: "alice@example.com"})
	assert.Error(t, err)
}

func TestRegisterNotification_RejectsEmptyKeys(t *testing.T) {
	nm, err := NewNotificationManager()
	require.NoError(t, err)

	assert.Error(t, nm.RegisterNotification("", EmailSystem, NoticeTemplate{}))
	assert.Error(t, nm.RegisterNotification(OTPCodeNotice, "", NoticeTemplate{}))
}

func TestOTPCodeTemplateRendersPasscode(t *testing.T) {
	rendered, err := renderTemplate("text", "Your verification code is {{.Passcode}}.", map[string]string{
		"Passcode": "654321",
	})
	require.NoError(t, err)
	assert.Contains(t, rendered, "654321")
}
