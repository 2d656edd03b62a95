package notification

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerSend(t *testing.T) {
	nm := NewNotificationManager()
	mock := &MockNotifier{}
	nm.RegisterNotifier(EmailSystem, mock)
	require.NoError(t, RegisterDefaultNotices(nm))

	err := nm.Send(MFACodeNotice, NotificationData{
		To:   "user@example.com",
		Data: map[string]interface{}{"Code": "123456", "UserName": "Pat", "ExpiryMinutes": 10},
	})
	require.NoError(t, err)

	sent := mock.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "user@example.com", sent[0].To)
	assert.Equal(t, "123456", sent[0].Data["Code"])
}

func TestManagerSendUnregisteredNotice(t *testing.T) {
	nm := NewNotificationManager()
	nm.RegisterNotifier(EmailSystem, &MockNotifier{})

	err := nm.Send(NoticeType("unknown"), NotificationData{To: "user@example.com"})
	assert.Error(t, err)
}

func TestManagerSendMissingNotifier(t *testing.T) {
	nm := NewNotificationManager()
	require.NoError(t, RegisterDefaultNotices(nm))

	err := nm.Send(MFACodeNotice, NotificationData{To: "user@example.com"})
	assert.Error(t, err)
}

func TestManagerSendPropagatesNotifierError(t *testing.T) {
	nm := NewNotificationManager()
	sendErr := errors.New("smtp down")
	nm.RegisterNotifier(EmailSystem, &MockNotifier{FailWith: sendErr})
	require.NoError(t, RegisterDefaultNotices(nm))

	err := nm.Send(MFACodeNotice, NotificationData{To: "user@example.com"})
	assert.ErrorIs(t, err, sendErr)
}

func TestRegisterNoticeValidation(t *testing.T) {
	nm := NewNotificationManager()
	assert.Error(t, nm.RegisterNotice("", MFACodeNotice, NoticeTemplate{}))
	assert.Error(t, nm.RegisterNotice(EmailSystem, "", NoticeTemplate{}))
}
