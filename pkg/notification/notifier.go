package notification

// NotificationSystem represents a delivery channel (e.g., email, SMS).
type NotificationSystem string

// NoticeType identifies a kind of notice sent to users.
type NoticeType string

const (
	EmailSystem NotificationSystem = "email"
	SMSSystem   NotificationSystem = "sms"
)

const (
	// MFACodeNotice carries a one-time login code.
	MFACodeNotice NoticeType = "mfa_code"
	// BackupCodesNotice carries a freshly generated recovery code set.
	BackupCodesNotice NoticeType = "backup_codes"
)

// NoticeTemplate holds the renderable parts of a notice for one system.
type NoticeTemplate struct {
	Subject string
	Html    string
	Text    string
}

// NotificationData is the per-send payload handed to a notifier.
type NotificationData struct {
	To   string                 // Recipient identifier (e.g., email address)
	Data map[string]interface{} // Template values
}

type Notifier interface {
	Send(noticeType NoticeType, notification NotificationData, template NoticeTemplate) error
}
