package notification

// NotificationSystem represents a delivery channel (e.g., email).
type NotificationSystem string

// NoticeType represents a kind of notification (e.g., "otp_code").
type NoticeType string

const (
	EmailSystem NotificationSystem = "email"

	OTPCodeNotice NoticeType = "otp_code"
)

// NoticeTemplate holds the subject and body templates for a notice.
// Text and Html are html/template sources rendered with NotificationData.Data.
type NoticeTemplate struct {
	Subject string
	Text    string
	Html    string
}

type NotificationData struct {
	To      string            // Recipient identifier (e.g., email address)
	Subject string            // Optional: overrides the template subject
	Body    string            // Pre-rendered content, used when no template applies
	Data    map[string]string // Template data (e.g., the passcode)
}

type Notifier interface {
	Send(noticeType NoticeType, notification NotificationData, template NoticeTemplate) error
}
