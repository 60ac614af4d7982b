package dto

const (
	MailKeyResetPassword = "user.reset_password"
	MailKeyVerifyEmail   = "user.verify_email"
)

// MailEvent is published to the mail topic when mail goes through Kafka.
type MailEvent struct {
	Email string `json:"email"`
	Link  string `json:"link"`
}
