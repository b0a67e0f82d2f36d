package model

// NotificationAction is a canned notification template keyed by integer id.
// The table is shared with external tooling and is read through the raw SQL
// store in database/actions.go; GORM only migrates it.
type NotificationAction struct {
	ID           int64  `gorm:"primaryKey" json:"id"`
	Message      string `gorm:"type:text;not null" json:"message"`
	EmailSubject string `gorm:"type:text" json:"email_subject"`
	EmailBody    string `gorm:"type:text" json:"email_body"`
}

// TableName specifies the table name for NotificationAction
func (NotificationAction) TableName() string {
	return "notification_actions"
}

// HasEmail reports whether the action carries a sendable email payload.
func (a *NotificationAction) HasEmail() bool {
	return a.EmailSubject != "" && a.EmailBody != ""
}
