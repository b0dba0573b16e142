package notification

// ListNotificationsRequest represents query parameters for listing an inbox
type ListNotificationsRequest struct {
	UnreadOnly bool `query:"unread_only"`
}
