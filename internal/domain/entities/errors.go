package entities

import "errors"

// Domain errors
var (
	// Member errors
	ErrMemberNotFound  = errors.New("team member not found")
	ErrMemberNotActive = errors.New("team member is not active")
	ErrInvalidEmail    = errors.New("invalid email")
	ErrInvalidName     = errors.New("invalid name")
	ErrInvalidRole     = errors.New("invalid role")

	// Team errors
	ErrTeamNotFound = errors.New("team not found")

	// Meeting errors
	ErrMeetingNotFound = errors.New("meeting not found")

	// Action item errors
	ErrActionItemNotFound   = errors.New("action item not found")
	ErrInvalidItemStatus    = errors.New("invalid action item status")
	ErrAssignmentNotAllowed = errors.New("assignment not allowed for this user")

	// Notification errors
	ErrNotificationNotFound    = errors.New("notification not found")
	ErrUnknownNotificationType = errors.New("unknown notification type")
	ErrEmptyRecipient          = errors.New("notification recipient is required")
	ErrInvitationNotPending    = errors.New("invitation is not pending")

	// Generic errors
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidRequest = errors.New("invalid request")
)
