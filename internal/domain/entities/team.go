package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Team groups members who share meetings and action items
type Team struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	CreatedBy uuid.UUID `json:"created_by" gorm:"type:uuid"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Team
func (Team) TableName() string {
	return "teams"
}

// MemberRole defines member roles within a team
type MemberRole string

const (
	MemberRoleAdmin  MemberRole = "admin"
	MemberRoleMember MemberRole = "member"
)

// IsValid checks if the member role is valid
func (r MemberRole) IsValid() bool {
	return r == MemberRoleAdmin || r == MemberRoleMember
}

// MemberStatus defines member lifecycle states. Members are never hard-deleted;
// removal transitions the status to inactive.
type MemberStatus string

const (
	MemberStatusActive   MemberStatus = "active"
	MemberStatusInvited  MemberStatus = "invited"
	MemberStatusInactive MemberStatus = "inactive"
)

// TeamMember is a user's membership in a team, the roster unit the speaker
// resolver matches against
type TeamMember struct {
	ID          uuid.UUID    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TeamID      uuid.UUID    `json:"team_id" gorm:"type:uuid;not null;index"`
	UserID      uuid.UUID    `json:"user_id" gorm:"type:uuid;not null;index"`
	DisplayName string       `json:"display_name" gorm:"type:varchar(255);not null"`
	Email       string       `json:"email" gorm:"type:varchar(255);not null"`
	Role        MemberRole   `json:"role" gorm:"type:varchar(20);default:'member';not null"`
	Status      MemberStatus `json:"status" gorm:"type:varchar(20);default:'invited';not null"`
	InvitedBy   *uuid.UUID   `json:"invited_by,omitempty" gorm:"type:uuid"`
	CreatedAt   time.Time    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time    `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for TeamMember
func (TeamMember) TableName() string {
	return "team_members"
}

// NewTeamMember creates a member in the invited state
func NewTeamMember(teamID, userID uuid.UUID, displayName, email string) *TeamMember {
	return &TeamMember{
		ID:          uuid.New(),
		TeamID:      teamID,
		UserID:      userID,
		DisplayName: displayName,
		Email:       email,
		Role:        MemberRoleMember,
		Status:      MemberStatusInvited,
	}
}

// IsActive reports whether the member is an eligible assignment target
func (m *TeamMember) IsActive() bool {
	return m.Status == MemberStatusActive
}

// IsAdmin reports whether the member can administer team tasks
func (m *TeamMember) IsAdmin() bool {
	return m.Role == MemberRoleAdmin
}

// EmailLocalPart returns the part of the email address before the @
func (m *TeamMember) EmailLocalPart() string {
	if idx := strings.Index(m.Email, "@"); idx >= 0 {
		return m.Email[:idx]
	}
	return m.Email
}

// Validate validates member data
func (m *TeamMember) Validate() error {
	if m.Email == "" {
		return ErrInvalidEmail
	}
	if m.DisplayName == "" {
		return ErrInvalidName
	}
	if !m.Role.IsValid() {
		return ErrInvalidRole
	}
	return nil
}

// ActiveMembers filters a roster down to eligible assignment targets
func ActiveMembers(roster []*TeamMember) []*TeamMember {
	active := make([]*TeamMember, 0, len(roster))
	for _, m := range roster {
		if m != nil && m.IsActive() {
			active = append(active, m)
		}
	}
	return active
}
