package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-taskflow/internal/domain/entities"
)

// TeamRepository defines persistence operations for teams and their rosters
type TeamRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Team, error)
	ListMembers(ctx context.Context, teamID uuid.UUID) ([]*entities.TeamMember, error)
	FindMemberByID(ctx context.Context, memberID uuid.UUID) (*entities.TeamMember, error)
	FindMemberByUser(ctx context.Context, teamID, userID uuid.UUID) (*entities.TeamMember, error)
	UpdateMemberStatus(ctx context.Context, memberID uuid.UUID, status entities.MemberStatus) error
}
