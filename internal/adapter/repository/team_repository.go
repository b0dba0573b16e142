package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-taskflow/internal/domain/entities"
	repo "github.com/johnquangdev/meeting-taskflow/internal/domain/repositories"
)

type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new team repository backed by GORM
func NewTeamRepository(db *gorm.DB) repo.TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Team, error) {
	var team entities.Team
	err := r.db.WithContext(ctx).First(&team, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entities.ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) ListMembers(ctx context.Context, teamID uuid.UUID) ([]*entities.TeamMember, error) {
	var members []*entities.TeamMember
	err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("created_at ASC").
		Find(&members).Error
	return members, err
}

func (r *teamRepository) FindMemberByID(ctx context.Context, memberID uuid.UUID) (*entities.TeamMember, error) {
	var m entities.TeamMember
	err := r.db.WithContext(ctx).First(&m, "id = ?", memberID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entities.ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *teamRepository) FindMemberByUser(ctx context.Context, teamID, userID uuid.UUID) (*entities.TeamMember, error) {
	var m entities.TeamMember
	err := r.db.WithContext(ctx).
		First(&m, "team_id = ? AND user_id = ?", teamID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entities.ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *teamRepository) UpdateMemberStatus(ctx context.Context, memberID uuid.UUID, status entities.MemberStatus) error {
	res := r.db.WithContext(ctx).
		Model(&entities.TeamMember{}).
		Where("id = ?", memberID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entities.ErrMemberNotFound
	}
	return nil
}
