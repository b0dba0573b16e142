package assignment

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/johnquangdev/meeting-taskflow/internal/domain/entities"
)

type fakeItemRepo struct {
	items   map[uuid.UUID]*entities.ActionItem
	overdue []*entities.ActionItem
	saves   int
}

func newFakeItemRepo(items ...*entities.ActionItem) *fakeItemRepo {
	r := &fakeItemRepo{items: make(map[uuid.UUID]*entities.ActionItem)}
	for _, item := range items {
		r.items[item.ID] = item
	}
	return r
}

func (r *fakeItemRepo) Save(_ context.Context, item *entities.ActionItem) error {
	r.items[item.ID] = item
	r.saves++
	return nil
}

func (r *fakeItemRepo) SaveBatch(_ context.Context, items []*entities.ActionItem) error {
	for _, item := range items {
		r.items[item.ID] = item
	}
	r.saves += len(items)
	return nil
}

func (r *fakeItemRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.ActionItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, entities.ErrActionItemNotFound
	}
	return item, nil
}

func (r *fakeItemRepo) ListByMeeting(context.Context, uuid.UUID) ([]*entities.ActionItem, error) {
	return nil, nil
}

func (r *fakeItemRepo) ListByAssignee(context.Context, uuid.UUID) ([]*entities.ActionItem, error) {
	return nil, nil
}

func (r *fakeItemRepo) ListOverdue(context.Context) ([]*entities.ActionItem, error) {
	return r.overdue, nil
}

func (r *fakeItemRepo) DeleteByMeeting(context.Context, uuid.UUID) error { return nil }

type fakeTeamRepo struct {
	membersByID   map[uuid.UUID]*entities.TeamMember
	membersByUser map[uuid.UUID]*entities.TeamMember
}

func newFakeTeamRepo(members ...*entities.TeamMember) *fakeTeamRepo {
	r := &fakeTeamRepo{
		membersByID:   make(map[uuid.UUID]*entities.TeamMember),
		membersByUser: make(map[uuid.UUID]*entities.TeamMember),
	}
	for _, m := range members {
		r.membersByID[m.ID] = m
		r.membersByUser[m.UserID] = m
	}
	return r
}

func (r *fakeTeamRepo) FindByID(context.Context, uuid.UUID) (*entities.Team, error) {
	return nil, entities.ErrTeamNotFound
}

func (r *fakeTeamRepo) ListMembers(context.Context, uuid.UUID) ([]*entities.TeamMember, error) {
	members := make([]*entities.TeamMember, 0, len(r.membersByID))
	for _, m := range r.membersByID {
		members = append(members, m)
	}
	return members, nil
}

func (r *fakeTeamRepo) FindMemberByID(_ context.Context, id uuid.UUID) (*entities.TeamMember, error) {
	m, ok := r.membersByID[id]
	if !ok {
		return nil, entities.ErrMemberNotFound
	}
	return m, nil
}

func (r *fakeTeamRepo) FindMemberByUser(_ context.Context, _ uuid.UUID, userID uuid.UUID) (*entities.TeamMember, error) {
	m, ok := r.membersByUser[userID]
	if !ok {
		return nil, entities.ErrMemberNotFound
	}
	return m, nil
}

func (r *fakeTeamRepo) UpdateMemberStatus(_ context.Context, id uuid.UUID, status entities.MemberStatus) error {
	m, ok := r.membersByID[id]
	if !ok {
		return entities.ErrMemberNotFound
	}
	m.Status = status
	return nil
}

type dispatchedCall struct {
	kind      entities.NotificationType
	recipient uuid.UUID
	eventID   string
}

type fakeNotifier struct {
	calls []dispatchedCall
	seen  map[string]bool
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{seen: make(map[string]bool)}
}

func (n *fakeNotifier) Dispatch(_ context.Context, kind entities.NotificationType, recipientID uuid.UUID, title, message string, data datatypes.JSON) (*entities.Notification, error) {
	n.calls = append(n.calls, dispatchedCall{kind: kind, recipient: recipientID})
	return entities.NewNotification(recipientID, kind, title, message, data), nil
}

func (n *fakeNotifier) DispatchDeduped(ctx context.Context, kind entities.NotificationType, recipientID uuid.UUID, title, message string, data datatypes.JSON, eventID string) (*entities.Notification, error) {
	key := string(kind) + "|" + recipientID.String() + "|" + eventID
	if n.seen[key] {
		return nil, nil
	}
	n.seen[key] = true
	n.calls = append(n.calls, dispatchedCall{kind: kind, recipient: recipientID, eventID: eventID})
	return entities.NewNotification(recipientID, kind, title, message, data), nil
}

type fakePublisher struct {
	keys []string
}

func (p *fakePublisher) Publish(_ context.Context, key string, _ any) {
	p.keys = append(p.keys, key)
}

func member(name string, role entities.MemberRole, status entities.MemberStatus) *entities.TeamMember {
	return &entities.TeamMember{
		ID:          uuid.New(),
		TeamID:      uuid.New(),
		UserID:      uuid.New(),
		DisplayName: name,
		Email:       "user@example.com",
		Role:        role,
		Status:      status,
	}
}

func newEngine(items *fakeItemRepo, teams *fakeTeamRepo) (*Engine, *fakeNotifier, *fakePublisher) {
	notifier := newFakeNotifier()
	publisher := &fakePublisher{}
	return NewEngine(items, teams, notifier, publisher, zap.NewNop()), notifier, publisher
}

func TestAutoAssign_ThresholdGatesAssignment(t *testing.T) {
	sarah := member("Sarah Johnson", entities.MemberRoleMember, entities.MemberStatusActive)
	engine, _, _ := newEngine(newFakeItemRepo(), newFakeTeamRepo(sarah))

	meetingID := uuid.New()
	summaryID := uuid.New()
	extraction := &entities.ExtractionResult{
		Summary: "weekly sync",
		ActionItems: []entities.ExtractedItem{
			{Description: "High confidence task", SuggestedOwnerLabel: "Sarah Johnson", Priority: entities.ItemPriorityHigh},
			{Description: "Low confidence task", SuggestedOwnerLabel: "Sara Jonson", Priority: entities.ItemPriorityMedium},
			{Description: "At threshold task", SuggestedOwnerLabel: "Sjohnson", Priority: entities.ItemPriorityLow},
			{Description: "No owner task"},
		},
	}
	speakerMap := map[string]entities.SpeakerMatch{
		"Sarah Johnson": {RawLabel: "Sarah Johnson", MatchedMember: sarah, Confidence: 1.0, Method: entities.MatchMethodExact},
		"Sara Jonson":   {RawLabel: "Sara Jonson", MatchedMember: sarah, Confidence: 0.34, Method: entities.MatchMethodFuzzy},
		"Sjohnson":      {RawLabel: "Sjohnson", MatchedMember: sarah, Confidence: 0.5, Method: entities.MatchMethodEmailPrefix},
	}

	items := engine.AutoAssign(extraction, speakerMap, meetingID, summaryID)

	require.Len(t, items, 4)

	assert.True(t, items[0].IsAssigned())
	require.NotNil(t, items[0].AssignedBy)
	assert.Equal(t, entities.AssignedBySystem, *items[0].AssignedBy)
	assert.Equal(t, sarah.UserID, *items[0].AssigneeID)
	assert.Equal(t, "Sarah Johnson", *items[0].AssigneeName)

	assert.False(t, items[1].IsAssigned(), "below-threshold match must stay unassigned")
	assert.True(t, items[2].IsAssigned(), "threshold is inclusive")
	assert.False(t, items[3].IsAssigned())

	for _, item := range items {
		assert.Equal(t, meetingID, item.MeetingID)
		assert.Equal(t, summaryID, *item.SummaryID)
		assert.Equal(t, entities.ActionItemStatusPending, item.Status)
	}
}

func TestManualAssign_UnassignedItemByAnyMember(t *testing.T) {
	assignee := member("Sarah Johnson", entities.MemberRoleMember, entities.MemberStatusActive)
	actor := member("Bob Jones", entities.MemberRoleMember, entities.MemberStatusActive)
	item := entities.NewActionItem(uuid.New(), "write the report")

	items := newFakeItemRepo(item)
	engine, notifier, publisher := newEngine(items, newFakeTeamRepo(assignee, actor))

	err := engine.ManualAssign(context.Background(), item.ID, assignee.ID, actor.UserID)

	require.NoError(t, err)
	assert.Equal(t, assignee.UserID, *item.AssigneeID)
	assert.Equal(t, actor.UserID.String(), *item.AssignedBy)
	assert.Equal(t, 2, item.Version)
	assert.Equal(t, 1, items.saves)

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, entities.NotificationTaskAssignment, notifier.calls[0].kind)
	assert.Equal(t, assignee.UserID, notifier.calls[0].recipient)

	require.Len(t, publisher.keys, 1)
	assert.Equal(t, "tasks:"+assignee.UserID.String(), publisher.keys[0])
}

func TestManualAssign_ReassignRequiresOwnershipOrAdmin(t *testing.T) {
	owner := member("Sarah Johnson", entities.MemberRoleMember, entities.MemberStatusActive)
	stranger := member("Bob Jones", entities.MemberRoleMember, entities.MemberStatusActive)
	target := member("Carol White", entities.MemberRoleMember, entities.MemberStatusActive)

	item := entities.NewActionItem(uuid.New(), "already owned")
	item.Assign(owner.UserID, owner.DisplayName, entities.AssignedBySystem, time.Now())

	items := newFakeItemRepo(item)
	engine, _, _ := newEngine(items, newFakeTeamRepo(owner, stranger, target))

	err := engine.ManualAssign(context.Background(), item.ID, target.ID, stranger.UserID)

	require.ErrorIs(t, err, entities.ErrAssignmentNotAllowed)
	assert.Equal(t, owner.UserID, *item.AssigneeID)
	assert.Zero(t, items.saves)
}

func TestManualAssign_CurrentAssigneeCanHandOff(t *testing.T) {
	owner := member("Sarah Johnson", entities.MemberRoleMember, entities.MemberStatusActive)
	target := member("Carol White", entities.MemberRoleMember, entities.MemberStatusActive)

	item := entities.NewActionItem(uuid.New(), "hand me over")
	item.Assign(owner.UserID, owner.DisplayName, entities.AssignedBySystem, time.Now())

	engine, _, publisher := newEngine(newFakeItemRepo(item), newFakeTeamRepo(owner, target))

	err := engine.ManualAssign(context.Background(), item.ID, target.ID, owner.UserID)

	require.NoError(t, err)
	assert.Equal(t, target.UserID, *item.AssigneeID)

	// Both the new and the previous assignee's live views get the delta
	assert.Contains(t, publisher.keys, "tasks:"+target.UserID.String())
	assert.Contains(t, publisher.keys, "tasks:"+owner.UserID.String())
}

func TestManualAssign_AdminCanOverride(t *testing.T) {
	owner := member("Sarah Johnson", entities.MemberRoleMember, entities.MemberStatusActive)
	admin := member("Alice Admin", entities.MemberRoleAdmin, entities.MemberStatusActive)
	target := member("Carol White", entities.MemberRoleMember, entities.MemberStatusActive)

	item := entities.NewActionItem(uuid.New(), "contested task")
	item.Assign(owner.UserID, owner.DisplayName, entities.AssignedBySystem, time.Now())

	engine, _, _ := newEngine(newFakeItemRepo(item), newFakeTeamRepo(owner, admin, target))

	err := engine.ManualAssign(context.Background(), item.ID, target.ID, admin.UserID)

	require.NoError(t, err)
	assert.Equal(t, target.UserID, *item.AssigneeID)
}

func TestManualAssign_RejectsInactiveAssignee(t *testing.T) {
	inactive := member("Gone Person", entities.MemberRoleMember, entities.MemberStatusInactive)
	actor := member("Bob Jones", entities.MemberRoleMember, entities.MemberStatusActive)
	item := entities.NewActionItem(uuid.New(), "orphan task")

	engine, _, _ := newEngine(newFakeItemRepo(item), newFakeTeamRepo(inactive, actor))

	err := engine.ManualAssign(context.Background(), item.ID, inactive.ID, actor.UserID)

	require.ErrorIs(t, err, entities.ErrMemberNotActive)
	assert.False(t, item.IsAssigned())
}

func TestBulkAssign_FailuresAreIsolated(t *testing.T) {
	assignee := member("Sarah Johnson", entities.MemberRoleMember, entities.MemberStatusActive)
	actor := member("Bob Jones", entities.MemberRoleMember, entities.MemberStatusActive)

	first := entities.NewActionItem(uuid.New(), "first")
	second := entities.NewActionItem(uuid.New(), "second")
	missing := uuid.New()

	engine, notifier, _ := newEngine(newFakeItemRepo(first, second), newFakeTeamRepo(assignee, actor))

	result := engine.BulkAssign(context.Background(), []uuid.UUID{first.ID, missing, second.ID}, assignee.ID, actor.UserID)

	assert.ElementsMatch(t, []uuid.UUID{first.ID, second.ID}, result.Succeeded)
	require.Contains(t, result.Failed, missing)
	assert.Len(t, result.Failed, 1)
	assert.Len(t, notifier.calls, 2, "successful items still notify")
}

func TestUnassign_ClearsAllAssigneeFields(t *testing.T) {
	owner := member("Sarah Johnson", entities.MemberRoleMember, entities.MemberStatusActive)
	item := entities.NewActionItem(uuid.New(), "let it go")
	item.Assign(owner.UserID, owner.DisplayName, entities.AssignedBySystem, time.Now())

	engine, _, publisher := newEngine(newFakeItemRepo(item), newFakeTeamRepo(owner))

	err := engine.Unassign(context.Background(), item.ID, owner.UserID)

	require.NoError(t, err)
	assert.Nil(t, item.AssigneeID)
	assert.Nil(t, item.AssigneeName)
	assert.Nil(t, item.AssignedBy)
	assert.Nil(t, item.AssignedAt)
	assert.Equal(t, 2, item.Version)
	assert.Contains(t, publisher.keys, "tasks:"+owner.UserID.String())
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	item := entities.NewActionItem(uuid.New(), "task")
	engine, _, _ := newEngine(newFakeItemRepo(item), newFakeTeamRepo())

	err := engine.UpdateStatus(context.Background(), item.ID, "done-ish")

	require.ErrorIs(t, err, entities.ErrInvalidItemStatus)
	assert.Equal(t, entities.ActionItemStatusPending, item.Status)
}

func TestUpdateStatus_TransitionsAreBidirectional(t *testing.T) {
	owner := member("Sarah Johnson", entities.MemberRoleMember, entities.MemberStatusActive)
	item := entities.NewActionItem(uuid.New(), "task")
	item.Assign(owner.UserID, owner.DisplayName, entities.AssignedBySystem, time.Now())

	engine, _, _ := newEngine(newFakeItemRepo(item), newFakeTeamRepo(owner))
	ctx := context.Background()

	require.NoError(t, engine.UpdateStatus(ctx, item.ID, entities.ActionItemStatusInProgress))
	require.NoError(t, engine.UpdateStatus(ctx, item.ID, entities.ActionItemStatusCompleted))
	require.NoError(t, engine.UpdateStatus(ctx, item.ID, entities.ActionItemStatusPending), "reopening a completed task is allowed")
	assert.Equal(t, entities.ActionItemStatusPending, item.Status)
}

func TestUpdateStatus_CompletionNotifiesOnlyOnTransition(t *testing.T) {
	owner := member("Sarah Johnson", entities.MemberRoleMember, entities.MemberStatusActive)
	item := entities.NewActionItem(uuid.New(), "task")
	item.Assign(owner.UserID, owner.DisplayName, entities.AssignedBySystem, time.Now())

	engine, notifier, _ := newEngine(newFakeItemRepo(item), newFakeTeamRepo(owner))
	ctx := context.Background()

	require.NoError(t, engine.UpdateStatus(ctx, item.ID, entities.ActionItemStatusCompleted))
	require.NoError(t, engine.UpdateStatus(ctx, item.ID, entities.ActionItemStatusCompleted))

	completions := 0
	for _, call := range notifier.calls {
		if call.kind == entities.NotificationTaskCompleted {
			completions++
		}
	}
	assert.Equal(t, 1, completions)
}

func TestUpdateStatus_UnassignedCompletionDoesNotNotify(t *testing.T) {
	item := entities.NewActionItem(uuid.New(), "nobody's task")
	engine, notifier, _ := newEngine(newFakeItemRepo(item), newFakeTeamRepo())

	require.NoError(t, engine.UpdateStatus(context.Background(), item.ID, entities.ActionItemStatusCompleted))
	assert.Empty(t, notifier.calls)
}

func TestSweepOverdue_NotifiesOncePerItemPerDay(t *testing.T) {
	owner := member("Sarah Johnson", entities.MemberRoleMember, entities.MemberStatusActive)
	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)

	overdue := entities.NewActionItem(uuid.New(), "late task")
	overdue.Deadline = &yesterday
	overdue.Assign(owner.UserID, owner.DisplayName, entities.AssignedBySystem, now)

	unassigned := entities.NewActionItem(uuid.New(), "late but unowned")
	unassigned.Deadline = &yesterday

	items := newFakeItemRepo()
	items.overdue = []*entities.ActionItem{overdue, unassigned}

	engine, notifier, _ := newEngine(items, newFakeTeamRepo(owner))

	notified, err := engine.SweepOverdue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, notified)
	require.Len(t, notifier.calls, 1)
	assert.Equal(t, entities.NotificationTaskOverdue, notifier.calls[0].kind)
	assert.Contains(t, notifier.calls[0].eventID, now.Format("2006-01-02"))

	// A second sweep on the same day is suppressed by dedup
	notified, err = engine.SweepOverdue(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, notified)

	// The next day the reminder fires again
	notified, err = engine.SweepOverdue(context.Background(), now.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, notified)
}

func TestTruncate_KeepsValidUTF8(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 200))

	long := strings.Repeat("é", 300)
	out := truncate(long, 200)
	assert.True(t, utf8.ValidString(out), "cutting mid-rune would corrupt the message")
	assert.Equal(t, 200, utf8.RuneCountInString(out))
	assert.Equal(t, strings.Repeat("é", 199)+"…", out)

	exact := strings.Repeat("語", 200)
	assert.Equal(t, exact, truncate(exact, 200))
}
