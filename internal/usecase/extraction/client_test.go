package extraction

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-taskflow/internal/domain/entities"
	pkgai "github.com/johnquangdev/meeting-taskflow/pkg/ai"
)

type fakeCompleter struct {
	calls    int
	complete func(call int, prompt string) (string, error)
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.calls++
	return f.complete(f.calls, prompt)
}

const validResponse = `{"summary": "Team agreed on the rollout plan", "actionItems": [
	{"description": "Update the runbook", "owner": "Sarah", "deadline": "2026-09-10", "priority": "high"}
]}`

func testRoster() []*entities.TeamMember {
	m := &entities.TeamMember{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		DisplayName: "Sarah Johnson",
		Email:       "sarah@example.com",
		Role:        entities.MemberRoleMember,
		Status:      entities.MemberStatusActive,
	}
	return []*entities.TeamMember{m}
}

func TestExtract_Success(t *testing.T) {
	llm := &fakeCompleter{complete: func(int, string) (string, error) {
		return validResponse, nil
	}}
	client := NewClient(llm, zap.NewNop())

	result, err := client.Extract(context.Background(), "the team met and discussed things", testRoster())

	require.NoError(t, err)
	assert.Equal(t, 1, llm.calls)
	assert.Equal(t, "Team agreed on the rollout plan", result.Summary)
	require.Len(t, result.ActionItems, 1)
	assert.Equal(t, "Sarah", result.ActionItems[0].SuggestedOwnerLabel)
}

func TestExtract_PromptEmbedsActiveRoster(t *testing.T) {
	var captured string
	llm := &fakeCompleter{complete: func(_ int, prompt string) (string, error) {
		captured = prompt
		return validResponse, nil
	}}
	client := NewClient(llm, zap.NewNop())

	_, err := client.Extract(context.Background(), "transcript text here", testRoster())

	require.NoError(t, err)
	assert.Contains(t, captured, "Sarah Johnson (sarah@example.com)")
	assert.Contains(t, captured, "transcript text here")
	assert.Contains(t, captured, `"summary"`)
}

func TestExtract_RejectsEmptyTranscript(t *testing.T) {
	llm := &fakeCompleter{complete: func(int, string) (string, error) {
		t.Fatal("completer should not be called")
		return "", nil
	}}
	client := NewClient(llm, zap.NewNop())

	_, err := client.Extract(context.Background(), "   ", nil)

	var extErr *ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, ReasonRejectedInput, extErr.Reason)
	assert.Zero(t, llm.calls)
}

func TestExtract_TransientFailuresExhaustRetries(t *testing.T) {
	llm := &fakeCompleter{complete: func(int, string) (string, error) {
		return "", &pkgai.APIError{StatusCode: http.StatusServiceUnavailable}
	}}
	client := NewClient(llm, zap.NewNop())

	_, err := client.Extract(context.Background(), "a perfectly fine transcript", testRoster())

	var extErr *ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, ReasonTransientExhausted, extErr.Reason)
	assert.Equal(t, maxAttempts, llm.calls)
}

func TestExtract_TransientThenSuccess(t *testing.T) {
	llm := &fakeCompleter{complete: func(call int, _ string) (string, error) {
		if call == 1 {
			return "", &pkgai.APIError{StatusCode: http.StatusTooManyRequests}
		}
		return validResponse, nil
	}}
	client := NewClient(llm, zap.NewNop())

	result, err := client.Extract(context.Background(), "a perfectly fine transcript", testRoster())

	require.NoError(t, err)
	assert.Equal(t, 2, llm.calls)
	assert.NotEmpty(t, result.Summary)
}

func TestExtract_PermanentFailureDoesNotRetry(t *testing.T) {
	llm := &fakeCompleter{complete: func(int, string) (string, error) {
		return "", &pkgai.APIError{StatusCode: http.StatusUnauthorized}
	}}
	client := NewClient(llm, zap.NewNop())

	_, err := client.Extract(context.Background(), "a perfectly fine transcript", testRoster())

	var extErr *ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, ReasonInvalidResponse, extErr.Reason)
	assert.Equal(t, 1, llm.calls)
}

func TestExtract_UnparseableResponse(t *testing.T) {
	llm := &fakeCompleter{complete: func(int, string) (string, error) {
		return "I could not find any action items, sorry!", nil
	}}
	client := NewClient(llm, zap.NewNop())

	_, err := client.Extract(context.Background(), "a perfectly fine transcript", testRoster())

	var extErr *ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, ReasonInvalidResponse, extErr.Reason)
}

func TestExtract_CancelledContextAbortsRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	llm := &fakeCompleter{complete: func(int, string) (string, error) {
		cancel()
		return "", &pkgai.APIError{StatusCode: http.StatusServiceUnavailable}
	}}
	client := NewClient(llm, zap.NewNop())

	_, err := client.Extract(ctx, "a perfectly fine transcript", testRoster())

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, llm.calls)
}

func TestIsTransient(t *testing.T) {
	assert.True(t, isTransient(&pkgai.APIError{StatusCode: 429}))
	assert.True(t, isTransient(&pkgai.APIError{StatusCode: 503}))
	assert.False(t, isTransient(&pkgai.APIError{StatusCode: 401}))
	assert.True(t, isTransient(context.DeadlineExceeded))
	assert.False(t, isTransient(nil))
}

func TestBuildPrompt_SkipsInactiveMembers(t *testing.T) {
	invited := testRoster()[0]
	invited.Status = entities.MemberStatusInvited

	prompt := buildPrompt("text", []*entities.TeamMember{invited})

	assert.False(t, strings.Contains(prompt, "Sarah Johnson"))
}
