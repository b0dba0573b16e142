package extraction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-taskflow/internal/domain/entities"
)

func TestParseResponse_PlainJSON(t *testing.T) {
	raw := `{"summary": "Discussed Q3 roadmap", "actionItems": [
		{"description": "Draft the proposal", "owner": "Sarah", "deadline": "2026-09-15", "priority": "high"}
	]}`

	result, err := NewParser().ParseResponse(raw)

	require.NoError(t, err)
	assert.Equal(t, "Discussed Q3 roadmap", result.Summary)
	require.Len(t, result.ActionItems, 1)

	item := result.ActionItems[0]
	assert.Equal(t, "Draft the proposal", item.Description)
	assert.Equal(t, "Sarah", item.SuggestedOwnerLabel)
	assert.Equal(t, entities.ItemPriorityHigh, item.Priority)
	require.NotNil(t, item.SuggestedDeadline)
	assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), *item.SuggestedDeadline)
}

func TestParseResponse_MarkdownFencedJSON(t *testing.T) {
	for _, raw := range []string{
		"```json\n{\"summary\": \"fenced\", \"actionItems\": []}\n```",
		"```\n{\"summary\": \"fenced\", \"actionItems\": []}\n```",
	} {
		result, err := NewParser().ParseResponse(raw)
		require.NoError(t, err)
		assert.Equal(t, "fenced", result.Summary)
		assert.Empty(t, result.ActionItems)
	}
}

func TestParseResponse_MissingSummaryFails(t *testing.T) {
	_, err := NewParser().ParseResponse(`{"summary": "  ", "actionItems": []}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing summary")
}

func TestParseResponse_MalformedJSONFails(t *testing.T) {
	_, err := NewParser().ParseResponse(`{"summary": "broken`)
	require.Error(t, err)
}

func TestParseResponse_EmptyBodyFails(t *testing.T) {
	_, err := NewParser().ParseResponse("   ")
	require.Error(t, err)
}

func TestParseResponse_BadDeadlineBecomesNil(t *testing.T) {
	raw := `{"summary": "ok", "actionItems": [
		{"description": "Ship it", "owner": null, "deadline": "next Tuesday", "priority": "low"}
	]}`

	result, err := NewParser().ParseResponse(raw)

	require.NoError(t, err)
	require.Len(t, result.ActionItems, 1)
	assert.Nil(t, result.ActionItems[0].SuggestedDeadline)
	assert.Empty(t, result.ActionItems[0].SuggestedOwnerLabel)
	assert.Equal(t, entities.ItemPriorityLow, result.ActionItems[0].Priority)
}

func TestParseResponse_UnknownPriorityDefaultsToMedium(t *testing.T) {
	raw := `{"summary": "ok", "actionItems": [
		{"description": "Review docs", "priority": "URGENT!!"}
	]}`

	result, err := NewParser().ParseResponse(raw)

	require.NoError(t, err)
	require.Len(t, result.ActionItems, 1)
	assert.Equal(t, entities.ItemPriorityMedium, result.ActionItems[0].Priority)
}

func TestParseResponse_SkipsEmptyDescriptions(t *testing.T) {
	raw := `{"summary": "ok", "actionItems": [
		{"description": "   "},
		{"description": "Real work"}
	]}`

	result, err := NewParser().ParseResponse(raw)

	require.NoError(t, err)
	require.Len(t, result.ActionItems, 1)
	assert.Equal(t, "Real work", result.ActionItems[0].Description)
}
