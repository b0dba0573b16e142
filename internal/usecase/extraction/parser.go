package extraction

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/johnquangdev/meeting-taskflow/internal/domain/entities"
)

// deadlineLayout is the date format the model is instructed to emit
const deadlineLayout = "2006-01-02"

// Parser handles parsing and validation of completion service responses
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// wireResult mirrors the JSON contract the model must return. Owner and
// deadline arrive as loose strings and are firmed up during conversion.
type wireResult struct {
	Summary     string     `json:"summary"`
	ActionItems []wireItem `json:"actionItems"`
}

type wireItem struct {
	Description string  `json:"description"`
	Owner       *string `json:"owner"`
	Deadline    *string `json:"deadline"`
	Priority    string  `json:"priority"`
}

// ParseResponse parses the raw model output into an ExtractionResult. The
// response may be wrapped in Markdown code fences. A malformed deadline
// becomes nil rather than failing the whole result; a missing summary fails
// validation because there is nothing to fall back to.
func (p *Parser) ParseResponse(raw string) (*entities.ExtractionResult, error) {
	jsonString := extractJSON(raw)
	if jsonString == "" {
		return nil, fmt.Errorf("empty response body")
	}

	var wire wireResult
	if err := json.Unmarshal([]byte(jsonString), &wire); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if strings.TrimSpace(wire.Summary) == "" {
		return nil, fmt.Errorf("missing summary in response")
	}

	result := &entities.ExtractionResult{
		Summary:     strings.TrimSpace(wire.Summary),
		ActionItems: make([]entities.ExtractedItem, 0, len(wire.ActionItems)),
	}

	for _, item := range wire.ActionItems {
		desc := strings.TrimSpace(item.Description)
		if desc == "" {
			// The model occasionally emits placeholder rows; skip them
			// instead of failing the run.
			continue
		}

		extracted := entities.ExtractedItem{
			Description: desc,
			Priority:    normalizePriority(item.Priority),
		}
		if item.Owner != nil && strings.TrimSpace(*item.Owner) != "" {
			extracted.SuggestedOwnerLabel = strings.TrimSpace(*item.Owner)
		}
		extracted.SuggestedDeadline = parseDeadline(item.Deadline)

		result.ActionItems = append(result.ActionItems, extracted)
	}

	return result, nil
}

// parseDeadline converts a YYYY-MM-DD string to a time, or nil when absent
// or unparseable
func parseDeadline(s *string) *time.Time {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	t, err := time.Parse(deadlineLayout, strings.TrimSpace(*s))
	if err != nil {
		return nil
	}
	return &t
}

func normalizePriority(p string) string {
	p = strings.ToLower(strings.TrimSpace(p))
	if entities.IsValidPriority(p) {
		return p
	}
	return entities.ItemPriorityMedium
}

// extractJSON extracts JSON content from markdown code blocks or plain text
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}
