package extraction

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	pkgai "github.com/johnquangdev/meeting-taskflow/pkg/ai"

	"github.com/johnquangdev/meeting-taskflow/internal/domain/entities"
)

// Retry policy for transient completion failures
const (
	maxAttempts     = 3
	initialInterval = 500 * time.Millisecond
	maxInterval     = 4 * time.Second
)

// Client wraps the external completion call: prompt construction, retry with
// backoff, response parsing and schema validation. Stateless; safe for
// concurrent use across unrelated transcripts.
type Client struct {
	llm    pkgai.Completer
	parser *Parser
	logger *zap.Logger
}

// NewClient constructs an extraction client
func NewClient(llm pkgai.Completer, logger *zap.Logger) *Client {
	return &Client{
		llm:    llm,
		parser: NewParser(),
		logger: logger,
	}
}

// Extract runs one extraction pass over the transcript. The roster is
// embedded in the prompt as matching context so the model reports owner
// labels the resolver can work with. Cancelling ctx aborts both in-flight
// calls and backoff waits; an abandoned run produces no result.
func (c *Client) Extract(ctx context.Context, transcript string, roster []*entities.TeamMember) (*entities.ExtractionResult, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, newError(ReasonRejectedInput, fmt.Errorf("transcript is empty"))
	}
	if len(transcript) > entities.MaxTranscriptBytes {
		return nil, newError(ReasonRejectedInput, fmt.Errorf("transcript exceeds %d bytes", entities.MaxTranscriptBytes))
	}

	prompt := buildPrompt(transcript, roster)

	var raw string
	attempt := 0
	callFn := func() error {
		attempt++
		content, err := c.llm.Complete(ctx, prompt)
		if err != nil {
			if isTransient(err) {
				if c.logger != nil {
					c.logger.Warn("transient extraction failure, will retry",
						zap.Int("attempt", attempt),
						zap.Error(err),
					)
				}
				return err
			}
			return backoff.Permanent(err)
		}
		raw = content
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initialInterval
	bo.Multiplier = 2
	bo.MaxInterval = maxInterval
	bo.MaxElapsedTime = 0 // bounded by attempt count, not wall clock

	err := backoff.Retry(callFn, backoff.WithContext(backoff.WithMaxRetries(bo, maxAttempts-1), ctx))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if isTransient(err) {
			return nil, newError(ReasonTransientExhausted, err)
		}
		return nil, newError(ReasonInvalidResponse, err)
	}

	result, err := c.parser.ParseResponse(raw)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("model response failed validation", zap.Error(err))
		}
		return nil, newError(ReasonInvalidResponse, err)
	}

	return result, nil
}

// buildPrompt embeds the active roster and a strict output-format instruction
func buildPrompt(transcript string, roster []*entities.TeamMember) string {
	var sb strings.Builder

	sb.WriteString("You are a meeting assistant. Analyze the following meeting transcript ")
	sb.WriteString("and produce a concise summary plus the action items that were agreed.\n\n")

	active := entities.ActiveMembers(roster)
	if len(active) > 0 {
		sb.WriteString("Team members (use these names when attributing owners):\n")
		for _, m := range active {
			sb.WriteString(fmt.Sprintf("- %s (%s)\n", m.DisplayName, m.Email))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Respond with a JSON object with exactly these fields and nothing else:\n")
	sb.WriteString(`{"summary": string, "actionItems": [{"description": string, "owner": string|null, "deadline": "YYYY-MM-DD"|null, "priority": "high"|"medium"|"low"}]}`)
	sb.WriteString("\n\nTranscript:\n")
	sb.WriteString(transcript)

	return sb.String()
}

// isTransient reports whether a completion failure is worth retrying:
// timeouts, rate limits and 5xx responses. Auth and malformed-request
// failures are permanent.
func isTransient(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *pkgai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.IsTransient()
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "i/o timeout") ||
		strings.Contains(errStr, "no such host")
}
