package pipeline

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/johnquangdev/meeting-taskflow/internal/domain/entities"
)

const minTranscriptWords = 20

// ValidateTranscript rejects empty, oversized or malformed input before any
// expensive work begins. Failures here are input errors, surfaced to the
// caller verbatim.
func ValidateTranscript(t *entities.Transcript) error {
	if t == nil || strings.TrimSpace(t.Text) == "" {
		return fmt.Errorf("transcript is empty")
	}
	if t.ByteLen > entities.MaxTranscriptBytes {
		return fmt.Errorf("transcript too large: %d bytes (maximum: %d)", t.ByteLen, entities.MaxTranscriptBytes)
	}

	words := strings.Fields(t.Text)
	if len(words) < minTranscriptWords {
		return fmt.Errorf("transcript too short: %d words (minimum: %d)", len(words), minTranscriptWords)
	}

	if !containsLetters(t.Text) {
		return fmt.Errorf("transcript contains no readable text")
	}

	return nil
}

func containsLetters(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
