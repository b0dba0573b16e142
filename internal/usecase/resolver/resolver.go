package resolver

import (
	"regexp"
	"sort"
	"strings"

	"github.com/johnquangdev/meeting-taskflow/internal/domain/entities"
)

// Confidence assigned per matching tier. Tiers are tried in order and the
// first hit wins, so confidences are non-increasing down the list.
const (
	confidenceExact       = 1.0
	confidencePartial     = 0.8
	confidenceFirstName   = 0.6
	confidenceEmailPrefix = 0.5
	fuzzyConfidenceCap    = 0.4

	// Fuzzy matches are rejected when the edit distance exceeds this share
	// of the longer string.
	fuzzyMaxDistanceRatio = 0.3

	// Minimum length for substring matching; avoids single-letter noise.
	minPartialLen = 3
)

// speakerLinePattern matches a "<Name>: " shaped prefix: a capitalized word
// sequence followed by a colon at the start of a line.
var speakerLinePattern = regexp.MustCompile(`^\s*([A-Z][A-Za-z.'\-]*(?:[ \t]+[A-Z][A-Za-z.'\-]*){0,3}):`)

// ExtractSpeakerLabels scans transcript lines for speaker prefixes and
// returns the distinct labels in first-seen order.
func ExtractSpeakerLabels(transcript string) []string {
	seen := make(map[string]struct{})
	labels := make([]string, 0)

	for _, line := range strings.Split(transcript, "\n") {
		m := speakerLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		label := strings.TrimSpace(m[1])
		if label == "" {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}

	return labels
}

// Resolve extracts speaker labels from the transcript and matches each
// against the active roster. Pure and deterministic: same transcript and
// roster always yield the same map.
func Resolve(transcript string, roster []*entities.TeamMember) map[string]entities.SpeakerMatch {
	active := entities.ActiveMembers(roster)
	matches := make(map[string]entities.SpeakerMatch)

	for _, label := range ExtractSpeakerLabels(transcript) {
		matches[label] = MatchLabel(label, active)
	}

	return matches
}

// MatchLabel runs the matching tiers for a single label against active
// members. Ties within a tier are broken by display name length, then
// lexical order.
func MatchLabel(label string, active []*entities.TeamMember) entities.SpeakerMatch {
	type tier struct {
		method     entities.MatchMethod
		confidence func(m *entities.TeamMember) float64
		matches    func(m *entities.TeamMember) bool
	}

	normLabel := normalize(label)
	labelFirst := firstToken(label)

	tiers := []tier{
		{
			method:     entities.MatchMethodExact,
			confidence: func(*entities.TeamMember) float64 { return confidenceExact },
			matches: func(m *entities.TeamMember) bool {
				return strings.EqualFold(label, m.DisplayName)
			},
		},
		{
			method:     entities.MatchMethodPartial,
			confidence: func(*entities.TeamMember) float64 { return confidencePartial },
			matches: func(m *entities.TeamMember) bool {
				l := strings.ToLower(label)
				n := strings.ToLower(m.DisplayName)
				if len(l) < minPartialLen || len(n) < minPartialLen {
					return false
				}
				return strings.Contains(n, l) || strings.Contains(l, n)
			},
		},
		{
			method:     entities.MatchMethodFirstName,
			confidence: func(*entities.TeamMember) float64 { return confidenceFirstName },
			matches: func(m *entities.TeamMember) bool {
				return labelFirst != "" && strings.EqualFold(labelFirst, firstToken(m.DisplayName))
			},
		},
		{
			method:     entities.MatchMethodEmailPrefix,
			confidence: func(*entities.TeamMember) float64 { return confidenceEmailPrefix },
			matches: func(m *entities.TeamMember) bool {
				return normLabel != "" && stripSpaces(normLabel) == stripSpaces(normalize(m.EmailLocalPart()))
			},
		},
		{
			method: entities.MatchMethodFuzzy,
			confidence: func(m *entities.TeamMember) float64 {
				return fuzzyConfidence(normLabel, normalize(m.DisplayName))
			},
			matches: func(m *entities.TeamMember) bool {
				return fuzzyConfidence(normLabel, normalize(m.DisplayName)) > 0
			},
		},
	}

	for _, t := range tiers {
		var candidates []*entities.TeamMember
		for _, m := range active {
			if t.matches(m) {
				candidates = append(candidates, m)
			}
		}
		if len(candidates) == 0 {
			continue
		}

		sort.Slice(candidates, func(i, j int) bool {
			if len(candidates[i].DisplayName) != len(candidates[j].DisplayName) {
				return len(candidates[i].DisplayName) < len(candidates[j].DisplayName)
			}
			return candidates[i].DisplayName < candidates[j].DisplayName
		})

		best := candidates[0]
		return entities.SpeakerMatch{
			RawLabel:      label,
			MatchedMember: best,
			Confidence:    t.confidence(best),
			Method:        t.method,
		}
	}

	return entities.SpeakerMatch{
		RawLabel:   label,
		Method:     entities.MatchMethodNone,
		Confidence: 0,
	}
}

// fuzzyConfidence returns a confidence in (0, fuzzyConfidenceCap) when the
// edit distance between the normalized strings is within the relative
// threshold, else 0.
func fuzzyConfidence(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}

	d := levenshtein(a, b)
	if d == 0 {
		// Identical after normalization; exact tier should have caught it,
		// but score it at the cap rather than zero.
		return fuzzyConfidenceCap
	}
	if float64(d) > fuzzyMaxDistanceRatio*float64(maxLen) {
		return 0
	}

	return fuzzyConfidenceCap * (1 - float64(d)/float64(maxLen))
}

// normalize lowercases, strips punctuation and collapses whitespace
func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '\t':
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func stripSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// levenshtein computes edit distance with a two-row buffer
func levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
