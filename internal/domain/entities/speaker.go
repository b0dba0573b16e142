package entities

// MatchMethod identifies which matching tier produced a speaker match
type MatchMethod string

const (
	MatchMethodExact       MatchMethod = "exact"
	MatchMethodPartial     MatchMethod = "partial"
	MatchMethodFirstName   MatchMethod = "first-name"
	MatchMethodEmailPrefix MatchMethod = "email-prefix"
	MatchMethodFuzzy       MatchMethod = "fuzzy"
	MatchMethodNone        MatchMethod = "none"
)

// SpeakerMatch associates a raw transcript speaker label with a team member.
// Derived per processing run, never persisted standalone; the outcome is
// folded into the action items it assigns.
type SpeakerMatch struct {
	RawLabel      string      `json:"raw_label"`
	MatchedMember *TeamMember `json:"matched_member,omitempty"`
	Confidence    float64     `json:"confidence"`
	Method        MatchMethod `json:"method"`
}

// Matched reports whether the label resolved to a member
func (m SpeakerMatch) Matched() bool {
	return m.MatchedMember != nil && m.Method != MatchMethodNone
}
