package meeting

// ProcessTranscriptRequest represents the request to process a raw transcript
type ProcessTranscriptRequest struct {
	TeamID     string `json:"team_id" validate:"required,uuid"`
	Title      string `json:"title" validate:"required,min=1,max=500"`
	SourceFile string `json:"source_file,omitempty" validate:"omitempty,max=500"`
	Transcript string `json:"transcript" validate:"required"`
}
