package entities

// MaxTranscriptBytes is the raw size ceiling enforced before any expensive work
const MaxTranscriptBytes = 10 << 20 // 10 MB

// Transcript is the raw meeting text under processing. It is ephemeral: it
// exists only for the duration of a processing run and is never persisted as
// a row, only archived as a blob.
type Transcript struct {
	Text       string `json:"text"`
	ByteLen    int    `json:"byte_len"`
	SourceFile string `json:"source_file,omitempty"`
}

// NewTranscript wraps raw text for processing
func NewTranscript(text, sourceFile string) *Transcript {
	return &Transcript{
		Text:       text,
		ByteLen:    len(text),
		SourceFile: sourceFile,
	}
}
