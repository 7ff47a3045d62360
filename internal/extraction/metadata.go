package extraction

// Metadata carries the acoustic evidence a verbose transcription
// returns alongside the text. It is nil for image captures and for
// speech backends that cannot produce it; the scorer degrades to
// field-presence-only scoring in that case. Callers hand the scorer a
// fully populated value or nil, never a partial one.
type Metadata struct {
	DurationSeconds float64   `json:"duration_seconds"`
	LanguageCode    string    `json:"language_code,omitempty"`
	Segments        []Segment `json:"segments,omitempty"`
	Words           []Word    `json:"words,omitempty"`
}

type Segment struct {
	Text         string  `json:"text"`
	StartSeconds float64 `json:"start_seconds"`
	EndSeconds   float64 `json:"end_seconds"`
}

type Word struct {
	Text             string  `json:"text"`
	TimestampSeconds float64 `json:"timestamp_seconds"`
}
