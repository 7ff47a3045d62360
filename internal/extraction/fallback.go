package extraction

import "strings"

// DefaultThreshold is the confidence below which extraction output is
// not trusted as structured data. Overridable via config.
const DefaultThreshold = 0.6

// Labels for the raw-text line in remarks, per capture modality.
const (
	TranscriptLabel = "Transcript"
	CardTextLabel   = "Card text"
)

// FallbackDecision records whether an extraction fell below the
// confidence threshold and, if so, the salvaged signal. Remarks is
// non-nil only when triggered and at least one signal existed.
type FallbackDecision struct {
	Triggered bool    `json:"triggered"`
	Remarks   *string `json:"remarks"`
}

// Compose applies the zero-data-loss policy for voice captures: at or
// above threshold nothing is written; below it, every non-absent
// signal is folded into one human-readable remarks string so nothing
// the models produced can be silently discarded.
func Compose(fields CandidateFields, rawText string, confidence, threshold float64) FallbackDecision {
	return ComposeLabeled(fields, rawText, confidence, threshold, TranscriptLabel)
}

// ComposeLabeled is Compose with the raw-text line label chosen by the
// caller ("Transcript" for voice, "Card text" for image).
func ComposeLabeled(fields CandidateFields, rawText string, confidence, threshold float64, textLabel string) FallbackDecision {
	if confidence >= threshold {
		return FallbackDecision{Triggered: false, Remarks: nil}
	}

	var lines []string
	if strings.TrimSpace(rawText) != "" {
		lines = append(lines, textLabel+": "+rawText)
	}
	for i, v := range fields.ordered() {
		if present(v) {
			lines = append(lines, fieldLabels[i]+" (low confidence): "+*v)
		}
	}

	// Triggering with no content is legal: it records that an attempt
	// was made and produced nothing salvageable.
	if len(lines) == 0 {
		return FallbackDecision{Triggered: true, Remarks: nil}
	}

	remarks := strings.Join(lines, " | ")
	return FallbackDecision{Triggered: true, Remarks: &remarks}
}
