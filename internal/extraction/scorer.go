package extraction

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// emailPattern accepts local@domain.tld and rejects whitespace and
// TLD-less hosts. Deliverability is not the scorer's problem; the
// bonus only rewards something shaped like an address.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	shortTextRunes   = 20
	minClipSeconds   = 2.0
	meanSegmentRunes = 10.0
	minWordsPerSec   = 1.5
	maxWordsPerSec   = 4.0
)

// Score rates one extraction attempt on [0,1]. Field presence
// dominates; a shaped email, clip duration, segment density, and
// speech rate adjust it. Deterministic, never errors: degenerate
// input clamps to 0.
//
// The raw score is normalized against what this attempt could have
// earned: one point per populated field, plus 0.5 email headroom,
// plus another 1.0 when acoustic metadata was available to judge.
func Score(fields CandidateFields, rawText string, meta *Metadata) float64 {
	score := 0.0
	populated := 0

	for _, v := range fields.ordered() {
		if present(v) {
			score++
			populated++
		}
	}

	if present(fields.Email) && emailPattern.MatchString(strings.TrimSpace(*fields.Email)) {
		score += 0.5
	}

	// Short transcripts are the dominant failure mode (mumbled or
	// interrupted speech); the harsh penalty routes them to fallback
	// rather than risking a confident wrong field.
	if utf8.RuneCountInString(rawText) < shortTextRunes {
		score--
	}

	maxScore := float64(populated) + 0.5
	if meta != nil {
		maxScore = float64(populated) + 1.5

		if meta.DurationSeconds < minClipSeconds {
			score -= 0.5
		}
		if n := len(meta.Segments); n > 0 {
			total := 0
			for _, seg := range meta.Segments {
				total += utf8.RuneCountInString(seg.Text)
			}
			if float64(total)/float64(n) > meanSegmentRunes {
				score += 0.3
			}
		}
		if meta.DurationSeconds > 0 {
			wps := float64(len(meta.Words)) / meta.DurationSeconds
			if wps >= minWordsPerSec && wps <= maxWordsPerSec {
				score += 0.2
			}
		}
	}

	return math.Max(0, math.Min(1, score/maxScore))
}
