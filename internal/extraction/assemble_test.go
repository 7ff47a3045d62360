package extraction

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boothiq/leadcapture/internal/models"
)

func TestAssembleVoiceLead(t *testing.T) {
	exhibitorID := uuid.New()
	staffID := uuid.New()
	audioURL := "https://cdn.example.com/signed/clip.mp3?token=abc"

	lead := Assemble(AssembleInput{
		ExhibitorID: exhibitorID,
		BoothID:     "A-12",
		CapturedBy:  &staffID,
		Type:        models.LeadTypeVoice,
		Fields:      fullFields(),
		RawText:     "met jane smith the cto of acme, wants pricing",
		Source:      "https://cdn.example.com/captures/clip.mp3",
		RawAudioURL: &audioURL,
		Confidence:  0.92,
		Decision:    FallbackDecision{},
	})

	assert.Equal(t, exhibitorID, lead.ExhibitorID)
	assert.Equal(t, "A-12", lead.BoothID)
	assert.Equal(t, models.LeadTypeVoice, lead.Type)
	assert.Equal(t, models.LeadStatusReady, lead.Status)
	assert.Equal(t, 0.92, lead.Confidence)
	require.NotNil(t, lead.Transcript)
	assert.Equal(t, "met jane smith the cto of acme, wants pricing", *lead.Transcript)
	assert.Nil(t, lead.OCRText)
	assert.Equal(t, "https://cdn.example.com/captures/clip.mp3", lead.Source)
	require.NotNil(t, lead.RawAudioURL)
	assert.Equal(t, audioURL, *lead.RawAudioURL)
	assert.Nil(t, lead.Remarks)
	require.NotNil(t, lead.Name)
	assert.Equal(t, "Jane Smith", *lead.Name)
}

func TestAssembleImageLead(t *testing.T) {
	lead := Assemble(AssembleInput{
		ExhibitorID: uuid.New(),
		BoothID:     "B-3",
		Type:        models.LeadTypeImage,
		Fields:      CandidateFields{Name: ptrString("John"), Company: ptrString("Tech Inc")},
		RawText:     "JOHN | TECH INC | john@techinc.example",
		Source:      "https://cdn.example.com/captures/card.jpg",
		Confidence:  0.8,
		Decision:    FallbackDecision{},
	})

	require.NotNil(t, lead.OCRText)
	assert.Equal(t, "JOHN | TECH INC | john@techinc.example", *lead.OCRText)
	assert.Nil(t, lead.Transcript)
	assert.Nil(t, lead.RawAudioURL)
	assert.Equal(t, models.LeadTypeImage, lead.Type)
}

func TestAssembleKeepsFieldsBelowThreshold(t *testing.T) {
	fields := CandidateFields{Name: ptrString("Jane"), Phone: ptrString("+1555")}
	remarks := "Transcript: noisy | Name (low confidence): Jane | Phone (low confidence): +1555"

	lead := Assemble(AssembleInput{
		ExhibitorID: uuid.New(),
		BoothID:     "C-7",
		Type:        models.LeadTypeVoice,
		Fields:      fields,
		RawText:     "noisy",
		Source:      "https://cdn.example.com/captures/noisy.mp3",
		Confidence:  0.2,
		Decision:    FallbackDecision{Triggered: true, Remarks: &remarks},
	})

	// Low confidence never nulls the structured guesses; the remarks
	// copy exists so reviewers can check them against the raw signal.
	require.NotNil(t, lead.Name)
	require.NotNil(t, lead.Phone)
	require.NotNil(t, lead.Remarks)
	assert.Equal(t, remarks, *lead.Remarks)
}

func TestAssembleBlankFieldsBecomeNil(t *testing.T) {
	lead := Assemble(AssembleInput{
		ExhibitorID: uuid.New(),
		BoothID:     "D-1",
		Type:        models.LeadTypeImage,
		Fields:      CandidateFields{Name: ptrString("  John  "), Email: ptrString(""), Phone: ptrString("   ")},
		RawText:     "JOHN",
		Source:      "https://cdn.example.com/captures/card2.jpg",
		Confidence:  0.4,
		Decision:    FallbackDecision{Triggered: true},
	})

	require.NotNil(t, lead.Name)
	assert.Equal(t, "John", *lead.Name)
	assert.Nil(t, lead.Email)
	assert.Nil(t, lead.Phone)
	assert.Nil(t, lead.Company)
}

func TestAssembleManualLead(t *testing.T) {
	lead := Assemble(AssembleInput{
		ExhibitorID: uuid.New(),
		BoothID:     "E-9",
		Type:        models.LeadTypeManual,
		Fields:      CandidateFields{Name: ptrString("Ada"), Email: ptrString("ada@example.com")},
		Source:      "",
		Confidence:  1.0,
		Decision:    FallbackDecision{},
	})

	assert.Equal(t, models.LeadTypeManual, lead.Type)
	assert.Equal(t, 1.0, lead.Confidence)
	assert.Nil(t, lead.Transcript)
	assert.Nil(t, lead.OCRText)
	assert.Nil(t, lead.Remarks)
}

// Full pipeline over a clean eight second clip: every field extracted,
// healthy segment density and speech rate, so the lead ships
// structured with no remarks.
func TestVoiceCaptureHighConfidence(t *testing.T) {
	fields := fullFields()
	raw := longText(120)
	meta := &Metadata{
		DurationSeconds: 8,
		Segments: []Segment{
			{Text: longText(15), StartSeconds: 0, EndSeconds: 2},
			{Text: longText(15), StartSeconds: 2, EndSeconds: 4},
			{Text: longText(15), StartSeconds: 4, EndSeconds: 6},
			{Text: longText(15), StartSeconds: 6, EndSeconds: 8},
		},
		Words: make([]Word, 20),
	}

	conf := Score(fields, raw, meta)
	assert.InDelta(t, 6.0/6.5, conf, 1e-9)
	assert.GreaterOrEqual(t, conf, DefaultThreshold)

	decision := Compose(fields, raw, conf, DefaultThreshold)
	assert.False(t, decision.Triggered)
	assert.Nil(t, decision.Remarks)

	lead := Assemble(AssembleInput{
		ExhibitorID: uuid.New(),
		BoothID:     "A-1",
		Type:        models.LeadTypeVoice,
		Fields:      fields,
		RawText:     raw,
		Source:      "https://cdn.example.com/captures/a1.mp3",
		Confidence:  conf,
		Decision:    decision,
	})
	assert.Nil(t, lead.Remarks)
	require.NotNil(t, lead.Email)
	assert.Equal(t, "jane@x.com", *lead.Email)
}

// A mumbled second and a half of audio with nothing extracted: the
// score clamps to zero and the transcript alone survives in remarks.
func TestVoiceCaptureGarbledClip(t *testing.T) {
	raw := "hi my name is uh"
	meta := &Metadata{DurationSeconds: 1.5}

	conf := Score(CandidateFields{}, raw, meta)
	assert.LessOrEqual(t, conf, 0.1)

	decision := Compose(CandidateFields{}, raw, conf, DefaultThreshold)
	assert.True(t, decision.Triggered)
	require.NotNil(t, decision.Remarks)
	assert.Equal(t, "Transcript: hi my name is uh", *decision.Remarks)

	lead := Assemble(AssembleInput{
		ExhibitorID: uuid.New(),
		BoothID:     "A-2",
		Type:        models.LeadTypeVoice,
		RawText:     raw,
		Source:      "https://cdn.example.com/captures/a2.mp3",
		Confidence:  conf,
		Decision:    decision,
	})
	assert.Nil(t, lead.Name)
	require.NotNil(t, lead.Transcript)
	require.NotNil(t, lead.Remarks)
}

// Card with two readable fields and no acoustic metadata: two points
// against a 2.5 ceiling clears the threshold without fallback.
func TestCardCaptureWithoutMetadata(t *testing.T) {
	fields := CandidateFields{Name: ptrString("John"), Company: ptrString("Tech Inc")}
	ocr := longText(40)

	conf := Score(fields, ocr, nil)
	assert.InDelta(t, 0.8, conf, 1e-9)

	decision := ComposeLabeled(fields, ocr, conf, DefaultThreshold, CardTextLabel)
	assert.False(t, decision.Triggered)
	assert.Nil(t, decision.Remarks)
}
