package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeAtOrAboveThreshold(t *testing.T) {
	fields := CandidateFields{Name: ptrString("Jane")}

	for _, conf := range []float64{0.6, 0.75, 1.0} {
		got := Compose(fields, "some transcript text", conf, DefaultThreshold)
		assert.False(t, got.Triggered)
		assert.Nil(t, got.Remarks)
	}
}

func TestComposeBelowThresholdPreservesEverything(t *testing.T) {
	fields := CandidateFields{
		Name:    ptrString("Jane Smith"),
		Email:   ptrString("jane@x.com"),
		Company: ptrString("Acme"),
	}
	raw := "spoke with jane from acme about pricing"

	got := Compose(fields, raw, 0.3, DefaultThreshold)

	assert.True(t, got.Triggered)
	require.NotNil(t, got.Remarks)
	assert.Equal(t,
		"Transcript: spoke with jane from acme about pricing"+
			" | Name (low confidence): Jane Smith"+
			" | Email (low confidence): jane@x.com"+
			" | Company (low confidence): Acme",
		*got.Remarks)
}

func TestComposeEveryPopulatedFieldSurvives(t *testing.T) {
	fields := fullFields()
	raw := "full booth conversation transcript"

	got := Compose(fields, raw, 0.1, DefaultThreshold)

	require.NotNil(t, got.Remarks)
	assert.Contains(t, *got.Remarks, raw)
	for _, want := range []string{"Jane Smith", "jane@x.com", "+1234567890", "Acme", "CTO"} {
		assert.Contains(t, *got.Remarks, want)
	}
}

func TestComposeRawTextOnly(t *testing.T) {
	got := Compose(CandidateFields{}, "hi my name is uh", 0.0, DefaultThreshold)

	assert.True(t, got.Triggered)
	require.NotNil(t, got.Remarks)
	assert.Equal(t, "Transcript: hi my name is uh", *got.Remarks)
}

func TestComposeFieldsOnly(t *testing.T) {
	fields := CandidateFields{Phone: ptrString("+1555"), Interest: ptrString("API access")}

	got := Compose(fields, "", 0.2, DefaultThreshold)

	require.NotNil(t, got.Remarks)
	assert.Equal(t, "Phone (low confidence): +1555 | Interest (low confidence): API access", *got.Remarks)
}

func TestComposeNoSignalTriggersWithoutRemarks(t *testing.T) {
	tests := []struct {
		name    string
		fields  CandidateFields
		rawText string
	}{
		{"everything absent", CandidateFields{}, ""},
		{"whitespace raw text", CandidateFields{}, "   \n\t"},
		{"blank fields", CandidateFields{Name: ptrString("  ")}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compose(tt.fields, tt.rawText, 0.0, DefaultThreshold)
			assert.True(t, got.Triggered)
			assert.Nil(t, got.Remarks)
		})
	}
}

func TestComposeThresholdIsInjectable(t *testing.T) {
	fields := CandidateFields{Name: ptrString("Jane")}

	strict := Compose(fields, "plenty of transcript text", 0.7, 0.8)
	assert.True(t, strict.Triggered)

	lenient := Compose(fields, "plenty of transcript text", 0.35, 0.3)
	assert.False(t, lenient.Triggered)
}

func TestComposeLabeledUsesCardLabel(t *testing.T) {
	got := ComposeLabeled(CandidateFields{}, "ACME CORP JOHN DOE", 0.2, DefaultThreshold, CardTextLabel)

	require.NotNil(t, got.Remarks)
	assert.Equal(t, "Card text: ACME CORP JOHN DOE", *got.Remarks)
}
