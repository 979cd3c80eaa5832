package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectorPhraseTriggers(t *testing.T) {
	d := NewDetector(9)

	tests := []struct {
		name  string
		text  string
		label string
	}{
		{"chest pain mid-sentence", "well, it started as severe chest pain radiating to my left arm", "cardiac chest pain"},
		{"breathing", "I can't breathe properly", "severe breathing difficulty"},
		{"stroke wording", "she has slurred speech since this morning", "stroke signs"},
		{"consciousness", "my father collapsed in the kitchen", "loss of consciousness"},
		{"bleeding", "there is heavy bleeding from the wound", "severe bleeding"},
		{"seizure", "he had a seizure an hour ago", "seizure"},
		{"trauma", "a deep cut on the thigh", "severe trauma"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := d.Check(tt.text, nil)
			require.True(t, result.Triggered)
			assert.Equal(t, tt.label, result.Label)
		})
	}
}

func TestDetectorNoTrigger(t *testing.T) {
	d := NewDetector(9)

	for _, text := range []string{
		"I have a mild headache",
		"my knee aches a bit after running",
		"feeling tired and a little feverish",
	} {
		result := d.Check(text, nil)
		assert.False(t, result.Triggered, "text %q", text)
		assert.Empty(t, result.Label)
	}
}

func TestDetectorHighestSeverityWins(t *testing.T) {
	d := NewDetector(9)

	// Both "chest pain" and "passed out" match; loss of consciousness
	// outranks cardiac chest pain.
	result := d.Check("he had chest pain and then passed out", nil)
	require.True(t, result.Triggered)
	assert.Equal(t, "loss of consciousness", result.Label)
}

func TestDetectorStructuredPainThreshold(t *testing.T) {
	d := NewDetector(9)

	p := NewPatientProfile("s1")
	p.ChiefComplaint = "terrible headache"
	p.SeverityScore = 9.5

	result := d.Check("it hurts so much", p)
	require.True(t, result.Triggered)
	assert.Equal(t, "extreme pain with head involvement", result.Label)

	// Below the threshold the same wording passes.
	p.SeverityScore = 8.9
	assert.False(t, d.Check("it hurts so much", p).Triggered)

	// Extreme pain alone, without a qualifying symptom, is not a trip-wire.
	p.SeverityScore = 10
	p.ChiefComplaint = "sore ankle"
	assert.False(t, d.Check("it hurts so much", p).Triggered)
}

func TestDetectorDeterministic(t *testing.T) {
	d := NewDetector(9)

	p := NewPatientProfile("s1")
	p.ChiefComplaint = "stomach cramps"
	p.SeverityScore = 4

	first := d.Check("sudden numbness in my arm and chest tightness", p)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, d.Check("sudden numbness in my arm and chest tightness", p))
	}
}
