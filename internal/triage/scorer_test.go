package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthmate/internal/config"
	"healthmate/internal/diagnosis"
)

func newTestScorer() *Scorer {
	return NewScorer(config.DefaultConfig().Scoring)
}

func mildProfile() *PatientProfile {
	p := NewPatientProfile("s1")
	p.ChiefComplaint = "mild headache"
	p.Duration = "2 hours"
	p.SeverityScore = 2
	return p
}

func TestScoreMildProfileIsGreen(t *testing.T) {
	s := newTestScorer()

	a := s.Score(mildProfile())
	assert.Equal(t, TierGreen, a.Tier)
	assert.False(t, a.Escalated)
	assert.InDelta(t, 0.11, a.Score, 1e-9) // 0.4*0.2 + 0.15*0.2
}

func TestScoreFactorsReportedInOrder(t *testing.T) {
	s := newTestScorer()

	a := s.Score(mildProfile())
	require.Len(t, a.Factors, 5)

	names := make([]string, len(a.Factors))
	sum := 0.0
	for i, f := range a.Factors {
		names[i] = f.Name
		assert.InDelta(t, f.Weight*f.Value, f.Contribution, 1e-9)
		sum += f.Contribution
	}
	assert.Equal(t, []string{"symptom_severity", "chronic_disease", "symptom_count", "duration", "red_flags"}, names)
	assert.InDelta(t, a.Score, sum, 1e-9)
}

func TestScoreMonotonicInRedFlags(t *testing.T) {
	s := newTestScorer()

	p := mildProfile()
	p.SeverityScore = 6
	prev := s.Score(p)

	for _, flag := range []string{"confusion", "bluish lips", "uncontrolled bleeding"} {
		p.AddRedFlag(flag)
		next := s.Score(p)
		assert.GreaterOrEqual(t, next.Score, prev.Score)
		assert.GreaterOrEqual(t, rank(next.Tier), rank(prev.Tier))
		prev = next
	}
}

func TestEmergencyAlwaysForcesRed(t *testing.T) {
	s := newTestScorer()

	p := mildProfile()
	p.Emergency = true
	p.EmergencyLabel = "cardiac chest pain"

	a := s.Score(p)
	assert.Equal(t, TierRed, a.Tier)
	assert.Contains(t, a.Reasoning, "cardiac chest pain")
	// The weighted score itself stays low; only the tier is overridden.
	assert.Less(t, a.Score, s.cfg.YellowThreshold)
}

func TestLowConfidenceEscalatesOneTier(t *testing.T) {
	s := newTestScorer()

	p := mildProfile()
	p.Match = &diagnosis.PatternMatch{Condition: "unspecified symptom", Urgency: "green", Confidence: 0.3}

	a := s.Score(p)
	assert.Equal(t, TierYellow, a.Tier)
	assert.True(t, a.Escalated)
	assert.Contains(t, a.Reasoning, "confidence below floor")
}

func TestPatternUrgencyFloorsTier(t *testing.T) {
	s := newTestScorer()

	p := mildProfile()
	p.Match = &diagnosis.PatternMatch{Condition: "possible intracranial event", Urgency: "red", Confidence: 1.0}

	a := s.Score(p)
	assert.Equal(t, TierRed, a.Tier)
	assert.False(t, a.Escalated)
	// The weighted score is untouched; only the tier is floored.
	assert.InDelta(t, 0.11, a.Score, 1e-9)
}

func TestConfidentMatchNotEscalated(t *testing.T) {
	s := newTestScorer()

	p := mildProfile()
	p.Match = &diagnosis.PatternMatch{Condition: "tension-type headache", Urgency: "green", Confidence: 0.8}

	a := s.Score(p)
	assert.Equal(t, TierGreen, a.Tier)
	assert.False(t, a.Escalated)
	assert.InDelta(t, 0.8, a.Confidence, 1e-9)
}

func TestRedTierNotEscalatedFurther(t *testing.T) {
	s := newTestScorer()

	p := NewPatientProfile("s1")
	p.ChiefComplaint = "chest pain and difficulty breathing"
	p.SeverityScore = 10
	p.Duration = "3 weeks"
	p.Conditions = map[string]bool{"heart_disease": true, "diabetes": true}
	p.AdditionalSymptoms = []string{"sweating", "nausea", "dizziness", "fatigue"}
	p.Match = &diagnosis.PatternMatch{Condition: "acute coronary syndrome", Urgency: "red", Confidence: 0.2}

	a := s.Score(p)
	assert.Equal(t, TierRed, a.Tier)
	assert.False(t, a.Escalated)
}

func TestChronicConditionsStack(t *testing.T) {
	s := newTestScorer()

	p := mildProfile()
	p.Conditions = map[string]bool{"heart_disease": true, "diabetes": true}

	a := s.Score(p)
	var chronic Factor
	for _, f := range a.Factors {
		if f.Name == "chronic_disease" {
			chronic = f
		}
	}
	assert.InDelta(t, 0.40, chronic.Value, 1e-9) // 0.25 + 0.15
	assert.InDelta(t, 0.12, chronic.Contribution, 1e-9)
	assert.Contains(t, a.Reasoning, "heart disease")
}

func TestSymptomSeverityMultipliers(t *testing.T) {
	s := newTestScorer()

	high := NewPatientProfile("s1")
	high.ChiefComplaint = "chest pain"
	high.SeverityScore = 6
	assert.InDelta(t, 0.9, s.symptomSeverity(high), 1e-9)

	moderate := NewPatientProfile("s2")
	moderate.ChiefComplaint = "high fever"
	moderate.SeverityScore = 6
	assert.InDelta(t, 0.72, s.symptomSeverity(moderate), 1e-9)

	plain := NewPatientProfile("s3")
	plain.ChiefComplaint = "sore throat"
	plain.SeverityScore = 6
	assert.InDelta(t, 0.6, s.symptomSeverity(plain), 1e-9)

	// The multiplier never pushes the component past 1.
	capped := NewPatientProfile("s4")
	capped.ChiefComplaint = "seizure"
	capped.SeverityScore = 10
	assert.InDelta(t, 1.0, s.symptomSeverity(capped), 1e-9)
}

func TestSymptomCountSteps(t *testing.T) {
	p := NewPatientProfile("s1")

	assert.Equal(t, 0.0, symptomCount(p))
	p.AdditionalSymptoms = []string{"nausea"}
	assert.Equal(t, 0.1, symptomCount(p))
	p.AdditionalSymptoms = append(p.AdditionalSymptoms, "dizziness", "fatigue")
	assert.Equal(t, 0.3, symptomCount(p))
	p.AdditionalSymptoms = append(p.AdditionalSymptoms, "sweating")
	assert.InDelta(t, 0.8, symptomCount(p), 1e-9)
}

func TestDurationScore(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"about 20 minutes", 0.1},
		{"2 hours", 0.2},
		{"2 days", 0.3},
		{"5 days", 0.5},
		{"10 days", 0.7},
		{"a week now", 0.8},
		{"several months", 0.9},
		{"since the party", 0.2},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, durationScore(tt.in), 1e-9, "duration %q", tt.in)
	}
}

func TestScoreDeterministic(t *testing.T) {
	s := newTestScorer()

	p := mildProfile()
	p.Conditions = map[string]bool{"asthma": true, "hypertension": true}
	p.AdditionalSymptoms = []string{"cough", "fatigue"}
	p.AddRedFlag("confusion")

	first := s.Score(p)
	for i := 0; i < 5; i++ {
		next := s.Score(p)
		assert.Equal(t, first.Score, next.Score)
		assert.Equal(t, first.Tier, next.Tier)
		assert.Equal(t, first.Factors, next.Factors)
		assert.Equal(t, first.Reasoning, next.Reasoning)
	}
}
