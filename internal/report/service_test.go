package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"healthmate/internal/triage"
)

func TestShouldDispatch(t *testing.T) {
	s := NewService(nil, nil, 0, zap.NewNop())

	p := triage.NewPatientProfile("s1")
	assert.False(t, s.shouldDispatch(p))

	p.Assessment = &triage.RiskAssessment{Tier: triage.TierYellow}
	assert.False(t, s.shouldDispatch(p))

	p.Assessment = &triage.RiskAssessment{Tier: triage.TierRed}
	assert.True(t, s.shouldDispatch(p))

	// The emergency flag dispatches even without a frozen assessment.
	p.Assessment = nil
	p.Emergency = true
	assert.True(t, s.shouldDispatch(p))
}

func TestActiveConditionsOrdered(t *testing.T) {
	p := triage.NewPatientProfile("s1")
	p.Conditions = map[string]bool{
		"asthma":        true,
		"heart_disease": true,
		"diabetes":      true,
	}

	assert.Equal(t, []string{"heart disease", "diabetes", "asthma"}, activeConditions(p))
}

func TestNarrativePromptCoversProfile(t *testing.T) {
	p := triage.NewPatientProfile("s1")
	p.Age = 61
	p.Gender = "male"
	p.ChiefComplaint = "pressure in the chest"
	p.Duration = "30 minutes"
	p.SeverityScore = 8
	p.AdditionalSymptoms = []string{"sweating"}
	p.AddRedFlag("radiating pain")
	p.Emergency = true
	p.EmergencyLabel = "cardiac chest pain"

	prompt := narrativePrompt(p)
	assert.Contains(t, prompt, "Age: 61")
	assert.Contains(t, prompt, "pressure in the chest")
	assert.Contains(t, prompt, "radiating pain")
	assert.Contains(t, prompt, "EMERGENCY trigger fired: cardiac chest pain")
	assert.NotContains(t, prompt, "Pattern match")
	assert.NotContains(t, prompt, "Urgency tier")
}
