package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"healthmate/internal/config"
	"healthmate/internal/diagnosis"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := config.DefaultConfig()
	assessor, err := diagnosis.NewAssessor()
	require.NoError(t, err)
	return NewEngine(
		NewDetector(cfg.Scoring.EmergencyPainThreshold),
		assessor,
		NewScorer(cfg.Scoring),
		cfg.Conversation,
		zap.NewNop(),
	)
}

func TestEmergencyOnFirstTurn(t *testing.T) {
	e := newTestEngine(t)
	p := NewPatientProfile("s1")

	result := e.Step(p, "I have severe chest pain radiating to my left arm")

	assert.True(t, result.IsEmergency)
	assert.False(t, result.ShouldContinue)
	assert.Contains(t, result.Prompt, "EMERGENCY")
	assert.Equal(t, StageEmergencyExit, p.Stage)
	assert.True(t, p.Emergency)
	assert.Equal(t, "cardiac chest pain", p.EmergencyLabel)
}

func TestEmergencyMidConversation(t *testing.T) {
	e := newTestEngine(t)
	p := NewPatientProfile("s1")
	p.Stage = StageAssociatedSymptoms
	p.StageIndex = 4
	p.ChiefComplaint = "stomach cramps"

	result := e.Step(p, "actually I also can't breathe very well")

	assert.True(t, result.IsEmergency)
	assert.Equal(t, StageEmergencyExit, p.Stage)
	assert.Equal(t, "severe breathing difficulty", p.EmergencyLabel)
}

func TestMildHeadacheFullSession(t *testing.T) {
	e := newTestEngine(t)
	p := NewPatientProfile("s1")

	turns := []string{
		"I'm 34 and female",
		"a mild headache",
		"about 2 hours",
		"2",
		"none",
		"none",
		"no",
		"it's a dull pressure on both sides",
		"probably stress at work",
	}

	lastIndex := p.StageIndex
	for _, turn := range turns {
		result := e.Step(p, turn)
		require.True(t, result.ShouldContinue, "turn %q ended the session early", turn)
		require.False(t, result.IsEmergency, "turn %q tripped the emergency detector", turn)
		// The stage index only ever moves forward.
		assert.GreaterOrEqual(t, p.StageIndex, lastIndex)
		lastIndex = p.StageIndex
	}

	assert.Equal(t, 34, p.Age)
	assert.Equal(t, "female", p.Gender)
	assert.Equal(t, "a mild headache", p.ChiefComplaint)
	assert.Equal(t, 2.0, p.SeverityScore)
	assert.Empty(t, p.AdditionalSymptoms)
	assert.Empty(t, p.RedFlags)
	require.NotNil(t, p.Match)
	assert.Equal(t, "tension-type headache", p.Match.Condition)
	assert.Equal(t, StageSummary, p.Stage)

	final := e.Step(p, "no")
	assert.False(t, final.ShouldContinue)
	assert.Contains(t, final.Prompt, "GREEN")
	assert.Equal(t, StageSummaryComplete, p.Stage)
	require.NotNil(t, p.Assessment)
	assert.Equal(t, TierGreen, p.Assessment.Tier)
	assert.False(t, p.Assessment.Escalated)
}

func TestRepromptThenBestEffort(t *testing.T) {
	e := newTestEngine(t)
	p := NewPatientProfile("s1")
	p.Stage = StageSeverity
	p.StageIndex = 3
	p.ChiefComplaint = "sore throat"

	// Two re-prompts are allowed; the stage and answer log stay put.
	first := e.Step(p, "it just hurts")
	assert.True(t, first.ShouldContinue)
	assert.Equal(t, StageSeverity, p.Stage)
	assert.Equal(t, 1, p.Reprompts)
	assert.Empty(t, p.Answers)

	second := e.Step(p, "hard to say really")
	assert.Equal(t, StageSeverity, p.Stage)
	assert.Equal(t, 2, p.Reprompts)
	assert.Equal(t, first.Prompt, second.Prompt)

	// Third miss exhausts the budget: the answer is accepted best-effort
	// with a mid-scale severity and the dialogue moves on.
	third := e.Step(p, "still no idea")
	assert.True(t, third.ShouldContinue)
	assert.Equal(t, StageAssociatedSymptoms, p.Stage)
	assert.Equal(t, 5.0, p.SeverityScore)
	assert.Equal(t, 0, p.Reprompts)
	require.Len(t, p.Answers, 1)
	assert.Equal(t, StageSeverity, p.Answers[0].Stage)
}

func TestRepromptCounterResetsAfterAcceptedAnswer(t *testing.T) {
	e := newTestEngine(t)
	p := NewPatientProfile("s1")

	e.Step(p, "no numbers here, sorry")
	assert.Equal(t, 1, p.Reprompts)

	e.Step(p, "I'm 52, male")
	assert.Equal(t, 0, p.Reprompts)
	assert.Equal(t, 52, p.Age)
	assert.Equal(t, "male", p.Gender)
	assert.Equal(t, StageChiefComplaint, p.Stage)
}

func TestDiagnosticBranchEntersAfterRedFlagScreen(t *testing.T) {
	e := newTestEngine(t)
	p := NewPatientProfile("s1")
	p.Stage = StageRedFlagScreen
	p.StageIndex = 6
	p.ChiefComplaint = "my chest feels odd when climbing stairs"

	result := e.Step(p, "no")

	assert.Equal(t, StageDiagnosticBranch, p.Stage)
	require.NotNil(t, p.Diagnostic)
	assert.Equal(t, "chest_pain", p.Diagnostic.Category)
	assert.NotEmpty(t, result.Prompt)
}

func TestRedFlagScreenAccumulatesTags(t *testing.T) {
	e := newTestEngine(t)
	p := NewPatientProfile("s1")
	p.Stage = StageRedFlagScreen
	p.StageIndex = 6
	p.ChiefComplaint = "bad stomach ache"

	e.Step(p, "I do feel a bit confused, and my lips look bluish")

	assert.Equal(t, []string{"confusion", "bluish lips"}, p.RedFlags)
}

func TestDiagnosticRedFlagsFoldIntoProfile(t *testing.T) {
	e := newTestEngine(t)
	p := NewPatientProfile("s1")
	p.Stage = StageRedFlagScreen
	p.StageIndex = 6
	p.ChiefComplaint = "pounding headache"

	e.Step(p, "none of those")
	e.Step(p, "it was sudden, the worst of my life")
	result := e.Step(p, "my left arm feels weak")

	require.NotNil(t, p.Match)
	assert.Equal(t, "possible intracranial event", p.Match.Condition)
	assert.Contains(t, p.RedFlags, "sudden-onset headache")
	assert.Contains(t, p.RedFlags, "focal neurological signs")
	assert.Equal(t, StageSummary, p.Stage)
	assert.True(t, result.ShouldContinue)

	final := e.Step(p, "no")
	require.NotNil(t, p.Assessment)
	assert.Equal(t, TierRed, p.Assessment.Tier)
	assert.False(t, final.ShouldContinue)
}

func TestAssessmentFrozenOnce(t *testing.T) {
	e := newTestEngine(t)
	p := NewPatientProfile("s1")
	p.Stage = StageSummary
	p.StageIndex = 8
	p.ChiefComplaint = "mild rash"
	p.SeverityScore = 1
	p.Duration = "2 hours"

	e.Step(p, "no")
	require.NotNil(t, p.Assessment)
	first := *p.Assessment

	// A stray extra call cannot recompute the frozen assessment.
	e.complete(p)
	assert.Equal(t, first, *p.Assessment)
}
