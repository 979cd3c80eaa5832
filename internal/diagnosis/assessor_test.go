package diagnosis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAssessor(t *testing.T) *Assessor {
	t.Helper()
	a, err := NewAssessor()
	require.NoError(t, err)
	return a
}

func TestBuiltinTreesValidate(t *testing.T) {
	_, err := NewAssessor()
	require.NoError(t, err)
}

func TestInvalidTreeRejected(t *testing.T) {
	broken := map[string]*QuestionNode{
		CategoryGeneral: {
			ID:     "root",
			Prompt: "q?",
			Edges: []Edge{
				{Patterns: []string{"yes"}, Child: &QuestionNode{
					ID:    "leaf",
					Match: &PatternMatch{Condition: "x", Urgency: "green", Confidence: 0.5},
				}},
			},
			// no Default child
		},
	}
	_, err := newAssessor(broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default")
}

func TestMissingFallbackTreeRejected(t *testing.T) {
	_, err := newAssessor(map[string]*QuestionNode{"chest_pain": chestPainTree()})
	require.Error(t, err)
}

func TestCategorize(t *testing.T) {
	a := newTestAssessor(t)

	tests := []struct {
		complaint string
		want      string
	}{
		{"my chest hurts when I walk", "chest_pain"},
		{"pounding headache since morning", "headache"},
		{"I can't catch my breath", "shortness_of_breath"},
		{"stomach ache after dinner", "abdominal_pain"},
		{"running a temperature", "fever"},
		{"my knee aches", CategoryGeneral},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, a.Categorize(tt.complaint), "complaint %q", tt.complaint)
	}
}

func TestWalkReachesPatternMatch(t *testing.T) {
	a := newTestAssessor(t)

	walk, prompt := a.Start("pounding headache")
	require.Equal(t, "headache", walk.Category)
	require.NotEmpty(t, prompt)

	next, match, err := a.Step(walk, "it's a dull pressure on both sides")
	require.NoError(t, err)
	require.Nil(t, match)
	require.NotEmpty(t, next)

	_, match, err = a.Step(walk, "a lot of stress at work lately")
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "tension-type headache", match.Condition)
	assert.Equal(t, "green", match.Urgency)
	assert.True(t, walk.Done)
}

func TestWalkDeterministicReplay(t *testing.T) {
	a := newTestAssessor(t)
	answers := []string{"sudden, worst headache of my life", "my vision is blurry and my arm feels weak"}

	run := func() *PatternMatch {
		walk, _ := a.Start("terrible headache")
		var match *PatternMatch
		for _, ans := range answers {
			var err error
			_, match, err = a.Step(walk, ans)
			require.NoError(t, err)
		}
		return match
	}

	first := run()
	second := run()
	require.NotNil(t, first)
	assert.Equal(t, first, second)
}

func TestClarifyOnceThenDefaultChild(t *testing.T) {
	a := newTestAssessor(t)

	walk, _ := a.Start("headache")
	rootID := walk.NodeID

	// First unmatched answer re-asks the same node with a rephrased prompt.
	prompt, match, err := a.Step(walk, "banana")
	require.NoError(t, err)
	require.Nil(t, match)
	assert.Equal(t, rootID, walk.NodeID)
	assert.NotEmpty(t, prompt)

	// Second miss at the same node falls through to the default child
	// instead of looping a third time.
	_, match, err = a.Step(walk, "banana again")
	require.NoError(t, err)
	assert.NotEqual(t, rootID, walk.NodeID)
	if match == nil {
		assert.True(t, len(walk.Path) > 1)
	}
}

func TestRedFlagsRaiseConfidence(t *testing.T) {
	a := newTestAssessor(t)

	// Flagged path: sudden onset plus neurological signs.
	flagged, _ := a.Start("headache")
	_, _, err := a.Step(flagged, "it came on suddenly, worst ever")
	require.NoError(t, err)
	_, match, err := a.Step(flagged, "my arm is weak and my speech is slurred")
	require.NoError(t, err)
	require.NotNil(t, match)

	assert.NotEmpty(t, match.RedFlags)
	// Leaf base 0.85, two red flags and depth push it to the cap.
	assert.InDelta(t, 1.0, match.Confidence, 1e-9)
}

func TestDefaultChildIsLowConfidence(t *testing.T) {
	a := newTestAssessor(t)

	walk, _ := a.Start("something strange is wrong")
	require.Equal(t, CategoryGeneral, walk.Category)

	// Miss every edge: clarify, default to course node, miss again there,
	// clarify, then default to the low-confidence leaf.
	var match *PatternMatch
	for i := 0; i < 6 && match == nil; i++ {
		var err error
		_, match, err = a.Step(walk, "xyzzy")
		require.NoError(t, err)
	}
	require.NotNil(t, match)
	assert.Equal(t, "unspecified symptom", match.Condition)
	assert.Less(t, match.Confidence, 0.5)
}

func TestStepAfterDoneErrors(t *testing.T) {
	a := newTestAssessor(t)

	walk, _ := a.Start("fever of 104")
	_, match, err := a.Step(walk, "104 and a rash on my legs")
	require.NoError(t, err)
	require.NotNil(t, match)

	_, _, err = a.Step(walk, "hello?")
	require.Error(t, err)
}

func TestShortPatternsMatchWholeWordsOnly(t *testing.T) {
	a := newTestAssessor(t)

	walk, _ := a.Start("headache")
	_, _, err := a.Step(walk, "dull pressure both sides")
	require.NoError(t, err)

	// "know" must not match the "no" pattern; the node should clarify.
	before := walk.NodeID
	_, match, err := a.Step(walk, "I don't know")
	require.NoError(t, err)
	require.Nil(t, match)
	assert.Equal(t, before, walk.NodeID)
}
