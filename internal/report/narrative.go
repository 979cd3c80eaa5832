package report

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"healthmate/internal/triage"
)

// NarrativeClient produces the free-text analysis section of a report.
// Purely additive: it runs after the assessment is frozen and can never
// change a triage decision.
type NarrativeClient interface {
	Summarize(ctx context.Context, p *triage.PatientProfile) (string, error)
}

const narrativeSystemPrompt = "You are an experienced medical triage specialist writing a handover note. " +
	"This is a TRIAGE ASSESSMENT, not a diagnosis. Be conservative, escalate uncertainty " +
	"to professional care, and never prescribe medications. Focus on red flags and urgency."

// OpenAINarrative generates the narrative via the OpenAI chat API.
type OpenAINarrative struct {
	client *openai.Client
	model  string
}

// NewOpenAINarrative constructs the OpenAI-backed narrative writer.
func NewOpenAINarrative(apiKey, model string) *OpenAINarrative {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAINarrative{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (c *OpenAINarrative) Summarize(ctx context.Context, p *triage.PatientProfile) (string, error) {
	if c.client == nil {
		return "", errors.New("openai client not initialized")
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: narrativeSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: narrativePrompt(p)},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func narrativePrompt(p *triage.PatientProfile) string {
	var sb strings.Builder
	sb.WriteString("Summarize this triage session for the receiving clinician in under 150 words.\n\n")
	fmt.Fprintf(&sb, "Age: %d, Gender: %s\n", p.Age, p.Gender)
	fmt.Fprintf(&sb, "Chief complaint: %s\n", p.ChiefComplaint)
	fmt.Fprintf(&sb, "Duration: %s, self-reported severity: %.0f/10\n", p.Duration, p.SeverityScore)
	if len(p.AdditionalSymptoms) > 0 {
		fmt.Fprintf(&sb, "Additional symptoms: %s\n", strings.Join(p.AdditionalSymptoms, ", "))
	}
	if len(p.RedFlags) > 0 {
		fmt.Fprintf(&sb, "Red flags: %s\n", strings.Join(p.RedFlags, ", "))
	}
	if p.Match != nil {
		fmt.Fprintf(&sb, "Pattern match: %s (confidence %.0f%%)\n", p.Match.Condition, p.Match.Confidence*100)
	}
	if p.Assessment != nil {
		fmt.Fprintf(&sb, "Urgency tier: %s (score %.2f)\n", p.Assessment.Tier, p.Assessment.Score)
	}
	if p.Emergency {
		fmt.Fprintf(&sb, "EMERGENCY trigger fired: %s\n", p.EmergencyLabel)
	}
	return sb.String()
}
