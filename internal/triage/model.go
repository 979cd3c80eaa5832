package triage

import (
	"time"

	"healthmate/internal/diagnosis"
)

// Tier is the coarse urgency classification produced by the risk scorer.
type Tier string

const (
	TierGreen  Tier = "green"
	TierYellow Tier = "yellow"
	TierRed    Tier = "red"
)

// Stage identifies one step of the fixed triage dialogue. Transitions are a
// total order with no back-edges; the only repeat of a stage is an explicit
// re-prompt of the same stage.
type Stage string

const (
	StageIntake             Stage = "intake"
	StageChiefComplaint     Stage = "chief_complaint"
	StageOnsetDuration      Stage = "onset_duration"
	StageSeverity           Stage = "severity"
	StageAssociatedSymptoms Stage = "associated_symptoms"
	StageMedicalHistory     Stage = "medical_history"
	StageRedFlagScreen      Stage = "red_flag_screen"
	StageDiagnosticBranch   Stage = "diagnostic_branch"
	StageSummary            Stage = "summary"

	// Terminal states.
	StageEmergencyExit   Stage = "emergency_exit"
	StageSummaryComplete Stage = "summary_complete"
)

// Terminal reports whether the stage ends the session.
func (s Stage) Terminal() bool {
	return s == StageEmergencyExit || s == StageSummaryComplete
}

// StageAnswer records one accepted answer. The answer log is append-only:
// answers for a stage are immutable once stored.
type StageAnswer struct {
	Stage    Stage     `json:"stage"`
	Raw      string    `json:"raw"`
	Accepted time.Time `json:"accepted"`
}

// PatientProfile is the mutable record owned by exactly one conversation for
// the lifetime of a session. All mutation happens through serialized turns.
type PatientProfile struct {
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Stage      Stage         `json:"stage"`
	StageIndex int           `json:"stage_index"`
	Reprompts  int           `json:"reprompts"` // re-prompts used at the current stage
	Answers    []StageAnswer `json:"answers"`

	// Structured fields extracted stage by stage.
	Age                int             `json:"age,omitempty"`
	Gender             string          `json:"gender,omitempty"`
	ChiefComplaint     string          `json:"chief_complaint,omitempty"`
	Duration           string          `json:"duration,omitempty"`
	SeverityScore      float64         `json:"severity_score"` // self-reported, 0-10
	Conditions         map[string]bool `json:"conditions,omitempty"`
	AdditionalSymptoms []string        `json:"additional_symptoms,omitempty"`
	RedFlags           []string        `json:"red_flags,omitempty"`

	// Emergency flag is monotonic: once set it is never cleared.
	Emergency      bool   `json:"emergency"`
	EmergencyLabel string `json:"emergency_label,omitempty"`

	Diagnostic *diagnosis.Walk         `json:"diagnostic,omitempty"`
	Match      *diagnosis.PatternMatch `json:"match,omitempty"`

	// Frozen once at summary-complete; never recomputed.
	Assessment *RiskAssessment `json:"assessment,omitempty"`
}

// NewPatientProfile creates the profile for a fresh session at the intake
// stage.
func NewPatientProfile(sessionID string) *PatientProfile {
	now := time.Now()
	return &PatientProfile{
		SessionID:  sessionID,
		CreatedAt:  now,
		UpdatedAt:  now,
		Stage:      StageIntake,
		Conditions: map[string]bool{},
	}
}

// AddRedFlag records a red-flag tag, de-duplicated, preserving order.
func (p *PatientProfile) AddRedFlag(tag string) {
	for _, existing := range p.RedFlags {
		if existing == tag {
			return
		}
	}
	p.RedFlags = append(p.RedFlags, tag)
}

// Factor is one contributing component of a risk score, reported for
// auditability. Contribution = Weight * Value.
type Factor struct {
	Name         string  `json:"name"`
	Weight       float64 `json:"weight"`
	Value        float64 `json:"value"`
	Contribution float64 `json:"contribution"`
}

// RiskAssessment is the scored triage outcome. Immutable after creation.
type RiskAssessment struct {
	Score           float64  `json:"score"`
	Tier            Tier     `json:"tier"`
	Factors         []Factor `json:"factors"`
	Confidence      float64  `json:"confidence"`
	Escalated       bool     `json:"escalated"`
	Reasoning       string   `json:"reasoning"`
	Recommendations []string `json:"recommendations"`
	CreatedAt       time.Time `json:"created_at"`
}

// EmergencyResult is the outcome of a trip-wire check.
type EmergencyResult struct {
	Triggered bool   `json:"triggered"`
	Label     string `json:"label,omitempty"`
}

// TurnResult is returned to the API layer for every submitted turn.
type TurnResult struct {
	Prompt         string `json:"assistant_prompt"`
	IsEmergency    bool   `json:"is_emergency"`
	ShouldContinue bool   `json:"should_continue"`
}
