package triage

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"healthmate/internal/config"
	"healthmate/internal/diagnosis"
)

const greeting = "Hello. I'm HealthMate, your first-aid triage assistant. " +
	"I'm not a replacement for a doctor, but I can help you assess how urgent your situation is. " +
	"First, could you tell me your age and gender?"

const emergencyMessage = "EMERGENCY DETECTED - please call your local emergency number immediately. " +
	"Do not wait for the rest of this assessment."

const closingMessage = "Thank you. I've completed your triage assessment."

// stageSpec is one entry of the fixed dialogue table: the stage's prompt, the
// re-prompt used when an answer doesn't fit, and the answer parser. Parsers
// return errInputShape on mismatch; in lenient mode they accept best-effort.
type stageSpec struct {
	Stage    Stage
	Prompt   string
	Reprompt string
	Parse    func(p *PatientProfile, input string, lenient bool) error
}

var agePattern = regexp.MustCompile(`\b(\d{1,3})\b`)
var numberPattern = regexp.MustCompile(`\d+(\.\d+)?`)

// stageFlow is the total order of the dialogue. The diagnostic-branch entry
// has no parser: the question-tree assessor owns that stage.
var stageFlow = []stageSpec{
	{
		Stage:    StageIntake,
		Prompt:   greeting,
		Reprompt: "I need your age to assess risk properly. Could you give me your age in years, and your gender?",
		Parse:    parseIntake,
	},
	{
		Stage:    StageChiefComplaint,
		Prompt:   "What's your main concern or symptom right now?",
		Reprompt: "Could you describe, in a few words, the main symptom that's bothering you?",
		Parse:    parseChiefComplaint,
	},
	{
		Stage:    StageOnsetDuration,
		Prompt:   "How long have you been experiencing this?",
		Reprompt: "Roughly when did it start - minutes, hours, days, or weeks ago?",
		Parse:    parseDuration,
	},
	{
		Stage:    StageSeverity,
		Prompt:   "On a scale of 1 to 10, how severe is your pain or discomfort? 1 is very mild, 10 is the worst imaginable.",
		Reprompt: "Please give me a number between 1 and 10 for how bad it feels.",
		Parse:    parseSeverity,
	},
	{
		Stage:    StageAssociatedSymptoms,
		Prompt:   "Besides your main symptom, are you experiencing anything else? For example fever, nausea, or dizziness. You can also say \"none\".",
		Reprompt: "Any other symptoms at all? If not, just say \"none\".",
		Parse:    parseAssociatedSymptoms,
	},
	{
		Stage:    StageMedicalHistory,
		Prompt:   "Do you have any chronic conditions, such as diabetes, high blood pressure, asthma, heart disease, kidney disease, or a history of stroke?",
		Reprompt: "Do any long-term conditions apply to you - diabetes, high blood pressure, asthma, heart or kidney disease, past stroke? If none, say \"none\".",
		Parse:    parseMedicalHistory,
	},
	{
		Stage:    StageRedFlagScreen,
		Prompt:   "A few quick safety checks. Right now, do you have any of these: fainting or near-fainting, confusion, trouble speaking, bluish lips, or uncontrolled bleeding?",
		Reprompt: "Just to be safe: any fainting, confusion, trouble speaking, bluish lips, or bleeding that won't stop? Yes or no.",
		Parse:    parseRedFlagScreen,
	},
	{
		Stage: StageDiagnosticBranch,
	},
	{
		Stage:    StageSummary,
		Prompt:   "Nearly done. Is there anything else you'd like to add before I assess your situation?",
		Reprompt: "Anything else worth mentioning? If not, say \"no\".",
		Parse:    parseSummary,
	},
}

// Engine drives the staged triage dialogue over a single patient profile.
// The engine itself is stateless and shared: all per-session state lives in
// the profile, so it is safe for any number of concurrent sessions as long
// as each profile sees at most one in-flight turn.
type Engine struct {
	detector *Detector
	assessor *diagnosis.Assessor
	scorer   *Scorer
	cfg      config.ConversationConfig
	log      *zap.Logger
}

// NewEngine wires the decision components into a conversation engine.
func NewEngine(detector *Detector, assessor *diagnosis.Assessor, scorer *Scorer, cfg config.ConversationConfig, log *zap.Logger) *Engine {
	return &Engine{
		detector: detector,
		assessor: assessor,
		scorer:   scorer,
		cfg:      cfg,
		log:      log,
	}
}

// Greeting returns the opening prompt for a new session.
func (e *Engine) Greeting() string { return greeting }

// Step processes one user turn against the profile. The emergency check runs
// first on every turn; everything else follows the stage table. Malformed
// input never escapes as an error - it becomes a re-prompt.
func (e *Engine) Step(p *PatientProfile, input string) TurnResult {
	defer func() { p.UpdatedAt = time.Now() }()

	if result := e.detector.Check(input, p); result.Triggered {
		p.Emergency = true
		p.EmergencyLabel = result.Label
		p.Stage = StageEmergencyExit
		e.log.Warn("emergency trigger",
			zap.String("session_id", p.SessionID),
			zap.String("label", result.Label))
		return TurnResult{Prompt: emergencyMessage, IsEmergency: true, ShouldContinue: false}
	}

	if p.Stage == StageDiagnosticBranch {
		return e.stepDiagnostic(p, input)
	}

	spec := stageFlow[p.StageIndex]
	if err := spec.Parse(p, input, false); err != nil {
		if p.Reprompts < e.cfg.RepromptLimit {
			p.Reprompts++
			e.log.Info("answer shape mismatch, re-prompting",
				zap.String("session_id", p.SessionID),
				zap.String("stage", string(p.Stage)),
				zap.Int("reprompt", p.Reprompts),
				zap.String("input_hash", inputHash(input)))
			return TurnResult{Prompt: spec.Reprompt, ShouldContinue: true}
		}
		// Re-prompt budget spent: accept a best-effort parse rather than
		// stall the session indefinitely.
		_ = spec.Parse(p, input, true)
		e.log.Info("accepting best-effort answer after re-prompt cap",
			zap.String("session_id", p.SessionID),
			zap.String("stage", string(p.Stage)),
			zap.String("input_hash", inputHash(input)))
	}

	p.Answers = append(p.Answers, StageAnswer{Stage: p.Stage, Raw: input, Accepted: time.Now()})
	p.Reprompts = 0

	if p.Stage == StageSummary {
		return e.complete(p)
	}
	return e.advance(p)
}

// advance moves the profile to the next stage in the fixed order. The stage
// index only ever increases.
func (e *Engine) advance(p *PatientProfile) TurnResult {
	p.StageIndex++
	next := stageFlow[p.StageIndex]
	p.Stage = next.Stage

	if next.Stage == StageDiagnosticBranch {
		walk, prompt := e.assessor.Start(p.ChiefComplaint)
		p.Diagnostic = walk
		return TurnResult{Prompt: prompt, ShouldContinue: true}
	}
	return TurnResult{Prompt: next.Prompt, ShouldContinue: true}
}

// stepDiagnostic delegates the turn to the question-tree assessor and moves
// on to summary once a pattern match is reached.
func (e *Engine) stepDiagnostic(p *PatientProfile, input string) TurnResult {
	p.Answers = append(p.Answers, StageAnswer{Stage: StageDiagnosticBranch, Raw: input, Accepted: time.Now()})

	prompt, match, err := e.assessor.Step(p.Diagnostic, input)
	if err != nil {
		// Corrupt walk state; recover by restarting the walk rather than
		// failing the session.
		e.log.Error("diagnostic walk error, restarting walk",
			zap.String("session_id", p.SessionID),
			zap.Error(err))
		walk, rootPrompt := e.assessor.Start(p.ChiefComplaint)
		p.Diagnostic = walk
		return TurnResult{Prompt: rootPrompt, ShouldContinue: true}
	}
	if match == nil {
		return TurnResult{Prompt: prompt, ShouldContinue: true}
	}

	p.Match = match
	for _, flag := range match.RedFlags {
		p.AddRedFlag(flag)
	}

	p.StageIndex++
	p.Stage = stageFlow[p.StageIndex].Stage // summary
	return TurnResult{Prompt: stageFlow[p.StageIndex].Prompt, ShouldContinue: true}
}

// complete freezes the risk assessment exactly once and closes the session.
func (e *Engine) complete(p *PatientProfile) TurnResult {
	p.Stage = StageSummaryComplete
	if p.Assessment == nil {
		assessment := e.scorer.Score(p)
		p.Assessment = &assessment
	}
	e.log.Info("triage complete",
		zap.String("session_id", p.SessionID),
		zap.String("tier", string(p.Assessment.Tier)),
		zap.Float64("score", p.Assessment.Score))
	return TurnResult{
		Prompt:         closingMessage + " Urgency level: " + strings.ToUpper(string(p.Assessment.Tier)) + ".",
		ShouldContinue: false,
	}
}

// inputHash gives an auditable reference to a raw input without retaining
// the free text itself.
func inputHash(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:8])
}

// --- stage parsers ---

func parseIntake(p *PatientProfile, input string, lenient bool) error {
	text := strings.ToLower(input)

	if m := agePattern.FindString(input); m != "" {
		age, _ := strconv.Atoi(m)
		if age > 0 && age < 130 {
			p.Age = age
		}
	}

	switch {
	case containsWord(text, "female") || containsWord(text, "woman") || containsWord(text, "girl") || containsWord(text, "f"):
		p.Gender = "female"
	case containsWord(text, "male") || containsWord(text, "man") || containsWord(text, "boy") || containsWord(text, "m"):
		p.Gender = "male"
	default:
		p.Gender = "not specified"
	}

	if p.Age == 0 && !lenient {
		return errInputShape
	}
	return nil
}

func parseChiefComplaint(p *PatientProfile, input string, lenient bool) error {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" || (len(trimmed) < 3 && !lenient) {
		return errInputShape
	}
	p.ChiefComplaint = trimmed
	return nil
}

var durationWords = []string{
	"minute", "hour", "day", "week", "month", "year",
	"today", "yesterday", "morning", "night", "since", "ago",
}

func parseDuration(p *PatientProfile, input string, lenient bool) error {
	text := strings.ToLower(input)
	recognized := numberPattern.MatchString(text)
	if !recognized {
		for _, w := range durationWords {
			if strings.Contains(text, w) {
				recognized = true
				break
			}
		}
	}
	if !recognized && !lenient {
		return errInputShape
	}
	p.Duration = strings.TrimSpace(input)
	return nil
}

func parseSeverity(p *PatientProfile, input string, lenient bool) error {
	m := numberPattern.FindString(input)
	if m == "" {
		if !lenient {
			return errInputShape
		}
		// No number after repeated asks: assume mid-scale rather than zero,
		// consistent with erring toward escalation.
		p.SeverityScore = 5
		return nil
	}
	score, _ := strconv.ParseFloat(m, 64)
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	p.SeverityScore = score
	return nil
}

func parseAssociatedSymptoms(p *PatientProfile, input string, lenient bool) error {
	text := strings.ToLower(strings.TrimSpace(input))
	if text == "" && !lenient {
		return errInputShape
	}
	if isNegative(text) {
		return nil
	}
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			p.AdditionalSymptoms = append(p.AdditionalSymptoms, part)
		}
	}
	return nil
}

func parseMedicalHistory(p *PatientProfile, input string, lenient bool) error {
	text := strings.ToLower(strings.TrimSpace(input))
	if text == "" && !lenient {
		return errInputShape
	}
	if isNegative(text) {
		return nil
	}
	if p.Conditions == nil {
		p.Conditions = map[string]bool{}
	}
	if strings.Contains(text, "diabet") {
		p.Conditions["diabetes"] = true
	}
	if strings.Contains(text, "high blood pressure") || strings.Contains(text, "hypertension") || containsWord(text, "bp") {
		p.Conditions["hypertension"] = true
	}
	if strings.Contains(text, "asthma") {
		p.Conditions["asthma"] = true
	}
	if strings.Contains(text, "heart") || strings.Contains(text, "cardiac") {
		p.Conditions["heart_disease"] = true
	}
	if strings.Contains(text, "stroke") || containsWord(text, "tia") {
		p.Conditions["stroke_history"] = true
	}
	if strings.Contains(text, "kidney") {
		p.Conditions["kidney_disease"] = true
	}
	return nil
}

// Ordered so accumulated red-flag tags are deterministic across replays.
var redFlagScreenTags = []struct {
	needle string
	tag    string
}{
	{"faint", "fainting or near-fainting"},
	{"dizz", "fainting or near-fainting"},
	{"confus", "confusion"},
	{"speak", "trouble speaking"},
	{"speech", "trouble speaking"},
	{"bluish", "bluish lips"},
	{"blue", "bluish lips"},
	{"bleed", "uncontrolled bleeding"},
}

func parseRedFlagScreen(p *PatientProfile, input string, lenient bool) error {
	text := strings.ToLower(strings.TrimSpace(input))
	if text == "" && !lenient {
		return errInputShape
	}
	if isNegative(text) {
		return nil
	}
	for _, entry := range redFlagScreenTags {
		if strings.Contains(text, entry.needle) {
			p.AddRedFlag(entry.tag)
		}
	}
	return nil
}

func parseSummary(p *PatientProfile, input string, lenient bool) error {
	// Free text; anything is acceptable. Extra symptoms mentioned here are
	// still folded into the profile.
	text := strings.ToLower(strings.TrimSpace(input))
	if text == "" && !lenient {
		return errInputShape
	}
	if !isNegative(text) && len(text) > 3 {
		p.AdditionalSymptoms = append(p.AdditionalSymptoms, strings.TrimSpace(input))
	}
	return nil
}

func isNegative(text string) bool {
	switch strings.TrimSuffix(strings.TrimSpace(text), ".") {
	case "no", "none", "nothing", "nope", "no.", "nothing else":
		return true
	}
	return false
}

func containsWord(text, word string) bool {
	for _, w := range strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == ',' || r == '.' || r == ';'
	}) {
		if w == word {
			return true
		}
	}
	return false
}
