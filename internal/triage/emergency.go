package triage

import "strings"

// EmergencyRule is one static trip-wire: phrase patterns plus a severity
// rank used to pick the reported label when several rules fire. The rule
// set is process-wide, read-only, and deliberately not model-based:
// safety-critical escalation must stay deterministic and auditable.
type EmergencyRule struct {
	Label    string
	Severity int
	Phrases  []string
}

// Phrase tables follow the validated trigger lists; ranks order labels when
// multiple rules match the same utterance.
var defaultEmergencyRules = []EmergencyRule{
	{
		Label:    "loss of consciousness",
		Severity: 100,
		Phrases: []string{
			"unconscious", "fainted", "collapsed", "passed out",
			"unresponsive", "dizzy with vision loss",
		},
	},
	{
		Label:    "severe breathing difficulty",
		Severity: 90,
		Phrases: []string{
			"difficulty breathing", "shortness of breath", "gasping",
			"severe breathing", "choking", "can't breathe", "cannot breathe",
		},
	},
	{
		Label:    "stroke signs",
		Severity: 85,
		Phrases: []string{
			"facial drooping", "face drooping", "arm weakness", "speech difficulty",
			"slurred speech", "sudden numbness", "loss of balance",
		},
	},
	{
		Label:    "cardiac chest pain",
		Severity: 80,
		Phrases: []string{
			"chest pain", "chest tightness", "chest pressure",
			"radiating pain", "shoulder pain with chest",
		},
	},
	{
		Label:    "severe bleeding",
		Severity: 75,
		Phrases: []string{
			"heavy bleeding", "severe bleeding", "uncontrolled bleeding",
			"bleeding from", "gushing blood",
		},
	},
	{
		Label:    "seizure",
		Severity: 70,
		Phrases: []string{
			"seizure", "convulsion", "convulsing",
			"losing consciousness and shaking",
		},
	},
	{
		Label:    "severe trauma",
		Severity: 60,
		Phrases: []string{
			"severe burn", "deep cut", "impalement", "severe crush",
			"loss of consciousness from injury",
		},
	},
}

// Qualifying symptoms for the structured pain-threshold check: extreme
// self-reported pain alone is not a trip-wire, but combined with one of
// these it is.
var qualifyingPainSymptoms = []string{"chest", "breath", "head", "abdom", "bleed"}

// Detector evaluates the emergency trip-wires. It is pure and deterministic:
// no hidden state, same inputs always give the same result.
type Detector struct {
	rules         []EmergencyRule
	painThreshold float64
}

// NewDetector builds a detector with the static rule table.
// painThreshold is the self-reported pain score (0-10) that, together with a
// qualifying symptom, triggers escalation.
func NewDetector(painThreshold float64) *Detector {
	return &Detector{rules: defaultEmergencyRules, painThreshold: painThreshold}
}

// Check scans the raw turn text and the structured answers collected so far.
// It runs on every turn, not only at stage boundaries: a trip-wire mentioned
// mid-sentence anywhere in the dialogue halts triage. When several rules
// fire, the highest-severity label wins; ties keep table order.
func (d *Detector) Check(freeText string, p *PatientProfile) EmergencyResult {
	text := strings.ToLower(freeText)

	best := EmergencyResult{}
	bestSeverity := -1
	for _, rule := range d.rules {
		for _, phrase := range rule.Phrases {
			if strings.Contains(text, phrase) {
				if rule.Severity > bestSeverity {
					best = EmergencyResult{Triggered: true, Label: rule.Label}
					bestSeverity = rule.Severity
				}
				break
			}
		}
	}
	if best.Triggered {
		return best
	}

	// Structured threshold check: extreme reported pain plus a qualifying
	// symptom in the chief complaint or the current utterance.
	if p != nil && d.painThreshold > 0 && p.SeverityScore >= d.painThreshold {
		symptoms := strings.ToLower(p.ChiefComplaint) + " " + text
		for _, q := range qualifyingPainSymptoms {
			if strings.Contains(symptoms, q) {
				return EmergencyResult{Triggered: true, Label: "extreme pain with " + q + " involvement"}
			}
		}
	}

	return EmergencyResult{}
}
