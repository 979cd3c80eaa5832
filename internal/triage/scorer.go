package triage

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"healthmate/internal/config"
)

// Symptom classes that scale the self-reported severity. Matching is on the
// chief complaint plus additional symptoms, phrases with underscores removed.
var highUrgencySymptoms = []string{
	"chest pain", "difficulty breathing", "unconscious", "seizure",
	"heavy bleeding", "stroke", "severe trauma", "poisoning",
	"anaphylaxis", "severe allergic reaction", "choking",
}

var moderateUrgencySymptoms = []string{
	"high fever", "severe vomiting", "severe diarrhea", "severe dehydration",
	"severe abdominal pain", "severe head pain", "severe injury",
	"severe headache",
}

// Additive risk contribution per chronic condition. Conditions stack; the
// component is capped at 1.
var chronicConditionRisk = map[string]float64{
	"heart_disease":  0.25,
	"stroke_history": 0.20,
	"kidney_disease": 0.18,
	"diabetes":       0.15,
	"hypertension":   0.12,
	"asthma":         0.10,
}

// Ordered for deterministic factor reporting.
var chronicConditionOrder = []string{
	"heart_disease", "stroke_history", "kidney_disease",
	"diabetes", "hypertension", "asthma",
}

var daysPattern = regexp.MustCompile(`(\d+)`)

// Scorer maps a patient profile to a risk assessment using the statically
// configured weight tables. It is pure: same profile, same assessment.
type Scorer struct {
	cfg config.ScoringConfig
}

// NewScorer builds a scorer over the configured weights and thresholds.
func NewScorer(cfg config.ScoringConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score computes the weighted risk score, clamps it to [0,1], and maps it to
// a tier. Two overrides apply, in order: the emergency flag always forces
// red, and a pattern-match confidence below the configured floor raises the
// tier one level (escalate on uncertainty). The contributing factors are
// always reported; the output is never a bare number.
func (s *Scorer) Score(p *PatientProfile) RiskAssessment {
	severity := s.symptomSeverity(p)
	chronic := s.chronicDisease(p)
	count := symptomCount(p)
	duration := durationScore(p.Duration)
	redFlags := float64(len(p.RedFlags))

	factors := []Factor{
		{Name: "symptom_severity", Weight: s.cfg.SymptomSeverityWeight, Value: severity},
		{Name: "chronic_disease", Weight: s.cfg.ChronicDiseaseWeight, Value: chronic},
		{Name: "symptom_count", Weight: s.cfg.SymptomCountWeight, Value: count},
		{Name: "duration", Weight: s.cfg.DurationWeight, Value: duration},
		{Name: "red_flags", Weight: s.cfg.RedFlagWeight, Value: redFlags},
	}

	score := 0.0
	for i := range factors {
		factors[i].Contribution = factors[i].Weight * factors[i].Value
		score += factors[i].Contribution
	}
	score = clamp01(score)

	tier := TierGreen
	switch {
	case score >= s.cfg.RedThreshold:
		tier = TierRed
	case score >= s.cfg.YellowThreshold:
		tier = TierYellow
	}

	confidence := 1.0
	if p.Match != nil {
		confidence = p.Match.Confidence
		// The matched pattern's urgency is a floor on the tier: a walk that
		// ends on a red pattern never reports below red, whatever the
		// weighted score says.
		if rank(Tier(p.Match.Urgency)) > rank(tier) {
			tier = Tier(p.Match.Urgency)
		}
	}

	escalated := false
	if confidence < s.cfg.ConfidenceFloor && tier != TierRed {
		tier = raiseTier(tier)
		escalated = true
	}

	// The emergency flag dominates the weighted formula unconditionally.
	if p.Emergency {
		tier = TierRed
	}

	return RiskAssessment{
		Score:           score,
		Tier:            tier,
		Factors:         factors,
		Confidence:      confidence,
		Escalated:       escalated,
		Reasoning:       s.reasoning(p, factors, escalated),
		Recommendations: recommendations(tier),
		CreatedAt:       time.Now(),
	}
}

func raiseTier(t Tier) Tier {
	switch t {
	case TierGreen:
		return TierYellow
	default:
		return TierRed
	}
}

func rank(t Tier) int {
	switch t {
	case TierRed:
		return 2
	case TierYellow:
		return 1
	default:
		return 0
	}
}

// symptomSeverity scales the self-reported 0-10 score by the symptom class:
// 1.5x for high-urgency symptom wording, 1.2x for moderate.
func (s *Scorer) symptomSeverity(p *PatientProfile) float64 {
	base := clamp01(p.SeverityScore / 10.0)

	text := strings.ToLower(p.ChiefComplaint + " " + strings.Join(p.AdditionalSymptoms, " "))
	multiplier := 1.0
	for _, symptom := range highUrgencySymptoms {
		if strings.Contains(text, symptom) {
			multiplier = 1.5
			break
		}
	}
	if multiplier == 1.0 {
		for _, symptom := range moderateUrgencySymptoms {
			if strings.Contains(text, symptom) {
				multiplier = 1.2
				break
			}
		}
	}
	return clamp01(base * multiplier)
}

func (s *Scorer) chronicDisease(p *PatientProfile) float64 {
	total := 0.0
	for _, condition := range chronicConditionOrder {
		if p.Conditions[condition] {
			total += chronicConditionRisk[condition]
		}
	}
	return clamp01(total)
}

// symptomCount is a step function: extra symptoms raise risk non-linearly.
func symptomCount(p *PatientProfile) float64 {
	n := len(p.AdditionalSymptoms)
	switch {
	case n == 0:
		return 0
	case n == 1:
		return 0.1
	case n <= 3:
		return 0.3
	default:
		return clamp01(0.7 + float64(n-3)*0.1)
	}
}

// durationScore maps the free-text duration answer to risk: longer-standing
// symptoms carry more weight, unknown wording is treated as recent.
func durationScore(duration string) float64 {
	text := strings.ToLower(duration)
	switch {
	case strings.Contains(text, "minute"):
		return 0.1
	case strings.Contains(text, "hour"):
		return 0.2
	case strings.Contains(text, "day"):
		if m := daysPattern.FindString(text); m != "" {
			days, _ := strconv.Atoi(m)
			switch {
			case days <= 3:
				return 0.3
			case days <= 7:
				return 0.5
			default:
				return 0.7
			}
		}
		return 0.4
	case strings.Contains(text, "week"):
		return 0.8
	case strings.Contains(text, "month"):
		return 0.9
	default:
		return 0.2
	}
}

func (s *Scorer) reasoning(p *PatientProfile, factors []Factor, escalated bool) string {
	byName := map[string]Factor{}
	for _, f := range factors {
		byName[f.Name] = f
	}

	var reasons []string
	if v := byName["symptom_severity"].Value; v >= 0.7 {
		reasons = append(reasons, fmt.Sprintf("high symptom severity (%.2f)", v))
	} else if v >= 0.4 {
		reasons = append(reasons, fmt.Sprintf("moderate symptom severity (%.2f)", v))
	}
	if byName["chronic_disease"].Value > 0 {
		var active []string
		for _, condition := range chronicConditionOrder {
			if p.Conditions[condition] {
				active = append(active, strings.ReplaceAll(condition, "_", " "))
			}
		}
		reasons = append(reasons, "chronic conditions increase risk: "+strings.Join(active, ", "))
	}
	if byName["symptom_count"].Value >= 0.3 {
		reasons = append(reasons, fmt.Sprintf("%d additional symptoms present", len(p.AdditionalSymptoms)))
	}
	if byName["duration"].Value >= 0.5 {
		reasons = append(reasons, "extended symptom duration increases concern")
	}
	if len(p.RedFlags) > 0 {
		reasons = append(reasons, fmt.Sprintf("%d red flag(s) identified", len(p.RedFlags)))
	}
	if escalated {
		reasons = append(reasons, "assessment confidence below floor; urgency raised one level")
	}
	if p.Emergency {
		reasons = append(reasons, "emergency trigger: "+p.EmergencyLabel)
	}

	if len(reasons) == 0 {
		return "Risk assessment: mild symptoms with recent onset"
	}
	return "Risk assessment: " + strings.Join(reasons, "; ")
}

func recommendations(tier Tier) []string {
	switch tier {
	case TierRed:
		return []string{
			"EMERGENCY - call emergency services immediately",
			"Do not drive yourself - call an ambulance",
			"Have your medication list and medical history ready",
			"If possible, have someone stay with you",
		}
	case TierYellow:
		return []string{
			"Moderate urgency - see a doctor or urgent care clinic within 24 hours",
			"Monitor your condition closely for any worsening",
			"Keep hydrated and rest",
			"Avoid driving if dizzy or impaired",
		}
	default:
		return []string{
			"Mild - home care may be sufficient",
			"Rest, hydration, and over-the-counter care if needed",
			"Monitor symptoms and seek care if they worsen",
			"Contact your doctor if symptoms persist beyond 48 hours",
		}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
