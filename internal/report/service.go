// Package report assembles the clinician-facing triage report: the frozen
// assessment, supporting reference citations, and an optional AI narrative.
// Everything here runs after the decision core has finished; nothing feeds
// back into triage.
package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/signintech/gopdf"
	"go.uber.org/zap"

	"healthmate/internal/knowledge"
	"healthmate/internal/triage"
)

// Notifier dispatches finished reports to the on-call clinician channel.
type Notifier interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendDocument(ctx context.Context, chatID int64, fileData []byte, fileName string) error
}

type Service struct {
	narrative    NarrativeClient
	notifier     Notifier
	onCallChatID int64
	log          *zap.Logger
}

// NewService builds the report service. narrative and notifier are optional;
// a nil narrative produces a report without the AI summary, a nil notifier
// disables on-call dispatch.
func NewService(narrative NarrativeClient, notifier Notifier, onCallChatID int64, log *zap.Logger) *Service {
	return &Service{
		narrative:    narrative,
		notifier:     notifier,
		onCallChatID: onCallChatID,
		log:          log,
	}
}

// Generate renders the PDF report and, for emergencies and red-tier
// outcomes, pushes it to the on-call channel.
func (s *Service) Generate(ctx context.Context, p *triage.PatientProfile, citations []knowledge.Snippet) ([]byte, error) {
	narrative := ""
	if s.narrative != nil {
		text, err := s.narrative.Summarize(ctx, p)
		if err != nil {
			// The report stands on its own; the narrative is an extra.
			s.log.Warn("narrative generation failed",
				zap.String("session_id", p.SessionID),
				zap.Error(err))
		} else {
			narrative = text
		}
	}

	pdfBytes, err := s.render(p, citations, narrative)
	if err != nil {
		return nil, err
	}

	if s.shouldDispatch(p) && s.notifier != nil && s.onCallChatID != 0 {
		fileName := fmt.Sprintf("triage_%s.pdf", p.SessionID)
		if err := s.notifier.SendDocument(ctx, s.onCallChatID, pdfBytes, fileName); err != nil {
			s.log.Error("on-call dispatch failed",
				zap.String("session_id", p.SessionID),
				zap.Error(err))
		} else {
			s.log.Info("report dispatched to on-call channel",
				zap.String("session_id", p.SessionID))
		}
	}

	return pdfBytes, nil
}

func (s *Service) shouldDispatch(p *triage.PatientProfile) bool {
	if p.Emergency {
		return true
	}
	return p.Assessment != nil && p.Assessment.Tier == triage.TierRed
}

var fontPaths = []string{
	"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

func (s *Service) render(p *triage.PatientProfile, citations []knowledge.Snippet, narrative string) ([]byte, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	var fontErr error
	fontLoaded := false
	for _, path := range fontPaths {
		if err := pdf.AddTTFFont("DejaVu", path); err == nil {
			fontLoaded = true
			break
		} else {
			fontErr = err
		}
	}
	if !fontLoaded {
		return nil, fmt.Errorf("failed to load report font, ensure ttf-dejavu is installed: %w", fontErr)
	}

	write := func(size float64, text string) {
		if err := pdf.SetFont("DejaVu", "", size); err != nil {
			return
		}
		lines, _ := pdf.SplitText(text, 500)
		for _, l := range lines {
			pdf.Cell(nil, l)
			pdf.Br(size + 3)
		}
	}

	write(18, "HealthMate Triage Report")
	pdf.Br(10)

	write(11, fmt.Sprintf("Date: %s", time.Now().Format("02.01.2006 15:04")))
	write(11, fmt.Sprintf("Session: %s", p.SessionID))
	pdf.Br(10)

	write(13, "Patient")
	write(10, fmt.Sprintf("Age: %d   Gender: %s", p.Age, p.Gender))
	write(10, fmt.Sprintf("Chief complaint: %s", p.ChiefComplaint))
	write(10, fmt.Sprintf("Duration: %s   Self-reported severity: %.0f/10", p.Duration, p.SeverityScore))
	if len(p.AdditionalSymptoms) > 0 {
		write(10, "Additional symptoms: "+strings.Join(p.AdditionalSymptoms, ", "))
	}
	if conditions := activeConditions(p); len(conditions) > 0 {
		write(10, "Chronic conditions: "+strings.Join(conditions, ", "))
	}
	pdf.Br(8)

	if p.Emergency {
		write(13, "EMERGENCY")
		write(10, "Trigger: "+p.EmergencyLabel)
		pdf.Br(8)
	}

	if p.Match != nil {
		write(13, "Pattern Assessment (not a diagnosis)")
		write(10, fmt.Sprintf("%s - %s (confidence %.0f%%)", p.Match.Condition, p.Match.Summary, p.Match.Confidence*100))
		pdf.Br(8)
	}

	if len(p.RedFlags) > 0 {
		write(13, "Red Flags")
		for _, flag := range p.RedFlags {
			write(10, "- "+flag)
		}
		pdf.Br(8)
	}

	if a := p.Assessment; a != nil {
		write(13, fmt.Sprintf("Risk Assessment: %s (score %.2f)", strings.ToUpper(string(a.Tier)), a.Score))
		for _, f := range a.Factors {
			write(10, fmt.Sprintf("- %s: value %.2f x weight %.2f = %.3f", f.Name, f.Value, f.Weight, f.Contribution))
		}
		write(10, a.Reasoning)
		pdf.Br(5)
		write(13, "Recommendations")
		for _, rec := range a.Recommendations {
			write(10, "- "+rec)
		}
		pdf.Br(8)
	}

	if narrative != "" {
		write(13, "AI Narrative")
		write(10, narrative)
		pdf.Br(8)
	}

	if len(citations) > 0 {
		write(13, "Reference Material")
		for _, c := range citations {
			write(10, fmt.Sprintf("[%s] %s (relevance %.2f)", c.DocumentID, c.Title, c.Relevance))
			write(9, c.Excerpt)
			pdf.Br(4)
		}
	}

	write(8, "This report is a triage assessment, not a medical diagnosis. Always consult healthcare professionals.")

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func activeConditions(p *triage.PatientProfile) []string {
	order := []string{"heart_disease", "stroke_history", "kidney_disease", "diabetes", "hypertension", "asthma"}
	var active []string
	for _, c := range order {
		if p.Conditions[c] {
			active = append(active, strings.ReplaceAll(c, "_", " "))
		}
	}
	return active
}
