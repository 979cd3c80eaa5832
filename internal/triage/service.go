package triage

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthmate/internal/knowledge"
)

// Store keeps live session profiles between turns. The transport layer
// guarantees at most one in-flight turn per session id, so implementations
// need no per-session locking beyond their own map safety.
type Store interface {
	Create(ctx context.Context, p *PatientProfile) error
	// Get returns nil when the session is unknown (not an error).
	Get(ctx context.Context, id string) (*PatientProfile, error)
	Update(ctx context.Context, p *PatientProfile) error
	Delete(ctx context.Context, id string) error
}

// Archive persists completed sessions for clinician follow-up. Optional:
// a nil archive disables persistence without affecting triage.
type Archive interface {
	Save(ctx context.Context, p *PatientProfile) error
}

// ReportService assembles the clinician-facing report once an assessment is
// frozen. Defined here to decouple from the concrete report implementation.
type ReportService interface {
	Generate(ctx context.Context, p *PatientProfile, citations []knowledge.Snippet) ([]byte, error)
}

// Service is the surface the API layer consumes.
type Service interface {
	StartSession(ctx context.Context) (sessionID string, initialPrompt string, err error)
	SubmitTurn(ctx context.Context, sessionID, userText string) (TurnResult, error)
	GetAssessment(ctx context.Context, sessionID string) (*RiskAssessment, error)
	GetReport(ctx context.Context, sessionID string) ([]byte, error)
}

type service struct {
	store     Store
	archive   Archive
	engine    *Engine
	retriever knowledge.Retriever
	reportSvc ReportService
	topK      int
	log       *zap.Logger
}

// NewService wires the triage decision core to its collaborators. archive and
// reportSvc may be nil; retriever may not.
func NewService(store Store, archive Archive, engine *Engine, retriever knowledge.Retriever, reportSvc ReportService, topK int, log *zap.Logger) Service {
	return &service{
		store:     store,
		archive:   archive,
		engine:    engine,
		retriever: retriever,
		reportSvc: reportSvc,
		topK:      topK,
		log:       log,
	}
}

func (s *service) StartSession(ctx context.Context) (string, string, error) {
	id := uuid.New().String()
	profile := NewPatientProfile(id)
	if err := s.store.Create(ctx, profile); err != nil {
		return "", "", fmt.Errorf("creating session: %w", err)
	}
	s.log.Info("session started", zap.String("session_id", id))
	return id, s.engine.Greeting(), nil
}

func (s *service) SubmitTurn(ctx context.Context, sessionID, userText string) (TurnResult, error) {
	profile, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return TurnResult{}, fmt.Errorf("loading session: %w", err)
	}
	if profile == nil {
		return TurnResult{}, ErrSessionNotFound
	}
	if profile.Stage.Terminal() {
		return TurnResult{}, ErrSessionClosed
	}

	result := s.engine.Step(profile, userText)

	if err := s.store.Update(ctx, profile); err != nil {
		return TurnResult{}, fmt.Errorf("saving session: %w", err)
	}

	// Archive completed sessions off the request path, the same way the
	// session itself keeps serving from the live store.
	if profile.Stage.Terminal() && s.archive != nil {
		go func(p PatientProfile) {
			if err := s.archive.Save(context.Background(), &p); err != nil {
				s.log.Error("archiving session failed",
					zap.String("session_id", p.SessionID),
					zap.Error(err))
			}
		}(*profile)
	}

	return result, nil
}

func (s *service) GetAssessment(ctx context.Context, sessionID string) (*RiskAssessment, error) {
	profile, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if profile == nil {
		return nil, ErrSessionNotFound
	}
	if profile.Assessment == nil {
		return nil, ErrNotReady
	}
	return profile.Assessment, nil
}

// GetReport assembles the clinician report for a completed session:
// frozen assessment plus supporting reference snippets. Retrieval happens
// only here, after the decision core has finished; it never feeds back into
// scores.
func (s *service) GetReport(ctx context.Context, sessionID string) ([]byte, error) {
	profile, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if profile == nil {
		return nil, ErrSessionNotFound
	}
	if profile.Assessment == nil && !profile.Emergency {
		return nil, ErrNotReady
	}
	if s.reportSvc == nil {
		return nil, fmt.Errorf("report generation not configured")
	}

	citations := s.retriever.Retrieve(reportKeywords(profile), s.topK)
	return s.reportSvc.Generate(ctx, profile, citations)
}

// reportKeywords derives the retrieval query from the frozen outcome: the
// chief complaint terms, the matched condition, and collected red flags.
func reportKeywords(p *PatientProfile) []string {
	var keywords []string
	for _, w := range strings.Fields(strings.ToLower(p.ChiefComplaint)) {
		if len(w) > 3 {
			keywords = append(keywords, w)
		}
	}
	if p.Match != nil {
		keywords = append(keywords, strings.Fields(strings.ToLower(p.Match.Condition))...)
	}
	if p.Emergency {
		keywords = append(keywords, strings.Fields(strings.ToLower(p.EmergencyLabel))...)
	}
	keywords = append(keywords, p.RedFlags...)
	return keywords
}
