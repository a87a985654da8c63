package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/prepgrid/interview-practice/domain"
	"github.com/prepgrid/interview-practice/utils/log"
)

// minQuestionLength filters out degenerate generations; anything shorter is
// treated as "no usable question".
const minQuestionLength = 10

// generatedPrefixes are boilerplate the model sometimes prepends despite the
// prompt asking it not to.
var generatedPrefixes = []string{
	"question:",
	"q:",
	"follow-up question:",
	"follow-up:",
	"followup:",
	"here's a question:",
	"here's the question:",
}

// exitPhrases end the interview when submitted as the whole answer.
var exitPhrases = map[string]struct{}{
	"end":                 {},
	"end interview":       {},
	"stop":                {},
	"stop interview":      {},
	"quit":                {},
	"exit":                {},
	"finish":              {},
	"finish interview":    {},
	"terminate":           {},
	"terminate interview": {},
}

const closingSummary = "Interview ended at your request. Thanks for practicing, and come back any time for another round!"

// AnswerResult is what the UI renders after one submitted answer.
type AnswerResult struct {
	DisplayText string   `json:"display_text"`
	Feedback    []string `json:"feedback,omitempty"`
	IsFollowup  bool     `json:"is_followup"`
	// Guidance marks a canned redirect for an edge-case answer; the active
	// question is unchanged and no generation call was made for it.
	Guidance bool `json:"guidance,omitempty"`
	Ended    bool `json:"ended"`
}

// InterviewService orchestrates one interview turn at a time: classify the
// answer, build a prompt from session state, delegate generation, advance
// the session. It holds no per-session state itself; the caller owns the
// session and passes it into every call.
type InterviewService struct {
	llm                 domain.Generator
	broker              domain.MessageBroker
	hasher              domain.Hasher
	escalationThreshold int
}

func NewInterviewService(gen domain.Generator, broker domain.MessageBroker, hasher domain.Hasher, escalationThreshold int) *InterviewService {
	if escalationThreshold < 1 {
		escalationThreshold = 2
	}
	return &InterviewService{
		llm:                 gen,
		broker:              broker,
		hasher:              hasher,
		escalationThreshold: escalationThreshold,
	}
}

// Start creates a session for role and generates its opening question.
func (s *InterviewService) Start(ctx context.Context, role domain.Role) (*domain.Session, string, error) {
	sess, err := domain.NewSession(role)
	if err != nil {
		return nil, "", err
	}
	question, err := s.nextMainQuestion(ctx, sess)
	if err != nil {
		return nil, "", err
	}
	if err := sess.Ask(question, false); err != nil {
		return nil, "", err
	}
	log.WithCtx(ctx).Info("🎤 Interview started", zap.String("role", string(role)))
	return sess, question, nil
}

// SubmitAnswer runs one turn. Generation happens before any session
// mutation, so a failed provider call leaves the session intact for retry.
func (s *InterviewService) SubmitAnswer(ctx context.Context, sess *domain.Session, answer string) (AnswerResult, error) {
	if sess.Ended() {
		return AnswerResult{}, domain.ErrSessionEnded
	}

	if isExitCommand(answer) {
		summary, err := s.End(ctx, sess)
		if err != nil {
			return AnswerResult{}, err
		}
		return AnswerResult{DisplayText: summary, Ended: true}, nil
	}

	label := ClassifyAnswer(answer)
	if label != domain.LabelNone {
		streak := sess.NoteLabel(label)
		escalated := streak >= s.escalationThreshold
		s.publishTranscript(ctx, sess, answer, label)
		log.WithCtx(ctx).Debug("Answer redirected",
			zap.String("label", string(label)),
			zap.Int("streak", streak),
			zap.Bool("escalated", escalated))
		return AnswerResult{
			DisplayText: GuidanceFor(label, escalated),
			Feedback:    []string{guidanceNudge},
			Guidance:    true,
		}, nil
	}
	sess.NoteLabel(domain.LabelNone)

	feedback, err := s.generateFeedback(ctx, sess, answer)
	if err != nil {
		return AnswerResult{}, err
	}

	display, isFollowup, err := s.nextDisplay(ctx, sess, answer)
	if err != nil {
		return AnswerResult{}, err
	}

	followupIndex := 0
	if sess.ActiveIsFollowup() {
		followupIndex = sess.FollowupCount()
	}
	ex := domain.Exchange{
		Question:      sess.ActiveQuestion(),
		Answer:        answer,
		IsFollowup:    sess.ActiveIsFollowup(),
		FollowupIndex: followupIndex,
	}
	if err := sess.Record(ex); err != nil {
		return AnswerResult{}, err
	}
	s.publishTranscript(ctx, sess, answer, domain.LabelNone)
	if err := sess.Ask(display, isFollowup); err != nil {
		return AnswerResult{}, err
	}

	return AnswerResult{
		DisplayText: display,
		Feedback:    feedback,
		IsFollowup:  isFollowup,
	}, nil
}

// End makes the session terminal and returns its closing summary. Safe to
// call repeatedly: the summary is generated once and cached on the session.
func (s *InterviewService) End(ctx context.Context, sess *domain.Session) (string, error) {
	sess.End()
	if cached := sess.Summary(); cached != "" {
		return cached, nil
	}

	summary := closingSummary
	if len(sess.History()) > 0 {
		generated, err := s.llm.Generate(ctx, BuildPrompt(sess, PromptInput{Intent: IntentSummary}))
		if err != nil {
			var authErr *domain.AuthError
			if errors.As(err, &authErr) {
				return "", err
			}
			log.WithCtx(ctx).Warn("Summary generation failed, using canned closing", zap.Error(err))
		} else if cleaned := strings.TrimSpace(generated); cleaned != "" {
			summary = cleaned
		}
	}
	sess.SetSummary(summary)
	log.WithCtx(ctx).Info("🏁 Interview ended", zap.Int("exchanges", len(sess.History())))
	return summary, nil
}

// nextDisplay decides whether the turn ends with a follow-up probe or a new
// main question.
func (s *InterviewService) nextDisplay(ctx context.Context, sess *domain.Session, answer string) (string, bool, error) {
	if !sess.FollowupLimitReached() {
		followup, err := s.llm.Generate(ctx, BuildPrompt(sess, PromptInput{Intent: IntentFollowup, PendingAnswer: answer}))
		if err != nil {
			var authErr *domain.AuthError
			if errors.As(err, &authErr) {
				return "", false, err
			}
			// A failed probe is not fatal to the turn; move on to a
			// fresh main question instead.
			log.WithCtx(ctx).Warn("Follow-up generation failed, advancing to next question", zap.Error(err))
		} else if cleaned := cleanGenerated(followup); len(cleaned) >= minQuestionLength {
			return cleaned, true, nil
		}
	}
	question, err := s.nextMainQuestion(ctx, sess)
	if err != nil {
		return "", false, err
	}
	return question, false, nil
}

// nextMainQuestion generates a fresh main question, retrying once when the
// model repeats an earlier question verbatim.
func (s *InterviewService) nextMainQuestion(ctx context.Context, sess *domain.Session) (string, error) {
	prompt := BuildPrompt(sess, PromptInput{Intent: IntentQuestion})

	var question string
	for attempt := 0; attempt < 2; attempt++ {
		generated, err := s.llm.Generate(ctx, prompt)
		if err != nil {
			return "", err
		}
		question = cleanGenerated(generated)
		if question == "" {
			return "", &domain.APIError{Provider: "llm", Err: errors.New("empty question from provider")}
		}
		fp := s.fingerprint(question)
		if !sess.WasAsked(fp) {
			sess.MarkAsked(fp)
			return question, nil
		}
		log.WithCtx(ctx).Debug("Generated question repeats an earlier one, retrying once")
	}
	// Second attempt repeated too; accept it rather than loop.
	return question, nil
}

func (s *InterviewService) generateFeedback(ctx context.Context, sess *domain.Session, answer string) ([]string, error) {
	text, err := s.llm.Generate(ctx, BuildPrompt(sess, PromptInput{Intent: IntentFeedback, PendingAnswer: answer}))
	if err != nil {
		return nil, err
	}
	bullets := parseBullets(text)
	if len(bullets) == 0 {
		return nil, &domain.APIError{Provider: "llm", Err: errors.New("empty feedback from provider")}
	}
	return bullets, nil
}

func (s *InterviewService) publishTranscript(ctx context.Context, sess *domain.Session, answer string, label domain.EdgeCaseLabel) {
	if s.broker == nil {
		return
	}
	event := domain.TranscriptEvent{
		SessionID: sessionID(ctx),
		Role:      sess.Role(),
		Question:  sess.ActiveQuestion(),
		Answer:    answer,
		Label:     label,
		Followup:  sess.ActiveIsFollowup(),
		Timestamp: time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := s.broker.Publish(ctx, domain.TranscriptTopic, "", payload); err != nil {
		log.WithCtx(ctx).Warn("Transcript publish failed", zap.Error(err))
	}
}

func (s *InterviewService) fingerprint(question string) string {
	normalized := strings.ToLower(strings.TrimSpace(question))
	return s.hasher.Hash([]byte(normalized))
}

func sessionID(ctx context.Context) string {
	if v, ok := ctx.Value("session_id").(string); ok {
		return v
	}
	return ""
}

// isExitCommand reports whether the answer is a request to end the
// interview. Case-insensitive; trailing punctuation tolerated.
func isExitCommand(answer string) bool {
	text := strings.ToLower(strings.TrimSpace(answer))
	if _, ok := exitPhrases[text]; ok {
		return true
	}
	_, ok := exitPhrases[strings.Trim(text, ".!?,")]
	return ok
}

// cleanGenerated strips boilerplate prefixes and whitespace from a model
// reply.
func cleanGenerated(text string) string {
	out := strings.TrimSpace(text)
	lower := strings.ToLower(out)
	for _, prefix := range generatedPrefixes {
		if strings.HasPrefix(lower, prefix) {
			out = strings.TrimSpace(out[len(prefix):])
			break
		}
	}
	return strings.Trim(out, `"`)
}

// parseBullets splits a feedback reply into at most 5 bullet lines.
func parseBullets(text string) []string {
	var bullets []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, marker := range []string{"-", "•", "*", "1.", "2.", "3.", "4.", "5."} {
			if strings.HasPrefix(line, marker) {
				line = strings.TrimSpace(strings.TrimPrefix(line, marker))
				break
			}
		}
		if line != "" {
			bullets = append(bullets, line)
		}
	}
	if len(bullets) == 0 {
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			bullets = []string{trimmed}
		}
	}
	if len(bullets) > 5 {
		bullets = bullets[:5]
	}
	return bullets
}
