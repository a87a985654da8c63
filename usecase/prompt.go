package usecase

import (
	"fmt"
	"strings"

	"github.com/prepgrid/interview-practice/domain"
)

// PromptIntent selects which template BuildPrompt renders.
type PromptIntent string

const (
	IntentQuestion PromptIntent = "generate_question"
	IntentFollowup PromptIntent = "generate_followup"
	IntentFeedback PromptIntent = "generate_feedback"
	IntentSummary  PromptIntent = "generate_summary"
)

// PromptInput carries the intent plus the candidate's answer for the intents
// that reference it before the exchange is recorded.
type PromptInput struct {
	Intent PromptIntent
	// PendingAnswer is the answer just submitted, not yet in the history.
	// Used verbatim by IntentFollowup and IntentFeedback.
	PendingAnswer string
}

// historyWindow is how many trailing exchanges are rendered as context.
const historyWindow = 6

// prevQuestionWindow is how many prior main questions are listed to steer
// the model away from repeats.
const prevQuestionWindow = 3

// roleFocus steers question topics per role.
var roleFocus = map[domain.Role]string{
	domain.RoleSoftwareEngineer: "fundamental programming concepts, simple coding practices, and basic development tools",
	domain.RoleSales:            "prospecting basics, handling simple objections, and everyday customer conversations",
	domain.RoleRetailAssociate:  "customer service situations, teamwork, and day-to-day store operations",
}

// BuildPrompt renders the prompt for one generation call. Pure template
// substitution: identical session state and input always produce an
// identical string.
func BuildPrompt(s *domain.Session, in PromptInput) string {
	switch in.Intent {
	case IntentFollowup:
		return buildFollowupPrompt(s, in.PendingAnswer)
	case IntentFeedback:
		return buildFeedbackPrompt(s, in.PendingAnswer)
	case IntentSummary:
		return buildSummaryPrompt(s)
	default:
		return buildQuestionPrompt(s)
	}
}

func buildQuestionPrompt(s *domain.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an interviewer conducting a mock interview for a %s position.\n", s.Role().Display())
	b.WriteString("Generate ONE interview question that is:\n")
	b.WriteString("- EASY to MEDIUM difficulty only, suitable for freshers and entry-level candidates (0-1 years experience)\n")
	fmt.Fprintf(&b, "- Focused on %s\n", roleFocus[s.Role()])
	b.WriteString("- Simple enough to answer in 1-2 minutes with basic knowledge, no essay or deep analysis required\n")
	b.WriteString("- About basic definitions, simple examples, or fundamental understanding\n")
	b.WriteString("- Different from the questions already asked\n")

	writeHistoryContext(&b, s)

	if prev := tail(s.MainQuestions(), prevQuestionWindow); len(prev) > 0 {
		b.WriteString("\nPrevious questions asked:\n")
		for _, q := range prev {
			fmt.Fprintf(&b, "- %s\n", q)
		}
		b.WriteString("\nGenerate a NEW, different question.\n")
	}

	b.WriteString("\nRespond with ONLY the question, no additional text.")
	return b.String()
}

func buildFollowupPrompt(s *domain.Session, answer string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an interviewer conducting a mock interview for a %s position.\n\n", s.Role().Display())
	fmt.Fprintf(&b, "Current question: %s\n", s.ActiveQuestion())
	fmt.Fprintf(&b, "Candidate's answer: %s\n", answer)

	writeHistoryContext(&b, s)

	b.WriteString("\nGenerate ONE follow-up question that:\n")
	b.WriteString("- References specific phrases from the candidate's answer above\n")
	b.WriteString("- Probes deeper but keeps it SIMPLE: asks for clarification or a basic example\n")
	b.WriteString("- Is EASY to MEDIUM difficulty, appropriate for entry-level candidates\n")
	b.WriteString("- Can be answered in 30-60 seconds with basic knowledge\n")
	b.WriteString("- Does NOT require trade-offs, edge cases, or advanced scenarios\n")
	b.WriteString("\nRespond with ONLY the follow-up question, no additional text.")
	return b.String()
}

func buildFeedbackPrompt(s *domain.Session, answer string) string {
	var b strings.Builder
	b.WriteString("You are an expert interview coach providing constructive feedback.\n\n")
	fmt.Fprintf(&b, "Role: %s\n", s.Role().Display())
	fmt.Fprintf(&b, "Question: %s\n", s.ActiveQuestion())
	fmt.Fprintf(&b, "Candidate's answer: %s\n", answer)

	writeHistoryContext(&b, s)

	b.WriteString("\nProvide feedback on communication, relevant knowledge, and one area to improve.\n")
	b.WriteString("Format your response as exactly 3 bullet points. Each bullet should:\n")
	b.WriteString("- Start with a strength or an area to improve\n")
	b.WriteString("- Be specific, actionable, and encouraging\n")
	b.WriteString("\nRespond with the bullet points only, no additional text.")
	return b.String()
}

func buildSummaryPrompt(s *domain.Session) string {
	var b strings.Builder
	b.WriteString("You are an expert interview coach wrapping up a mock interview.\n\n")
	fmt.Fprintf(&b, "Role: %s\n", s.Role().Display())
	fmt.Fprintf(&b, "Questions answered: %d\n", len(s.History()))

	writeHistoryContext(&b, s)

	b.WriteString("\nWrite a short, encouraging closing summary for the candidate:\n")
	b.WriteString("- 2-3 sentences on what went well and what to practice next\n")
	b.WriteString("- Entry-level friendly tone, no scores or grades\n")
	b.WriteString("\nRespond with the summary only, no additional text.")
	return b.String()
}

// writeHistoryContext renders the trailing exchanges oldest-first so every
// intent sees the same conversational context.
func writeHistoryContext(b *strings.Builder, s *domain.Session) {
	recent := s.LastN(historyWindow)
	if len(recent) == 0 {
		return
	}
	b.WriteString("\nRecent conversation:\n")
	for _, ex := range recent {
		fmt.Fprintf(b, "Interviewer: %s\n", ex.Question)
		fmt.Fprintf(b, "Candidate: %s\n", ex.Answer)
	}
}

func tail(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[len(items)-n:]
}
