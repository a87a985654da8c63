package usecase

import (
	"strings"

	"github.com/prepgrid/interview-practice/domain"
)

// minAnswerTokens is the shortest answer still worth sending to the model.
const minAnswerTokens = 5

// dontKnowAnswers match only as the whole (normalized) answer.
var dontKnowAnswers = map[string]struct{}{
	"idk":          {},
	"i don't know": {},
	"i don’t know": {},
	"i dont know":  {},
	"don't know":   {},
	"dont know":    {},
	"no idea":      {},
}

// confusedPhrases match anywhere in the answer.
var confusedPhrases = []string{
	"i don't know",
	"i don’t know",
	"i dont know",
	"can you help",
	"help me",
	"what do you mean",
	"what do i do",
	"how does this work",
	"don't understand",
	"don’t understand",
	"dont understand",
	"not sure",
	"confused",
	"i'm lost",
	"im lost",
}

// chattyOpeners match as a prefix or the whole answer: small talk and
// topic drift rather than an attempt at the question.
var chattyOpeners = []string{
	"hello",
	"hi ",
	"hey",
	"what's your name",
	"whats your name",
	"how are you",
	"good morning",
	"good afternoon",
	"good evening",
	"by the way",
	"anyway,",
	"off topic",
}

// ClassifyAnswer assigns an edge-case label to a raw candidate answer using
// deterministic heuristics. It never calls the model. Phrase checks run
// before the length check so "can you help me" reads as confused rather
// than too short.
func ClassifyAnswer(answer string) domain.EdgeCaseLabel {
	a := strings.ToLower(strings.TrimSpace(answer))
	if a == "" {
		return domain.LabelEmpty
	}

	normalized := strings.Trim(a, ".!?,")
	if _, ok := dontKnowAnswers[normalized]; ok {
		return domain.LabelConfused
	}
	for _, p := range confusedPhrases {
		if strings.Contains(a, p) {
			return domain.LabelConfused
		}
	}
	for _, p := range chattyOpeners {
		if a == strings.TrimSpace(p) || strings.HasPrefix(a, p) {
			return domain.LabelChatty
		}
	}
	if len(strings.Fields(a)) < minAnswerTokens {
		return domain.LabelTooShort
	}
	return domain.LabelNone
}

// guidance maps each edge case to the redirect shown instead of feedback.
var guidance = map[domain.EdgeCaseLabel]string{
	domain.LabelEmpty:    "Don't worry, just give it your best try. Even a short answer helps!",
	domain.LabelTooShort: "Could you add a bit more detail to your answer? You'll get better feedback that way!",
	domain.LabelConfused: "It's okay if you don't know. Take a guess or talk through your thinking!",
	domain.LabelChatty:   "Let's focus on the interview question. Practice is what helps you improve!",
}

// escalatedGuidance is the directive variant used once the same label keeps
// repeating; no generation call is made for these turns.
var escalatedGuidance = map[domain.EdgeCaseLabel]string{
	domain.LabelEmpty:    "Please type whatever comes to mind for the question above so we can keep going.",
	domain.LabelTooShort: "Please expand your answer to a few sentences so we can continue.",
	domain.LabelConfused: "Give the question a try anyway. Any answer keeps the practice going.",
	domain.LabelChatty:   "Please answer the interview question so we can continue.",
}

// guidanceNudge accompanies every redirect in place of model feedback.
const guidanceNudge = "Provide a more complete answer to get valuable feedback!"

// GuidanceFor returns the canned redirect for a label, switching to the
// directive variant when escalated.
func GuidanceFor(label domain.EdgeCaseLabel, escalated bool) string {
	if escalated {
		if msg, ok := escalatedGuidance[label]; ok {
			return msg
		}
	}
	return guidance[label]
}
