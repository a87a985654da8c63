package domain

// EdgeCaseLabel classifies a candidate answer that should be redirected
// instead of being sent to the model. Derived per answer by heuristics;
// only the consecutive streak is kept on the session.
type EdgeCaseLabel string

const (
	LabelNone     EdgeCaseLabel = "none"
	LabelEmpty    EdgeCaseLabel = "empty"
	LabelTooShort EdgeCaseLabel = "too_short"
	LabelConfused EdgeCaseLabel = "confused"
	LabelChatty   EdgeCaseLabel = "chatty"
)
