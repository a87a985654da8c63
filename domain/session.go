package domain

import "strings"

// Role identifies the position the candidate is practicing for. Fixed set,
// immutable once an interview starts.
type Role string

const (
	RoleSoftwareEngineer Role = "software_engineer"
	RoleSales            Role = "sales"
	RoleRetailAssociate  Role = "retail_associate"
)

// Roles lists every supported role, in UI order.
func Roles() []Role {
	return []Role{RoleSoftwareEngineer, RoleSales, RoleRetailAssociate}
}

// ParseRole validates a raw role identifier.
func ParseRole(s string) (Role, error) {
	switch Role(strings.TrimSpace(strings.ToLower(s))) {
	case RoleSoftwareEngineer:
		return RoleSoftwareEngineer, nil
	case RoleSales:
		return RoleSales, nil
	case RoleRetailAssociate:
		return RoleRetailAssociate, nil
	}
	return "", ErrInvalidRole
}

// Display converts the identifier to its human-readable form,
// "software_engineer" -> "Software Engineer".
func (r Role) Display() string {
	words := strings.Split(string(r), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// MaxFollowups caps how many follow-up probes a single main question gets
// before the interview moves on.
const MaxFollowups = 2

// Exchange is one completed question/answer pair. Append-only, ordered by
// occurrence.
type Exchange struct {
	Question      string `json:"question"`
	Answer        string `json:"answer"`
	IsFollowup    bool   `json:"is_followup"`
	FollowupIndex int    `json:"followup_index"`
}

// Session holds everything one interview accumulates: the role, the ordered
// exchange history, the follow-up counter for the active main question, and
// the edge-case streak used for escalation. It lives for one client
// connection and is never persisted.
type Session struct {
	role           Role
	history        []Exchange
	followupCount  int
	activeQuestion string
	activeFollowup bool
	ended          bool

	lastLabel   EdgeCaseLabel
	labelStreak int

	asked   map[string]struct{}
	summary string
}

// NewSession starts a fresh session for role. Fails with ErrInvalidRole for
// anything outside the supported set.
func NewSession(role Role) (*Session, error) {
	if _, err := ParseRole(string(role)); err != nil {
		return nil, err
	}
	return &Session{
		role:      role,
		lastLabel: LabelNone,
		asked:     make(map[string]struct{}),
	}, nil
}

func (s *Session) Role() Role             { return s.role }
func (s *Session) Ended() bool            { return s.ended }
func (s *Session) FollowupCount() int     { return s.followupCount }
func (s *Session) ActiveQuestion() string { return s.activeQuestion }
func (s *Session) ActiveIsFollowup() bool { return s.activeFollowup }

// History returns a copy of the exchange log.
func (s *Session) History() []Exchange {
	out := make([]Exchange, len(s.history))
	copy(out, s.history)
	return out
}

// LastN returns up to n trailing exchanges, oldest first.
func (s *Session) LastN(n int) []Exchange {
	if n <= 0 || len(s.history) == 0 {
		return nil
	}
	start := len(s.history) - n
	if start < 0 {
		start = 0
	}
	out := make([]Exchange, len(s.history)-start)
	copy(out, s.history[start:])
	return out
}

// MainQuestions lists every main (non-follow-up) question asked so far,
// including the active one.
func (s *Session) MainQuestions() []string {
	var out []string
	for _, ex := range s.history {
		if !ex.IsFollowup {
			out = append(out, ex.Question)
		}
	}
	if s.activeQuestion != "" && !s.activeFollowup {
		out = append(out, s.activeQuestion)
	}
	return out
}

// FollowupLimitReached reports whether the active main question has used up
// its follow-up budget.
func (s *Session) FollowupLimitReached() bool {
	return s.followupCount >= MaxFollowups
}

// Ask makes question the active one. A follow-up consumes one unit of the
// follow-up budget; a main question resets it to zero.
func (s *Session) Ask(question string, followup bool) error {
	if s.ended {
		return ErrSessionEnded
	}
	if followup {
		if s.FollowupLimitReached() {
			return ErrFollowupLimit
		}
		s.followupCount++
	} else {
		s.followupCount = 0
	}
	s.activeQuestion = question
	s.activeFollowup = followup
	return nil
}

// Record appends a completed exchange to the history.
func (s *Session) Record(ex Exchange) error {
	if s.ended {
		return ErrSessionEnded
	}
	s.history = append(s.history, ex)
	return nil
}

// NoteLabel tracks consecutive occurrences of the same edge-case label and
// returns the current streak. LabelNone resets the streak.
func (s *Session) NoteLabel(label EdgeCaseLabel) int {
	if label == LabelNone {
		s.lastLabel = LabelNone
		s.labelStreak = 0
		return 0
	}
	if label == s.lastLabel {
		s.labelStreak++
	} else {
		s.lastLabel = label
		s.labelStreak = 1
	}
	return s.labelStreak
}

// MarkAsked records a question fingerprint for literal-repeat detection.
func (s *Session) MarkAsked(fingerprint string) {
	s.asked[fingerprint] = struct{}{}
}

// WasAsked reports whether a question with this fingerprint was asked before.
func (s *Session) WasAsked(fingerprint string) bool {
	_, ok := s.asked[fingerprint]
	return ok
}

// End makes the session terminal. Idempotent; every mutation afterwards
// fails with ErrSessionEnded.
func (s *Session) End() {
	s.ended = true
}

// SetSummary caches the closing summary the first time it is produced so a
// repeated summary request returns the same text without side effects.
func (s *Session) SetSummary(text string) {
	if s.summary == "" {
		s.summary = text
	}
}

func (s *Session) Summary() string { return s.summary }
