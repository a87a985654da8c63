package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, role := range Roles() {
		parsed, err := ParseRole(string(role))
		require.NoError(t, err)
		assert.Equal(t, role, parsed)
	}

	_, err := ParseRole("astronaut")
	assert.ErrorIs(t, err, ErrInvalidRole)

	// Tolerates case and whitespace.
	parsed, err := ParseRole("  Sales ")
	require.NoError(t, err)
	assert.Equal(t, RoleSales, parsed)
}

func TestRoleDisplay(t *testing.T) {
	assert.Equal(t, "Software Engineer", RoleSoftwareEngineer.Display())
	assert.Equal(t, "Retail Associate", RoleRetailAssociate.Display())
	assert.Equal(t, "Sales", RoleSales.Display())
}

func TestNewSessionRejectsUnknownRole(t *testing.T) {
	_, err := NewSession(Role("barista"))
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestNewSessionStartsFresh(t *testing.T) {
	sess, err := NewSession(RoleSales)
	require.NoError(t, err)

	assert.Equal(t, RoleSales, sess.Role())
	assert.Zero(t, sess.FollowupCount())
	assert.Empty(t, sess.History())
	assert.False(t, sess.Ended())
}

func TestFollowupBudget(t *testing.T) {
	sess, err := NewSession(RoleSoftwareEngineer)
	require.NoError(t, err)

	require.NoError(t, sess.Ask("What is a variable?", false))
	assert.Equal(t, 0, sess.FollowupCount())

	require.NoError(t, sess.Ask("Can you give an example?", true))
	assert.Equal(t, 1, sess.FollowupCount())
	require.NoError(t, sess.Ask("What type would it be?", true))
	assert.Equal(t, 2, sess.FollowupCount())
	assert.True(t, sess.FollowupLimitReached())

	// Third probe on the same question is refused.
	assert.ErrorIs(t, sess.Ask("And one more?", true), ErrFollowupLimit)

	// A new main question resets the budget.
	require.NoError(t, sess.Ask("What is a function?", false))
	assert.Equal(t, 0, sess.FollowupCount())
	assert.False(t, sess.FollowupLimitReached())
}

func TestRecordAfterEndFails(t *testing.T) {
	sess, err := NewSession(RoleRetailAssociate)
	require.NoError(t, err)

	require.NoError(t, sess.Ask("How would you greet a customer?", false))
	require.NoError(t, sess.Record(Exchange{Question: sess.ActiveQuestion(), Answer: "With a smile."}))

	sess.End()
	assert.True(t, sess.Ended())

	err = sess.Record(Exchange{Question: "Another?", Answer: "Nope."})
	assert.ErrorIs(t, err, ErrSessionEnded)
	assert.Len(t, sess.History(), 1, "history must be unchanged after End")

	assert.ErrorIs(t, sess.Ask("More?", false), ErrSessionEnded)
}

func TestLastNOldestFirst(t *testing.T) {
	sess, err := NewSession(RoleSales)
	require.NoError(t, err)

	for i := 0; i < 8; i++ {
		require.NoError(t, sess.Record(Exchange{
			Question: string(rune('A' + i)),
			Answer:   "answer",
		}))
	}

	last := sess.LastN(6)
	require.Len(t, last, 6)
	assert.Equal(t, "C", last[0].Question)
	assert.Equal(t, "H", last[5].Question)

	assert.Len(t, sess.LastN(100), 8)
	assert.Nil(t, sess.LastN(0))
}

func TestNoteLabelStreaks(t *testing.T) {
	sess, err := NewSession(RoleSales)
	require.NoError(t, err)

	assert.Equal(t, 1, sess.NoteLabel(LabelChatty))
	assert.Equal(t, 2, sess.NoteLabel(LabelChatty))

	// Different label restarts the streak.
	assert.Equal(t, 1, sess.NoteLabel(LabelConfused))

	// A normal answer clears it.
	assert.Equal(t, 0, sess.NoteLabel(LabelNone))
	assert.Equal(t, 1, sess.NoteLabel(LabelConfused))
}

func TestQuestionFingerprints(t *testing.T) {
	sess, err := NewSession(RoleSoftwareEngineer)
	require.NoError(t, err)

	assert.False(t, sess.WasAsked("abc"))
	sess.MarkAsked("abc")
	assert.True(t, sess.WasAsked("abc"))
}

func TestSummaryCachedOnce(t *testing.T) {
	sess, err := NewSession(RoleSales)
	require.NoError(t, err)

	sess.SetSummary("first")
	sess.SetSummary("second")
	assert.Equal(t, "first", sess.Summary())
}

func TestMainQuestionsIncludesActive(t *testing.T) {
	sess, err := NewSession(RoleSales)
	require.NoError(t, err)

	require.NoError(t, sess.Record(Exchange{Question: "Q1", Answer: "A1"}))
	require.NoError(t, sess.Record(Exchange{Question: "F1", Answer: "A2", IsFollowup: true, FollowupIndex: 1}))
	require.NoError(t, sess.Ask("Q2", false))

	assert.Equal(t, []string{"Q1", "Q2"}, sess.MainQuestions())
}
