package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepgrid/interview-practice/domain"
)

func sessionWithHistory(t *testing.T, role domain.Role, exchanges int) *domain.Session {
	t.Helper()
	sess, err := domain.NewSession(role)
	require.NoError(t, err)
	for i := 0; i < exchanges; i++ {
		require.NoError(t, sess.Record(domain.Exchange{
			Question: "Question " + string(rune('A'+i)),
			Answer:   "Answer " + string(rune('A'+i)),
		}))
	}
	return sess
}

func TestBuildPromptDeterminism(t *testing.T) {
	sess := sessionWithHistory(t, domain.RoleSoftwareEngineer, 4)
	require.NoError(t, sess.Ask("What is a pointer?", false))

	for _, in := range []PromptInput{
		{Intent: IntentQuestion},
		{Intent: IntentFollowup, PendingAnswer: "A pointer stores a memory address."},
		{Intent: IntentFeedback, PendingAnswer: "A pointer stores a memory address."},
		{Intent: IntentSummary},
	} {
		first := BuildPrompt(sess, in)
		second := BuildPrompt(sess, in)
		assert.Equal(t, first, second, "identical state and intent must yield byte-identical prompts (%s)", in.Intent)
	}
}

func TestQuestionPromptContents(t *testing.T) {
	sess := sessionWithHistory(t, domain.RoleSales, 2)
	prompt := BuildPrompt(sess, PromptInput{Intent: IntentQuestion})

	assert.Contains(t, prompt, "Sales position")
	assert.Contains(t, prompt, "EASY to MEDIUM difficulty")
	assert.Contains(t, prompt, "1-2 minutes")
	assert.Contains(t, prompt, "Previous questions asked:")
	assert.Contains(t, prompt, "Respond with ONLY the question")
}

func TestQuestionPromptOnFreshSessionHasNoHistory(t *testing.T) {
	sess, err := domain.NewSession(domain.RoleRetailAssociate)
	require.NoError(t, err)

	prompt := BuildPrompt(sess, PromptInput{Intent: IntentQuestion})
	assert.NotContains(t, prompt, "Recent conversation:")
	assert.NotContains(t, prompt, "Previous questions asked:")
	assert.Contains(t, prompt, "Retail Associate position")
}

func TestFollowupPromptEmbedsAnswerVerbatim(t *testing.T) {
	sess := sessionWithHistory(t, domain.RoleSoftwareEngineer, 1)
	require.NoError(t, sess.Ask("What is a hash map?", false))

	answer := "A hash map stores key-value pairs and gives roughly constant time lookups."
	prompt := BuildPrompt(sess, PromptInput{Intent: IntentFollowup, PendingAnswer: answer})

	assert.Contains(t, prompt, "Current question: What is a hash map?")
	assert.Contains(t, prompt, "Candidate's answer: "+answer)
	assert.Contains(t, prompt, "References specific phrases")
}

func TestHistoryWindowIsSixOldestFirst(t *testing.T) {
	sess := sessionWithHistory(t, domain.RoleSales, 8)
	prompt := BuildPrompt(sess, PromptInput{Intent: IntentQuestion})

	// Exchanges A and B fall outside the window of 6.
	assert.NotContains(t, prompt, "Question A\n")
	assert.NotContains(t, prompt, "Question B\n")
	assert.Contains(t, prompt, "Question C")
	assert.Contains(t, prompt, "Question H")

	// Oldest first within the window.
	assert.Less(t,
		strings.Index(prompt, "Question C"),
		strings.Index(prompt, "Question H"))
}

func TestFeedbackPromptAsksForBullets(t *testing.T) {
	sess := sessionWithHistory(t, domain.RoleSales, 1)
	require.NoError(t, sess.Ask("How do you handle a price objection?", false))

	prompt := BuildPrompt(sess, PromptInput{Intent: IntentFeedback, PendingAnswer: "I focus on value first."})
	assert.Contains(t, prompt, "interview coach")
	assert.Contains(t, prompt, "3 bullet points")
	assert.Contains(t, prompt, "Question: How do you handle a price objection?")
}
