package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prepgrid/interview-practice/domain"
)

func TestClassifyAnswer(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   domain.EdgeCaseLabel
	}{
		{"empty string", "", domain.LabelEmpty},
		{"whitespace only", "   ", domain.LabelEmpty},
		{"idk", "idk", domain.LabelConfused},
		{"idk with punctuation", "idk.", domain.LabelConfused},
		{"dont know", "i don't know", domain.LabelConfused},
		{"help request", "can you help me", domain.LabelConfused},
		{"what do you mean", "what do you mean by that question", domain.LabelConfused},
		{"greeting", "hello", domain.LabelChatty},
		{"small talk", "how are you doing today", domain.LabelChatty},
		{"topic drift", "by the way did you watch the game last night", domain.LabelChatty},
		{"too short", "yes definitely", domain.LabelTooShort},
		{"single word", "databases", domain.LabelTooShort},
		{
			"coherent long answer",
			"In my last project I built a small inventory tracker using a relational database. " +
				"I designed the tables, wrote the queries, and added basic validation so the data stayed " +
				"consistent, which taught me a lot about structuring information clearly.",
			domain.LabelNone,
		},
		{
			"normal five word answer",
			"I would ask clarifying questions",
			domain.LabelNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyAnswer(tt.answer))
		})
	}
}

func TestClassifierIsDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, domain.LabelConfused, ClassifyAnswer("idk"))
	}
}

func TestGuidanceFor(t *testing.T) {
	for _, label := range []domain.EdgeCaseLabel{
		domain.LabelEmpty, domain.LabelTooShort, domain.LabelConfused, domain.LabelChatty,
	} {
		plain := GuidanceFor(label, false)
		directive := GuidanceFor(label, true)
		assert.NotEmpty(t, plain, label)
		assert.NotEmpty(t, directive, label)
		assert.NotEqual(t, plain, directive, "escalated variant must differ for %s", label)
	}
}
