package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"fitzone-api/internal/domain"
)

func ruleAnswer(t *testing.T, keyword string) string {
	t.Helper()
	for _, r := range fallbackRules {
		for _, kw := range r.keywords {
			if kw == keyword {
				return r.answer
			}
		}
	}
	t.Fatalf("no fallback rule with keyword %q", keyword)
	return ""
}

func TestRespond_Greeting(t *testing.T) {
	require.Equal(t, ruleAnswer(t, "hello"), Respond("hello", nil))
	require.Equal(t, ruleAnswer(t, "hello"), Respond("HELLO", []domain.KnowledgeEntry{}))
}

func TestRespond_Pricing(t *testing.T) {
	require.Equal(t, ruleAnswer(t, "cost"), Respond("What is the membership cost?", nil))
}

func TestRespond_RuleAnswersAreVerbatim(t *testing.T) {
	require.Equal(t,
		"45-75 minutes is ideal for most people. Quality over quantity — focus on intensity rather than duration. ⏱️",
		Respond("how long should i work out", nil))
	require.Equal(t,
		"Use our Diet Planner section above to get a personalized meal plan! Generally: prioritize whole foods, lean proteins, complex carbs, and healthy fats. 🥗",
		Respond("what diet", nil))
}

func TestRespond_DefaultDeflection(t *testing.T) {
	require.Equal(t, defaultReply, Respond("asdkjasdkj", nil))
	require.Equal(t, defaultReply, Respond("", nil))
}

func TestRespond_KnownEntryBeatsFallbackRules(t *testing.T) {
	known := []domain.KnowledgeEntry{{Question: "How many days should I train", Answer: "X", Category: "training"}}
	require.Equal(t, "X", Respond("how many days can I train per week", known))
}

func TestRespond_FirstMatchingEntryWins(t *testing.T) {
	a := domain.KnowledgeEntry{Question: "Best protein sources", Answer: "A"}
	b := domain.KnowledgeEntry{Question: "Protein timing after training", Answer: "B"}
	input := "which protein should I buy"

	require.Equal(t, "A", Respond(input, []domain.KnowledgeEntry{a, b}))
	require.Equal(t, "B", Respond(input, []domain.KnowledgeEntry{b, a}))
}

func TestRespond_ShortQuestionTokensIgnored(t *testing.T) {
	// Every token is 3 characters or fewer, so nothing can match.
	known := []domain.KnowledgeEntry{{Question: "Can you fix abs", Answer: "never"}}
	require.Equal(t, ruleAnswer(t, "abs"), Respond("can you fix my abs", known))
}

func TestRespond_EntryTokensAreCaseInsensitive(t *testing.T) {
	known := []domain.KnowledgeEntry{{Question: "Parking AVAILABLE?", Answer: "Yes, free parking."}}
	require.Equal(t, "Yes, free parking.", Respond("Is there Parking near Downtown", known))
}

func TestRespond_EntryWithoutAnswerIsSkipped(t *testing.T) {
	known := []domain.KnowledgeEntry{{Question: "Parking available", Answer: "  "}}
	require.Equal(t, defaultReply, Respond("parking", known))
}

func TestRespond_UnmatchedEntriesFallThroughToRules(t *testing.T) {
	known := []domain.KnowledgeEntry{{Question: "Towel service", Answer: "Yes"}}
	require.Equal(t, ruleAnswer(t, "sleep"), Respond("how much sleep do I need", known))
}

func TestRespond_RuleOrderIsPreserved(t *testing.T) {
	// "train" (frequency rule) appears before "protein" in the table.
	require.Equal(t, ruleAnswer(t, "days"), Respond("protein on days I train", nil))
}

func TestRespond_NeverEmpty(t *testing.T) {
	inputs := []string{"", " ", "?", "hi", "where is the gym", strings.Repeat("z", 500)}
	for _, in := range inputs {
		require.NotEmpty(t, Respond(in, nil), "input=%q", in)
	}
}

func TestFallbackRules_GreetingIsLast(t *testing.T) {
	last := fallbackRules[len(fallbackRules)-1]
	require.Contains(t, last.keywords, "hello")
	require.Len(t, fallbackRules, 14)
}
