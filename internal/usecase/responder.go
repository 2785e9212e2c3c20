package usecase

import (
	"strings"

	"fitzone-api/internal/domain"
)

const (
	// minTokenLen is the exclusive lower bound on FAQ question tokens used
	// for matching; shorter words are skipped.
	minTokenLen = 3

	defaultReply = "Great question! 🤔 I'm still learning, but I'd recommend speaking with one of our certified trainers at any FitZone location for personalized advice. Is there anything else I can help with?"

	// DefaultGreeting opens every new conversation unless overridden in SSM.
	DefaultGreeting = "Hey! I'm FitZone AI 🤖💪 Your personal fitness assistant. Ask me anything about training, nutrition, equipment, or recovery!"
)

type fallbackRule struct {
	keywords []string
	answer   string
}

// fallbackRules is consulted top to bottom and the first hit wins, so order
// is significant. The greeting rule stays last: "hi" is a substring of
// ordinary words such as "membership".
var fallbackRules = []fallbackRule{
	{
		keywords: []string{"days", "train", "week", "how many", "often"},
		answer:   "Beginners: 3 days, Intermediate: 4-5 days, Advanced: 5-6 days. Always include at least 1-2 rest days for recovery. 💪",
	},
	{
		keywords: []string{"eat before", "pre workout", "before workout", "before training"},
		answer:   "Eat a balanced meal 2-3 hours before, or a light snack (banana, oats) 30-60 minutes before. Include carbs for energy and some protein. 🍌",
	},
	{
		keywords: []string{"lose weight", "weight loss", "fat", "slim"},
		answer:   "Focus on a calorie deficit (eat less than you burn), combine cardio and strength training, stay hydrated, and get 7-8 hours sleep. 🏃",
	},
	{
		keywords: []string{"abs", "stomach", "core", "six pack"},
		answer:   "Planks, bicycle crunches, leg raises, and mountain climbers are highly effective. Remember: abs are made in the kitchen too! 🔥",
	},
	{
		keywords: []string{"protein", "how much protein", "intake"},
		answer:   "Aim for 1.6-2.2g of protein per kg of bodyweight for muscle building. Good sources: chicken, eggs, legumes, Greek yogurt. 🥩",
	},
	{
		keywords: []string{"how long", "workout duration", "long should"},
		answer:   "45-75 minutes is ideal for most people. Quality over quantity — focus on intensity rather than duration. ⏱️",
	},
	{
		keywords: []string{"home workout", "equipment", "home gym"},
		answer:   "Dumbbells, resistance bands, and a pull-up bar cover most exercises. A jump rope is great for cardio. 🏠",
	},
	{
		keywords: []string{"sore", "soreness", "doms", "muscle pain", "recovery"},
		answer:   "Warm up properly, cool down with stretching, stay hydrated, get enough sleep, and consider foam rolling. 🧘",
	},
	{
		keywords: []string{"beginner", "start", "new", "routine for beginner"},
		answer:   "Start with 3 days/week full-body workouts. Include compound movements: squats, deadlifts, bench press, rows, overhead press. 🌱",
	},
	{
		keywords: []string{"sleep", "rest", "muscle growth", "recover"},
		answer:   "Very important! Most muscle repair and growth happens during sleep. Aim for 7-9 hours per night. 😴",
	},
	{
		keywords: []string{"diet", "meal", "food", "eat"},
		answer:   "Use our Diet Planner section above to get a personalized meal plan! Generally: prioritize whole foods, lean proteins, complex carbs, and healthy fats. 🥗",
	},
	{
		keywords: []string{"gym", "location", "where", "near me", "branch"},
		answer:   "FitZone has 4 locations: Downtown NY, Westside LA, Midtown Atlanta, and North Chicago. Check the Gyms section for details! 📍",
	},
	{
		keywords: []string{"price", "cost", "membership", "fee", "join"},
		answer:   "FitZone memberships start at $39/month. Premium all-access plans available at $79/month. Visit any location to sign up! 💳",
	},
	{
		keywords: []string{"hello", "hi", "hey", "start", "help"},
		answer:   "Hey there! 💪 I'm FitZone AI. Ask me anything about training, nutrition, recovery, or equipment!",
	},
}

// Respond picks a reply for userText. Known FAQ entries are tried first, in
// order, then the built-in rules, then a fixed deflection to a trainer. It
// never returns an empty string.
func Respond(userText string, known []domain.KnowledgeEntry) string {
	lower := strings.ToLower(userText)

	if answer, ok := matchKnowledge(lower, known); ok {
		return answer
	}
	for _, rule := range fallbackRules {
		if containsAny(lower, rule.keywords) {
			return rule.answer
		}
	}
	return defaultReply
}

func matchKnowledge(lower string, known []domain.KnowledgeEntry) (string, bool) {
	for _, entry := range known {
		// An entry without an answer can never be a reply.
		if strings.TrimSpace(entry.Answer) == "" {
			continue
		}
		if containsAny(lower, questionTokens(entry.Question)) {
			return entry.Answer, true
		}
	}
	return "", false
}

func questionTokens(question string) []string {
	var tokens []string
	for _, w := range strings.Fields(strings.ToLower(question)) {
		if len(w) > minTokenLen {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
