package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"fitzone-api/internal/domain"
)

func newMemoryStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_FAQsKeepInsertionOrder(t *testing.T) {
	s := newMemoryStore(t)
	ctx := context.Background()

	faqs, err := s.ListFAQs(ctx)
	require.NoError(t, err)
	require.Empty(t, faqs)

	require.NoError(t, s.AddFAQ(ctx, domain.KnowledgeEntry{Question: "Zumba?", Answer: "Tuesdays."}))
	require.NoError(t, s.AddFAQ(ctx, domain.KnowledgeEntry{Question: "Aqua?", Answer: "Fridays.", Category: "classes"}))

	faqs, err = s.ListFAQs(ctx)
	require.NoError(t, err)
	require.Len(t, faqs, 2)
	require.Equal(t, "Zumba?", faqs[0].Question)
	require.Equal(t, "classes", faqs[1].Category)

	got, err := s.GetFAQ(ctx, "Aqua?")
	require.NoError(t, err)
	require.Equal(t, "Fridays.", got.Answer)

	_, err = s.GetFAQ(ctx, "Sauna?")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_CatalogUpsertsByName(t *testing.T) {
	s := newMemoryStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddWorkout(ctx, domain.Workout{Name: "Mobility Flow", Difficulty: "Beginner", Steps: []string{"Cat-cow"}}))
	require.NoError(t, s.AddWorkout(ctx, domain.Workout{Name: "Mobility Flow", Difficulty: "Intermediate"}))
	require.NoError(t, s.AddWorkout(ctx, domain.Workout{Name: "Box Jumps"}))

	ws, err := s.ListWorkouts(ctx)
	require.NoError(t, err)
	require.Len(t, ws, 2)
	require.Equal(t, "Box Jumps", ws[0].Name)

	w, err := s.GetWorkout(ctx, "Mobility Flow")
	require.NoError(t, err)
	require.Equal(t, "Intermediate", w.Difficulty)

	require.NoError(t, s.AddGymLocation(ctx, domain.GymLocation{Name: "FitZone Harbor", Amenities: []string{"Pool", "Sauna"}}))
	g, err := s.GetGymLocation(ctx, "FitZone Harbor")
	require.NoError(t, err)
	require.Equal(t, []string{"Pool", "Sauna"}, g.Amenities)

	require.NoError(t, s.AddEquipment(ctx, domain.Equipment{Name: "Rower", Price: 900}))
	items, err := s.ListEquipment(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)

	_, err = s.GetEquipment(ctx, "Treadmill")
	require.ErrorIs(t, err, ErrNotFound)

	gyms, err := s.ListGymLocations(ctx)
	require.NoError(t, err)
	require.Len(t, gyms, 1)
}

func TestSQLiteStore_MealPlans(t *testing.T) {
	s := newMemoryStore(t)
	ctx := context.Background()
	profile := domain.UserProfile{Goal: domain.GoalWeightLoss, WeightKg: 72.5, HeightCm: 165, ActivityLevel: domain.ActivitySedentary, DietaryPreference: domain.DietVegetarian}

	require.NoError(t, s.SubmitProfile(ctx, profile.Key(), profile))
	require.NoError(t, s.SubmitProfile(ctx, profile.Key(), profile))

	_, err := s.GetMealPlan(ctx, profile.Key())
	require.ErrorIs(t, err, ErrNotFound)

	plan := domain.NewDailyMealPlan(domain.Meal{Name: "a", Calories: 300}, domain.Meal{Name: "b", Calories: 400}, domain.Meal{Name: "c", Calories: 500}, domain.Meal{Name: "d", Calories: 100})
	require.NoError(t, s.PutMealPlan(ctx, profile.Key(), plan))

	got, err := s.GetMealPlan(ctx, profile.Key())
	require.NoError(t, err)
	require.Equal(t, plan, got)
	require.Equal(t, 1300, got.TotalCalories)
}

func TestSQLiteStore_Transcripts(t *testing.T) {
	s := newMemoryStore(t)
	ctx := context.Background()

	n, err := s.GetConversationTurnCount(ctx, "conv-1")
	require.NoError(t, err)
	require.Zero(t, n)

	for i, text := range []string{"hello", "protein?"} {
		user := domain.ChatMessage{ID: "user-" + text, Role: domain.RoleUser, Text: text}
		bot := domain.ChatMessage{ID: "bot-" + text, Role: domain.RoleBot, Text: "re: " + text}
		require.NoError(t, s.AppendTurn(ctx, "conv-1", user, bot, i+1))
	}

	n, err = s.GetConversationTurnCount(ctx, "conv-1")
	require.NoError(t, err)
	require.Equal(t, 2, n)

	all, err := s.GetTranscript(ctx, "conv-1", 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	require.Equal(t, "hello", all[0].Text)
	require.Equal(t, domain.RoleBot, all[3].Role)

	recent, err := s.GetTranscript(ctx, "conv-1", 2)
	require.NoError(t, err)
	require.Equal(t, []string{"protein?", "re: protein?"}, []string{recent[0].Text, recent[1].Text})

	none, err := s.GetTranscript(ctx, "conv-2", 10)
	require.NoError(t, err)
	require.Empty(t, none)

	require.Error(t, s.AppendTurn(ctx, "", domain.ChatMessage{}, domain.ChatMessage{}, 1))
}

func TestSQLiteStore_AppendTurnRejectsStaleTurn(t *testing.T) {
	s := newMemoryStore(t)
	ctx := context.Background()

	user := domain.ChatMessage{ID: "user-1", Role: domain.RoleUser, Text: "hello"}
	bot := domain.ChatMessage{ID: "bot-1", Role: domain.RoleBot, Text: "hi"}
	require.NoError(t, s.AppendTurn(ctx, "conv-1", user, bot, 2))

	user.ID, bot.ID = "user-2", "bot-2"
	require.ErrorIs(t, s.AppendTurn(ctx, "conv-1", user, bot, 2), ErrTurnConflict)
	require.ErrorIs(t, s.AppendTurn(ctx, "conv-1", user, bot, 1), ErrTurnConflict)

	n, err := s.GetConversationTurnCount(ctx, "conv-1")
	require.NoError(t, err)
	require.Equal(t, 2, n)
	msgs, err := s.GetTranscript(ctx, "conv-1", 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
}
