package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"fitzone-api/internal/domain"
)

// mockCatalog answers every read with err when set, otherwise from its
// slices; writes append.
type mockCatalog struct {
	faqs      []domain.KnowledgeEntry
	gyms      []domain.GymLocation
	equipment []domain.Equipment
	workouts  []domain.Workout
	err       error
	writeErr  error
}

func findByName[T any](items []T, name string, nameOf func(T) string) (T, error) {
	for _, it := range items {
		if nameOf(it) == name {
			return it, nil
		}
	}
	var zero T
	return zero, domain.ErrNotFound
}

func (m *mockCatalog) ListFAQs(context.Context) ([]domain.KnowledgeEntry, error) {
	return m.faqs, m.err
}

func (m *mockCatalog) GetFAQ(_ context.Context, q string) (domain.KnowledgeEntry, error) {
	if m.err != nil {
		return domain.KnowledgeEntry{}, m.err
	}
	return findByName(m.faqs, q, func(f domain.KnowledgeEntry) string { return f.Question })
}

func (m *mockCatalog) AddFAQ(_ context.Context, f domain.KnowledgeEntry) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.faqs = append(m.faqs, f)
	return nil
}

func (m *mockCatalog) ListGymLocations(context.Context) ([]domain.GymLocation, error) {
	return m.gyms, m.err
}

func (m *mockCatalog) GetGymLocation(_ context.Context, name string) (domain.GymLocation, error) {
	if m.err != nil {
		return domain.GymLocation{}, m.err
	}
	return findByName(m.gyms, name, func(g domain.GymLocation) string { return g.Name })
}

func (m *mockCatalog) AddGymLocation(_ context.Context, g domain.GymLocation) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.gyms = append(m.gyms, g)
	return nil
}

func (m *mockCatalog) ListEquipment(context.Context) ([]domain.Equipment, error) {
	return m.equipment, m.err
}

func (m *mockCatalog) GetEquipment(_ context.Context, name string) (domain.Equipment, error) {
	if m.err != nil {
		return domain.Equipment{}, m.err
	}
	return findByName(m.equipment, name, func(e domain.Equipment) string { return e.Name })
}

func (m *mockCatalog) AddEquipment(_ context.Context, e domain.Equipment) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.equipment = append(m.equipment, e)
	return nil
}

func (m *mockCatalog) ListWorkouts(context.Context) ([]domain.Workout, error) {
	return m.workouts, m.err
}

func (m *mockCatalog) GetWorkout(_ context.Context, name string) (domain.Workout, error) {
	if m.err != nil {
		return domain.Workout{}, m.err
	}
	return findByName(m.workouts, name, func(w domain.Workout) string { return w.Name })
}

func (m *mockCatalog) AddWorkout(_ context.Context, w domain.Workout) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.workouts = append(m.workouts, w)
	return nil
}

func newTestCatalog(t *testing.T, store CatalogStore) *CatalogService {
	t.Helper()
	svc, err := NewCatalogService(store)
	require.NoError(t, err)
	return svc
}

func TestNewCatalogService_ValidatesDependencies(t *testing.T) {
	_, err := NewCatalogService(nil)
	require.Error(t, err)
}

func TestCatalogLists_PreferStoredContent(t *testing.T) {
	store := &mockCatalog{
		faqs:      []domain.KnowledgeEntry{{Question: "q", Answer: "a"}},
		gyms:      []domain.GymLocation{{Name: "FitZone Harbor"}},
		equipment: []domain.Equipment{{Name: "Rower", Price: 900}},
		workouts:  []domain.Workout{{Name: "Mobility Flow"}},
	}
	svc := newTestCatalog(t, store)
	ctx := context.Background()

	require.Equal(t, store.faqs, svc.ListFAQs(ctx))
	require.Equal(t, store.gyms, svc.ListGymLocations(ctx))
	require.Equal(t, store.equipment, svc.ListEquipment(ctx))
	require.Equal(t, store.workouts, svc.ListWorkouts(ctx))
}

func TestCatalogLists_FallBackToSamples(t *testing.T) {
	for name, store := range map[string]*mockCatalog{
		"empty store":   {},
		"store failure": {err: errors.New("dynamodb down")},
	} {
		t.Run(name, func(t *testing.T) {
			svc := newTestCatalog(t, store)
			ctx := context.Background()

			require.Equal(t, sampleGymLocations, svc.ListGymLocations(ctx))
			require.Equal(t, sampleEquipment, svc.ListEquipment(ctx))
			require.Equal(t, sampleWorkouts, svc.ListWorkouts(ctx))

			faqs := svc.ListFAQs(ctx)
			require.NotNil(t, faqs)
			require.Empty(t, faqs)
		})
	}
}

func TestCatalogLists_SamplesAreCopies(t *testing.T) {
	svc := newTestCatalog(t, &mockCatalog{})

	got := svc.ListEquipment(context.Background())
	got[0].Name = "changed"
	require.Equal(t, "Olympic Barbell", sampleEquipment[0].Name)

	q := svc.Quotes()
	require.Len(t, q, len(quotes))
	q[0].Text = "changed"
	require.NotEqual(t, "changed", quotes[0].Text)
}

func TestCatalogGet(t *testing.T) {
	store := &mockCatalog{workouts: []domain.Workout{{Name: "Mobility Flow", Difficulty: "Beginner"}}}
	svc := newTestCatalog(t, store)
	ctx := context.Background()

	w, err := svc.GetWorkout(ctx, "Mobility Flow")
	require.NoError(t, err)
	require.Equal(t, "Beginner", w.Difficulty)

	w, err = svc.GetWorkout(ctx, " Core Crusher ")
	require.NoError(t, err)
	require.Equal(t, "Core Crusher", w.Name)

	_, err = svc.GetWorkout(ctx, "Nope")
	expectError(t, err, ErrorNotFound, "workout_not_found")

	_, err = svc.GetWorkout(ctx, "")
	expectError(t, err, ErrorInvalidInput, "empty_name")

	_, err = svc.GetFAQ(ctx, "anything")
	expectError(t, err, ErrorNotFound, "faq_not_found")
}

func TestCatalogGet_StoreFailureUsesSamples(t *testing.T) {
	svc := newTestCatalog(t, &mockCatalog{err: errors.New("dynamodb down")})
	ctx := context.Background()

	g, err := svc.GetGymLocation(ctx, "FitZone North")
	require.NoError(t, err)
	require.Equal(t, "Chicago", g.City)

	e, err := svc.GetEquipment(ctx, "Ab Wheel")
	require.NoError(t, err)
	require.EqualValues(t, 22, e.Price)

	_, err = svc.GetEquipment(ctx, "Treadmill")
	expectError(t, err, ErrorNotFound, "equipment_not_found")
}

func TestCatalogAdd(t *testing.T) {
	store := &mockCatalog{}
	svc := newTestCatalog(t, store)
	ctx := context.Background()

	require.NoError(t, svc.AddFAQ(ctx, domain.KnowledgeEntry{Question: "Parking?", Answer: "Free for members."}))
	require.NoError(t, svc.AddGymLocation(ctx, domain.GymLocation{Name: "FitZone Harbor"}))
	require.NoError(t, svc.AddEquipment(ctx, domain.Equipment{Name: "Rower", Price: 900}))
	require.NoError(t, svc.AddWorkout(ctx, domain.Workout{Name: "Mobility Flow"}))
	require.Len(t, store.faqs, 1)
	require.Len(t, store.gyms, 1)
	require.Len(t, store.equipment, 1)
	require.Len(t, store.workouts, 1)
}

func TestCatalogAdd_Errors(t *testing.T) {
	svc := newTestCatalog(t, &mockCatalog{})
	ctx := context.Background()

	expectError(t, svc.AddFAQ(ctx, domain.KnowledgeEntry{Question: "q"}), ErrorInvalidInput, "faq_missing_question_or_answer")
	expectError(t, svc.AddGymLocation(ctx, domain.GymLocation{}), ErrorInvalidInput, "gym_location_missing_name")
	expectError(t, svc.AddEquipment(ctx, domain.Equipment{Name: " "}), ErrorInvalidInput, "equipment_missing_name")
	expectError(t, svc.AddEquipment(ctx, domain.Equipment{Name: "Rower", Price: -1}), ErrorInvalidInput, "equipment_negative_price")
	expectError(t, svc.AddWorkout(ctx, domain.Workout{}), ErrorInvalidInput, "workout_missing_name")

	svc = newTestCatalog(t, &mockCatalog{writeErr: errors.New("write failed")})
	expectError(t, svc.AddWorkout(ctx, domain.Workout{Name: "Mobility Flow"}), ErrorInternal, "workout_write_error")
}
