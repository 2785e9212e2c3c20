package usecase

import (
	"context"
	"errors"
	"slices"
	"strings"

	"go.uber.org/zap"

	"fitzone-api/internal/domain"
	"fitzone-api/internal/logging"
)

type CatalogStore interface {
	FAQLister
	GetFAQ(ctx context.Context, question string) (domain.KnowledgeEntry, error)
	AddFAQ(ctx context.Context, faq domain.KnowledgeEntry) error

	ListGymLocations(ctx context.Context) ([]domain.GymLocation, error)
	GetGymLocation(ctx context.Context, name string) (domain.GymLocation, error)
	AddGymLocation(ctx context.Context, loc domain.GymLocation) error

	ListEquipment(ctx context.Context) ([]domain.Equipment, error)
	GetEquipment(ctx context.Context, name string) (domain.Equipment, error)
	AddEquipment(ctx context.Context, item domain.Equipment) error

	ListWorkouts(ctx context.Context) ([]domain.Workout, error)
	GetWorkout(ctx context.Context, name string) (domain.Workout, error)
	AddWorkout(ctx context.Context, w domain.Workout) error
}

// CatalogService serves the site's read-mostly content. Reads never fail on
// store errors: lists fall back to the built-in samples.
type CatalogService struct {
	store CatalogStore
}

func NewCatalogService(store CatalogStore) (*CatalogService, error) {
	if store == nil {
		return nil, errors.New("usecase: catalog store must not be nil")
	}
	return &CatalogService{store: store}, nil
}

// ListFAQs returns the stored FAQs, or an empty list if the store fails.
func (s *CatalogService) ListFAQs(ctx context.Context) []domain.KnowledgeEntry {
	return listOrSample(ctx, "faqs", s.store.ListFAQs, nil)
}

func (s *CatalogService) GetFAQ(ctx context.Context, question string) (domain.KnowledgeEntry, error) {
	return getOrSample(ctx, "faq", question, s.store.GetFAQ, nil, func(f domain.KnowledgeEntry) string { return f.Question })
}

func (s *CatalogService) AddFAQ(ctx context.Context, faq domain.KnowledgeEntry) error {
	if strings.TrimSpace(faq.Question) == "" || strings.TrimSpace(faq.Answer) == "" {
		return newError(ErrorInvalidInput, "faq_missing_question_or_answer", nil)
	}
	if err := s.store.AddFAQ(ctx, faq); err != nil {
		return newError(ErrorInternal, "faq_write_error", err)
	}
	return nil
}

func (s *CatalogService) ListGymLocations(ctx context.Context) []domain.GymLocation {
	return listOrSample(ctx, "gym_locations", s.store.ListGymLocations, sampleGymLocations)
}

func (s *CatalogService) GetGymLocation(ctx context.Context, name string) (domain.GymLocation, error) {
	return getOrSample(ctx, "gym_location", name, s.store.GetGymLocation, sampleGymLocations, func(g domain.GymLocation) string { return g.Name })
}

func (s *CatalogService) AddGymLocation(ctx context.Context, loc domain.GymLocation) error {
	if strings.TrimSpace(loc.Name) == "" {
		return newError(ErrorInvalidInput, "gym_location_missing_name", nil)
	}
	if err := s.store.AddGymLocation(ctx, loc); err != nil {
		return newError(ErrorInternal, "gym_location_write_error", err)
	}
	return nil
}

func (s *CatalogService) ListEquipment(ctx context.Context) []domain.Equipment {
	return listOrSample(ctx, "equipment", s.store.ListEquipment, sampleEquipment)
}

func (s *CatalogService) GetEquipment(ctx context.Context, name string) (domain.Equipment, error) {
	return getOrSample(ctx, "equipment", name, s.store.GetEquipment, sampleEquipment, func(e domain.Equipment) string { return e.Name })
}

func (s *CatalogService) AddEquipment(ctx context.Context, item domain.Equipment) error {
	if strings.TrimSpace(item.Name) == "" {
		return newError(ErrorInvalidInput, "equipment_missing_name", nil)
	}
	if item.Price < 0 {
		return newError(ErrorInvalidInput, "equipment_negative_price", nil)
	}
	if err := s.store.AddEquipment(ctx, item); err != nil {
		return newError(ErrorInternal, "equipment_write_error", err)
	}
	return nil
}

func (s *CatalogService) ListWorkouts(ctx context.Context) []domain.Workout {
	return listOrSample(ctx, "workouts", s.store.ListWorkouts, sampleWorkouts)
}

func (s *CatalogService) GetWorkout(ctx context.Context, name string) (domain.Workout, error) {
	return getOrSample(ctx, "workout", name, s.store.GetWorkout, sampleWorkouts, func(w domain.Workout) string { return w.Name })
}

func (s *CatalogService) AddWorkout(ctx context.Context, w domain.Workout) error {
	if strings.TrimSpace(w.Name) == "" {
		return newError(ErrorInvalidInput, "workout_missing_name", nil)
	}
	if err := s.store.AddWorkout(ctx, w); err != nil {
		return newError(ErrorInternal, "workout_write_error", err)
	}
	return nil
}

// Quotes returns the motivational quotes carousel.
func (s *CatalogService) Quotes() []domain.Quote {
	return slices.Clone(quotes)
}

func listOrSample[T any](ctx context.Context, kind string, list func(context.Context) ([]T, error), sample []T) []T {
	items, err := list(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn("catalog list failed, serving sample data", zap.String("kind", kind), zap.Error(err))
	}
	if err != nil || len(items) == 0 {
		if sample == nil {
			return []T{}
		}
		return slices.Clone(sample)
	}
	return items
}

// getOrSample reads one record by name. A miss or a store failure falls
// through to the sample table so everything a list shows can be opened.
func getOrSample[T any](ctx context.Context, kind, name string, get func(context.Context, string) (T, error), sample []T, nameOf func(T) string) (T, error) {
	var zero T
	name = strings.TrimSpace(name)
	if name == "" {
		return zero, newError(ErrorInvalidInput, "empty_name", nil)
	}

	item, err := get(ctx, name)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		logging.FromContext(ctx).Warn("catalog read failed, checking sample data", zap.String("kind", kind), zap.String("name", name), zap.Error(err))
	}

	for _, s := range sample {
		if nameOf(s) == name {
			return s, nil
		}
	}
	return zero, newError(ErrorNotFound, kind+"_not_found", err)
}
