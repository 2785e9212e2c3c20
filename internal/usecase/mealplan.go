package usecase

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"fitzone-api/internal/domain"
	"fitzone-api/internal/logging"
)

type PlanSource string

const (
	PlanStored  PlanSource = "stored"
	PlanDerived PlanSource = "derived"
)

type MealPlanStore interface {
	SubmitProfile(ctx context.Context, key string, profile domain.UserProfile) error
	GetMealPlan(ctx context.Context, key string) (domain.DailyMealPlan, error)
	PutMealPlan(ctx context.Context, key string, plan domain.DailyMealPlan) error
}

type MealPlanService struct {
	store MealPlanStore
}

type MealPlanOutput struct {
	Key    string
	Plan   domain.DailyMealPlan
	Source PlanSource
}

func NewMealPlanService(store MealPlanStore) (*MealPlanService, error) {
	if store == nil {
		return nil, errors.New("usecase: meal plan store must not be nil")
	}
	return &MealPlanService{store: store}, nil
}

// Generate returns the stored plan for the profile, or derives one locally
// when the store fails or has no plan for the profile key. Only an
// incomplete or invalid profile is an error.
func (s *MealPlanService) Generate(ctx context.Context, profile domain.UserProfile) (MealPlanOutput, error) {
	if err := profile.Validate(); err != nil {
		if errors.Is(err, domain.ErrProfileIncomplete) {
			return MealPlanOutput{}, newError(ErrorInvalidInput, "missing_profile_fields", err)
		}
		return MealPlanOutput{}, newError(ErrorInvalidInput, "invalid_profile_field", err)
	}

	log := logging.FromContext(ctx)
	key := profile.Key()
	out := MealPlanOutput{Key: key}

	if err := s.store.SubmitProfile(ctx, key, profile); err != nil {
		log.Warn("profile submit failed, deriving plan locally", zap.String("profile_key", key), zap.Error(err))
		out.Plan, out.Source = DeriveMealPlan(profile), PlanDerived
		return out, nil
	}

	plan, err := s.store.GetMealPlan(ctx, key)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		log.Debug("no stored plan for profile", zap.String("profile_key", key))
	case err != nil:
		log.Warn("meal plan lookup failed, deriving plan locally", zap.String("profile_key", key), zap.Error(err))
	default:
		out.Plan, out.Source = plan, PlanStored
		return out, nil
	}

	out.Plan, out.Source = DeriveMealPlan(profile), PlanDerived
	return out, nil
}

// SeedPlan stores a precomputed plan for a profile key. Totals are
// recomputed from the meals before writing.
func (s *MealPlanService) SeedPlan(ctx context.Context, key string, plan domain.DailyMealPlan) (domain.DailyMealPlan, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.DailyMealPlan{}, newError(ErrorInvalidInput, "empty_profile_key", nil)
	}
	for _, m := range plan.Meals() {
		if strings.TrimSpace(m.Name) == "" {
			return domain.DailyMealPlan{}, newError(ErrorInvalidInput, "meal_missing_name", nil)
		}
		if m.Calories < 0 || m.Protein < 0 || m.Carbs < 0 || m.Fats < 0 {
			return domain.DailyMealPlan{}, newError(ErrorInvalidInput, "negative_macro", nil)
		}
	}

	normalized := domain.NewDailyMealPlan(plan.Breakfast, plan.Lunch, plan.Dinner, plan.Snacks...)
	if err := s.store.PutMealPlan(ctx, key, normalized); err != nil {
		return domain.DailyMealPlan{}, newError(ErrorInternal, "meal_plan_write_error", err)
	}
	return normalized, nil
}
