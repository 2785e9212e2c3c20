package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type Goal string

const (
	GoalWeightLoss  Goal = "weightLoss"
	GoalMuscleGain  Goal = "muscleGain"
	GoalMaintenance Goal = "maintenance"
)

type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary"
	ActivityModerate  ActivityLevel = "moderate"
	ActivityActive    ActivityLevel = "active"
)

type DietaryPreference string

const (
	DietVegetarian    DietaryPreference = "vegetarian"
	DietNonVegetarian DietaryPreference = "nonVegetarian"
	DietVegan         DietaryPreference = "vegan"
)

var (
	// ErrProfileIncomplete reports a profile with at least one unset field.
	ErrProfileIncomplete = errors.New("domain: profile is missing required fields")
	// ErrProfileInvalid reports a profile field outside its allowed values.
	ErrProfileInvalid = errors.New("domain: profile has an invalid field")
)

// UserProfile is the diet planner input. Weight and height are expected
// positive; the UI bounds (30-250 kg, 100-250 cm) are not enforced here.
type UserProfile struct {
	Goal              Goal              `json:"goal"`
	WeightKg          float64           `json:"weightKg"`
	HeightCm          float64           `json:"heightCm"`
	ActivityLevel     ActivityLevel     `json:"activityLevel"`
	DietaryPreference DietaryPreference `json:"dietaryPreference"`
}

// Validate checks that all five fields are present and the enums hold known
// values.
func (p UserProfile) Validate() error {
	var missing []string
	if p.Goal == "" {
		missing = append(missing, "goal")
	}
	if p.WeightKg == 0 {
		missing = append(missing, "weightKg")
	}
	if p.HeightCm == 0 {
		missing = append(missing, "heightCm")
	}
	if p.ActivityLevel == "" {
		missing = append(missing, "activityLevel")
	}
	if p.DietaryPreference == "" {
		missing = append(missing, "dietaryPreference")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrProfileIncomplete, strings.Join(missing, ", "))
	}

	switch p.Goal {
	case GoalWeightLoss, GoalMuscleGain, GoalMaintenance:
	default:
		return fmt.Errorf("%w: goal %q", ErrProfileInvalid, p.Goal)
	}
	switch p.ActivityLevel {
	case ActivitySedentary, ActivityModerate, ActivityActive:
	default:
		return fmt.Errorf("%w: activityLevel %q", ErrProfileInvalid, p.ActivityLevel)
	}
	switch p.DietaryPreference {
	case DietVegetarian, DietNonVegetarian, DietVegan:
	default:
		return fmt.Errorf("%w: dietaryPreference %q", ErrProfileInvalid, p.DietaryPreference)
	}
	if p.WeightKg < 0 || p.HeightCm < 0 {
		return fmt.Errorf("%w: negative body metric", ErrProfileInvalid)
	}
	return nil
}

// Key returns the profile key used to look up a precomputed plan:
// goal_weightKg_heightCm_activityLevel_dietaryPreference.
func (p UserProfile) Key() string {
	return strings.Join([]string{
		string(p.Goal),
		strconv.FormatFloat(p.WeightKg, 'f', -1, 64),
		strconv.FormatFloat(p.HeightCm, 'f', -1, 64),
		string(p.ActivityLevel),
		string(p.DietaryPreference),
	}, "_")
}

type Meal struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Calories    int    `json:"calories"`
	Protein     int    `json:"protein"`
	Carbs       int    `json:"carbs"`
	Fats        int    `json:"fats"`
}

// DailyMealPlan totals always equal the sums over breakfast, lunch, dinner
// and snacks. Build plans with NewDailyMealPlan to keep that true.
type DailyMealPlan struct {
	Breakfast     Meal   `json:"breakfast"`
	Lunch         Meal   `json:"lunch"`
	Dinner        Meal   `json:"dinner"`
	Snacks        []Meal `json:"snacks"`
	TotalCalories int    `json:"totalCalories"`
	TotalProtein  int    `json:"totalProtein"`
	TotalCarbs    int    `json:"totalCarbs"`
	TotalFats     int    `json:"totalFats"`
}

// NewDailyMealPlan assembles a plan and computes its macro totals.
func NewDailyMealPlan(breakfast, lunch, dinner Meal, snacks ...Meal) DailyMealPlan {
	plan := DailyMealPlan{
		Breakfast: breakfast,
		Lunch:     lunch,
		Dinner:    dinner,
		Snacks:    append(make([]Meal, 0, len(snacks)), snacks...),
	}
	for _, m := range plan.Meals() {
		plan.TotalCalories += m.Calories
		plan.TotalProtein += m.Protein
		plan.TotalCarbs += m.Carbs
		plan.TotalFats += m.Fats
	}
	return plan
}

// Meals returns breakfast, lunch, dinner, then snacks in order.
func (p DailyMealPlan) Meals() []Meal {
	out := make([]Meal, 0, 3+len(p.Snacks))
	out = append(out, p.Breakfast, p.Lunch, p.Dinner)
	return append(out, p.Snacks...)
}
