package usecase

import "fitzone-api/internal/domain"

type mealVariant struct {
	name        string
	description string
}

type mealVariants struct {
	veg, omni mealVariant
}

func (v mealVariants) pick(veg bool) mealVariant {
	if veg {
		return v.veg
	}
	return v.omni
}

var (
	breakfastVariants = mealVariants{
		veg:  mealVariant{"Oats & Banana Smoothie", "Steel-cut oats with banana, almond milk, and honey"},
		omni: mealVariant{"Eggs & Toast", "3 scrambled eggs, whole wheat toast, and orange juice"},
	}
	lunchVariants = mealVariants{
		veg:  mealVariant{"Quinoa Buddha Bowl", "Quinoa with roasted veggies, chickpeas, and tahini dressing"},
		omni: mealVariant{"Grilled Chicken Rice Bowl", "Grilled chicken breast, brown rice, broccoli, and avocado"},
	}
	dinnerVariants = mealVariants{
		veg:  mealVariant{"Lentil Dal with Rice", "Spiced red lentils, basmati rice, and cucumber raita"},
		omni: mealVariant{"Salmon & Sweet Potato", "Baked salmon fillet with sweet potato mash and green beans"},
	}
	snackVariants = mealVariants{
		veg:  mealVariant{"Greek Yogurt & Berries", "Low-fat Greek yogurt with mixed berries and chia seeds"},
		omni: mealVariant{"Protein Shake", "Whey protein shake with almond milk and banana"},
	}
	mixedNuts = domain.Meal{
		Name:        "Mixed Nuts",
		Description: "Almonds, walnuts, and cashews — great for healthy fats and energy",
		Calories:    160,
		Protein:     5,
		Carbs:       8,
		Fats:        14,
	}
)

// DeriveMealPlan builds the offline daily plan for a profile. Only the goal
// and dietary preference affect the result; weight, height and activity
// level are accepted but not used.
func DeriveMealPlan(p domain.UserProfile) domain.DailyMealPlan {
	veg := p.DietaryPreference == domain.DietVegetarian || p.DietaryPreference == domain.DietVegan
	gain := p.Goal == domain.GoalMuscleGain
	loss := p.Goal == domain.GoalWeightLoss

	calBase := 500
	switch {
	case gain:
		calBase = 600
	case loss:
		calBase = 400
	}
	protBase := 30
	if gain {
		protBase = 45
	}

	breakfast := meal(breakfastVariants.pick(veg), calBase-100, choose(veg, 18, 28), 55, choose(veg, 8, 14))
	lunch := meal(lunchVariants.pick(veg), calBase+50, protBase, 65, 16)
	dinner := meal(dinnerVariants.pick(veg), calBase, protBase+5, 58, choose(veg, 10, 18))
	snack := meal(snackVariants.pick(veg), 180, 20, 22, 4)

	return domain.NewDailyMealPlan(breakfast, lunch, dinner, snack, mixedNuts)
}

func meal(v mealVariant, calories, protein, carbs, fats int) domain.Meal {
	return domain.Meal{
		Name:        v.name,
		Description: v.description,
		Calories:    calories,
		Protein:     protein,
		Carbs:       carbs,
		Fats:        fats,
	}
}

func choose(cond bool, a, b int) int {
	if cond {
		return a
	}
	return b
}
