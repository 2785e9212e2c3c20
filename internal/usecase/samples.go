package usecase

import "fitzone-api/internal/domain"

// Sample catalog content served whenever the store is unreachable or empty.
// List operations return clones so callers cannot reorder these tables.

var sampleGymLocations = []domain.GymLocation{
	{
		Name:      "FitZone Downtown",
		Address:   "123 Main St",
		City:      "New York",
		Phone:     "(212) 555-0101",
		Hours:     "Mon-Sun 5AM-11PM",
		Amenities: []string{"Pool", "Sauna", "CrossFit", "Parking"},
	},
	{
		Name:      "FitZone Westside",
		Address:   "456 Sunset Blvd",
		City:      "Los Angeles",
		Phone:     "(310) 555-0202",
		Hours:     "Mon-Sat 6AM-10PM",
		Amenities: []string{"Olympic Lifting", "Yoga Studio", "Juice Bar"},
	},
	{
		Name:      "FitZone Midtown",
		Address:   "789 Peachtree Rd",
		City:      "Atlanta",
		Phone:     "(404) 555-0303",
		Hours:     "Mon-Fri 5AM-12AM",
		Amenities: []string{"Basketball Court", "Cardio Zone", "Personal Training"},
	},
	{
		Name:      "FitZone North",
		Address:   "321 Lake Shore Dr",
		City:      "Chicago",
		Phone:     "(312) 555-0404",
		Hours:     "Mon-Sun 24/7",
		Amenities: []string{"24/7 Access", "Ice Bath", "Boxing Ring", "Café"},
	},
}

var sampleEquipment = []domain.Equipment{
	{Name: "Olympic Barbell", Description: "Professional grade 20kg Olympic barbell", Category: "Weights", Price: 189},
	{Name: "Adjustable Dumbbells", Description: "5-50kg adjustable dumbbell set", Category: "Weights", Price: 349},
	{Name: "Pull-Up Bar", Description: "Heavy-duty doorframe pull-up bar", Category: "Bodyweight", Price: 49},
	{Name: "Resistance Bands", Description: "Set of 5 resistance bands, various strengths", Category: "Accessories", Price: 29},
	{Name: "Kettlebell Set", Description: "Cast iron kettlebell set 8kg-24kg", Category: "Weights", Price: 220},
	{Name: "Foam Roller", Description: "High-density foam roller for recovery", Category: "Recovery", Price: 35},
	{Name: "Jump Rope", Description: "Speed jump rope with ball bearings", Category: "Cardio", Price: 25},
	{Name: "Ab Wheel", Description: "Double wheel ab roller with knee pad", Category: "Core", Price: 22},
}

var sampleWorkouts = []domain.Workout{
	{
		Name:        "Push Day Blast",
		MuscleGroup: "Chest & Triceps",
		Difficulty:  "intermediate",
		Description: "Full upper body push workout",
		Steps: []string{
			"10 min warm-up on treadmill",
			"Bench Press 4x8",
			"Incline Dumbbell Press 3x10",
			"Cable Flyes 3x12",
			"Tricep Pushdowns 4x12",
			"Overhead Tricep Extension 3x15",
			"Cool down stretching 5 min",
		},
	},
	{
		Name:        "Pull Day Power",
		MuscleGroup: "Back & Biceps",
		Difficulty:  "advanced",
		Description: "Back and biceps strength builder",
		Steps: []string{
			"5 min jump rope warm-up",
			"Deadlift 4x5",
			"Bent-Over Rows 4x8",
			"Pull-Ups 3x max",
			"Hammer Curls 3x12",
			"Face Pulls 3x15",
			"Cool down 5 min",
		},
	},
	{
		Name:        "Leg Day Dominator",
		MuscleGroup: "Legs & Glutes",
		Difficulty:  "intermediate",
		Description: "Complete lower body annihilation",
		Steps: []string{
			"10 min cycling warm-up",
			"Squats 4x8",
			"Romanian Deadlifts 3x10",
			"Leg Press 3x12",
			"Walking Lunges 3x20 steps",
			"Calf Raises 4x20",
			"Stretch 10 min",
		},
	},
	{
		Name:        "Core Crusher",
		MuscleGroup: "Core & Abs",
		Difficulty:  "beginner",
		Description: "Sculpt and strengthen your core",
		Steps: []string{
			"Plank 3x60 sec",
			"Bicycle Crunches 3x20",
			"Leg Raises 3x15",
			"Russian Twists 3x20",
			"Dead Bug 3x10 each side",
			"Mountain Climbers 3x30 sec",
		},
	},
	{
		Name:        "HIIT Cardio Burn",
		MuscleGroup: "Full Body",
		Difficulty:  "intermediate",
		Description: "High intensity fat burning circuit",
		Steps: []string{
			"30 sec Jumping Jacks",
			"30 sec Burpees",
			"30 sec High Knees",
			"30 sec Jump Squats",
			"30 sec Push-Ups",
			"30 sec Rest",
			"Repeat 5 rounds",
		},
	},
	{
		Name:        "Shoulder Sculptor",
		MuscleGroup: "Shoulders",
		Difficulty:  "intermediate",
		Description: "Build boulder shoulders",
		Steps: []string{
			"Overhead Press 4x8",
			"Lateral Raises 4x12",
			"Front Raises 3x12",
			"Arnold Press 3x10",
			"Rear Delt Flyes 3x15",
			"Shrugs 3x15",
		},
	},
}

var quotes = []domain.Quote{
	{Text: "The only bad workout is the one that didn't happen.", Author: "Unknown"},
	{Text: "Push harder than yesterday if you want a different tomorrow.", Author: "Vincent Williams Jr."},
	{Text: "Success starts with self-discipline.", Author: "Unknown"},
	{Text: "Train insane or remain the same.", Author: "Jade Johnson"},
	{Text: "Your body can stand almost anything. It's your mind that you have to convince.", Author: "Unknown"},
	{Text: "The pain you feel today will be the strength you feel tomorrow.", Author: "Arnold Schwarzenegger"},
	{Text: "Don't stop when it hurts. Stop when you're done.", Author: "Unknown"},
	{Text: "Champions aren't made in gyms. Champions are made from something they have deep inside them.", Author: "Muhammad Ali"},
}
