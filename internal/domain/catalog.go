package domain

// KnowledgeEntry is an FAQ record consulted by the chat responder before its
// built-in rules.
type KnowledgeEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category"`
}

type GymLocation struct {
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	City      string   `json:"city"`
	Phone     string   `json:"phone"`
	Hours     string   `json:"hours"`
	Amenities []string `json:"amenities"`
}

// Equipment is a shop item. Price is in whole dollars.
type Equipment struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Price       int64  `json:"price"`
}

type Workout struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	MuscleGroup string   `json:"muscleGroup"`
	Difficulty  string   `json:"difficulty"`
	Steps       []string `json:"steps"`
}

type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}
