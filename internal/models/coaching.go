package models

import "time"

type WorkoutStatus string

const (
	WorkoutStatusAssigned  WorkoutStatus = "assigned"
	WorkoutStatusActive    WorkoutStatus = "active"
	WorkoutStatusCompleted WorkoutStatus = "completed"
)

// WorkoutPlan is assigned by a trainer to a member.
type WorkoutPlan struct {
	ID        string
	MemberID  string
	TrainerID string
	Name      string
	Notes     string
	Status    WorkoutStatus
	Exercises []Exercise
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Exercise struct {
	ID          string
	PlanID      string
	Name        string
	Sets        int
	Reps        string
	RestSeconds int
	Position    int
}

// NutritionLog is a member-owned daily meal entry, persisted server-side.
type NutritionLog struct {
	ID          string
	UserID      string
	LogDate     time.Time
	MealType    string
	Description string
	Calories    int
	ProteinG    int
	CarbsG      int
	FatG        int
	CreatedAt   time.Time
}

// ProgressEntry is a body-metric measurement recorded by a member.
type ProgressEntry struct {
	ID         string
	UserID     string
	WeightKg   float64
	BodyFatPct *float64
	Notes      string
	RecordedAt time.Time
}

// ChatMessage is a direct message between a trainer and one of their members.
type ChatMessage struct {
	ID          string
	SenderID    string
	RecipientID string
	Body        string
	SentAt      time.Time
}
