package models

import (
	"time"

	"github.com/google/uuid"
)

// Category classifies exercises into the fixed muscle-group set.
type Category string

const (
	CategoryArms   Category = "arms"
	CategoryCore   Category = "core"
	CategoryThighs Category = "thighs"
	CategoryBack   Category = "back"
)

// Categories lists every known category.
func Categories() []Category {
	return []Category{CategoryArms, CategoryCore, CategoryThighs, CategoryBack}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryArms, CategoryCore, CategoryThighs, CategoryBack:
		return true
	}
	return false
}

// LogEntry is one recorded exercise event: an exercise performed on a
// calendar day with a rep count and/or a repetition count. Date carries no
// meaningful time-of-day; CreatedAt is an insertion timestamp used only as
// an ordering tiebreak, never by streak logic.
type LogEntry struct {
	ID           uuid.UUID `json:"id"`
	UserID       int       `json:"userId"`
	ExerciseID   uuid.UUID `json:"exerciseId"`
	ExerciseName string    `json:"exerciseName"`
	Category     Category  `json:"category"`
	Date         time.Time `json:"date"`
	Reps         int       `json:"reps"`
	Count        int       `json:"count"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Exercise is a user-defined exercise that log entries reference by name.
type Exercise struct {
	ID        uuid.UUID `json:"id"`
	UserID    int       `json:"userId"`
	Name      string    `json:"name"`
	Category  Category  `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
}
