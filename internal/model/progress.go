package model

import "time"

// UserProgress is one immutable ledger entry per quiz submission. Rows are
// appended by the scoring commit and never updated afterwards; deleting a quiz
// removes its rows as referential cleanup.
type UserProgress struct {
	BaseModel
	UserID           uint      `gorm:"index;not null" json:"userId"`
	QuizID           uint      `gorm:"index;not null" json:"quizId"`
	PointsEarned     int       `gorm:"not null" json:"pointsEarned"`
	CorrectAnswers   int       `gorm:"not null" json:"correctAnswers"`
	TotalQuestions   int       `gorm:"not null" json:"totalQuestions"`
	IsCompleted      bool      `gorm:"default:false;index" json:"isCompleted"`
	CompletedAt      time.Time `json:"completedAt"`
	TimeSpentSeconds int       `gorm:"default:0" json:"timeSpentSeconds"`

	Quiz *Quiz `gorm:"foreignKey:QuizID" json:"quiz,omitempty"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}
