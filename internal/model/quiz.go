package model

// swagger:model Quiz
type Quiz struct {
	BaseModel
	AttractionID uint   `gorm:"index;not null" json:"attractionId"`
	Title        string `gorm:"size:200;not null" json:"title"`
	Description  string `gorm:"type:text" json:"description"`
	// Acts as the score multiplier; values below 1 are treated as 1 when grading.
	DifficultyLevel int `gorm:"default:1" json:"difficultyLevel"`
	// Client-side countdown in seconds. The server never rejects late submissions.
	TimeLimit       int  `json:"timeLimit"`
	IsApproved      bool `gorm:"default:false" json:"isApproved"`
	CreatedByUserID uint `gorm:"index" json:"createdByUserId"`

	Questions []Question `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`

	Attraction *Attraction `gorm:"foreignKey:AttractionID" json:"attraction,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// swagger:model Question
type Question struct {
	BaseModel
	QuizID      uint   `gorm:"index;not null" json:"quizId"`
	Text        string `gorm:"type:text;not null" json:"text"`
	PointsValue int    `gorm:"not null" json:"pointsValue"`
	Order       int    `gorm:"column:display_order" json:"order"`

	Answers []Answer `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"answers,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// swagger:model Answer
type Answer struct {
	BaseModel
	QuestionID uint   `gorm:"index;not null" json:"questionId"`
	Text       string `gorm:"size:500;not null" json:"text"`
	IsCorrect  bool   `json:"isCorrect"`
	Order      int    `gorm:"column:display_order" json:"order"`
}

func (Answer) TableName() string {
	return "answers"
}
