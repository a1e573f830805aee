package model

type UserRole string

const (
	Tourist  UserRole = "tourist"
	Promoter UserRole = "promoter"
	Admin    UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Username string   `gorm:"size:100;not null" json:"username"`
	Email    string   `gorm:"size:100;unique;not null" json:"email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"size:20;default:'tourist'" json:"role"`
	// TotalPoints is cumulative and only ever increased by the quiz scoring
	// commit. CreatedAt doubles as the leaderboard tie-break key.
	TotalPoints int `gorm:"default:0" json:"totalPoints"`
}

func (User) TableName() string {
	return "users"
}
