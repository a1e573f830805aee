package model

import (
	"encoding/json"
	"time"
)

// swagger:model Badge
type Badge struct {
	BaseModel
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:500" json:"description"`
	IconURL     string `gorm:"size:500" json:"iconUrl"`
	// 0 for badges that do not depend on points at all.
	RequiredPoints int `gorm:"default:0" json:"requiredPoints"`
	// JSON unlock predicate, parsed once per evaluation via ParseBadgeCriteria.
	Criteria string `gorm:"size:500" json:"criteria"`
}

func (Badge) TableName() string {
	return "badges"
}

// UserBadge records a single unlock; (user_id, badge_id) is unique so a badge
// can never be granted twice to the same user.
type UserBadge struct {
	BaseModel
	UserID     uint      `gorm:"not null;uniqueIndex:idx_user_badge" json:"userId"`
	BadgeID    uint      `gorm:"not null;uniqueIndex:idx_user_badge" json:"badgeId"`
	UnlockedAt time.Time `json:"unlockedAt"`

	Badge *Badge `gorm:"foreignKey:BadgeID" json:"badge,omitempty"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}

// BadgeCriteria is the typed form of Badge.Criteria. Each recognized key is
// a minimum threshold; multiple keys are conjunctive. Keys the parser does not
// recognize are ignored, so a criteria document with only unknown keys unlocks
// unconditionally.
type BadgeCriteria struct {
	MinTotalPoints      *int `json:"totalPoints"`
	MinQuizzesCompleted *int `json:"quizzesCompleted"`
}

// ParseBadgeCriteria parses the raw criteria document. A malformed payload
// returns an error so the evaluator can fail closed for that badge without
// blocking the others.
func ParseBadgeCriteria(raw string) (BadgeCriteria, error) {
	var c BadgeCriteria
	if raw == "" {
		return c, nil
	}
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return BadgeCriteria{}, err
	}
	return c, nil
}

// Met reports whether the criteria hold for the given aggregate stats.
func (c BadgeCriteria) Met(totalPoints, quizzesCompleted int) bool {
	if c.MinTotalPoints != nil && totalPoints < *c.MinTotalPoints {
		return false
	}
	if c.MinQuizzesCompleted != nil && quizzesCompleted < *c.MinQuizzesCompleted {
		return false
	}
	return true
}
