package repository

import (
	"rovia_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BadgeRepository struct {
	DB *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) *BadgeRepository {
	return &BadgeRepository{DB: db}
}

func (r *BadgeRepository) FindAll() ([]model.Badge, error) {
	var badges []model.Badge
	err := r.DB.Find(&badges).Error
	return badges, err
}

func (r *BadgeRepository) FindUnlocked(userID uint) ([]model.UserBadge, error) {
	var unlocked []model.UserBadge
	err := r.DB.Preload("Badge").Where("user_id = ?", userID).Find(&unlocked).Error
	return unlocked, err
}

func (r *BadgeRepository) UnlockedBadgeIDs(userID uint) (map[uint]bool, error) {
	var ids []uint
	err := r.DB.Model(&model.UserBadge{}).Where("user_id = ?", userID).Pluck("badge_id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// Unlock grants a badge at most once. The unique (user_id, badge_id) index
// backs the DO NOTHING clause, so a concurrent duplicate grant is absorbed.
func (r *BadgeRepository) Unlock(userBadge *model.UserBadge) error {
	return r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(userBadge).Error
}

// NextLocked returns the not-yet-unlocked badge with the lowest point
// threshold, or nil when everything is unlocked.
func (r *BadgeRepository) NextLocked(userID uint) (*model.Badge, error) {
	var badge model.Badge
	err := r.DB.
		Where("id NOT IN (?)", r.DB.Model(&model.UserBadge{}).Select("badge_id").Where("user_id = ?", userID)).
		Order("required_points ASC").
		First(&badge).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &badge, nil
}
