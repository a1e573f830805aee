package repository

import (
	"rovia_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// Append inserts one ledger row inside the caller's transaction. Rows are
// never updated afterwards.
func (r *ProgressRepository) Append(tx *gorm.DB, progress *model.UserProgress) error {
	return tx.Create(progress).Error
}

func (r *ProgressRepository) CompletedCount(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.UserProgress{}).
		Where("user_id = ? AND is_completed = ?", userID, true).
		Count(&count).Error
	return count, err
}

// Recent returns the newest n entries with quiz and attraction titles joined.
func (r *ProgressRepository) Recent(userID uint, n int) ([]model.UserProgress, error) {
	var entries []model.UserProgress
	err := r.DB.
		Preload("Quiz").
		Preload("Quiz.Attraction").
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Limit(n).
		Find(&entries).Error
	return entries, err
}

// ProgressStats is the per-user aggregate used by the leaderboard.
type ProgressStats struct {
	UserID          uint
	Count           int
	LastCompletedAt *time.Time
}

// StatsByUserIDs bulk-aggregates completion count and last completion time for
// a leaderboard page in one grouped query.
func (r *ProgressRepository) StatsByUserIDs(userIDs []uint) (map[uint]ProgressStats, error) {
	stats := make(map[uint]ProgressStats, len(userIDs))
	if len(userIDs) == 0 {
		return stats, nil
	}

	var rows []ProgressStats
	err := r.DB.Model(&model.UserProgress{}).
		Select("user_id, COUNT(*) AS count, MAX(completed_at) AS last_completed_at").
		Where("user_id IN ? AND is_completed = ?", userIDs, true).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		stats[row.UserID] = row
	}
	return stats, nil
}

// DeleteByQuiz removes the ledger rows of a quiz being deleted, inside the
// caller's transaction, so no progress row outlives its quiz.
func (r *ProgressRepository) DeleteByQuiz(tx *gorm.DB, quizID uint) error {
	return tx.Where("quiz_id = ?", quizID).Delete(&model.UserProgress{}).Error
}

func (r *ProgressRepository) CountByQuiz(quizID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.UserProgress{}).Where("quiz_id = ?", quizID).Count(&count).Error
	return count, err
}
