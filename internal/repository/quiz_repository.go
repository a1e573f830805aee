package repository

import (
	"rovia_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

// treeQuery preloads the full question/answer tree in display order.
func treeQuery(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.display_order ASC")
		}).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.display_order ASC")
		})
}

func (r *QuizRepository) FindWithTree(quizID uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := treeQuery(r.DB).First(&quiz, quizID).Error
	return &quiz, err
}

func (r *QuizRepository) FindByAttraction(attractionID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := treeQuery(r.DB).Where("attraction_id = ?", attractionID).Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) FindByID(quizID uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.First(&quiz, quizID).Error
	return &quiz, err
}

// DeleteTree removes a quiz and its question/answer rows inside the caller's
// transaction. Ledger cleanup is the service's responsibility, before this.
func (r *QuizRepository) DeleteTree(tx *gorm.DB, quizID uint) error {
	var questionIDs []uint
	if err := tx.Model(&model.Question{}).Where("quiz_id = ?", quizID).Pluck("id", &questionIDs).Error; err != nil {
		return err
	}

	if len(questionIDs) > 0 {
		if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", quizID).Delete(&model.Question{}).Error; err != nil {
			return err
		}
	}

	return tx.Delete(&model.Quiz{}, quizID).Error
}

// DeleteQuestions drops the question tree but keeps the quiz row, for the
// full-replace update path.
func (r *QuizRepository) DeleteQuestions(tx *gorm.DB, quizID uint) error {
	var questionIDs []uint
	if err := tx.Model(&model.Question{}).Where("quiz_id = ?", quizID).Pluck("id", &questionIDs).Error; err != nil {
		return err
	}

	if len(questionIDs) == 0 {
		return nil
	}

	if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.Answer{}).Error; err != nil {
		return err
	}
	return tx.Where("quiz_id = ?", quizID).Delete(&model.Question{}).Error
}
