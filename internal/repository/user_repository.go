package repository

import (
	"rovia_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

// AddPoints increments the cumulative point total as a single guarded
// statement, so concurrent submissions serialize on the row instead of
// racing through a read-then-write.
func (r *UserRepository) AddPoints(tx *gorm.DB, userID uint, points int) error {
	return tx.Model(&model.User{}).
		Where("id = ?", userID).
		Update("total_points", gorm.Expr("total_points + ?", points)).
		Error
}

// FindTopByPoints returns the leaderboard slice: points descending, earlier
// sign-ups first on ties.
func (r *UserRepository) FindTopByPoints(limit int) ([]model.User, error) {
	var users []model.User
	err := r.DB.Order("total_points DESC").Order("created_at ASC").Limit(limit).Find(&users).Error
	return users, err
}
