package repository

import (
	"rovia_backend/internal/model"
	"strings"

	"gorm.io/gorm"
)

type AttractionRepository struct {
	DB *gorm.DB
}

func NewAttractionRepository(db *gorm.DB) *AttractionRepository {
	return &AttractionRepository{DB: db}
}

// AttractionFilter narrows the public catalog listing.
type AttractionFilter struct {
	Type      model.AttractionType
	Region    string
	MinRating float64
}

func (r *AttractionRepository) FindApproved(filter AttractionFilter) ([]model.Attraction, error) {
	query := r.DB.Where("is_approved = ?", true)

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if region := strings.TrimSpace(filter.Region); region != "" {
		query = query.Where("LOWER(region) = ?", strings.ToLower(region))
	}
	if filter.MinRating > 0 {
		query = query.Where("rating >= ?", filter.MinRating)
	}

	var attractions []model.Attraction
	err := query.Order("name ASC").Find(&attractions).Error
	return attractions, err
}

func (r *AttractionRepository) FindByID(id uint) (*model.Attraction, error) {
	var attraction model.Attraction
	err := r.DB.First(&attraction, id).Error
	return &attraction, err
}

func (r *AttractionRepository) FindApprovedByID(id uint) (*model.Attraction, error) {
	var attraction model.Attraction
	err := r.DB.Where("id = ? AND is_approved = ?", id, true).First(&attraction).Error
	return &attraction, err
}

func (r *AttractionRepository) Create(attraction *model.Attraction) error {
	return r.DB.Create(attraction).Error
}

func (r *AttractionRepository) Update(attraction *model.Attraction) error {
	return r.DB.Save(attraction).Error
}

func (r *AttractionRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Attraction{}, id).Error
}
