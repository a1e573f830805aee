package service

import (
	"errors"
	"rovia_backend/internal/model"
	"rovia_backend/internal/repository"
	"rovia_backend/internal/util"

	"gorm.io/gorm"
)

type AttractionService struct {
	AttractionRepo *repository.AttractionRepository
}

func NewAttractionService(attractionRepo *repository.AttractionRepository) *AttractionService {
	return &AttractionService{AttractionRepo: attractionRepo}
}

type AttractionUpsertRequest struct {
	Name        string               `json:"name" binding:"required"`
	Description string               `json:"description"`
	Latitude    float64              `json:"latitude"`
	Longitude   float64              `json:"longitude"`
	Type        model.AttractionType `json:"type" binding:"required"`
	Region      string               `json:"region"`
	ImageURL    string               `json:"imageUrl"`
	Rating      float64              `json:"rating" binding:"min=0,max=5"`
}

func (s *AttractionService) List(filter repository.AttractionFilter) ([]model.Attraction, error) {
	return s.AttractionRepo.FindApproved(filter)
}

// Get returns an approved attraction, the only kind visible to the public
// catalog.
func (s *AttractionService) Get(id uint) (*model.Attraction, error) {
	attraction, err := s.AttractionRepo.FindApprovedByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAttractionNotFound
	}
	if err != nil {
		return nil, err
	}
	return attraction, nil
}

// Create adds an attraction. Admin submissions are approved immediately;
// promoter submissions wait for moderation.
func (s *AttractionService) Create(userID uint, req AttractionUpsertRequest, isAdmin bool) (*model.Attraction, error) {
	attraction := &model.Attraction{
		Name:            req.Name,
		Description:     req.Description,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		Type:            req.Type,
		Region:          req.Region,
		ImageURL:        req.ImageURL,
		Rating:          req.Rating,
		CreatedByUserID: userID,
		IsApproved:      isAdmin,
	}

	if err := s.AttractionRepo.Create(attraction); err != nil {
		return nil, err
	}
	return attraction, nil
}

func (s *AttractionService) Update(id, userID uint, req AttractionUpsertRequest, isAdmin bool) (*model.Attraction, error) {
	attraction, err := s.AttractionRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAttractionNotFound
	}
	if err != nil {
		return nil, err
	}

	if !isAdmin && attraction.CreatedByUserID != userID {
		return nil, util.ErrPermissionDenied
	}

	attraction.Name = req.Name
	attraction.Description = req.Description
	attraction.Latitude = req.Latitude
	attraction.Longitude = req.Longitude
	attraction.Type = req.Type
	attraction.Region = req.Region
	attraction.ImageURL = req.ImageURL
	attraction.Rating = req.Rating
	attraction.IsApproved = isAdmin || attraction.IsApproved

	if err := s.AttractionRepo.Update(attraction); err != nil {
		return nil, err
	}
	return attraction, nil
}

func (s *AttractionService) Delete(id, userID uint, isAdmin bool) error {
	attraction, err := s.AttractionRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrAttractionNotFound
	}
	if err != nil {
		return err
	}

	if !isAdmin && attraction.CreatedByUserID != userID {
		return util.ErrPermissionDenied
	}

	return s.AttractionRepo.Delete(id)
}

// SetImage stores the uploaded image URL on the attraction, owner or admin
// only.
func (s *AttractionService) SetImage(id, userID uint, imageURL string, isAdmin bool) (*model.Attraction, error) {
	attraction, err := s.AttractionRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAttractionNotFound
	}
	if err != nil {
		return nil, err
	}

	if !isAdmin && attraction.CreatedByUserID != userID {
		return nil, util.ErrPermissionDenied
	}

	attraction.ImageURL = imageURL
	if err := s.AttractionRepo.Update(attraction); err != nil {
		return nil, err
	}
	return attraction, nil
}
