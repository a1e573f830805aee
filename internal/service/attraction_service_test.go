package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rovia_backend/internal/model"
	"rovia_backend/internal/repository"
	"rovia_backend/internal/util"
)

func TestAttractionApprovalVisibility(t *testing.T) {
	db := newTestDB(t)
	svc := NewAttractionService(repository.NewAttractionRepository(db))

	promoter := createUser(t, db, "promoter", 0)
	admin := createUser(t, db, "admin", 0)

	req := AttractionUpsertRequest{
		Name:   "Peles Castle",
		Type:   model.AttractionHistoric,
		Region: "Prahova",
		Rating: 4.8,
	}

	pending, err := svc.Create(promoter.ID, req, false)
	require.NoError(t, err)
	assert.False(t, pending.IsApproved, "promoter submissions wait for moderation")

	approved, err := svc.Create(admin.ID, req, true)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)

	// The public catalog only shows approved attractions.
	listed, err := svc.List(repository.AttractionFilter{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, approved.ID, listed[0].ID)

	_, err = svc.Get(pending.ID)
	assert.ErrorIs(t, err, util.ErrAttractionNotFound)

	got, err := svc.Get(approved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Peles Castle", got.Name)
}

func TestAttractionListFilters(t *testing.T) {
	db := newTestDB(t)
	svc := NewAttractionService(repository.NewAttractionRepository(db))

	admin := createUser(t, db, "admin", 0)

	seed := func(name string, kind model.AttractionType, region string, rating float64) {
		_, err := svc.Create(admin.ID, AttractionUpsertRequest{
			Name: name, Type: kind, Region: region, Rating: rating,
		}, true)
		require.NoError(t, err)
	}
	seed("Bran Castle", model.AttractionHistoric, "Transylvania", 4.5)
	seed("Turda Gorge", model.AttractionNatural, "Transylvania", 4.7)
	seed("Palace of Parliament", model.AttractionHistoric, "Bucharest", 4.0)

	byType, err := svc.List(repository.AttractionFilter{Type: model.AttractionHistoric})
	require.NoError(t, err)
	assert.Len(t, byType, 2)

	// Region matching is case-insensitive.
	byRegion, err := svc.List(repository.AttractionFilter{Region: "transylvania"})
	require.NoError(t, err)
	assert.Len(t, byRegion, 2)

	byRating, err := svc.List(repository.AttractionFilter{MinRating: 4.6})
	require.NoError(t, err)
	require.Len(t, byRating, 1)
	assert.Equal(t, "Turda Gorge", byRating[0].Name)
}

func TestAttractionUpdateOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := NewAttractionService(repository.NewAttractionRepository(db))

	owner := createUser(t, db, "owner", 0)
	stranger := createUser(t, db, "stranger", 0)

	attraction, err := svc.Create(owner.ID, AttractionUpsertRequest{
		Name: "Corvin Castle", Type: model.AttractionHistoric, Region: "Hunedoara",
	}, false)
	require.NoError(t, err)

	req := AttractionUpsertRequest{
		Name: "Renamed", Type: model.AttractionHistoric, Region: "Hunedoara",
	}

	_, err = svc.Update(attraction.ID, stranger.ID, req, false)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	err = svc.Delete(attraction.ID, stranger.ID, false)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	updated, err := svc.Update(attraction.ID, owner.ID, req, false)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.False(t, updated.IsApproved, "owner edits do not self-approve")

	require.NoError(t, svc.Delete(attraction.ID, owner.ID, false))
	_, err = svc.Update(attraction.ID, owner.ID, req, false)
	assert.ErrorIs(t, err, util.ErrAttractionNotFound)
}
