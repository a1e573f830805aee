package controller

import (
	"errors"
	"rovia_backend/internal/service"
	"rovia_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

const defaultLeaderboardTake = 50

type ProfileController struct {
	ProfileService *service.ProfileService
}

func NewProfileController(profileService *service.ProfileService) *ProfileController {
	return &ProfileController{ProfileService: profileService}
}

// @Summary Get user profile
// @Description Points, level, badges and recent quiz history
// @Tags profile
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /profile [get]
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	profile, err := c.ProfileService.GetUserProfile(user.UserID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, profile)
}

// @Summary Get leaderboard
// @Description Users ranked by total points, ties broken by join date
// @Tags profile
// @Produce json
// @Param take query int false "number of entries" default(50) maximum(100)
// @Success 200 {object} util.Response
// @Router /leaderboard [get]
func (c *ProfileController) GetLeaderboard(ctx *gin.Context) {
	take := defaultLeaderboardTake
	if raw := ctx.Query("take"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			take = parsed
		}
	}

	entries, err := c.ProfileService.GetLeaderboard(take)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, entries)
}
