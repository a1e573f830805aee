package controller

import (
	"errors"
	"rovia_backend/internal/service"
	"rovia_backend/internal/util"
	"rovia_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type QuizController struct {
	QuizService    *service.QuizService
	ProfileService *service.ProfileService
}

func NewQuizController(quizService *service.QuizService, profileService *service.ProfileService) *QuizController {
	return &QuizController{
		QuizService:    quizService,
		ProfileService: profileService,
	}
}

// @Summary List quizzes for an attraction
// @Tags quizzes
// @Produce json
// @Param id path int true "attraction id"
// @Success 200 {object} util.Response
// @Router /attractions/{id}/quizzes [get]
func (c *QuizController) ListByAttraction(ctx *gin.Context) {
	attractionID := util.MustParseUint(ctx.Param("id"))

	quizzes, err := c.QuizService.GetQuizzesByAttraction(attractionID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, quizzes)
}

// @Summary Get quiz for play
// @Description Quiz with questions and answers, correctness hidden
// @Tags quizzes
// @Produce json
// @Param id path int true "quiz id"
// @Success 200 {object} util.Response
// @Router /quizzes/{id} [get]
func (c *QuizController) GetForPlay(ctx *gin.Context) {
	quizID := util.MustParseUint(ctx.Param("id"))

	quiz, err := c.QuizService.GetQuizForPlay(quizID)
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, quiz)
}

// @Summary Submit quiz answers
// @Description Score a submission, record progress and points, re-check badges
// @Tags quizzes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "quiz id"
// @Param request body service.QuizSubmissionRequest true "answer map keyed by question id"
// @Success 200 {object} util.Response
// @Router /quizzes/{id}/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	quizID := util.MustParseUint(ctx.Param("id"))

	var req service.QuizSubmissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if len(req.Answers) == 0 {
		util.BadRequest(ctx, "answers must not be empty")
		return
	}

	result, err := c.QuizService.SubmitQuiz(user.UserID, quizID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if result == nil {
		util.NotFound(ctx)
		return
	}

	// Badge evaluation is best-effort relative to the scoring commit: its
	// failure never rolls back the recorded submission.
	if _, err := c.ProfileService.EvaluateAndUnlockBadges(user.UserID); err != nil {
		logger.Log.Error("badge evaluation failed after submission",
			zap.Uint("userId", user.UserID), zap.Error(err))
	}

	util.Success(ctx, result)
}

// @Summary Get quiz for management
// @Description Full question tree including correct answers, owner or admin only
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "quiz id"
// @Success 200 {object} util.Response
// @Router /manage/quizzes/{id} [get]
func (c *QuizController) GetForManagement(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	quizID := util.MustParseUint(ctx.Param("id"))

	quiz, err := c.QuizService.GetQuizForManagement(quizID, user.UserID, user.IsAdmin())
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, quiz)
}

// @Summary Create quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body service.QuizCreateRequest true "Quiz payload"
// @Success 201 {object} util.Response
// @Router /quizzes [post]
func (c *QuizController) Create(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.QuizCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.CreateQuiz(user.UserID, req, user.IsAdmin())
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAttractionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, quiz)
}

// @Summary Update quiz
// @Description Replaces the quiz metadata and its entire question tree
// @Tags quizzes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "quiz id"
// @Param request body service.QuizUpdateRequest true "Quiz payload"
// @Success 200 {object} util.Response
// @Router /quizzes/{id} [put]
func (c *QuizController) Update(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	quizID := util.MustParseUint(ctx.Param("id"))

	var req service.QuizUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.UpdateQuiz(quizID, req, user.UserID, user.IsAdmin())
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound), errors.Is(err, util.ErrAttractionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, quiz)
}

// @Summary Delete quiz
// @Description Removes the quiz and its progress records
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "quiz id"
// @Success 200 {object} util.Response
// @Router /quizzes/{id} [delete]
func (c *QuizController) Delete(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	quizID := util.MustParseUint(ctx.Param("id"))

	if err := c.QuizService.DeleteQuiz(quizID, user.UserID, user.IsAdmin()); err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}
