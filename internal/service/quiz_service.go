package service

import (
	"errors"
	"rovia_backend/internal/model"
	"rovia_backend/internal/repository"
	"rovia_backend/internal/util"
	"rovia_backend/pkg/logger"
	"rovia_backend/pkg/monitoring"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type QuizService struct {
	QuizRepo       *repository.QuizRepository
	AttractionRepo *repository.AttractionRepository
	ProgressRepo   *repository.ProgressRepository
	UserRepo       *repository.UserRepository
	DB             *gorm.DB
}

func NewQuizService(
	quizRepo *repository.QuizRepository,
	attractionRepo *repository.AttractionRepository,
	progressRepo *repository.ProgressRepository,
	userRepo *repository.UserRepository,
	db *gorm.DB,
) *QuizService {
	return &QuizService{
		QuizRepo:       quizRepo,
		AttractionRepo: attractionRepo,
		ProgressRepo:   progressRepo,
		UserRepo:       userRepo,
		DB:             db,
	}
}

type QuizAnswerRequest struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"isCorrect"`
	Order     int    `json:"order"`
}

type QuizQuestionRequest struct {
	Text        string              `json:"text" binding:"required"`
	PointsValue int                 `json:"pointsValue" binding:"required,min=1"`
	Order       int                 `json:"order"`
	Answers     []QuizAnswerRequest `json:"answers" binding:"required,min=2,dive"`
}

type QuizCreateRequest struct {
	AttractionID    uint                  `json:"attractionId" binding:"required"`
	Title           string                `json:"title" binding:"required"`
	Description     string                `json:"description"`
	DifficultyLevel int                   `json:"difficultyLevel" binding:"min=1,max=5"`
	TimeLimit       int                   `json:"timeLimit"`
	Questions       []QuizQuestionRequest `json:"questions" binding:"required,min=1,dive"`
}

type QuizUpdateRequest = QuizCreateRequest

// QuizSubmissionRequest carries the answer map keyed by question id. The
// time spent is reported by the client; the server never enforces the limit.
type QuizSubmissionRequest struct {
	Answers          map[uint]uint `json:"answers" binding:"required"`
	TimeSpentSeconds int           `json:"timeSpentSeconds"`
}

// SubmissionResult is the scoring outcome returned to the player.
type SubmissionResult struct {
	PointsEarned         int `json:"pointsEarned"`
	BasePoints           int `json:"basePoints"`
	DifficultyMultiplier int `json:"difficultyMultiplier"`
	MaxPoints            int `json:"maxPoints"`
	CorrectAnswers       int `json:"correctAnswers"`
	TotalQuestions       int `json:"totalQuestions"`
	QuestionPoolSize     int `json:"questionPoolSize"`
}

// gradeSubmission scores an answer map against a loaded question tree. Pure:
// no side effects, deterministic for identical inputs. Only questions present
// in the answer map count, so a partial submission's ceiling reflects what was
// attempted. Returns ok=false when no submitted question id belongs to the quiz.
func gradeSubmission(quiz *model.Quiz, answers map[uint]uint) (*SubmissionResult, bool) {
	if len(answers) == 0 {
		return nil, false
	}

	correctCount := 0
	earnedBasePoints := 0
	potentialBasePoints := 0
	answeredCount := 0

	for _, question := range quiz.Questions {
		selectedAnswerID, answered := answers[question.ID]
		if !answered {
			continue
		}
		answeredCount++
		potentialBasePoints += question.PointsValue

		// An answer id that does not belong to the question is treated
		// as incorrect, not as an error.
		for _, answer := range question.Answers {
			if answer.ID == selectedAnswerID {
				if answer.IsCorrect {
					correctCount++
					earnedBasePoints += question.PointsValue
				}
				break
			}
		}
	}

	if answeredCount == 0 {
		return nil, false
	}

	multiplier := quiz.DifficultyLevel
	if multiplier < 1 {
		multiplier = 1
	}

	return &SubmissionResult{
		PointsEarned:         earnedBasePoints * multiplier,
		BasePoints:           earnedBasePoints,
		DifficultyMultiplier: multiplier,
		MaxPoints:            potentialBasePoints * multiplier,
		CorrectAnswers:       correctCount,
		TotalQuestions:       answeredCount,
		QuestionPoolSize:     len(quiz.Questions),
	}, true
}

// SubmitQuiz scores a submission and commits the outcome. The ledger append
// and the point increment share one transaction; a nil result with nil error
// means the submission was a no-op (unknown quiz, empty or disjoint answers).
func (s *QuizService) SubmitQuiz(userID, quizID uint, req QuizSubmissionRequest) (*SubmissionResult, error) {
	quiz, err := s.QuizRepo.FindWithTree(quizID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	result, ok := gradeSubmission(quiz, req.Answers)
	if !ok {
		monitoring.QuizSubmissions.WithLabelValues("rejected").Inc()
		return nil, nil
	}

	timeSpent := req.TimeSpentSeconds
	if timeSpent < 0 {
		timeSpent = 0
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		progress := &model.UserProgress{
			UserID:           userID,
			QuizID:           quizID,
			PointsEarned:     result.PointsEarned,
			CorrectAnswers:   result.CorrectAnswers,
			TotalQuestions:   result.TotalQuestions,
			IsCompleted:      true,
			CompletedAt:      time.Now(),
			TimeSpentSeconds: timeSpent,
		}
		if err := s.ProgressRepo.Append(tx, progress); err != nil {
			return err
		}
		return s.UserRepo.AddPoints(tx, userID, result.PointsEarned)
	})
	if err != nil {
		return nil, err
	}

	monitoring.QuizSubmissions.WithLabelValues("scored").Inc()
	logger.Log.Info("quiz scored",
		zap.Uint("userId", userID),
		zap.Uint("quizId", quizID),
		zap.Int("pointsEarned", result.PointsEarned),
		zap.Int("correctAnswers", result.CorrectAnswers),
	)

	return result, nil
}

// PlayAnswer hides correctness from the player-facing quiz payload.
type PlayAnswer struct {
	ID    uint   `json:"id"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

type PlayQuestion struct {
	ID          uint         `json:"id"`
	Text        string       `json:"text"`
	PointsValue int          `json:"pointsValue"`
	Order       int          `json:"order"`
	Answers     []PlayAnswer `json:"answers"`
}

type PlayQuiz struct {
	ID              uint           `json:"id"`
	AttractionID    uint           `json:"attractionId"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	DifficultyLevel int            `json:"difficultyLevel"`
	TimeLimit       int            `json:"timeLimit"`
	Questions       []PlayQuestion `json:"questions"`
}

func toPlayQuiz(quiz *model.Quiz) *PlayQuiz {
	play := &PlayQuiz{
		ID:              quiz.ID,
		AttractionID:    quiz.AttractionID,
		Title:           quiz.Title,
		Description:     quiz.Description,
		DifficultyLevel: quiz.DifficultyLevel,
		TimeLimit:       quiz.TimeLimit,
		Questions:       make([]PlayQuestion, 0, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		pq := PlayQuestion{
			ID:          q.ID,
			Text:        q.Text,
			PointsValue: q.PointsValue,
			Order:       q.Order,
			Answers:     make([]PlayAnswer, 0, len(q.Answers)),
		}
		for _, a := range q.Answers {
			pq.Answers = append(pq.Answers, PlayAnswer{ID: a.ID, Text: a.Text, Order: a.Order})
		}
		play.Questions = append(play.Questions, pq)
	}
	return play
}

// GetQuizForPlay loads a quiz with its question tree, stripped of answer
// correctness flags.
func (s *QuizService) GetQuizForPlay(quizID uint) (*PlayQuiz, error) {
	quiz, err := s.QuizRepo.FindWithTree(quizID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}
	return toPlayQuiz(quiz), nil
}

// GetQuizzesByAttraction lists an attraction's quizzes in play-safe form.
func (s *QuizService) GetQuizzesByAttraction(attractionID uint) ([]*PlayQuiz, error) {
	quizzes, err := s.QuizRepo.FindByAttraction(attractionID)
	if err != nil {
		return nil, err
	}

	plays := make([]*PlayQuiz, 0, len(quizzes))
	for i := range quizzes {
		plays = append(plays, toPlayQuiz(&quizzes[i]))
	}
	return plays, nil
}

// GetQuizForManagement returns the full tree, owner or admin only.
func (s *QuizService) GetQuizForManagement(quizID, userID uint, isAdmin bool) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindWithTree(quizID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}

	if !isAdmin && quiz.CreatedByUserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return quiz, nil
}

// buildQuestion assembles a question with its answers from the authoring
// request. A question authored with no correct answer gets its first answer
// force-marked correct rather than being rejected; the fixup is logged so it
// stays visible.
func buildQuestion(req QuizQuestionRequest, order int) model.Question {
	question := model.Question{
		Text:        req.Text,
		PointsValue: req.PointsValue,
		Order:       order,
	}

	answerOrder := 1
	hasCorrect := false
	for _, a := range req.Answers {
		ord := a.Order
		if ord == 0 {
			ord = answerOrder
		}
		question.Answers = append(question.Answers, model.Answer{
			Text:      a.Text,
			IsCorrect: a.IsCorrect,
			Order:     ord,
		})
		if a.IsCorrect {
			hasCorrect = true
		}
		answerOrder++
	}

	if !hasCorrect && len(question.Answers) > 0 {
		question.Answers[0].IsCorrect = true
		logger.Log.Warn("question authored without a correct answer, first answer marked correct",
			zap.String("question", req.Text))
	}

	return question
}

// CreateQuiz creates a quiz on an attraction. Non-admins may only attach
// quizzes to attractions they created.
func (s *QuizService) CreateQuiz(userID uint, req QuizCreateRequest, isAdmin bool) (*model.Quiz, error) {
	attraction, err := s.AttractionRepo.FindByID(req.AttractionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAttractionNotFound
	}
	if err != nil {
		return nil, err
	}

	if !isAdmin && attraction.CreatedByUserID != userID {
		return nil, util.ErrPermissionDenied
	}

	quiz := &model.Quiz{
		AttractionID:    req.AttractionID,
		Title:           req.Title,
		Description:     req.Description,
		DifficultyLevel: req.DifficultyLevel,
		TimeLimit:       req.TimeLimit,
		CreatedByUserID: userID,
		IsApproved:      isAdmin || attraction.IsApproved,
	}

	order := 1
	for _, qr := range req.Questions {
		ord := qr.Order
		if ord == 0 {
			ord = order
		}
		quiz.Questions = append(quiz.Questions, buildQuestion(qr, ord))
		order++
	}

	if err := s.DB.Create(quiz).Error; err != nil {
		return nil, err
	}
	return quiz, nil
}

// UpdateQuiz replaces the quiz metadata and its whole question tree. Moving
// the quiz to another attraction requires ownership of the target as well.
func (s *QuizService) UpdateQuiz(quizID uint, req QuizUpdateRequest, userID uint, isAdmin bool) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindWithTree(quizID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}

	if !isAdmin && quiz.CreatedByUserID != userID {
		return nil, util.ErrPermissionDenied
	}

	if quiz.AttractionID != req.AttractionID {
		attraction, err := s.AttractionRepo.FindByID(req.AttractionID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttractionNotFound
		}
		if err != nil {
			return nil, err
		}
		if !isAdmin && attraction.CreatedByUserID != userID {
			return nil, util.ErrPermissionDenied
		}
		quiz.AttractionID = req.AttractionID
	}

	quiz.Title = req.Title
	quiz.Description = req.Description
	quiz.DifficultyLevel = req.DifficultyLevel
	quiz.TimeLimit = req.TimeLimit
	quiz.IsApproved = isAdmin || quiz.IsApproved

	newQuestions := make([]model.Question, 0, len(req.Questions))
	order := 1
	for _, qr := range req.Questions {
		ord := qr.Order
		if ord == 0 {
			ord = order
		}
		newQuestions = append(newQuestions, buildQuestion(qr, ord))
		order++
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.QuizRepo.DeleteQuestions(tx, quiz.ID); err != nil {
			return err
		}
		quiz.Questions = newQuestions
		for i := range quiz.Questions {
			quiz.Questions[i].QuizID = quiz.ID
		}
		if err := tx.Omit("Questions").Save(quiz).Error; err != nil {
			return err
		}
		if len(quiz.Questions) == 0 {
			return nil
		}
		return tx.Create(&quiz.Questions).Error
	})
	if err != nil {
		return nil, err
	}
	return quiz, nil
}

// DeleteQuiz removes a quiz, its question tree and its ledger rows in one
// transaction so no progress row is left dangling.
func (s *QuizService) DeleteQuiz(quizID, userID uint, isAdmin bool) error {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrQuizNotFound
	}
	if err != nil {
		return err
	}

	if !isAdmin && quiz.CreatedByUserID != userID {
		return util.ErrPermissionDenied
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.ProgressRepo.DeleteByQuiz(tx, quizID); err != nil {
			return err
		}
		return s.QuizRepo.DeleteTree(tx, quizID)
	})
}
