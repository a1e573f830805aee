package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"rovia_backend/internal/model"
	"rovia_backend/internal/util"
)

func sampleQuiz(difficulty int) *model.Quiz {
	return &model.Quiz{
		BaseModel:       model.BaseModel{ID: 1},
		DifficultyLevel: difficulty,
		Questions: []model.Question{
			{
				BaseModel:   model.BaseModel{ID: 10},
				PointsValue: 10,
				Answers: []model.Answer{
					{BaseModel: model.BaseModel{ID: 100}, IsCorrect: true},
					{BaseModel: model.BaseModel{ID: 101}},
				},
			},
			{
				BaseModel:   model.BaseModel{ID: 11},
				PointsValue: 8,
				Answers: []model.Answer{
					{BaseModel: model.BaseModel{ID: 110}, IsCorrect: true},
					{BaseModel: model.BaseModel{ID: 111}},
				},
			},
		},
	}
}

func TestGradeSubmission(t *testing.T) {
	tests := []struct {
		name       string
		difficulty int
		answers    map[uint]uint
		want       *SubmissionResult
		wantOK     bool
	}{
		{
			name:       "all correct",
			difficulty: 1,
			answers:    map[uint]uint{10: 100, 11: 110},
			want: &SubmissionResult{
				PointsEarned: 18, BasePoints: 18, DifficultyMultiplier: 1,
				MaxPoints: 18, CorrectAnswers: 2, TotalQuestions: 2, QuestionPoolSize: 2,
			},
			wantOK: true,
		},
		{
			name:       "one correct one wrong with multiplier",
			difficulty: 2,
			answers:    map[uint]uint{10: 100, 11: 111},
			want: &SubmissionResult{
				PointsEarned: 20, BasePoints: 10, DifficultyMultiplier: 2,
				MaxPoints: 36, CorrectAnswers: 1, TotalQuestions: 2, QuestionPoolSize: 2,
			},
			wantOK: true,
		},
		{
			name:       "partial submission caps the ceiling at answered questions",
			difficulty: 2,
			answers:    map[uint]uint{10: 100},
			want: &SubmissionResult{
				PointsEarned: 20, BasePoints: 10, DifficultyMultiplier: 2,
				MaxPoints: 20, CorrectAnswers: 1, TotalQuestions: 1, QuestionPoolSize: 2,
			},
			wantOK: true,
		},
		{
			name:       "answer id from another question scores as incorrect",
			difficulty: 1,
			answers:    map[uint]uint{10: 110, 11: 110},
			want: &SubmissionResult{
				PointsEarned: 8, BasePoints: 8, DifficultyMultiplier: 1,
				MaxPoints: 18, CorrectAnswers: 1, TotalQuestions: 2, QuestionPoolSize: 2,
			},
			wantOK: true,
		},
		{
			name:       "zero difficulty still multiplies by one",
			difficulty: 0,
			answers:    map[uint]uint{10: 100},
			want: &SubmissionResult{
				PointsEarned: 10, BasePoints: 10, DifficultyMultiplier: 1,
				MaxPoints: 10, CorrectAnswers: 1, TotalQuestions: 1, QuestionPoolSize: 2,
			},
			wantOK: true,
		},
		{
			name:       "empty answer map",
			difficulty: 1,
			answers:    map[uint]uint{},
			wantOK:     false,
		},
		{
			name:       "no submitted id belongs to the quiz",
			difficulty: 1,
			answers:    map[uint]uint{99: 1},
			wantOK:     false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := gradeSubmission(sampleQuiz(tt.difficulty), tt.answers)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestGradeSubmissionDeterministic(t *testing.T) {
	quiz := sampleQuiz(3)
	answers := map[uint]uint{10: 100, 11: 111}

	first, ok := gradeSubmission(quiz, answers)
	require.True(t, ok)
	for i := 0; i < 10; i++ {
		again, ok := gradeSubmission(quiz, answers)
		require.True(t, ok)
		assert.Equal(t, first, again)
	}
}

func TestSubmitQuizCommitsLedgerAndPoints(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(db)

	owner := createUser(t, db, "owner", 0)
	player := createUser(t, db, "player", 0)
	attraction := createAttraction(t, db, owner.ID)
	quiz := createQuizTree(t, db, attraction.ID, owner.ID, 2)

	answers := map[uint]uint{
		quiz.Questions[0].ID: quiz.Questions[0].Answers[0].ID, // correct
		quiz.Questions[1].ID: quiz.Questions[1].Answers[1].ID, // wrong
	}

	result, err := svc.SubmitQuiz(player.ID, quiz.ID, QuizSubmissionRequest{Answers: answers, TimeSpentSeconds: 42})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 20, result.PointsEarned)
	assert.Equal(t, 1, result.CorrectAnswers)

	// Replays append a fresh ledger row and add points again.
	result, err = svc.SubmitQuiz(player.ID, quiz.ID, QuizSubmissionRequest{Answers: answers})
	require.NoError(t, err)
	require.NotNil(t, result)

	var ledgerRows int64
	require.NoError(t, db.Model(&model.UserProgress{}).Where("user_id = ?", player.ID).Count(&ledgerRows).Error)
	assert.EqualValues(t, 2, ledgerRows)

	var updated model.User
	require.NoError(t, db.First(&updated, player.ID).Error)
	assert.Equal(t, 40, updated.TotalPoints)
}

func TestSubmitQuizNoOps(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(db)

	owner := createUser(t, db, "owner", 0)
	player := createUser(t, db, "player", 0)
	attraction := createAttraction(t, db, owner.ID)
	quiz := createQuizTree(t, db, attraction.ID, owner.ID, 1)

	t.Run("unknown quiz", func(t *testing.T) {
		result, err := svc.SubmitQuiz(player.ID, 9999, QuizSubmissionRequest{Answers: map[uint]uint{1: 1}})
		require.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("empty answers", func(t *testing.T) {
		result, err := svc.SubmitQuiz(player.ID, quiz.ID, QuizSubmissionRequest{Answers: map[uint]uint{}})
		require.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("disjoint question ids", func(t *testing.T) {
		result, err := svc.SubmitQuiz(player.ID, quiz.ID, QuizSubmissionRequest{Answers: map[uint]uint{9999: 1}})
		require.NoError(t, err)
		assert.Nil(t, result)
	})

	var ledgerRows int64
	require.NoError(t, db.Model(&model.UserProgress{}).Count(&ledgerRows).Error)
	assert.EqualValues(t, 0, ledgerRows, "no-op submissions must not touch the ledger")

	var unchanged model.User
	require.NoError(t, db.First(&unchanged, player.ID).Error)
	assert.Equal(t, 0, unchanged.TotalPoints)
}

func TestCreateQuizMarksFirstAnswerCorrectWhenNoneIs(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(db)

	owner := createUser(t, db, "owner", 0)
	attraction := createAttraction(t, db, owner.ID)

	quiz, err := svc.CreateQuiz(owner.ID, QuizCreateRequest{
		AttractionID:    attraction.ID,
		Title:           "Sloppy quiz",
		DifficultyLevel: 1,
		Questions: []QuizQuestionRequest{
			{
				Text:        "Pick one",
				PointsValue: 5,
				Answers: []QuizAnswerRequest{
					{Text: "first"},
					{Text: "second"},
				},
			},
		},
	}, false)
	require.NoError(t, err)

	var answers []model.Answer
	require.NoError(t, db.Where("question_id = ?", quiz.Questions[0].ID).Order("display_order ASC").Find(&answers).Error)
	require.Len(t, answers, 2)
	assert.True(t, answers[0].IsCorrect)
	assert.False(t, answers[1].IsCorrect)
}

func TestCreateQuizOwnershipGuard(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(db)

	owner := createUser(t, db, "owner", 0)
	stranger := createUser(t, db, "stranger", 0)
	attraction := createAttraction(t, db, owner.ID)

	req := QuizCreateRequest{
		AttractionID:    attraction.ID,
		Title:           "Not yours",
		DifficultyLevel: 1,
		Questions: []QuizQuestionRequest{
			{Text: "Q", PointsValue: 1, Answers: []QuizAnswerRequest{{Text: "a", IsCorrect: true}, {Text: "b"}}},
		},
	}

	_, err := svc.CreateQuiz(stranger.ID, req, false)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	// Admin may attach quizzes to anyone's attraction.
	_, err = svc.CreateQuiz(stranger.ID, req, true)
	assert.NoError(t, err)
}

func TestUpdateQuizDeniedForNonOwnerLeavesDataIntact(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(db)

	owner := createUser(t, db, "owner", 0)
	stranger := createUser(t, db, "stranger", 0)
	attraction := createAttraction(t, db, owner.ID)
	quiz := createQuizTree(t, db, attraction.ID, owner.ID, 1)

	_, err := svc.UpdateQuiz(quiz.ID, QuizUpdateRequest{
		AttractionID:    attraction.ID,
		Title:           "Hijacked",
		DifficultyLevel: 5,
		Questions: []QuizQuestionRequest{
			{Text: "Q", PointsValue: 1, Answers: []QuizAnswerRequest{{Text: "a", IsCorrect: true}, {Text: "b"}}},
		},
	}, stranger.ID, false)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	var reloaded model.Quiz
	require.NoError(t, db.First(&reloaded, quiz.ID).Error)
	assert.Equal(t, "Castle history", reloaded.Title)
	assert.Equal(t, 1, reloaded.DifficultyLevel)

	var questionCount int64
	require.NoError(t, db.Model(&model.Question{}).Where("quiz_id = ?", quiz.ID).Count(&questionCount).Error)
	assert.EqualValues(t, 2, questionCount)
}

func TestUpdateQuizReplacesQuestionTree(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(db)

	owner := createUser(t, db, "owner", 0)
	attraction := createAttraction(t, db, owner.ID)
	quiz := createQuizTree(t, db, attraction.ID, owner.ID, 1)
	oldQuestionID := quiz.Questions[0].ID

	updated, err := svc.UpdateQuiz(quiz.ID, QuizUpdateRequest{
		AttractionID:    attraction.ID,
		Title:           "Castle history v2",
		DifficultyLevel: 3,
		Questions: []QuizQuestionRequest{
			{
				Text:        "Single replacement question",
				PointsValue: 20,
				Answers:     []QuizAnswerRequest{{Text: "yes", IsCorrect: true}, {Text: "no"}},
			},
		},
	}, owner.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "Castle history v2", updated.Title)
	assert.Equal(t, 3, updated.DifficultyLevel)

	fresh, err := svc.QuizRepo.FindWithTree(quiz.ID)
	require.NoError(t, err)
	require.Len(t, fresh.Questions, 1)
	assert.Equal(t, "Single replacement question", fresh.Questions[0].Text)
	assert.NotEqual(t, oldQuestionID, fresh.Questions[0].ID)

	var orphanAnswers int64
	require.NoError(t, db.Model(&model.Answer{}).Where("question_id = ?", oldQuestionID).Count(&orphanAnswers).Error)
	assert.EqualValues(t, 0, orphanAnswers)
}

func TestDeleteQuizRemovesLedgerRows(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(db)

	owner := createUser(t, db, "owner", 0)
	player := createUser(t, db, "player", 0)
	attraction := createAttraction(t, db, owner.ID)
	quiz := createQuizTree(t, db, attraction.ID, owner.ID, 1)

	answers := map[uint]uint{quiz.Questions[0].ID: quiz.Questions[0].Answers[0].ID}
	_, err := svc.SubmitQuiz(player.ID, quiz.ID, QuizSubmissionRequest{Answers: answers})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteQuiz(quiz.ID, owner.ID, false))

	var ledgerRows int64
	require.NoError(t, db.Model(&model.UserProgress{}).Where("quiz_id = ?", quiz.ID).Count(&ledgerRows).Error)
	assert.EqualValues(t, 0, ledgerRows)

	_, err = svc.QuizRepo.FindWithTree(quiz.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Earned points survive quiz deletion.
	var survivor model.User
	require.NoError(t, db.First(&survivor, player.ID).Error)
	assert.Equal(t, 10, survivor.TotalPoints)
}

func TestGetQuizForPlayHidesCorrectness(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(db)

	owner := createUser(t, db, "owner", 0)
	attraction := createAttraction(t, db, owner.ID)
	quiz := createQuizTree(t, db, attraction.ID, owner.ID, 2)

	play, err := svc.GetQuizForPlay(quiz.ID)
	require.NoError(t, err)
	require.Len(t, play.Questions, 2)
	for _, q := range play.Questions {
		assert.Len(t, q.Answers, 2)
	}

	_, err = svc.GetQuizForPlay(9999)
	assert.ErrorIs(t, err, util.ErrQuizNotFound)
}
