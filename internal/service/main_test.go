package service

import (
	"os"
	"testing"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"rovia_backend/internal/model"
	"rovia_backend/internal/repository"
	"rovia_backend/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	// One connection only: every pooled connection would otherwise get its
	// own empty in-memory database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&model.User{},
		&model.Attraction{},
		&model.Quiz{},
		&model.Question{},
		&model.Answer{},
		&model.UserProgress{},
		&model.Badge{},
		&model.UserBadge{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func newQuizService(db *gorm.DB) *QuizService {
	return NewQuizService(
		repository.NewQuizRepository(db),
		repository.NewAttractionRepository(db),
		repository.NewProgressRepository(db),
		repository.NewUserRepository(db),
		db,
	)
}

func newProfileService(db *gorm.DB) *ProfileService {
	return NewProfileService(
		repository.NewUserRepository(db),
		repository.NewProgressRepository(db),
		repository.NewBadgeRepository(db),
		nil,
	)
}

func createUser(t *testing.T, db *gorm.DB, username string, points int) *model.User {
	t.Helper()
	user := &model.User{
		Username:    username,
		Email:       username + "@example.com",
		Password:    "hashed",
		Role:        model.Tourist,
		TotalPoints: points,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func createAttraction(t *testing.T, db *gorm.DB, ownerID uint) *model.Attraction {
	t.Helper()
	attraction := &model.Attraction{
		Name:            "Bran Castle",
		Type:            model.AttractionHistoric,
		Region:          "Transylvania",
		CreatedByUserID: ownerID,
		IsApproved:      true,
	}
	if err := db.Create(attraction).Error; err != nil {
		t.Fatalf("create attraction: %v", err)
	}
	return attraction
}

// createQuizTree seeds a quiz with two questions worth 10 and 8 base points.
// The first answer of each question is the correct one.
func createQuizTree(t *testing.T, db *gorm.DB, attractionID, ownerID uint, difficulty int) *model.Quiz {
	t.Helper()
	quiz := &model.Quiz{
		AttractionID:    attractionID,
		Title:           "Castle history",
		DifficultyLevel: difficulty,
		CreatedByUserID: ownerID,
		IsApproved:      true,
		Questions: []model.Question{
			{
				Text:        "When was it built?",
				PointsValue: 10,
				Order:       1,
				Answers: []model.Answer{
					{Text: "1377", IsCorrect: true, Order: 1},
					{Text: "1512", Order: 2},
				},
			},
			{
				Text:        "Which river runs nearby?",
				PointsValue: 8,
				Order:       2,
				Answers: []model.Answer{
					{Text: "Turcu", IsCorrect: true, Order: 1},
					{Text: "Mures", Order: 2},
				},
			},
		},
	}
	if err := db.Create(quiz).Error; err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	return quiz
}
