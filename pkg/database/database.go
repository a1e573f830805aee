package database

import (
	"fmt"
	"log"
	"rovia_backend/internal/config"
	"rovia_backend/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedDefaults(db)

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Attraction{},
		&model.Quiz{},
		&model.Question{},
		&model.Answer{},
		&model.UserProgress{},
		&model.Badge{},
		&model.UserBadge{},
	)
}

// seedDefaults inserts the default badge set and a bootstrap admin when the
// tables are empty. Catalog content is seeded elsewhere.
func seedDefaults(db *gorm.DB) {
	var badgeCount int64
	db.Model(&model.Badge{}).Count(&badgeCount)
	if badgeCount == 0 {
		defaultBadges := []model.Badge{
			{
				Name:           "First Star",
				Description:    "Complete your first quiz",
				IconURL:        "⭐",
				RequiredPoints: 0,
				Criteria:       `{"quizzesCompleted": 1}`,
			},
			{
				Name:           "Explorer",
				Description:    "Complete 5 quizzes",
				IconURL:        "🗺️",
				RequiredPoints: 0,
				Criteria:       `{"quizzesCompleted": 5}`,
			},
			{
				Name:           "Champion",
				Description:    "Earn 500 points",
				IconURL:        "🏆",
				RequiredPoints: 500,
				Criteria:       `{"totalPoints": 500}`,
			},
		}
		for _, b := range defaultBadges {
			db.Create(&b)
		}
	}

	var adminCount int64
	db.Model(&model.User{}).Where("role = ?", model.Admin).Count(&adminCount)
	if adminCount == 0 {
		hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err != nil {
			return
		}
		db.Create(&model.User{
			Username: "admin",
			Email:    "admin@rovia.local",
			Password: string(hashed),
			Role:     model.Admin,
		})
	}
}
