package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"rovia_backend/internal/model"
	"rovia_backend/internal/repository"
	"rovia_backend/internal/util"
	"rovia_backend/pkg/logger"
	"rovia_backend/pkg/monitoring"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	recentProgressLimit = 5
	leaderboardMaxTake  = 100
	// Ranks are recomputed from the store on every miss; the cache only
	// smooths read bursts, it is never authoritative.
	leaderboardCacheTTL = 15 * time.Second
)

type ProfileService struct {
	UserRepo     *repository.UserRepository
	ProgressRepo *repository.ProgressRepository
	BadgeRepo    *repository.BadgeRepository
	Redis        *redis.Client
}

func NewProfileService(
	userRepo *repository.UserRepository,
	progressRepo *repository.ProgressRepository,
	badgeRepo *repository.BadgeRepository,
	rdb *redis.Client,
) *ProfileService {
	return &ProfileService{
		UserRepo:     userRepo,
		ProgressRepo: progressRepo,
		BadgeRepo:    badgeRepo,
		Redis:        rdb,
	}
}

type ProfileBadge struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IconURL     string    `json:"iconUrl"`
	UnlockedAt  time.Time `json:"unlockedAt"`
}

type NextBadgeInfo struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	IconURL         string `json:"iconUrl"`
	RequiredPoints  int    `json:"requiredPoints"`
	PointsRemaining int    `json:"pointsRemaining"`
}

type RecentProgressEntry struct {
	QuizTitle      string    `json:"quizTitle"`
	AttractionName string    `json:"attractionName"`
	PointsEarned   int       `json:"pointsEarned"`
	CorrectAnswers int       `json:"correctAnswers"`
	TotalQuestions int       `json:"totalQuestions"`
	CompletedAt    time.Time `json:"completedAt"`
}

type UserProfile struct {
	ID               uint                  `json:"id"`
	Username         string                `json:"username"`
	Email            string                `json:"email"`
	TotalPoints      int                   `json:"totalPoints"`
	Level            int                   `json:"level"`
	LevelName        string                `json:"levelName"`
	LevelProgress    float64               `json:"levelProgress"`
	PointsToNextLevel int                  `json:"pointsToNextLevel"`
	QuizzesCompleted int64                 `json:"quizzesCompleted"`
	Badges           []ProfileBadge        `json:"badges"`
	NextBadge        *NextBadgeInfo        `json:"nextBadge,omitempty"`
	RecentProgress   []RecentProgressEntry `json:"recentProgress"`
}

// GetUserProfile composes points, level, badges and recent ledger entries
// into one response.
func (s *ProfileService) GetUserProfile(userID uint) (*UserProfile, error) {
	user, err := s.UserRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	quizzesCompleted, err := s.ProgressRepo.CompletedCount(userID)
	if err != nil {
		return nil, err
	}

	unlocked, err := s.BadgeRepo.FindUnlocked(userID)
	if err != nil {
		return nil, err
	}

	nextBadge, err := s.BadgeRepo.NextLocked(userID)
	if err != nil {
		return nil, err
	}

	recent, err := s.ProgressRepo.Recent(userID, recentProgressLimit)
	if err != nil {
		return nil, err
	}

	levelInfo := CalculateLevel(user.TotalPoints)

	profile := &UserProfile{
		ID:                user.ID,
		Username:          user.Username,
		Email:             user.Email,
		TotalPoints:       user.TotalPoints,
		Level:             levelInfo.Level,
		LevelName:         levelInfo.Name,
		LevelProgress:     levelInfo.Progress,
		PointsToNextLevel: levelInfo.PointsToNextLevel,
		QuizzesCompleted:  quizzesCompleted,
		Badges:            make([]ProfileBadge, 0, len(unlocked)),
		RecentProgress:    make([]RecentProgressEntry, 0, len(recent)),
	}

	for _, ub := range unlocked {
		if ub.Badge == nil {
			continue
		}
		profile.Badges = append(profile.Badges, ProfileBadge{
			ID:          ub.Badge.ID,
			Name:        ub.Badge.Name,
			Description: ub.Badge.Description,
			IconURL:     ub.Badge.IconURL,
			UnlockedAt:  ub.UnlockedAt,
		})
	}

	if nextBadge != nil {
		remaining := nextBadge.RequiredPoints - user.TotalPoints
		if remaining < 0 {
			remaining = 0
		}
		profile.NextBadge = &NextBadgeInfo{
			ID:              nextBadge.ID,
			Name:            nextBadge.Name,
			Description:     nextBadge.Description,
			IconURL:         nextBadge.IconURL,
			RequiredPoints:  nextBadge.RequiredPoints,
			PointsRemaining: remaining,
		}
	}

	for _, p := range recent {
		entry := RecentProgressEntry{
			PointsEarned:   p.PointsEarned,
			CorrectAnswers: p.CorrectAnswers,
			TotalQuestions: p.TotalQuestions,
			CompletedAt:    p.CompletedAt,
		}
		if p.Quiz != nil {
			entry.QuizTitle = p.Quiz.Title
			if p.Quiz.Attraction != nil {
				entry.AttractionName = p.Quiz.Attraction.Name
			}
		}
		profile.RecentProgress = append(profile.RecentProgress, entry)
	}

	return profile, nil
}

// EvaluateAndUnlockBadges re-checks every locked badge against the user's
// current aggregates and grants the ones whose criteria hold. Idempotent: a
// second run with unchanged state grants nothing. A badge with a malformed
// criteria document is skipped without blocking the rest. Returns the number
// of badges granted.
func (s *ProfileService) EvaluateAndUnlockBadges(userID uint) (int, error) {
	user, err := s.UserRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, util.ErrUserNotFound
	}
	if err != nil {
		return 0, err
	}

	badges, err := s.BadgeRepo.FindAll()
	if err != nil {
		return 0, err
	}

	unlockedIDs, err := s.BadgeRepo.UnlockedBadgeIDs(userID)
	if err != nil {
		return 0, err
	}

	completedCount, err := s.ProgressRepo.CompletedCount(userID)
	if err != nil {
		return 0, err
	}

	granted := 0
	for _, badge := range badges {
		if unlockedIDs[badge.ID] {
			continue
		}

		criteria, err := model.ParseBadgeCriteria(badge.Criteria)
		if err != nil {
			// Fail closed: never unlock on a payload we cannot read.
			logger.Log.Warn("badge has malformed criteria, skipping",
				zap.Uint("badgeId", badge.ID), zap.Error(err))
			continue
		}

		if !criteria.Met(user.TotalPoints, int(completedCount)) {
			continue
		}

		err = s.BadgeRepo.Unlock(&model.UserBadge{
			UserID:     userID,
			BadgeID:    badge.ID,
			UnlockedAt: time.Now(),
		})
		if err != nil {
			return granted, err
		}
		granted++
		monitoring.BadgesUnlocked.Inc()
		logger.Log.Info("badge unlocked",
			zap.Uint("userId", userID), zap.Uint("badgeId", badge.ID), zap.String("badge", badge.Name))
	}

	return granted, nil
}

type LeaderboardEntry struct {
	UserID            uint       `json:"userId"`
	Username          string     `json:"username"`
	TotalPoints       int        `json:"totalPoints"`
	Level             int        `json:"level"`
	LevelName         string     `json:"levelName"`
	LevelProgress     float64    `json:"levelProgress"`
	PointsToNextLevel int        `json:"pointsToNextLevel"`
	Rank              int        `json:"rank"`
	QuizzesCompleted  int        `json:"quizzesCompleted"`
	LastCompletedAt   *time.Time `json:"lastCompletedAt,omitempty"`
	JoinedAt          time.Time  `json:"joinedAt"`
}

// GetLeaderboard ranks users by cumulative points, earlier sign-ups first on
// ties, with ranks assigned as 1-based positions in that order. Computed from
// the store on every cache miss.
func (s *ProfileService) GetLeaderboard(take int) ([]LeaderboardEntry, error) {
	if take < 1 {
		take = 1
	}
	if take > leaderboardMaxTake {
		take = leaderboardMaxTake
	}

	cacheKey := fmt.Sprintf("leaderboard:%d", take)
	if s.Redis != nil {
		if cached, err := s.Redis.Get(context.Background(), cacheKey).Result(); err == nil {
			var entries []LeaderboardEntry
			if json.Unmarshal([]byte(cached), &entries) == nil {
				return entries, nil
			}
		}
	}

	users, err := s.UserRepo.FindTopByPoints(take)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return []LeaderboardEntry{}, nil
	}

	userIDs := make([]uint, len(users))
	for i, u := range users {
		userIDs[i] = u.ID
	}

	stats, err := s.ProgressRepo.StatsByUserIDs(userIDs)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(users))
	for i, user := range users {
		levelInfo := CalculateLevel(user.TotalPoints)
		snapshot := stats[user.ID]

		entries[i] = LeaderboardEntry{
			UserID:            user.ID,
			Username:          user.Username,
			TotalPoints:       user.TotalPoints,
			Level:             levelInfo.Level,
			LevelName:         levelInfo.Name,
			LevelProgress:     levelInfo.Progress,
			PointsToNextLevel: levelInfo.PointsToNextLevel,
			Rank:              i + 1,
			QuizzesCompleted:  snapshot.Count,
			LastCompletedAt:   snapshot.LastCompletedAt,
			JoinedAt:          user.CreatedAt,
		}
	}

	if s.Redis != nil {
		if payload, err := json.Marshal(entries); err == nil {
			s.Redis.Set(context.Background(), cacheKey, payload, leaderboardCacheTTL)
		}
	}

	return entries, nil
}
