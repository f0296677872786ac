package service

import (
	"ctf_platform_backend/internal/model"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Challenge{},
		&model.Submission{},
		&model.Attachment{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
		Role:     model.RoleUser,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createChallenge(t *testing.T, db *gorm.DB, title string, points uint, flag string) *model.Challenge {
	t.Helper()
	challenge := &model.Challenge{
		Title:       title,
		Description: "desc",
		Category:    "web",
		Difficulty:  model.DifficultyEasy,
		Points:      points,
		Flag:        flag,
		AuthorID:    1,
	}
	require.NoError(t, db.Create(challenge).Error)
	return challenge
}

func recordSolve(t *testing.T, db *gorm.DB, userID, challengeID uint, at time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&model.Submission{
		UserID:      userID,
		ChallengeID: challengeID,
		Flag:        "flag",
		IsCorrect:   true,
		SubmittedAt: at,
	}).Error)
}
