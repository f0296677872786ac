package service

import (
	"ctf_platform_backend/internal/model"
	"ctf_platform_backend/internal/repository"
	"ctf_platform_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChallengeUpdatePermissions(t *testing.T) {
	db := newTestDB(t)
	author := createUser(t, db, "author")
	other := createUser(t, db, "other")
	svc := NewChallengeService(repository.NewChallengeRepository(db))

	challenge, err := svc.Create(author.ID, ChallengeInput{
		Title:       "web100",
		Description: "desc",
		Category:    "web",
		Difficulty:  model.DifficultyEasy,
		Points:      100,
		Flag:        "flag{a}",
	})
	require.NoError(t, err)

	otherClaims := &util.Claims{UserID: other.ID, Role: model.RoleUser}
	_, err = svc.Update(challenge.ID, otherClaims, ChallengeUpdateInput{Title: "hacked"})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	adminClaims := &util.Claims{UserID: other.ID, Role: model.RoleAdmin}
	updated, err := svc.Update(challenge.ID, adminClaims, ChallengeUpdateInput{Title: "renamed"})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
}

func TestChallengeUpdatePartialFields(t *testing.T) {
	db := newTestDB(t)
	author := createUser(t, db, "author")
	svc := NewChallengeService(repository.NewChallengeRepository(db))

	challenge, err := svc.Create(author.ID, ChallengeInput{
		Title:       "web100",
		Description: "desc",
		Category:    "web",
		Difficulty:  model.DifficultyEasy,
		Points:      100,
		Flag:        "flag{a}",
	})
	require.NoError(t, err)

	claims := &util.Claims{UserID: author.ID, Role: model.RoleUser}

	// 没传 points 时不能把分值清零
	updated, err := svc.Update(challenge.ID, claims, ChallengeUpdateInput{Description: "new desc"})
	require.NoError(t, err)
	assert.Equal(t, uint(100), updated.Points)
	assert.Equal(t, "new desc", updated.Description)

	points := uint(250)
	updated, err = svc.Update(challenge.ID, claims, ChallengeUpdateInput{Points: &points})
	require.NoError(t, err)
	assert.Equal(t, uint(250), updated.Points)
}

func TestChallengeSanitizedStripsFlag(t *testing.T) {
	ch := model.Challenge{Title: "web100", Flag: "flag{secret}"}
	clean := ch.Sanitized()
	assert.Empty(t, clean.Flag)
	assert.Equal(t, "flag{secret}", ch.Flag)
}

func TestChallengeSolveCount(t *testing.T) {
	db := newTestDB(t)
	author := createUser(t, db, "author")
	a := createUser(t, db, "alice")
	b := createUser(t, db, "bob")
	repo := repository.NewChallengeRepository(db)
	svc := NewChallengeService(repo)

	challenge, err := svc.Create(author.ID, ChallengeInput{
		Title: "web100", Description: "d", Category: "web",
		Difficulty: model.DifficultyEasy, Points: 100, Flag: "flag{a}",
	})
	require.NoError(t, err)

	recordSolve(t, db, a.ID, challenge.ID, time.Now())
	recordSolve(t, db, a.ID, challenge.ID, time.Now()) // 同一人重复不重复计数
	recordSolve(t, db, b.ID, challenge.ID, time.Now())

	got, err := svc.Get(challenge.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.SolveCount)
}
