package service

import (
	"context"
	"ctf_platform_backend/internal/repository"
	"ctf_platform_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSubmissionService(db *gorm.DB) *SubmissionService {
	return NewSubmissionService(
		repository.NewSubmissionRepository(db),
		repository.NewChallengeRepository(db),
		newScoreService(db),
	)
}

func TestSubmitFlagCorrect(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")
	ch := createChallenge(t, db, "web100", 100, "flag{right}")
	svc := newSubmissionService(db)

	result, err := svc.SubmitFlag(context.Background(), user.ID, ch.ID, "flag{right}")
	require.NoError(t, err)

	assert.True(t, result.Correct)
	assert.Equal(t, uint(100), result.Points)
	assert.NotZero(t, result.SubmissionID)
}

func TestSubmitFlagWrongStillRecorded(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")
	ch := createChallenge(t, db, "web100", 100, "flag{right}")
	svc := newSubmissionService(db)

	result, err := svc.SubmitFlag(context.Background(), user.ID, ch.ID, "flag{wrong}")
	require.NoError(t, err)
	assert.False(t, result.Correct)
	assert.Zero(t, result.Points)

	// 错误提交也落库，但不计分
	count, err := repository.NewSubmissionRepository(db).Count(repository.SubmissionFilter{UserID: user.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	entry, err := newScoreService(db).ComputeScore(user.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(0), entry.TotalPoints)
}

func TestSubmitFlagExactComparison(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")
	ch := createChallenge(t, db, "web100", 100, "flag{Right}")
	svc := newSubmissionService(db)

	// 大小写和空白都不做归一化
	for _, attempt := range []string{"flag{right}", " flag{Right}", "flag{Right} "} {
		result, err := svc.SubmitFlag(context.Background(), user.ID, ch.ID, attempt)
		require.NoError(t, err)
		assert.False(t, result.Correct, "attempt=%q", attempt)
	}
}

func TestSubmitFlagDuplicateSolveRejected(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")
	ch := createChallenge(t, db, "web100", 100, "flag{right}")
	svc := newSubmissionService(db)

	_, err := svc.SubmitFlag(context.Background(), user.ID, ch.ID, "flag{right}")
	require.NoError(t, err)

	_, err = svc.SubmitFlag(context.Background(), user.ID, ch.ID, "flag{right}")
	assert.ErrorIs(t, err, util.ErrAlreadySolved)

	// 重复提交被拒后总分不变
	entry, err := newScoreService(db).ComputeScore(user.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(100), entry.TotalPoints)
	assert.Equal(t, 1, entry.SolvedChallenges)
}

func TestSubmitFlagUnknownChallenge(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")
	svc := newSubmissionService(db)

	_, err := svc.SubmitFlag(context.Background(), user.ID, 424242, "flag{x}")
	assert.ErrorIs(t, err, util.ErrChallengeNotFound)
}

// 分值不做快照：改分会回溯影响已有成绩
func TestScoreFollowsCurrentPoints(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")
	ch := createChallenge(t, db, "web100", 100, "flag{right}")
	recordSolve(t, db, user.ID, ch.ID, time.Now())

	require.NoError(t, db.Model(ch).Update("points", 250).Error)

	entry, err := newScoreService(db).ComputeScore(user.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(250), entry.TotalPoints)
}
