package service

import (
	"context"
	"ctf_platform_backend/internal/model"
	"ctf_platform_backend/internal/repository"
	"ctf_platform_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newScoreService(db *gorm.DB) *ScoreService {
	return NewScoreService(
		repository.NewUserRepository(db),
		repository.NewSubmissionRepository(db),
		nil,
		time.Second,
	)
}

func TestComputeScoreNoSolves(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")
	svc := newScoreService(db)

	entry, err := svc.ComputeScore(user.ID)
	require.NoError(t, err)

	assert.Equal(t, user.ID, entry.UserID)
	assert.Equal(t, "alice", entry.Username)
	assert.Equal(t, uint(0), entry.TotalPoints)
	assert.Equal(t, 0, entry.SolvedChallenges)
	assert.Nil(t, entry.LastSolveTime)
}

func TestComputeScoreDistinctChallengesOnly(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")
	web := createChallenge(t, db, "web100", 100, "flag{a}")
	pwn := createChallenge(t, db, "pwn200", 200, "flag{b}")
	svc := newScoreService(db)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	recordSolve(t, db, user.ID, web.ID, base)
	recordSolve(t, db, user.ID, web.ID, base.Add(time.Hour)) // 同题重复提交
	recordSolve(t, db, user.ID, pwn.ID, base.Add(30*time.Minute))

	entry, err := svc.ComputeScore(user.ID)
	require.NoError(t, err)

	assert.Equal(t, uint(300), entry.TotalPoints)
	assert.Equal(t, 2, entry.SolvedChallenges)
	require.NotNil(t, entry.LastSolveTime)
	assert.True(t, entry.LastSolveTime.Equal(base.Add(time.Hour)))
}

// 没有写入时重复计算必须逐字段一致
func TestComputeScoreIdempotent(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")
	web := createChallenge(t, db, "web100", 100, "flag{a}")
	recordSolve(t, db, user.ID, web.ID, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	svc := newScoreService(db)

	first, err := svc.ComputeScore(user.ID)
	require.NoError(t, err)
	second, err := svc.ComputeScore(user.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// 解出一道新题后总分严格增加该题分值，解题数加一
func TestComputeScoreMonotonic(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")
	web := createChallenge(t, db, "web100", 100, "flag{a}")
	pwn := createChallenge(t, db, "pwn200", 200, "flag{b}")

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	recordSolve(t, db, user.ID, web.ID, base)
	svc := newScoreService(db)

	before, err := svc.ComputeScore(user.ID)
	require.NoError(t, err)

	recordSolve(t, db, user.ID, pwn.ID, base.Add(time.Hour))

	after, err := svc.ComputeScore(user.ID)
	require.NoError(t, err)

	assert.Equal(t, before.TotalPoints+200, after.TotalPoints)
	assert.Equal(t, before.SolvedChallenges+1, after.SolvedChallenges)
	require.NotNil(t, after.LastSolveTime)
	assert.True(t, after.LastSolveTime.After(*before.LastSolveTime))
}

func TestComputeScoreInvalidID(t *testing.T) {
	db := newTestDB(t)
	svc := newScoreService(db)

	_, err := svc.ComputeScore(0)
	assert.ErrorIs(t, err, util.ErrInvalidUserID)
}

func TestComputeScoreUnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := newScoreService(db)

	_, err := svc.ComputeScore(424242)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

// 存储故障必须以错误上抛，不允许退化成全零成绩
func TestComputeScoreStorageFailure(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")
	svc := newScoreService(db)

	require.NoError(t, db.Migrator().DropTable(&model.Submission{}))

	_, err := svc.ComputeScore(user.ID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, util.ErrUserNotFound)
	assert.NotErrorIs(t, err, util.ErrInvalidUserID)
}

func TestComputeRankTiesShareRankWithGap(t *testing.T) {
	db := newTestDB(t)
	a := createUser(t, db, "alice")
	b := createUser(t, db, "bob")
	c := createUser(t, db, "carol")

	big := createChallenge(t, db, "big", 300, "flag{big}")
	small := createChallenge(t, db, "small", 100, "flag{small}")

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	recordSolve(t, db, a.ID, big.ID, base)
	recordSolve(t, db, b.ID, big.ID, base.Add(time.Minute))
	recordSolve(t, db, c.ID, small.ID, base.Add(2*time.Minute))

	svc := newScoreService(db)

	rankA, err := svc.ComputeRank(a.ID)
	require.NoError(t, err)
	rankB, err := svc.ComputeRank(b.ID)
	require.NoError(t, err)
	rankC, err := svc.ComputeRank(c.ID)
	require.NoError(t, err)

	// 300/300/100 → 并列第一，第三名跳过第二
	assert.Equal(t, 1, rankA)
	assert.Equal(t, 1, rankB)
	assert.Equal(t, 3, rankC)
}

// 硬删除用户后流水还在，排名不能把这些孤儿提交算成一个“更高分的用户”
func TestComputeRankIgnoresDeletedUsersSolves(t *testing.T) {
	db := newTestDB(t)
	ghost := createUser(t, db, "ghost")
	alice := createUser(t, db, "alice")

	big := createChallenge(t, db, "big", 500, "flag{big}")
	small := createChallenge(t, db, "small", 100, "flag{small}")

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	recordSolve(t, db, ghost.ID, big.ID, base)
	recordSolve(t, db, alice.ID, small.ID, base.Add(time.Minute))

	require.NoError(t, db.Delete(&model.User{}, ghost.ID).Error)

	svc := newScoreService(db)

	rank, err := svc.ComputeRank(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, rank)

	// 榜单和单用户排名必须一致
	entries, err := svc.Scoreboard(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, alice.ID, entries[0].UserID)
	assert.Equal(t, 1, entries[0].Rank)
}

func TestComputeRankZeroScoreUser(t *testing.T) {
	db := newTestDB(t)
	a := createUser(t, db, "alice")
	idle := createUser(t, db, "idle")

	ch := createChallenge(t, db, "web", 100, "flag{a}")
	recordSolve(t, db, a.ID, ch.ID, time.Now())

	svc := newScoreService(db)

	rank, err := svc.ComputeRank(idle.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, rank)
}

func TestScoreboardOrdering(t *testing.T) {
	db := newTestDB(t)
	a := createUser(t, db, "alice")
	b := createUser(t, db, "bob")
	c := createUser(t, db, "carol")
	idle := createUser(t, db, "idle")

	big := createChallenge(t, db, "big", 300, "flag{big}")
	small := createChallenge(t, db, "small", 100, "flag{small}")

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	// bob 和 alice 同分，bob 先解出，应排在前面
	recordSolve(t, db, b.ID, big.ID, base)
	recordSolve(t, db, a.ID, big.ID, base.Add(time.Minute))
	recordSolve(t, db, c.ID, small.ID, base.Add(2*time.Minute))

	svc := newScoreService(db)

	entries, err := svc.Scoreboard(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	assert.Equal(t, "bob", entries[0].Username)
	assert.Equal(t, "alice", entries[1].Username)
	assert.Equal(t, "carol", entries[2].Username)
	// 零活动用户也上榜
	assert.Equal(t, idle.ID, entries[3].UserID)
	assert.Equal(t, "idle", entries[3].Username)
	assert.Equal(t, uint(0), entries[3].TotalPoints)

	// 榜单 rank 为位置序号
	for i, e := range entries {
		assert.Equal(t, i+1, e.Rank)
	}
}

func TestScoreboardLimitClamping(t *testing.T) {
	db := newTestDB(t)
	for _, name := range []string{"u1", "u2", "u3"} {
		createUser(t, db, name)
	}
	svc := newScoreService(db)

	entries, err := svc.Scoreboard(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	// 非正数退回默认窗口
	entries, err = svc.Scoreboard(context.Background(), -5)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestResolveLimit(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", DefaultScoreboardLimit},
		{"abc", DefaultScoreboardLimit},
		{"NaN", DefaultScoreboardLimit},
		{"Inf", DefaultScoreboardLimit},
		{"-5", DefaultScoreboardLimit},
		{"0", DefaultScoreboardLimit},
		{"2.9", 2},
		{"50", 50},
		{"5000", MaxScoreboardLimit},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveLimit(tt.raw), "raw=%q", tt.raw)
	}
}
