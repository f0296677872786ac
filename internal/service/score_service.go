package service

import (
	"context"
	"ctf_platform_backend/internal/model"
	"ctf_platform_backend/internal/repository"
	"ctf_platform_backend/internal/util"
	"ctf_platform_backend/pkg/logger"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// DefaultScoreboardLimit 在 limit 缺失或非法时兜底
	DefaultScoreboardLimit = 100
	// MaxScoreboardLimit 是榜单窗口的硬上限
	MaxScoreboardLimit = 1000

	scoreboardCachePrefix = "scoreboard:"
)

// ScoreService 按查询现算用户成绩和榜单，自身不持有任何可变状态，
// 并发调用就是各自独立的只读事务。
type ScoreService struct {
	UserRepo       *repository.UserRepository
	SubmissionRepo *repository.SubmissionRepository

	rdb *redis.Client

	mu       sync.RWMutex
	cacheTTL time.Duration
}

// NewScoreService rdb 传 nil 时关闭榜单缓存（测试环境）
func NewScoreService(userRepo *repository.UserRepository, submissionRepo *repository.SubmissionRepository, rdb *redis.Client, cacheTTL time.Duration) *ScoreService {
	if cacheTTL <= 0 {
		cacheTTL = 15 * time.Second
	}
	return &ScoreService{
		UserRepo:       userRepo,
		SubmissionRepo: submissionRepo,
		rdb:            rdb,
		cacheTTL:       cacheTTL,
	}
}

// SetCacheTTL 配置热加载时调整缓存时长
func (s *ScoreService) SetCacheTTL(ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	s.mu.Lock()
	s.cacheTTL = ttl
	s.mu.Unlock()
}

func (s *ScoreService) getCacheTTL() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cacheTTL
}

// ResolveLimit 解析原始 limit 参数：缺失、非数字、非正数一律取默认值，
// 小数向下取整，最终截断到硬上限。
func ResolveLimit(raw string) int {
	if raw == "" {
		return DefaultScoreboardLimit
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return DefaultScoreboardLimit
	}
	limit := int(math.Floor(f))
	if limit > MaxScoreboardLimit {
		return MaxScoreboardLimit
	}
	return limit
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultScoreboardLimit
	}
	if limit > MaxScoreboardLimit {
		return MaxScoreboardLimit
	}
	return limit
}

// ComputeScore 计算单个用户的成绩：去重后的解题数、总分和最近解题时间。
// 用户存在但没有任何正确提交时返回全零条目，这是常态不是错误；
// 用户不存在返回 ErrUserNotFound，标识符形状不对返回 ErrInvalidUserID。
func (s *ScoreService) ComputeScore(userID uint) (*model.ScoreEntry, error) {
	if userID == 0 {
		return nil, util.ErrInvalidUserID
	}

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, fmt.Errorf("compute score: %w", err)
	}

	tuples, err := s.SubmissionRepo.CorrectByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("compute score: %w", err)
	}

	entry := aggregate(user.ID, user.Username, tuples)
	return &entry, nil
}

// ComputeRank 竞赛排名：比自己总分严格更高的用户数 + 1。
// 同分用户排名相同，下一档的名次会留出空隙。
func (s *ScoreService) ComputeRank(userID uint) (int, error) {
	if userID == 0 {
		return 0, util.ErrInvalidUserID
	}

	if _, err := s.UserRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, util.ErrUserNotFound
		}
		return 0, fmt.Errorf("compute rank: %w", err)
	}

	totals, err := s.totalsByUser()
	if err != nil {
		return 0, fmt.Errorf("compute rank: %w", err)
	}

	target := totals[userID]
	higher := 0
	for id, points := range totals {
		if id != userID && points > target {
			higher++
		}
	}
	return higher + 1, nil
}

// Scoreboard 返回按（总分降序，最近解题时间升序）排序的前 limit 名。
// 零活动用户也会出现在榜上（得分全零），不会被漏掉。
// 返回序列里的 rank 就是位置序号：榜单不支持 offset，窗口内位置即真实名次。
func (s *ScoreService) Scoreboard(ctx context.Context, limit int) ([]model.ScoreEntry, error) {
	limit = clampLimit(limit)

	if cached, ok := s.cacheGet(ctx, limit); ok {
		return cached, nil
	}

	users, err := s.UserRepo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("scoreboard: %w", err)
	}

	tuples, err := s.SubmissionRepo.AllCorrect()
	if err != nil {
		return nil, fmt.Errorf("scoreboard: %w", err)
	}

	byUser := make(map[uint][]model.SolveTuple, len(users))
	for _, t := range tuples {
		byUser[t.UserID] = append(byUser[t.UserID], t)
	}

	entries := make([]model.ScoreEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, aggregate(u.ID, u.Username, byUser[u.ID]))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.TotalPoints != b.TotalPoints {
			return a.TotalPoints > b.TotalPoints
		}
		// 同分先到先得：最近一次解题更早的排前面，没有解题时间的排后面
		switch {
		case a.LastSolveTime == nil && b.LastSolveTime == nil:
			return a.UserID < b.UserID
		case a.LastSolveTime == nil:
			return false
		case b.LastSolveTime == nil:
			return true
		case !a.LastSolveTime.Equal(*b.LastSolveTime):
			return a.LastSolveTime.Before(*b.LastSolveTime)
		default:
			return a.UserID < b.UserID
		}
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}

	s.cacheSet(ctx, limit, entries)
	return entries, nil
}

// InvalidateCache 新的正确提交落库后清掉所有榜单缓存
func (s *ScoreService) InvalidateCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	keys, err := s.rdb.Keys(ctx, scoreboardCachePrefix+"*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		logger.Log.Warn("failed to invalidate scoreboard cache", zap.Error(err))
	}
}

func (s *ScoreService) totalsByUser() (map[uint]uint, error) {
	users, err := s.UserRepo.ListAll()
	if err != nil {
		return nil, err
	}
	tuples, err := s.SubmissionRepo.AllCorrect()
	if err != nil {
		return nil, err
	}

	totals := make(map[uint]uint, len(users))
	for _, u := range users {
		totals[u.ID] = 0
	}

	seen := make(map[[2]uint]bool, len(tuples))
	for _, t := range tuples {
		// 已删除用户遗留的流水不参与排名
		if _, ok := totals[t.UserID]; !ok {
			continue
		}
		key := [2]uint{t.UserID, t.ChallengeID}
		if seen[key] {
			continue
		}
		seen[key] = true
		totals[t.UserID] += t.Points
	}
	return totals, nil
}

// aggregate 把一个用户的正确提交流水折算成榜单条目。
// 同一道题的重复正确提交只算一次，最近解题时间取所有正确提交的最大值。
func aggregate(userID uint, username string, tuples []model.SolveTuple) model.ScoreEntry {
	entry := model.ScoreEntry{
		UserID:   userID,
		Username: username,
	}

	solved := make(map[uint]bool, len(tuples))
	for _, t := range tuples {
		if !solved[t.ChallengeID] {
			solved[t.ChallengeID] = true
			entry.TotalPoints += t.Points
		}
		if entry.LastSolveTime == nil || t.SubmittedAt.After(*entry.LastSolveTime) {
			ts := t.SubmittedAt
			entry.LastSolveTime = &ts
		}
	}
	entry.SolvedChallenges = len(solved)
	return entry
}

func (s *ScoreService) cacheGet(ctx context.Context, limit int) ([]model.ScoreEntry, bool) {
	if s.rdb == nil {
		return nil, false
	}
	val, err := s.rdb.Get(ctx, cacheKey(limit)).Result()
	if err != nil {
		return nil, false
	}
	var entries []model.ScoreEntry
	if err := json.Unmarshal([]byte(val), &entries); err != nil {
		return nil, false
	}
	return entries, true
}

func (s *ScoreService) cacheSet(ctx context.Context, limit int, entries []model.ScoreEntry) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, cacheKey(limit), data, s.getCacheTTL()).Err(); err != nil {
		logger.Log.Warn("failed to cache scoreboard", zap.Error(err))
	}
}

func cacheKey(limit int) string {
	return fmt.Sprintf("%s%d", scoreboardCachePrefix, limit)
}
