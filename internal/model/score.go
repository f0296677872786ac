package model

import (
	"time"
)

// ScoreEntry 是每次查询现算的榜单条目，不落库。
// 积分始终 JOIN 当前题目分值，管理员改分会回溯影响历史成绩。
// swagger:model ScoreEntry
type ScoreEntry struct {
	UserID           uint       `json:"userId"`
	Username         string     `json:"username"`
	SolvedChallenges int        `json:"solvedChallenges"`
	TotalPoints      uint       `json:"totalPoints"`
	LastSolveTime    *time.Time `json:"lastSolveTime"`
	Rank             int        `json:"rank"`
}

// SolveTuple 是提交流水的查询面：某用户一条正确提交连同当前题目分值。
type SolveTuple struct {
	UserID      uint      `json:"userId"`
	ChallengeID uint      `json:"challengeId"`
	Points      uint      `json:"points"`
	SubmittedAt time.Time `json:"submittedAt"`
}
