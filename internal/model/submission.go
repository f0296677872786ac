package model

import (
	"time"
)

// Submission 提交记录，只增不改
// swagger:model Submission
type Submission struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"userId"`
	ChallengeID uint      `gorm:"not null;index" json:"challengeId"`
	Flag        string    `gorm:"size:255;not null" json:"flag"`
	IsCorrect   bool      `gorm:"not null" json:"isCorrect"`
	SubmittedAt time.Time `gorm:"not null;index" json:"submittedAt"`

	// 列表接口用，由 JOIN 填充
	Username       string `gorm:"->;-:migration" json:"username,omitempty"`
	ChallengeTitle string `gorm:"->;-:migration" json:"challengeTitle,omitempty"`
}

func (Submission) TableName() string {
	return "submissions"
}
