package model

type ChallengeDifficulty string

const (
	DifficultyEasy   ChallengeDifficulty = "easy"
	DifficultyMedium ChallengeDifficulty = "medium"
	DifficultyHard   ChallengeDifficulty = "hard"
)

// swagger:model Challenge
type Challenge struct {
	BaseModel
	Title       string              `gorm:"size:100;not null" json:"title"`
	Description string              `gorm:"type:text;not null" json:"description"`
	Category    string              `gorm:"size:50;not null" json:"category"`
	Difficulty  ChallengeDifficulty `gorm:"size:20;default:'medium'" json:"difficulty"`
	Points      uint                `gorm:"not null" json:"points"`
	Flag        string              `gorm:"size:255;not null" json:"flag,omitempty"`
	AuthorID    uint                `gorm:"not null;index" json:"authorId"`

	// 由子查询填充，不建表
	SolveCount int64 `gorm:"->;-:migration" json:"solveCount"`
}

func (Challenge) TableName() string {
	return "challenges"
}

// Sanitized 返回去掉 flag 的副本，非管理员可见
func (c Challenge) Sanitized() Challenge {
	c.Flag = ""
	return c
}
