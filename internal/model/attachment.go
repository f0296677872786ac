package model

// Attachment 题目附件元数据，文件本体走 StorageProvider
// swagger:model Attachment
type Attachment struct {
	BaseModel
	ChallengeID uint   `gorm:"not null;index" json:"challengeId"`
	FileName    string `gorm:"size:255;not null" json:"fileName"`
	ObjectKey   string `gorm:"size:100;unique;not null" json:"-"`
	Size        int64  `gorm:"not null" json:"size"`
	ContentType string `gorm:"size:100" json:"contentType"`
	URL         string `gorm:"-" json:"url,omitempty"`
}

func (Attachment) TableName() string {
	return "attachments"
}
