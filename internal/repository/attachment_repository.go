package repository

import (
	"ctf_platform_backend/internal/model"

	"gorm.io/gorm"
)

type AttachmentRepository struct {
	DB *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{DB: db}
}

func (r *AttachmentRepository) Create(attachment *model.Attachment) error {
	return r.DB.Create(attachment).Error
}

func (r *AttachmentRepository) FindByID(id uint) (*model.Attachment, error) {
	var attachment model.Attachment
	err := r.DB.First(&attachment, id).Error
	if err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (r *AttachmentRepository) ListByChallenge(challengeID uint) ([]model.Attachment, error) {
	var attachments []model.Attachment
	err := r.DB.Where("challenge_id = ?", challengeID).Order("id ASC").Find(&attachments).Error
	return attachments, err
}

func (r *AttachmentRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Attachment{}, id).Error
}
