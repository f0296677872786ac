package service

import (
	"context"
	"ctf_platform_backend/internal/model"
	"ctf_platform_backend/internal/repository"
	"ctf_platform_backend/internal/util"
	"errors"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttachmentService struct {
	AttachmentRepo *repository.AttachmentRepository
	ChallengeRepo  *repository.ChallengeRepository
	Storage        *StorageService
}

func NewAttachmentService(attachmentRepo *repository.AttachmentRepository, challengeRepo *repository.ChallengeRepository, storage *StorageService) *AttachmentService {
	return &AttachmentService{
		AttachmentRepo: attachmentRepo,
		ChallengeRepo:  challengeRepo,
		Storage:        storage,
	}
}

// Upload 保存附件本体到存储后端，元数据落库。
// 对象键用 uuid 重命名，避免用户文件名冲突和路径注入。
func (s *AttachmentService) Upload(ctx context.Context, challengeID uint, fileName string, reader io.Reader, size int64, contentType string) (*model.Attachment, error) {
	if _, err := s.ChallengeRepo.FindByID(challengeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrChallengeNotFound
		}
		return nil, err
	}

	objectKey := uuid.New().String() + filepath.Ext(fileName)

	url, err := s.Storage.Provider.Upload(ctx, objectKey, reader, size, contentType)
	if err != nil {
		return nil, err
	}

	attachment := &model.Attachment{
		ChallengeID: challengeID,
		FileName:    fileName,
		ObjectKey:   objectKey,
		Size:        size,
		ContentType: contentType,
	}
	if err := s.AttachmentRepo.Create(attachment); err != nil {
		return nil, err
	}

	attachment.URL = url
	return attachment, nil
}

func (s *AttachmentService) ListByChallenge(challengeID uint) ([]model.Attachment, error) {
	attachments, err := s.AttachmentRepo.ListByChallenge(challengeID)
	if err != nil {
		return nil, err
	}
	for i := range attachments {
		attachments[i].URL = s.Storage.Provider.GetURL(attachments[i].ObjectKey)
	}
	return attachments, nil
}

func (s *AttachmentService) Delete(ctx context.Context, id uint) error {
	attachment, err := s.AttachmentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if err := s.Storage.Provider.Delete(ctx, attachment.ObjectKey); err != nil {
		return err
	}
	return s.AttachmentRepo.Delete(id)
}
