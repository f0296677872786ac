package service

import (
	"context"
	"ctf_platform_backend/internal/model"
	"ctf_platform_backend/internal/repository"
	"ctf_platform_backend/internal/util"
	"errors"
	"time"

	"gorm.io/gorm"
)

// SubmissionService 负责判题落库。提交记录是只增流水，
// is_correct 在创建时由精确字符串比较一次性定死，之后不再变。
type SubmissionService struct {
	SubmissionRepo *repository.SubmissionRepository
	ChallengeRepo  *repository.ChallengeRepository
	Score          *ScoreService
}

func NewSubmissionService(submissionRepo *repository.SubmissionRepository, challengeRepo *repository.ChallengeRepository, score *ScoreService) *SubmissionService {
	return &SubmissionService{
		SubmissionRepo: submissionRepo,
		ChallengeRepo:  challengeRepo,
		Score:          score,
	}
}

type SubmitResult struct {
	Correct      bool   `json:"correct"`
	SubmissionID uint64 `json:"submissionId"`
	Points       uint   `json:"points,omitempty"`
}

// SubmitFlag 判题：题目必须存在，已解出的题不允许再提交。
// 错误的提交同样落库，积分聚合只看 is_correct 的去重集合。
func (s *SubmissionService) SubmitFlag(ctx context.Context, userID, challengeID uint, flag string) (*SubmitResult, error) {
	challenge, err := s.ChallengeRepo.FindByID(challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrChallengeNotFound
		}
		return nil, err
	}

	solved, err := s.SubmissionRepo.HasCorrect(userID, challengeID)
	if err != nil {
		return nil, err
	}
	if solved {
		return nil, util.ErrAlreadySolved
	}

	isCorrect := challenge.Flag == flag

	submission := &model.Submission{
		UserID:      userID,
		ChallengeID: challengeID,
		Flag:        flag,
		IsCorrect:   isCorrect,
		SubmittedAt: time.Now(),
	}
	if err := s.SubmissionRepo.Create(submission); err != nil {
		return nil, err
	}

	result := &SubmitResult{
		Correct:      isCorrect,
		SubmissionID: submission.ID,
	}
	if isCorrect {
		result.Points = challenge.Points
		if s.Score != nil {
			s.Score.InvalidateCache(ctx)
		}
	}
	return result, nil
}

func (s *SubmissionService) List(filter repository.SubmissionFilter) ([]model.Submission, int64, error) {
	submissions, err := s.SubmissionRepo.List(filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.SubmissionRepo.Count(filter)
	if err != nil {
		return nil, 0, err
	}
	return submissions, total, nil
}
