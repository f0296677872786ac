package repository

import (
	"ctf_platform_backend/internal/model"

	"gorm.io/gorm"
)

type SubmissionFilter struct {
	UserID      uint
	ChallengeID uint
	IsCorrect   *bool
	Limit       int
	Offset      int
}

// SubmissionRepository 是提交流水的查询面。流水只增不改：
// 写入只有 Create，没有任何 Update/Delete。
type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) Create(submission *model.Submission) error {
	return r.DB.Create(submission).Error
}

// HasCorrect 判断该用户是否已解出该题
func (r *SubmissionRepository) HasCorrect(userID, challengeID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Submission{}).
		Where("user_id = ? AND challenge_id = ? AND is_correct = ?", userID, challengeID, true).
		Count(&count).Error
	return count > 0, err
}

// CorrectByUser 列出某用户全部正确提交，JOIN 出题目当前分值。
// 分值取现值而非提交时的快照，改分会回溯影响历史成绩。
func (r *SubmissionRepository) CorrectByUser(userID uint) ([]model.SolveTuple, error) {
	var tuples []model.SolveTuple
	err := r.DB.Table("submissions").
		Select("submissions.user_id, submissions.challenge_id, challenges.points, submissions.submitted_at").
		Joins("JOIN challenges ON challenges.id = submissions.challenge_id").
		Where("submissions.user_id = ? AND submissions.is_correct = ?", userID, true).
		Scan(&tuples).Error
	return tuples, err
}

// AllCorrect 列出全部正确提交，榜单聚合用
func (r *SubmissionRepository) AllCorrect() ([]model.SolveTuple, error) {
	var tuples []model.SolveTuple
	err := r.DB.Table("submissions").
		Select("submissions.user_id, submissions.challenge_id, challenges.points, submissions.submitted_at").
		Joins("JOIN challenges ON challenges.id = submissions.challenge_id").
		Where("submissions.is_correct = ?", true).
		Scan(&tuples).Error
	return tuples, err
}

func (r *SubmissionRepository) List(filter SubmissionFilter) ([]model.Submission, error) {
	query := r.DB.Table("submissions").
		Select("submissions.*, users.username AS username, challenges.title AS challenge_title").
		Joins("JOIN users ON users.id = submissions.user_id").
		Joins("JOIN challenges ON challenges.id = submissions.challenge_id")

	query = applySubmissionFilter(query, filter)
	query = query.Order("submissions.submitted_at DESC")

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var submissions []model.Submission
	err := query.Scan(&submissions).Error
	return submissions, err
}

func (r *SubmissionRepository) Count(filter SubmissionFilter) (int64, error) {
	query := r.DB.Model(&model.Submission{})
	query = applySubmissionFilter(query, filter)

	var count int64
	err := query.Count(&count).Error
	return count, err
}

func applySubmissionFilter(query *gorm.DB, filter SubmissionFilter) *gorm.DB {
	if filter.UserID != 0 {
		query = query.Where("submissions.user_id = ?", filter.UserID)
	}
	if filter.ChallengeID != 0 {
		query = query.Where("submissions.challenge_id = ?", filter.ChallengeID)
	}
	if filter.IsCorrect != nil {
		query = query.Where("submissions.is_correct = ?", *filter.IsCorrect)
	}
	return query
}
