package repository

import (
	"ctf_platform_backend/internal/model"

	"gorm.io/gorm"
)

type ChallengeFilter struct {
	Category   string
	Difficulty string
	Search     string
	Limit      int
	Offset     int
}

type ChallengeRepository struct {
	DB *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{DB: db}
}

// solveCountSelect 给每道题带上正确提交的用户数
const solveCountSelect = "challenges.*, " +
	"(SELECT COUNT(DISTINCT s.user_id) FROM submissions s WHERE s.challenge_id = challenges.id AND s.is_correct = ?) AS solve_count"

func (r *ChallengeRepository) Create(challenge *model.Challenge) error {
	return r.DB.Create(challenge).Error
}

func (r *ChallengeRepository) FindByID(id uint) (*model.Challenge, error) {
	var challenge model.Challenge
	err := r.DB.Model(&model.Challenge{}).
		Select(solveCountSelect, true).
		Where("challenges.id = ?", id).
		First(&challenge).Error
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (r *ChallengeRepository) List(filter ChallengeFilter) ([]model.Challenge, error) {
	query := r.DB.Model(&model.Challenge{}).Select(solveCountSelect, true)

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	query = query.Order("created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var challenges []model.Challenge
	err := query.Find(&challenges).Error
	return challenges, err
}

func (r *ChallengeRepository) Update(challenge *model.Challenge) error {
	return r.DB.Save(challenge).Error
}

func (r *ChallengeRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Challenge{}, id).Error
}

func (r *ChallengeRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Challenge{}).Count(&count).Error
	return count, err
}
