package service

import (
	"ctf_platform_backend/internal/model"
	"ctf_platform_backend/internal/repository"
	"ctf_platform_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type ChallengeService struct {
	ChallengeRepo *repository.ChallengeRepository
}

func NewChallengeService(challengeRepo *repository.ChallengeRepository) *ChallengeService {
	return &ChallengeService{ChallengeRepo: challengeRepo}
}

type ChallengeInput struct {
	Title       string
	Description string
	Category    string
	Difficulty  model.ChallengeDifficulty
	Points      uint
	Flag        string
}

func (s *ChallengeService) Create(authorID uint, input ChallengeInput) (*model.Challenge, error) {
	challenge := &model.Challenge{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Difficulty:  input.Difficulty,
		Points:      input.Points,
		Flag:        input.Flag,
		AuthorID:    authorID,
	}
	if err := s.ChallengeRepo.Create(challenge); err != nil {
		return nil, err
	}
	return challenge, nil
}

func (s *ChallengeService) Get(id uint) (*model.Challenge, error) {
	challenge, err := s.ChallengeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrChallengeNotFound
		}
		return nil, err
	}
	return challenge, nil
}

func (s *ChallengeService) List(filter repository.ChallengeFilter) ([]model.Challenge, int64, error) {
	challenges, err := s.ChallengeRepo.List(filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.ChallengeRepo.Count()
	if err != nil {
		return nil, 0, err
	}
	return challenges, total, nil
}

type ChallengeUpdateInput struct {
	Title       string
	Description string
	Category    string
	Difficulty  model.ChallengeDifficulty
	Points      *uint
	Flag        string
}

// Update 只有出题人或管理员可以改题。
// 注意：改 points 会回溯影响所有历史成绩，积分不做快照。
func (s *ChallengeService) Update(id uint, actor *util.Claims, input ChallengeUpdateInput) (*model.Challenge, error) {
	challenge, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if challenge.AuthorID != actor.UserID && actor.Role != model.RoleAdmin {
		return nil, util.ErrPermissionDenied
	}

	if input.Title != "" {
		challenge.Title = input.Title
	}
	if input.Description != "" {
		challenge.Description = input.Description
	}
	if input.Category != "" {
		challenge.Category = input.Category
	}
	if input.Difficulty != "" {
		challenge.Difficulty = input.Difficulty
	}
	if input.Points != nil {
		challenge.Points = *input.Points
	}
	if input.Flag != "" {
		challenge.Flag = input.Flag
	}

	if err := s.ChallengeRepo.Update(challenge); err != nil {
		return nil, err
	}
	return challenge, nil
}

func (s *ChallengeService) Delete(id uint, actor *util.Claims) error {
	challenge, err := s.Get(id)
	if err != nil {
		return err
	}
	if challenge.AuthorID != actor.UserID && actor.Role != model.RoleAdmin {
		return util.ErrPermissionDenied
	}
	return s.ChallengeRepo.Delete(id)
}
