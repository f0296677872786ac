package service

import (
	"ctf_platform_backend/internal/model"
	"ctf_platform_backend/internal/repository"
	"ctf_platform_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

func (s *UserService) Get(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) List(limit, offset int) ([]model.User, int64, error) {
	users, err := s.UserRepo.List(limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.UserRepo.Count()
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Update 管理员更新用户资料，可改角色
func (s *UserService) Update(id uint, username, email string, role model.UserRole) (*model.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if username != "" && username != user.Username {
		if existing, err := s.UserRepo.FindByUsername(username); err == nil && existing.ID != id {
			return nil, util.ErrUsernameTaken
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Username = username
	}

	if email != "" && email != user.Email {
		if existing, err := s.UserRepo.FindByEmail(email); err == nil && existing.ID != id {
			return nil, util.ErrEmailTaken
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Email = email
	}

	if role != "" {
		user.Role = role
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete 禁止删除自己的账号
func (s *UserService) Delete(id, actorID uint) error {
	if id == actorID {
		return util.ErrSelfDeletion
	}
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.UserRepo.Delete(id)
}
