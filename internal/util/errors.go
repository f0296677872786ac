package util

import "errors"

var (
	// 标识符形状不合法（非正整数），是客户端错误，与“不存在”区分开
	ErrInvalidUserID      = errors.New("invalid user id")
	ErrInvalidChallengeID = errors.New("invalid challenge id")

	ErrUserNotFound      = errors.New("user not found")
	ErrChallengeNotFound = errors.New("challenge not found")

	ErrUsernameTaken    = errors.New("username already taken")
	ErrEmailTaken       = errors.New("email already taken")
	ErrWrongPassword    = errors.New("current password is incorrect")
	ErrAlreadySolved    = errors.New("challenge already solved")
	ErrPermissionDenied = errors.New("permission denied")
	ErrSelfDeletion     = errors.New("cannot delete your own account")
)
