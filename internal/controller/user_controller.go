package controller

import (
	"ctf_platform_backend/internal/model"
	"ctf_platform_backend/internal/service"
	"ctf_platform_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// List godoc
// @Summary 用户列表（管理员）
// @Tags 用户
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "页码"
// @Param   limit query int false "每页条数"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/users [get]
func (c *UserController) List(ctx *gin.Context) {
	page := util.ParsePositiveInt(ctx.Query("page"), 1)
	limit := util.ParsePositiveInt(ctx.Query("limit"), 50)

	users, total, err := c.UserService.List(limit, (page-1)*limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:       users,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
	})
}

// Get godoc
// @Summary 用户详情（管理员）
// @Tags 用户
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "用户 ID"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response "ID 非法"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/users/{id} [get]
func (c *UserController) Get(ctx *gin.Context) {
	id, ok := util.ParseID(ctx.Param("id"))
	if !ok {
		util.BadRequest(ctx, "Invalid user id")
		return
	}

	user, err := c.UserService.Get(id)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, "User not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"user": user})
}

type UpdateUserRequest struct {
	Username string `json:"username" binding:"omitempty,min=3,max=50"`
	Email    string `json:"email" binding:"omitempty,email"`
	Role     string `json:"role" binding:"omitempty,oneof=user admin"`
}

// Update godoc
// @Summary 更新用户（管理员）
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "用户 ID"
// @Param   body body UpdateUserRequest true "更新字段"
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/users/{id} [put]
func (c *UserController) Update(ctx *gin.Context) {
	id, ok := util.ParseID(ctx.Param("id"))
	if !ok {
		util.BadRequest(ctx, "Invalid user id")
		return
	}

	var req UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.Update(id, req.Username, req.Email, model.UserRole(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx, "User not found")
		case errors.Is(err, util.ErrUsernameTaken), errors.Is(err, util.ErrEmailTaken):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"user": user})
}

// Delete godoc
// @Summary 删除用户（管理员，不能删自己）
// @Tags 用户
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "用户 ID"
// @Success 200 {object} util.Response
// @Router /api/users/{id} [delete]
func (c *UserController) Delete(ctx *gin.Context) {
	id, ok := util.ParseID(ctx.Param("id"))
	if !ok {
		util.BadRequest(ctx, "Invalid user id")
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.UserService.Delete(id, claims.UserID); err != nil {
		switch {
		case errors.Is(err, util.ErrSelfDeletion):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx, "User not found")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}
