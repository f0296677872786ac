package controller

import (
	"ctf_platform_backend/internal/model"
	"ctf_platform_backend/internal/repository"
	"ctf_platform_backend/internal/service"
	"ctf_platform_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type ChallengeController struct {
	ChallengeService *service.ChallengeService
}

func NewChallengeController(challengeService *service.ChallengeService) *ChallengeController {
	return &ChallengeController{ChallengeService: challengeService}
}

func isAdmin(ctx *gin.Context) bool {
	claims := util.GetUserFromContext(ctx)
	return claims != nil && claims.Role == model.RoleAdmin
}

// List godoc
// @Summary 题目列表
// @Description 支持按分类、难度过滤和标题/描述搜索；非管理员响应里不带 flag
// @Tags 题目
// @Produce  json
// @Param   category query string false "分类"
// @Param   difficulty query string false "难度" Enums(easy, medium, hard)
// @Param   search query string false "搜索词"
// @Param   page query int false "页码"
// @Param   limit query int false "每页条数"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/challenges [get]
func (c *ChallengeController) List(ctx *gin.Context) {
	page := util.ParsePositiveInt(ctx.Query("page"), 1)
	limit := util.ParsePositiveInt(ctx.Query("limit"), 50)

	filter := repository.ChallengeFilter{
		Category:   ctx.Query("category"),
		Difficulty: ctx.Query("difficulty"),
		Search:     ctx.Query("search"),
		Limit:      limit,
		Offset:     (page - 1) * limit,
	}

	challenges, total, err := c.ChallengeService.List(filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	if !isAdmin(ctx) {
		for i := range challenges {
			challenges[i] = challenges[i].Sanitized()
		}
	}

	util.Success(ctx, util.PageResponse{
		List:       challenges,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
	})
}

// Get godoc
// @Summary 题目详情
// @Tags 题目
// @Produce  json
// @Param   id path int true "题目 ID"
// @Success 200 {object} util.Response{data=model.Challenge}
// @Failure 400 {object} util.Response "ID 非法"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/challenges/{id} [get]
func (c *ChallengeController) Get(ctx *gin.Context) {
	id, ok := util.ParseID(ctx.Param("id"))
	if !ok {
		util.BadRequest(ctx, "Invalid challenge id")
		return
	}

	challenge, err := c.ChallengeService.Get(id)
	if err != nil {
		if errors.Is(err, util.ErrChallengeNotFound) {
			util.NotFound(ctx, "Challenge not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	if !isAdmin(ctx) {
		sanitized := challenge.Sanitized()
		util.Success(ctx, gin.H{"challenge": sanitized})
		return
	}

	util.Success(ctx, gin.H{"challenge": challenge})
}

type CreateChallengeRequest struct {
	Title       string `json:"title" binding:"required,max=100"`
	Description string `json:"description" binding:"required"`
	Category    string `json:"category" binding:"required,max=50"`
	Difficulty  string `json:"difficulty" binding:"required,oneof=easy medium hard"`
	Points      *uint  `json:"points" binding:"required"`
	Flag        string `json:"flag" binding:"required,max=255"`
}

// Create godoc
// @Summary 新建题目
// @Tags 题目
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body CreateChallengeRequest true "题目内容"
// @Success 201 {object} util.Response{data=model.Challenge}
// @Router /api/challenges [post]
func (c *ChallengeController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreateChallengeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	challenge, err := c.ChallengeService.Create(claims.UserID, service.ChallengeInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Difficulty:  model.ChallengeDifficulty(req.Difficulty),
		Points:      *req.Points,
		Flag:        req.Flag,
	})
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"challenge": challenge})
}

type UpdateChallengeRequest struct {
	Title       string `json:"title" binding:"omitempty,max=100"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"omitempty,max=50"`
	Difficulty  string `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	Points      *uint  `json:"points"`
	Flag        string `json:"flag" binding:"omitempty,max=255"`
}

// Update godoc
// @Summary 更新题目（出题人或管理员）
// @Tags 题目
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题目 ID"
// @Param   body body UpdateChallengeRequest true "更新字段"
// @Success 200 {object} util.Response{data=model.Challenge}
// @Failure 403 {object} util.Response "只能改自己的题"
// @Router /api/challenges/{id} [put]
func (c *ChallengeController) Update(ctx *gin.Context) {
	id, ok := util.ParseID(ctx.Param("id"))
	if !ok {
		util.BadRequest(ctx, "Invalid challenge id")
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req UpdateChallengeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	challenge, err := c.ChallengeService.Update(id, claims, service.ChallengeUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Difficulty:  model.ChallengeDifficulty(req.Difficulty),
		Points:      req.Points,
		Flag:        req.Flag,
	})
	if err != nil {
		switch {
		case errors.Is(err, util.ErrChallengeNotFound):
			util.NotFound(ctx, "Challenge not found")
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"challenge": challenge})
}

// Delete godoc
// @Summary 删除题目（出题人或管理员）
// @Tags 题目
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题目 ID"
// @Success 200 {object} util.Response
// @Router /api/challenges/{id} [delete]
func (c *ChallengeController) Delete(ctx *gin.Context) {
	id, ok := util.ParseID(ctx.Param("id"))
	if !ok {
		util.BadRequest(ctx, "Invalid challenge id")
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.ChallengeService.Delete(id, claims); err != nil {
		switch {
		case errors.Is(err, util.ErrChallengeNotFound):
			util.NotFound(ctx, "Challenge not found")
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}
