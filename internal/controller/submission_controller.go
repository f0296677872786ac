package controller

import (
	"ctf_platform_backend/internal/repository"
	"ctf_platform_backend/internal/service"
	"ctf_platform_backend/internal/util"
	"ctf_platform_backend/pkg/monitoring"
	"errors"

	"github.com/gin-gonic/gin"
)

type SubmissionController struct {
	SubmissionService *service.SubmissionService
}

func NewSubmissionController(submissionService *service.SubmissionService) *SubmissionController {
	return &SubmissionController{SubmissionService: submissionService}
}

type SubmitFlagRequest struct {
	ChallengeID uint   `json:"challengeId" binding:"required"`
	Flag        string `json:"flag" binding:"required"`
}

// Submit godoc
// @Summary 提交 flag
// @Description 已解出的题不允许重复提交；错误提交同样记录
// @Tags 提交
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body SubmitFlagRequest true "flag"
// @Success 200 {object} util.Response{data=service.SubmitResult}
// @Failure 400 {object} util.Response "该题已解出"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/submissions [post]
func (c *SubmissionController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitFlagRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.SubmissionService.SubmitFlag(ctx.Request.Context(), claims.UserID, req.ChallengeID, req.Flag)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrChallengeNotFound):
			util.NotFound(ctx, "Challenge not found")
		case errors.Is(err, util.ErrAlreadySolved):
			util.BadRequest(ctx, "You have already solved this challenge")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	verdict := "wrong"
	if result.Correct {
		verdict = "correct"
	}
	monitoring.FlagSubmissions.WithLabelValues(verdict).Inc()

	util.Success(ctx, result)
}

// ListMy godoc
// @Summary 我的提交记录
// @Tags 提交
// @Produce  json
// @Security ApiKeyAuth
// @Param   challengeId query int false "按题目过滤"
// @Param   page query int false "页码"
// @Param   limit query int false "每页条数"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/submissions/my [get]
func (c *SubmissionController) ListMy(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page := util.ParsePositiveInt(ctx.Query("page"), 1)
	limit := util.ParsePositiveInt(ctx.Query("limit"), 50)

	filter := repository.SubmissionFilter{
		UserID: claims.UserID,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
	if challengeID, ok := util.ParseID(ctx.Query("challengeId")); ok {
		filter.ChallengeID = challengeID
	}

	submissions, total, err := c.SubmissionService.List(filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:       submissions,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
	})
}

// ListAll godoc
// @Summary 全部提交记录（管理员）
// @Tags 提交
// @Produce  json
// @Security ApiKeyAuth
// @Param   userId query int false "按用户过滤"
// @Param   challengeId query int false "按题目过滤"
// @Param   isCorrect query bool false "按判定结果过滤"
// @Param   page query int false "页码"
// @Param   limit query int false "每页条数"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/submissions [get]
func (c *SubmissionController) ListAll(ctx *gin.Context) {
	page := util.ParsePositiveInt(ctx.Query("page"), 1)
	limit := util.ParsePositiveInt(ctx.Query("limit"), 50)

	filter := repository.SubmissionFilter{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
	if userID, ok := util.ParseID(ctx.Query("userId")); ok {
		filter.UserID = userID
	}
	if challengeID, ok := util.ParseID(ctx.Query("challengeId")); ok {
		filter.ChallengeID = challengeID
	}
	if raw := ctx.Query("isCorrect"); raw != "" {
		isCorrect := raw == "true"
		filter.IsCorrect = &isCorrect
	}

	submissions, total, err := c.SubmissionService.List(filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:       submissions,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
	})
}
