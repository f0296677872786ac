package controller

import (
	"ctf_platform_backend/internal/service"
	"ctf_platform_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type ScoreboardController struct {
	ScoreService *service.ScoreService
}

func NewScoreboardController(scoreService *service.ScoreService) *ScoreboardController {
	return &ScoreboardController{ScoreService: scoreService}
}

// List godoc
// @Summary 排行榜
// @Description 按总分降序、最近解题时间升序排序；limit 非法时取 100，上限 1000
// @Tags 排行榜
// @Produce  json
// @Param   limit query int false "窗口大小"
// @Success 200 {object} util.Response{data=object}
// @Router /api/scoreboard [get]
func (c *ScoreboardController) List(ctx *gin.Context) {
	limit := service.ResolveLimit(ctx.Query("limit"))

	entries, err := c.ScoreService.Scoreboard(ctx.Request.Context(), limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"scoreboard": entries})
}

// My godoc
// @Summary 我的成绩和名次
// @Tags 排行榜
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.ScoreEntry}
// @Router /api/scoreboard/me [get]
func (c *ScoreboardController) My(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	c.renderUserScore(ctx, claims.UserID)
}

// User godoc
// @Summary 指定用户的成绩和名次
// @Tags 排行榜
// @Produce  json
// @Param   id path int true "用户 ID"
// @Success 200 {object} util.Response{data=model.ScoreEntry}
// @Failure 400 {object} util.Response "ID 非法"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/scoreboard/{id} [get]
func (c *ScoreboardController) User(ctx *gin.Context) {
	id, ok := util.ParseID(ctx.Param("id"))
	if !ok {
		util.BadRequest(ctx, "Invalid user id")
		return
	}

	c.renderUserScore(ctx, id)
}

func (c *ScoreboardController) renderUserScore(ctx *gin.Context, userID uint) {
	entry, err := c.ScoreService.ComputeScore(userID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidUserID):
			util.BadRequest(ctx, "Invalid user id")
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx, "User not found")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	rank, err := c.ScoreService.ComputeRank(userID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	entry.Rank = rank

	util.Success(ctx, gin.H{"score": entry})
}
