package controller

import (
	"ctf_platform_backend/internal/service"
	"ctf_platform_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type AttachmentController struct {
	AttachmentService *service.AttachmentService
}

func NewAttachmentController(attachmentService *service.AttachmentService) *AttachmentController {
	return &AttachmentController{AttachmentService: attachmentService}
}

// Upload godoc
// @Summary 上传题目附件（管理员）
// @Tags 附件
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题目 ID"
// @Param   file formData file true "附件"
// @Success 201 {object} util.Response{data=model.Attachment}
// @Router /api/challenges/{id}/attachments [post]
func (c *AttachmentController) Upload(ctx *gin.Context) {
	challengeID, ok := util.ParseID(ctx.Param("id"))
	if !ok {
		util.BadRequest(ctx, "Invalid challenge id")
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	attachment, err := c.AttachmentService.Upload(
		ctx.Request.Context(),
		challengeID,
		fileHeader.Filename,
		file,
		fileHeader.Size,
		fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		if errors.Is(err, util.ErrChallengeNotFound) {
			util.NotFound(ctx, "Challenge not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{"attachment": attachment})
}

// List godoc
// @Summary 题目附件列表
// @Tags 附件
// @Produce  json
// @Param   id path int true "题目 ID"
// @Success 200 {object} util.Response{data=[]model.Attachment}
// @Router /api/challenges/{id}/attachments [get]
func (c *AttachmentController) List(ctx *gin.Context) {
	challengeID, ok := util.ParseID(ctx.Param("id"))
	if !ok {
		util.BadRequest(ctx, "Invalid challenge id")
		return
	}

	attachments, err := c.AttachmentService.ListByChallenge(challengeID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"attachments": attachments})
}

// Delete godoc
// @Summary 删除附件（管理员）
// @Tags 附件
// @Produce  json
// @Security ApiKeyAuth
// @Param   attachmentId path int true "附件 ID"
// @Success 200 {object} util.Response
// @Router /api/attachments/{attachmentId} [delete]
func (c *AttachmentController) Delete(ctx *gin.Context) {
	id, ok := util.ParseID(ctx.Param("attachmentId"))
	if !ok {
		util.BadRequest(ctx, "Invalid attachment id")
		return
	}

	if err := c.AttachmentService.Delete(ctx.Request.Context(), id); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}
