package handle

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/hazopvault/pkg/configs"
	ctxPkg "github.com/yeisme/hazopvault/pkg/context"
	"github.com/yeisme/hazopvault/pkg/internal/service"
	"github.com/yeisme/hazopvault/pkg/internal/types"
)

// FormFieldImage 上传表单中图像字段名.
const FormFieldImage = "pidImage"

// multipartOverhead 为 multipart 边界与其它字段预留的字节数.
const multipartOverhead = 1 << 20

// UploadImage 上传 P&ID 图像.
//
//	@Summary		上传 P&ID 图像
//	@Description	图像最长边超过上限时按比例缩小后存储，返回对象标识
//	@Tags			上传
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			pidImage	formData	file						true	"P&ID 图像"
//	@Success		201			{object}	types.UploadResponse		"上传成功"
//	@Failure		400			{object}	types.ErrorResponse			"未上传文件或格式不支持"
//	@Failure		500			{object}	types.ErrorResponse			"存储错误"
//	@Router			/api/upload [post]
func UploadImage(c *gin.Context) {
	ctx := c.Request.Context()
	l := ctxPkg.Logger(ctx)

	limit := configs.GetConfig().Image.MaxUploadBytes
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)

	header, err := c.FormFile(FormFieldImage)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			l.Warn().Err(err).Msg("upload exceeds size limit")
			c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: types.MsgFileTooLarge})

			return
		}

		l.Warn().Err(err).Msg("no file in upload request")
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: types.MsgNoFile})

		return
	}

	file, err := header.Open()
	if err != nil {
		writeError(c, err, types.MsgUploadFailed)
		return
	}
	defer file.Close()

	svc, err := service.NewUploadService(ctx)
	if err != nil {
		writeError(c, err, types.MsgUploadFailed)
		return
	}

	res, err := svc.Upload(ctx, filepath.Base(header.Filename), header.Header.Get("Content-Type"), file)
	if err != nil {
		writeError(c, err, types.MsgUploadFailed)
		return
	}

	l.Info().
		Str("file_id", res.File.ID).
		Int64("size", res.File.Size).
		Bool("resized", res.Image.Resized).
		Msg("image uploaded")

	c.JSON(http.StatusCreated, types.UploadResponse{
		Message:  types.MsgFileUploaded,
		FileID:   res.File.ID,
		Filename: res.File.Filename,
		Width:    res.Image.Width,
		Height:   res.Image.Height,
		Resized:  res.Image.Resized,
	})
}

// GetUpload 读取已上传的图像.
//
//	@Summary		读取图像
//	@Description	以原始内容类型流式返回已存储的图像
//	@Tags			上传
//	@Produce		octet-stream
//	@Param			fileId	path		string				true	"文件 ID"
//	@Success		200		{file}		file				"图像内容"
//	@Failure		400		{object}	types.ErrorResponse	"文件 ID 格式错误"
//	@Failure		404		{object}	types.ErrorResponse	"文件不存在"
//	@Router			/api/upload/{fileId} [get]
func GetUpload(c *gin.Context) {
	ctx := c.Request.Context()

	svc, err := service.NewUploadService(ctx)
	if err != nil {
		writeError(c, err, types.MsgReadFileFailed)
		return
	}

	obj, err := svc.Open(ctx, c.Param("fileId"))
	if err != nil {
		writeError(c, err, types.MsgReadFileFailed)
		return
	}
	defer obj.Close()

	c.DataFromReader(http.StatusOK, obj.Info.Size, obj.Info.ContentType, obj, nil)
}
