package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/snapdesc/internal/middleware"
	"github.com/ashwinyue/snapdesc/internal/service"
	"github.com/ashwinyue/snapdesc/internal/service/upload"
)

// UploadHandler 上传处理器
type UploadHandler struct {
	svc *service.Services
}

// NewUploadHandler 创建上传处理器
func NewUploadHandler(svc *service.Services) *UploadHandler {
	return &UploadHandler{svc: svc}
}

// uploadSuccess 上传成功响应
type uploadSuccess struct {
	Success     bool   `json:"success"`
	Filename    string `json:"filename"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

// uploadFailure 上传失败响应
// is_auth / is_limited 让客户端区分"重新登录"、"稍后重试"和"换个文件"。
type uploadFailure struct {
	Success   bool   `json:"success"`
	IsAuth    bool   `json:"is_auth"`
	IsLimited bool   `json:"is_limited"`
	Reason    string `json:"reason"`
}

// allowedImageExts 接受的图片扩展名
var allowedImageExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
}

// Upload 上传图片并生成描述
// 相同内容只分析一次；重复上传复用既有的描述与存储。
func (h *UploadHandler) Upload(c *gin.Context) {
	// 未认证：受检结果，此时还没有碰任何文件
	uid, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusOK, uploadFailure{Reason: "unauthorized"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusOK, uploadFailure{IsAuth: true, Reason: "no file uploaded"})
		return
	}

	maxBytes := h.svc.Config.Storage.MaxUploadMiB * 1024 * 1024
	if fileHeader.Size > maxBytes {
		c.JSON(http.StatusOK, uploadFailure{IsAuth: true, Reason: "file too large"})
		return
	}

	// 只接受图片
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedImageExts[ext] || !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusOK, uploadFailure{IsAuth: true, Reason: "only image files are allowed"})
		return
	}

	// 暂存到存储目录，防冲突名由存储生成
	f, err := fileHeader.Open()
	if err != nil {
		InternalServerError(c, "failed to read upload")
		return
	}
	defer f.Close()

	stagedName, err := h.svc.Blobs.Save(f, fileHeader.Filename)
	if err != nil {
		InternalServerError(c, "failed to stage upload")
		return
	}

	result, err := h.svc.Upload.Process(c.Request.Context(), &upload.Request{
		Owner:      uid,
		StagedName: stagedName,
		RemoteIP:   c.ClientIP(),
	})
	if err != nil {
		h.writeFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, uploadSuccess{
		Success:     true,
		Filename:    result.Filename,
		Path:        result.Path,
		Description: result.Description,
	})
}

// writeFailure 把管线的受检终止结果映射为响应
func (h *UploadHandler) writeFailure(c *gin.Context, err error) {
	switch {
	case errors.Is(err, upload.ErrUnauthorized):
		c.JSON(http.StatusOK, uploadFailure{Reason: "unauthorized"})
	case errors.Is(err, upload.ErrNoFile):
		c.JSON(http.StatusOK, uploadFailure{IsAuth: true, Reason: "no file uploaded"})
	case errors.Is(err, upload.ErrRateLimited):
		c.JSON(http.StatusOK, uploadFailure{IsAuth: true, IsLimited: true, Reason: upload.ErrRateLimited.Error()})
	case errors.Is(err, upload.ErrAnalysisFailed):
		c.JSON(http.StatusOK, uploadFailure{IsAuth: true, Reason: upload.ErrAnalysisFailed.Error()})
	case errors.Is(err, upload.ErrPersistFailed):
		c.JSON(http.StatusOK, uploadFailure{IsAuth: true, Reason: upload.ErrPersistFailed.Error()})
	default:
		// 基础设施故障：只影响本次请求
		c.JSON(http.StatusInternalServerError, uploadFailure{IsAuth: true, Reason: "internal error"})
	}
}

// List 列出当前用户的上传记录
func (h *UploadHandler) List(c *gin.Context) {
	uid, _ := middleware.GetUserID(c)

	uploads, err := h.svc.Upload.List(c.Request.Context(), uid)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, uploads)
}

// Delete 删除当前用户的上传记录
func (h *UploadHandler) Delete(c *gin.Context) {
	uid, _ := middleware.GetUserID(c)
	id := c.Param("id")

	deleted, err := h.svc.Upload.Delete(c.Request.Context(), uid, id)
	if err != nil {
		Error(c, err)
		return
	}
	if deleted == nil {
		NotFound(c, "upload not found")
		return
	}
	Success(c, deleted)
}

// moveRequest 移动文件夹请求
type moveRequest struct {
	FolderID string `json:"folder_id" binding:"required"`
}

// AddToFolder 把上传记录移入文件夹
func (h *UploadHandler) AddToFolder(c *gin.Context) {
	uid, _ := middleware.GetUserID(c)
	id := c.Param("id")

	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "folder_id is required")
		return
	}

	moved, err := h.svc.Upload.AddToFolder(c.Request.Context(), uid, id, req.FolderID)
	if err != nil {
		Error(c, err)
		return
	}
	if moved == nil {
		NotFound(c, "upload or folder not found")
		return
	}
	Success(c, moved)
}

// RemoveFromFolder 把上传记录移出文件夹
func (h *UploadHandler) RemoveFromFolder(c *gin.Context) {
	uid, _ := middleware.GetUserID(c)
	id := c.Param("id")

	moved, err := h.svc.Upload.RemoveFromFolder(c.Request.Context(), uid, id)
	if err != nil {
		Error(c, err)
		return
	}
	if moved == nil {
		NotFound(c, "upload not found")
		return
	}
	Success(c, moved)
}
