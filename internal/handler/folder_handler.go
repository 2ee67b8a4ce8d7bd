package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/snapdesc/internal/middleware"
	"github.com/ashwinyue/snapdesc/internal/service"
)

// FolderHandler 文件夹处理器
type FolderHandler struct {
	svc *service.Services
}

// NewFolderHandler 创建文件夹处理器
func NewFolderHandler(svc *service.Services) *FolderHandler {
	return &FolderHandler{svc: svc}
}

// folderRequest 创建/重命名请求
type folderRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// List 列出当前用户的文件夹
func (h *FolderHandler) List(c *gin.Context) {
	uid, _ := middleware.GetUserID(c)

	folders, err := h.svc.Folder.List(c.Request.Context(), uid)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, folders)
}

// Create 创建文件夹
func (h *FolderHandler) Create(c *gin.Context) {
	uid, _ := middleware.GetUserID(c)

	var req folderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "name is required")
		return
	}

	folder, err := h.svc.Folder.Create(c.Request.Context(), uid, req.Name)
	if err != nil {
		Error(c, err)
		return
	}
	Created(c, folder)
}

// Rename 重命名文件夹
func (h *FolderHandler) Rename(c *gin.Context) {
	uid, _ := middleware.GetUserID(c)
	id := c.Param("id")

	var req folderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "name is required")
		return
	}

	renamed, err := h.svc.Folder.Rename(c.Request.Context(), uid, id, req.Name)
	if err != nil {
		Error(c, err)
		return
	}
	if !renamed {
		NotFound(c, "folder not found")
		return
	}
	Success(c, gin.H{"message": "Folder renamed"})
}

// Delete 删除文件夹
func (h *FolderHandler) Delete(c *gin.Context) {
	uid, _ := middleware.GetUserID(c)
	id := c.Param("id")

	deleted, err := h.svc.Folder.Delete(c.Request.Context(), uid, id)
	if err != nil {
		Error(c, err)
		return
	}
	if !deleted {
		NotFound(c, "folder not found")
		return
	}
	Success(c, gin.H{"message": "Folder deleted"})
}
