package handler

import (
	"github.com/ashwinyue/snapdesc/internal/service"
)

// Handlers 处理器集合
type Handlers struct {
	Auth   *AuthHandler
	Upload *UploadHandler
	Folder *FolderHandler
}

// NewHandlers 创建所有处理器
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Auth:   NewAuthHandler(svc),
		Upload: NewUploadHandler(svc),
		Folder: NewFolderHandler(svc),
	}
}
