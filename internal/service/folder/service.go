// Package folder 管理用户的图片文件夹。
package folder

import (
	"context"
	"fmt"

	"github.com/ashwinyue/snapdesc/internal/model"
	"github.com/ashwinyue/snapdesc/internal/repository"
)

// Service 文件夹服务
type Service struct {
	repo *repository.Repositories
}

// NewService 创建文件夹服务
func NewService(repo *repository.Repositories) *Service {
	return &Service{repo: repo}
}

// List 列出用户的所有文件夹
func (s *Service) List(ctx context.Context, owner string) ([]*model.Folder, error) {
	return s.repo.Folder.ListByOwner(owner)
}

// Create 创建文件夹
func (s *Service) Create(ctx context.Context, owner, name string) (*model.Folder, error) {
	if name == "" {
		return nil, fmt.Errorf("folder name is required")
	}

	folder := &model.Folder{
		Owner: owner,
		Name:  name,
	}
	if err := s.repo.Folder.Create(folder); err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}
	return folder, nil
}

// Rename 重命名用户自己的文件夹；他人的文件夹按未找到处理
func (s *Service) Rename(ctx context.Context, owner, id, name string) (bool, error) {
	if name == "" {
		return false, fmt.Errorf("folder name is required")
	}
	return s.repo.Folder.Rename(owner, id, name)
}

// Delete 删除用户自己的文件夹
func (s *Service) Delete(ctx context.Context, owner, id string) (bool, error) {
	return s.repo.Folder.Delete(owner, id)
}
