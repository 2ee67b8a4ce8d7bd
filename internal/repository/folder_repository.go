package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ashwinyue/snapdesc/internal/model"
)

// FolderRepository 文件夹仓库
type FolderRepository struct {
	db *gorm.DB
}

// NewFolderRepository 创建文件夹仓库
func NewFolderRepository(db *gorm.DB) *FolderRepository {
	return &FolderRepository{db: db}
}

// Create 创建文件夹
func (r *FolderRepository) Create(folder *model.Folder) error {
	if folder.ID == "" {
		folder.ID = uuid.New().String()
	}
	return r.db.Create(folder).Error
}

// GetByID 获取用户自己的文件夹
func (r *FolderRepository) GetByID(owner, id string) (*model.Folder, error) {
	var folder model.Folder
	err := r.db.Where("owner = ? AND id = ?", owner, id).First(&folder).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

// ListByOwner 列出用户的所有文件夹
func (r *FolderRepository) ListByOwner(owner string) ([]*model.Folder, error) {
	var folders []*model.Folder
	err := r.db.Where("owner = ?", owner).Order("created_at DESC").Find(&folders).Error
	return folders, err
}

// Rename 重命名用户自己的文件夹
func (r *FolderRepository) Rename(owner, id, name string) (bool, error) {
	result := r.db.Model(&model.Folder{}).
		Where("owner = ? AND id = ?", owner, id).
		Update("name", name)
	return result.RowsAffected > 0, result.Error
}

// Delete 删除用户自己的文件夹，文件夹内的记录移出
func (r *FolderRepository) Delete(owner, id string) (bool, error) {
	if err := r.db.Model(&model.Upload{}).
		Where("owner = ? AND parent_folder = ?", owner, id).
		Update("parent_folder", nil).Error; err != nil {
		return false, err
	}

	result := r.db.Delete(&model.Folder{}, "owner = ? AND id = ?", owner, id)
	return result.RowsAffected > 0, result.Error
}
