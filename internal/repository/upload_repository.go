package repository

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ashwinyue/snapdesc/internal/model"
)

// UploadRepository 上传记录仓库
type UploadRepository struct {
	db *gorm.DB
}

// NewUploadRepository 创建上传记录仓库
func NewUploadRepository(db *gorm.DB) *UploadRepository {
	return &UploadRepository{db: db}
}

// FindByHash 按内容指纹查找记录（去重查询）
// 跨用户查询，返回任意用户的首条匹配；没有匹配时返回 (nil, nil)。
func (r *UploadRepository) FindByHash(fileHash string) (*model.Upload, error) {
	var upload model.Upload
	err := r.db.Where("file_hash = ?", fileHash).
		Order("created_at ASC").
		First(&upload).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &upload, nil
}

// Create 创建上传记录
// owner/file_hash/file_name/description 缺一不可；ID 与时间戳由仓库分配。
func (r *UploadRepository) Create(upload *model.Upload) error {
	if upload.Owner == "" || upload.FileHash == "" || upload.FileName == "" || upload.Description == "" {
		return fmt.Errorf("upload record missing required fields")
	}
	if upload.ID == "" {
		upload.ID = uuid.New().String()
	}
	return r.db.Create(upload).Error
}

// UpdateFileName 更新记录的存储文件名
func (r *UploadRepository) UpdateFileName(id, fileName string) error {
	return r.db.Model(&model.Upload{}).Where("id = ?", id).Update("file_name", fileName).Error
}

// ListByOwner 列出用户的所有上传记录
func (r *UploadRepository) ListByOwner(owner string) ([]*model.Upload, error) {
	var uploads []*model.Upload
	err := r.db.Where("owner = ?", owner).Order("created_at DESC").Find(&uploads).Error
	return uploads, err
}

// Delete 删除用户自己的上传记录
// 仅限记录属主；他人的记录返回 (nil, nil)，不暴露其存在。
func (r *UploadRepository) Delete(owner, id string) (*model.Upload, error) {
	var upload model.Upload
	err := r.db.Where("owner = ? AND id = ?", owner, id).First(&upload).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.db.Delete(&model.Upload{}, "owner = ? AND id = ?", owner, id).Error; err != nil {
		return nil, err
	}
	return &upload, nil
}

// SetParentFolder 将记录移入文件夹（folderID 为 nil 时移出）
func (r *UploadRepository) SetParentFolder(owner, id string, folderID *string) (*model.Upload, error) {
	result := r.db.Model(&model.Upload{}).
		Where("owner = ? AND id = ?", owner, id).
		Update("parent_folder", folderID)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	var upload model.Upload
	if err := r.db.Where("owner = ? AND id = ?", owner, id).First(&upload).Error; err != nil {
		return nil, err
	}
	return &upload, nil
}
