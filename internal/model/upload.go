package model

import "time"

// Upload 上传记录
// FileHash 作为去重查询键（跨用户），Description 与 FileHash 在创建时一并写入。
// Owner 创建后不再变更。
type Upload struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Owner        string    `gorm:"index;size:36;not null" json:"owner"`
	FileHash     string    `gorm:"index;size:64;not null" json:"file_hash"`
	FileName     string    `gorm:"size:255;not null" json:"file_name"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	ParentFolder *string   `gorm:"index;size:36" json:"parent_folder"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 指定表名
func (Upload) TableName() string {
	return "uploads"
}

// Folder 用户文件夹
type Folder struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Owner     string    `gorm:"index;size:36;not null" json:"owner"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 指定表名
func (Folder) TableName() string {
	return "folders"
}
