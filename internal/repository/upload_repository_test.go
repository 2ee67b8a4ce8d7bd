// Package repository 提供上传记录仓库单元测试
package repository

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ashwinyue/snapdesc/internal/model"
)

// newTestDB 创建内存数据库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(model.AllModels...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

// ========== Create / FindByHash 测试 ==========

func TestUploadRepository_RoundTrip(t *testing.T) {
	repo := NewUploadRepository(newTestDB(t))

	upload := &model.Upload{
		Owner:       "user-a",
		FileHash:    "aaaa1111",
		FileName:    "x1.png",
		Description: "a red bicycle leaning on a wall",
	}
	if err := repo.Create(upload); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if upload.ID == "" {
		t.Fatal("Create() did not assign an ID")
	}

	found, err := repo.FindByHash("aaaa1111")
	if err != nil {
		t.Fatalf("FindByHash() error: %v", err)
	}
	if found == nil {
		t.Fatal("FindByHash() returned nil for existing hash")
	}
	if found.Description != upload.Description {
		t.Errorf("Description = %q, want %q", found.Description, upload.Description)
	}
	if found.Owner != upload.Owner {
		t.Errorf("Owner = %q, want %q", found.Owner, upload.Owner)
	}
}

func TestUploadRepository_FindByHash_NotFound(t *testing.T) {
	repo := NewUploadRepository(newTestDB(t))

	found, err := repo.FindByHash("missing")
	if err != nil {
		t.Fatalf("FindByHash() error: %v", err)
	}
	if found != nil {
		t.Errorf("FindByHash() = %+v, want nil", found)
	}
}

func TestUploadRepository_FindByHash_CrossOwnerFirstMatch(t *testing.T) {
	repo := NewUploadRepository(newTestDB(t))

	first := &model.Upload{
		Owner:       "user-a",
		FileHash:    "shared",
		FileName:    "first.png",
		Description: "desc",
		CreatedAt:   time.Now().Add(-time.Hour),
	}
	second := &model.Upload{
		Owner:       "user-b",
		FileHash:    "shared",
		FileName:    "second.png",
		Description: "desc",
		CreatedAt:   time.Now(),
	}
	if err := repo.Create(first); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if err := repo.Create(second); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	// 去重查询不限属主，返回最早的记录
	found, err := repo.FindByHash("shared")
	if err != nil {
		t.Fatalf("FindByHash() error: %v", err)
	}
	if found == nil {
		t.Fatal("FindByHash() returned nil")
	}
	if found.FileName != "first.png" {
		t.Errorf("FileName = %q, want first.png", found.FileName)
	}
}

func TestUploadRepository_Create_MissingFields(t *testing.T) {
	repo := NewUploadRepository(newTestDB(t))

	tests := []struct {
		name   string
		upload *model.Upload
	}{
		{
			name:   "missing description",
			upload: &model.Upload{Owner: "u", FileHash: "h", FileName: "f"},
		},
		{
			name:   "missing owner",
			upload: &model.Upload{FileHash: "h", FileName: "f", Description: "d"},
		},
		{
			name:   "missing hash",
			upload: &model.Upload{Owner: "u", FileName: "f", Description: "d"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := repo.Create(tt.upload); err == nil {
				t.Error("Create() succeeded with missing required fields")
			}
		})
	}
}

// ========== Delete 测试 ==========

func TestUploadRepository_Delete_OwnerScoped(t *testing.T) {
	repo := NewUploadRepository(newTestDB(t))

	upload := &model.Upload{
		Owner:       "user-b",
		FileHash:    "bbbb",
		FileName:    "b.png",
		Description: "desc",
	}
	if err := repo.Create(upload); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	// 他人的记录：未找到，不报错
	deleted, err := repo.Delete("user-a", upload.ID)
	if err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if deleted != nil {
		t.Error("Delete() removed another owner's record")
	}

	// 记录仍然存在
	found, err := repo.FindByHash("bbbb")
	if err != nil {
		t.Fatalf("FindByHash() error: %v", err)
	}
	if found == nil {
		t.Fatal("record disappeared after foreign delete attempt")
	}

	// 属主删除成功
	deleted, err = repo.Delete("user-b", upload.ID)
	if err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if deleted == nil {
		t.Fatal("Delete() by owner returned nil")
	}
	if deleted.FileName != "b.png" {
		t.Errorf("deleted FileName = %q, want b.png", deleted.FileName)
	}
}

// ========== SetParentFolder 测试 ==========

func TestUploadRepository_SetParentFolder(t *testing.T) {
	db := newTestDB(t)
	repo := NewUploadRepository(db)
	folders := NewFolderRepository(db)

	folder := &model.Folder{Owner: "user-a", Name: "vacation"}
	if err := folders.Create(folder); err != nil {
		t.Fatalf("Create(folder) error: %v", err)
	}

	upload := &model.Upload{
		Owner:       "user-a",
		FileHash:    "cccc",
		FileName:    "c.png",
		Description: "desc",
	}
	if err := repo.Create(upload); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	moved, err := repo.SetParentFolder("user-a", upload.ID, &folder.ID)
	if err != nil {
		t.Fatalf("SetParentFolder() error: %v", err)
	}
	if moved == nil || moved.ParentFolder == nil || *moved.ParentFolder != folder.ID {
		t.Fatalf("SetParentFolder() = %+v, want parent_folder %q", moved, folder.ID)
	}

	// 移出文件夹
	moved, err = repo.SetParentFolder("user-a", upload.ID, nil)
	if err != nil {
		t.Fatalf("SetParentFolder(nil) error: %v", err)
	}
	if moved == nil || moved.ParentFolder != nil {
		t.Errorf("SetParentFolder(nil) = %+v, want nil parent_folder", moved)
	}

	// 他人的记录不受影响
	moved, err = repo.SetParentFolder("user-b", upload.ID, &folder.ID)
	if err != nil {
		t.Fatalf("SetParentFolder() error: %v", err)
	}
	if moved != nil {
		t.Error("SetParentFolder() moved another owner's record")
	}
}

// ========== UpdateFileName 测试 ==========

func TestUploadRepository_UpdateFileName(t *testing.T) {
	repo := NewUploadRepository(newTestDB(t))

	upload := &model.Upload{
		Owner:       "user-a",
		FileHash:    "dddd",
		FileName:    "old.png",
		Description: "desc",
	}
	if err := repo.Create(upload); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if err := repo.UpdateFileName(upload.ID, "new.png"); err != nil {
		t.Fatalf("UpdateFileName() error: %v", err)
	}

	found, err := repo.FindByHash("dddd")
	if err != nil {
		t.Fatalf("FindByHash() error: %v", err)
	}
	if found.FileName != "new.png" {
		t.Errorf("FileName = %q, want %q", found.FileName, "new.png")
	}

	// 未知 ID：无此行可改，不报错也不影响既有记录
	if err := repo.UpdateFileName("no-such-id", "other.png"); err != nil {
		t.Fatalf("UpdateFileName(unknown id) error: %v", err)
	}
	found, err = repo.FindByHash("dddd")
	if err != nil {
		t.Fatalf("FindByHash() error: %v", err)
	}
	if found.FileName != "new.png" {
		t.Errorf("FileName = %q changed by unknown-id update", found.FileName)
	}
}
