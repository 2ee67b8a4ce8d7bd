package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStorage 本地图片存储
type LocalStorage struct {
	basePath  string // 基础路径
	urlPrefix string // URL前缀，用于生成访问URL
}

// NewLocalStorage 创建本地存储服务
func NewLocalStorage(basePath, urlPrefix string) (*LocalStorage, error) {
	// 确保基础路径存在
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &LocalStorage{
		basePath:  basePath,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
	}, nil
}

// Save 保存内容到本地
// 存储名为 uuid + 原始扩展名，避免不同请求间的名字冲突。
func (s *LocalStorage) Save(r io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := uuid.New().String() + ext
	fullPath := filepath.Join(s.basePath, name)

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, r); err != nil {
		// 写入失败的残留文件一并清掉
		_ = os.Remove(fullPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return name, nil
}

// Open 打开存储的内容
func (s *LocalStorage) Open(name string) (io.ReadCloser, error) {
	file, err := os.Open(filepath.Join(s.basePath, name))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// Remove 按名字删除
func (s *LocalStorage) Remove(name string) error {
	if err := os.Remove(filepath.Join(s.basePath, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Path 存储文件的磁盘路径
func (s *LocalStorage) Path(name string) string {
	return filepath.Join(s.basePath, name)
}

// URL 存储文件的访问URL
func (s *LocalStorage) URL(name string) string {
	return fmt.Sprintf("%s/%s", s.urlPrefix, name)
}

// BasePath 基础路径，用于静态文件服务
func (s *LocalStorage) BasePath() string {
	return s.basePath
}
