package storage

import "io"

// Storage 图片存储接口
// 上传字节以生成的防冲突文件名一次性写入，之后按名字读取或删除。
type Storage interface {
	// Save 保存内容，返回生成的存储文件名
	Save(r io.Reader, originalName string) (string, error)
	// Open 打开存储的内容
	Open(name string) (io.ReadCloser, error)
	// Remove 按名字删除，文件不存在时不报错
	Remove(name string) error
	// Path 存储文件的磁盘路径
	Path(name string) string
	// URL 存储文件的访问URL
	URL(name string) string
}
