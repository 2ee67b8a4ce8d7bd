// Package hash 计算内容指纹（流式 sha256，十六进制编码）。
// 相同字节内容始终得到相同指纹，与文件名、上传时间、调用者无关。
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// SumReader 流式计算 reader 内容的 sha256 指纹
func SumReader(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("failed to hash content: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// SumFile 计算文件内容的 sha256 指纹
func SumFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file for hashing: %w", err)
	}
	defer f.Close()

	return SumReader(f)
}
