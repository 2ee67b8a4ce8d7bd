// Package upload 实现上传处理管线：
// 认证身份 → 限流 → 内容指纹 → 去重查询 → （未命中时）分析 → 落库。
//
// 暂存文件是请求生命周期内的受管资源：管线的每个出口都会释放它，
// 只有未命中且落库成功时才保留，成为该内容的正式存储。
package upload

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ashwinyue/snapdesc/internal/hash"
	"github.com/ashwinyue/snapdesc/internal/model"
	"github.com/ashwinyue/snapdesc/internal/storage"
)

// 管线的受检终止结果，由传输层映射为响应
var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrNoFile         = errors.New("no file uploaded")
	ErrRateLimited    = errors.New("rate limited: retry in an hour")
	ErrAnalysisFailed = errors.New("failed to analyze image")
	ErrPersistFailed  = errors.New("failed to process image")
)

// Analyzer 图片分析调用
type Analyzer interface {
	Describe(ctx context.Context, path string) (string, error)
}

// Limiter 限流判断
type Limiter interface {
	Limited(ctx context.Context, key string, limit int64, window time.Duration) (bool, error)
}

// Records 上传记录存取
type Records interface {
	FindByHash(fileHash string) (*model.Upload, error)
	Create(upload *model.Upload) error
	ListByOwner(owner string) ([]*model.Upload, error)
	Delete(owner, id string) (*model.Upload, error)
	SetParentFolder(owner, id string, folderID *string) (*model.Upload, error)
}

// Folders 文件夹归属校验
type Folders interface {
	GetByID(owner, id string) (*model.Folder, error)
}

// Service 上传管线服务
type Service struct {
	records  Records
	folders  Folders
	blobs    storage.Storage
	limiter  Limiter
	analyzer Analyzer

	limit  int64
	window time.Duration

	// 同一指纹的并发未命中合并为一次分析
	group singleflight.Group
}

// NewService 创建上传管线服务
func NewService(records Records, folders Folders, blobs storage.Storage, limiter Limiter, analyzer Analyzer, limit int64, window time.Duration) *Service {
	return &Service{
		records:  records,
		folders:  folders,
		blobs:    blobs,
		limiter:  limiter,
		analyzer: analyzer,
		limit:    limit,
		window:   window,
	}
}

// Request 一次上传请求的类型化输入
// 传输层在调用前完成身份解析与文件暂存。
type Request struct {
	Owner      string // 已认证的用户；为空表示未认证
	StagedName string // 暂存文件的存储名；为空表示没有文件
	RemoteIP   string // 网络来源，优先作为限流 key
}

// Result 上传成功结果
type Result struct {
	Filename     string `json:"filename"`
	Path         string `json:"path"`
	Description  string `json:"description"`
	Deduplicated bool   `json:"-"`
}

// Process 执行上传管线
// 受检结果以上方的哨兵错误返回；基础设施故障（计数存储、数据库不可达）
// 原样向上传播，只影响当前请求。
func (s *Service) Process(ctx context.Context, req *Request) (*Result, error) {
	// 1. 认证：没有身份直接终止，此时不碰任何文件
	if req.Owner == "" {
		return nil, ErrUnauthorized
	}

	// 2. 载荷校验
	if req.StagedName == "" {
		return nil, ErrNoFile
	}

	// 暂存文件在所有出口统一释放，只有成为正式存储时保留
	keep := false
	defer func() {
		if keep {
			return
		}
		if err := s.blobs.Remove(req.StagedName); err != nil {
			log.Printf("failed to remove staged file %s: %v", req.StagedName, err)
		}
	}()

	// 3. 限流：key 优先取网络来源，拿不到时退回账号身份
	key := req.RemoteIP
	if key == "" {
		key = req.Owner
	}
	limited, err := s.limiter.Limited(ctx, key, s.limit, s.window)
	if err != nil {
		return nil, fmt.Errorf("rate limiter unavailable: %w", err)
	}
	if limited {
		return nil, ErrRateLimited
	}

	// 4. 内容指纹
	fileHash, err := hash.SumFile(s.blobs.Path(req.StagedName))
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint upload: %w", err)
	}

	// 5. 去重查询：命中即复用既有描述，正式记录不做任何改动，
	// 本次暂存的重复内容随 defer 释放
	existing, err := s.records.FindByHash(fileHash)
	if err != nil {
		return nil, fmt.Errorf("dedup lookup failed: %w", err)
	}
	if existing != nil {
		return s.resultFor(existing, req.StagedName, &keep), nil
	}

	// 6–7. 未命中：分析并落库
	// singleflight 保证同一指纹的并发上传进程内只分析一次，
	// 输家复用赢家的记录
	v, err, _ := s.group.Do(fileHash, func() (interface{}, error) {
		// 进入合并段后重查一次，覆盖"刚有人完成落库"的窗口
		if existing, err := s.records.FindByHash(fileHash); err != nil {
			return nil, fmt.Errorf("dedup lookup failed: %w", err)
		} else if existing != nil {
			return existing, nil
		}

		description, err := s.analyzer.Describe(ctx, s.blobs.Path(req.StagedName))
		if err != nil {
			log.Printf("image analysis failed for %s: %v", req.StagedName, err)
			return nil, ErrAnalysisFailed
		}

		record := &model.Upload{
			Owner:       req.Owner,
			FileHash:    fileHash,
			FileName:    req.StagedName,
			Description: description,
		}
		if err := s.records.Create(record); err != nil {
			log.Printf("failed to persist upload record: %v", err)
			return nil, ErrPersistFailed
		}
		return record, nil
	})
	if err != nil {
		return nil, err
	}

	return s.resultFor(v.(*model.Upload), req.StagedName, &keep), nil
}

// resultFor 根据正式记录构造响应；本请求的暂存文件成为正式存储时标记保留
func (s *Service) resultFor(record *model.Upload, stagedName string, keep *bool) *Result {
	if record.FileName == stagedName {
		*keep = true
	}
	return &Result{
		Filename:     record.FileName,
		Path:         s.blobs.URL(record.FileName),
		Description:  record.Description,
		Deduplicated: record.FileName != stagedName,
	}
}

// List 列出用户自己的上传记录
func (s *Service) List(ctx context.Context, owner string) ([]*model.Upload, error) {
	return s.records.ListByOwner(owner)
}

// Delete 删除用户自己的上传记录及其物理文件
// 他人的记录返回 (nil, nil)：按未找到处理，不暴露其存在。
func (s *Service) Delete(ctx context.Context, owner, id string) (*model.Upload, error) {
	record, err := s.records.Delete(owner, id)
	if err != nil || record == nil {
		return record, err
	}

	if err := s.blobs.Remove(record.FileName); err != nil {
		log.Printf("failed to remove blob %s: %v", record.FileName, err)
	}
	return record, nil
}

// AddToFolder 把上传记录移入用户自己的文件夹
func (s *Service) AddToFolder(ctx context.Context, owner, uploadID, folderID string) (*model.Upload, error) {
	folder, err := s.folders.GetByID(owner, folderID)
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return nil, nil
	}
	return s.records.SetParentFolder(owner, uploadID, &folder.ID)
}

// RemoveFromFolder 把上传记录移出文件夹
func (s *Service) RemoveFromFolder(ctx context.Context, owner, uploadID string) (*model.Upload, error) {
	return s.records.SetParentFolder(owner, uploadID, nil)
}
