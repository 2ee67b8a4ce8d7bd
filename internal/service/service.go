package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ashwinyue/snapdesc/internal/config"
	"github.com/ashwinyue/snapdesc/internal/repository"
	"github.com/ashwinyue/snapdesc/internal/service/analyze"
	"github.com/ashwinyue/snapdesc/internal/service/auth"
	"github.com/ashwinyue/snapdesc/internal/service/folder"
	"github.com/ashwinyue/snapdesc/internal/service/ratelimit"
	"github.com/ashwinyue/snapdesc/internal/service/upload"
	"github.com/ashwinyue/snapdesc/internal/storage"
)

// Services 服务集合
type Services struct {
	Auth   *auth.Service
	Upload *upload.Service
	Folder *folder.Service

	// 配置与共享资源
	Config *config.Config
	Blobs  *storage.LocalStorage
}

// NewServices 创建所有服务
// 外部依赖（数据库、Redis、分析模型）由显式句柄注入，生命周期归 main 管理。
func NewServices(ctx context.Context, repos *repository.Repositories, cfg *config.Config, redisClient *redis.Client) (*Services, error) {
	blobs, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.URLPrefix)
	if err != nil {
		return nil, err
	}

	analyzer, err := analyze.NewService(ctx, cfg)
	if err != nil {
		return nil, err
	}

	limiter := ratelimit.NewLimiter(redisClient)

	uploadSvc := upload.NewService(
		repos.Upload,
		repos.Folder,
		blobs,
		limiter,
		analyzer,
		cfg.RateLimit.Limit,
		time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
	)

	return &Services{
		Auth:   auth.NewService(repos),
		Upload: uploadSvc,
		Folder: folder.NewService(repos),
		Config: cfg,
		Blobs:  blobs,
	}, nil
}
