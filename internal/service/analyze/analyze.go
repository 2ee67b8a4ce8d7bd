// Package analyze 调用外部视觉模型为图片生成文字描述。
package analyze

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	ecomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/ashwinyue/snapdesc/internal/config"
)

// chatModel 仅依赖生成能力
type chatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...ecomodel.Option) (*schema.Message, error)
}

// Service 图片分析服务
// 阻塞式远程调用，超时即失败；不做重试，重试策略归调用方。
type Service struct {
	model   chatModel
	prompt  string
	timeout time.Duration
}

// NewService 从配置创建分析服务
func NewService(ctx context.Context, cfg *config.Config) (*Service, error) {
	cm, err := newChatModel(ctx, cfg)
	if err != nil {
		return nil, err
	}

	timeout := time.Duration(cfg.AI.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &Service{
		model:   cm,
		prompt:  cfg.AI.Prompt,
		timeout: timeout,
	}, nil
}

// NewServiceWithModel 用现成的模型创建分析服务（测试用）
func NewServiceWithModel(cm chatModel, prompt string, timeout time.Duration) *Service {
	return &Service{model: cm, prompt: prompt, timeout: timeout}
}

// newChatModel 创建 ChatModel
// Ollama 走 OpenAI 兼容端点，与 openai provider 共用同一客户端。
func newChatModel(ctx context.Context, cfg *config.Config) (ecomodel.ChatModel, error) {
	aiCfg := cfg.AI

	var apiKey, baseURL, modelName string

	switch aiCfg.Provider {
	case "openai":
		apiKey = aiCfg.OpenAI.APIKey
		baseURL = aiCfg.OpenAI.BaseURL
		modelName = aiCfg.OpenAI.Model
		if apiKey == "" {
			return nil, fmt.Errorf("api_key is required for provider: %s", aiCfg.Provider)
		}
	case "ollama":
		apiKey = "ollama" // 本地端点不校验，但客户端要求非空
		baseURL = aiCfg.Ollama.BaseURL
		modelName = aiCfg.Ollama.Model
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", aiCfg.Provider)
	}

	if modelName == "" {
		modelName = "llava"
	}

	return openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Model:   modelName,
	})
}

// Describe 为图片生成文字描述
// 读取整张图片、base64 内联到多模态消息；返回描述文本或失败。
func (s *Service) Describe(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	msg := &schema.Message{
		Role: schema.User,
		MultiContent: []schema.ChatMessagePart{
			{
				Type: schema.ChatMessagePartTypeText,
				Text: s.prompt,
			},
			{
				Type: schema.ChatMessagePartTypeImageURL,
				ImageURL: &schema.ChatMessageImageURL{
					URL:    dataURL(data),
					Detail: schema.ImageURLDetailAuto,
				},
			},
		},
	}

	resp, err := s.model.Generate(ctx, []*schema.Message{msg})
	if err != nil {
		return "", fmt.Errorf("failed to analyze image: %w", err)
	}

	description := strings.TrimSpace(resp.Content)
	if description == "" {
		return "", fmt.Errorf("analysis returned empty description")
	}
	return description, nil
}

// dataURL 把图片字节编码为 data URL
func dataURL(data []byte) string {
	mimeType := http.DetectContentType(data)
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}
