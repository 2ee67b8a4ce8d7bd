// Package analyze 提供图片分析单元测试
package analyze

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	ecomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// fakeModel 记录收到的消息并返回固定回复
type fakeModel struct {
	received []*schema.Message
	reply    string
	err      error
}

func (f *fakeModel) Generate(ctx context.Context, input []*schema.Message, opts ...ecomodel.Option) (*schema.Message, error) {
	f.received = input
	if f.err != nil {
		return nil, f.err
	}
	return &schema.Message{Role: schema.Assistant, Content: f.reply}, nil
}

func writeTestImage(t *testing.T) string {
	t.Helper()
	// PNG 魔数开头，其余随意
	data := append([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}, []byte("pixels")...)
	path := filepath.Join(t.TempDir(), "img.png")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

// ========== Describe 测试 ==========

func TestService_Describe(t *testing.T) {
	fm := &fakeModel{reply: "  a cat on a windowsill  "}
	svc := NewServiceWithModel(fm, "What is in this image?", time.Minute)

	desc, err := svc.Describe(context.Background(), writeTestImage(t))
	if err != nil {
		t.Fatalf("Describe() error: %v", err)
	}
	if desc != "a cat on a windowsill" {
		t.Errorf("Describe() = %q, want trimmed reply", desc)
	}

	if len(fm.received) != 1 {
		t.Fatalf("model received %d messages, want 1", len(fm.received))
	}
	parts := fm.received[0].MultiContent
	if len(parts) != 2 {
		t.Fatalf("message has %d parts, want text + image", len(parts))
	}
	if parts[0].Type != schema.ChatMessagePartTypeText || parts[0].Text != "What is in this image?" {
		t.Errorf("text part = %+v", parts[0])
	}
	if parts[1].Type != schema.ChatMessagePartTypeImageURL {
		t.Fatalf("second part type = %q, want image_url", parts[1].Type)
	}
	if !strings.HasPrefix(parts[1].ImageURL.URL, "data:image/png;base64,") {
		t.Errorf("image URL prefix = %q", parts[1].ImageURL.URL[:30])
	}
}

func TestService_Describe_ModelFailure(t *testing.T) {
	fm := &fakeModel{err: errors.New("model unavailable")}
	svc := NewServiceWithModel(fm, "prompt", time.Minute)

	if _, err := svc.Describe(context.Background(), writeTestImage(t)); err == nil {
		t.Error("Describe() succeeded with failing model")
	}
}

func TestService_Describe_EmptyReply(t *testing.T) {
	fm := &fakeModel{reply: "   "}
	svc := NewServiceWithModel(fm, "prompt", time.Minute)

	if _, err := svc.Describe(context.Background(), writeTestImage(t)); err == nil {
		t.Error("Describe() accepted an empty description")
	}
}

func TestService_Describe_MissingFile(t *testing.T) {
	fm := &fakeModel{reply: "never used"}
	svc := NewServiceWithModel(fm, "prompt", time.Minute)

	if _, err := svc.Describe(context.Background(), filepath.Join(t.TempDir(), "gone.png")); err == nil {
		t.Error("Describe() succeeded on a missing file")
	}
	if fm.received != nil {
		t.Error("model was called for a missing file")
	}
}
