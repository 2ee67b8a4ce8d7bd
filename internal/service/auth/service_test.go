// Package auth 提供认证服务单元测试
package auth

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ashwinyue/snapdesc/internal/model"
	"github.com/ashwinyue/snapdesc/internal/repository"
)

// newTestService 基于内存数据库创建认证服务
func newTestService(t *testing.T) *Service {
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
	return NewService(repository.NewRepositories(db))
}

// ========== 注册 / 登录 测试 ==========

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, &RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if !reg.Success || reg.User == nil || reg.User.Username != "alice" {
		t.Fatalf("Register() = %+v", reg)
	}

	login, err := svc.Login(ctx, &LoginRequest{
		Email:    "alice@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if !login.Success {
		t.Fatalf("Login() failed: %s", login.Message)
	}
	if login.Token == "" {
		t.Fatal("Login() returned empty token")
	}
	if login.User == nil || login.User.Email != "alice@example.com" {
		t.Errorf("Login() user = %+v", login.User)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	req := &RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret123"}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	req2 := &RegisterRequest{Username: "alice2", Email: "alice@example.com", Password: "secret123"}
	if _, err := svc.Register(ctx, req2); err == nil {
		t.Error("Register() allowed a duplicate email")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, &RegisterRequest{
		Username: "bob", Email: "bob@example.com", Password: "secret123",
	}); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	login, err := svc.Login(ctx, &LoginRequest{Email: "bob@example.com", Password: "wrongpass"})
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if login.Success {
		t.Error("Login() succeeded with wrong password")
	}
	if login.Token != "" {
		t.Error("Login() issued a token for wrong password")
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := newTestService(t)

	login, err := svc.Login(context.Background(), &LoginRequest{
		Email: "nobody@example.com", Password: "whatever1",
	})
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if login.Success {
		t.Error("Login() succeeded for unknown email")
	}
}

// ========== 令牌校验 / 撤销 测试 ==========

func TestValidateToken(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, &RegisterRequest{
		Username: "carol", Email: "carol@example.com", Password: "secret123",
	}); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	login, err := svc.Login(ctx, &LoginRequest{Email: "carol@example.com", Password: "secret123"})
	if err != nil || !login.Success {
		t.Fatalf("Login() = %+v, error: %v", login, err)
	}

	user, err := svc.ValidateToken(ctx, login.Token)
	if err != nil {
		t.Fatalf("ValidateToken() error: %v", err)
	}
	if user.Email != "carol@example.com" {
		t.Errorf("ValidateToken() user email = %q", user.Email)
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.ValidateToken(context.Background(), "not-a-jwt"); err == nil {
		t.Error("ValidateToken() accepted garbage")
	}
}

func TestValidateToken_AfterRevoke(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, &RegisterRequest{
		Username: "dave", Email: "dave@example.com", Password: "secret123",
	}); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	login, err := svc.Login(ctx, &LoginRequest{Email: "dave@example.com", Password: "secret123"})
	if err != nil || !login.Success {
		t.Fatalf("Login() = %+v, error: %v", login, err)
	}

	if err := svc.RevokeToken(ctx, login.Token); err != nil {
		t.Fatalf("RevokeToken() error: %v", err)
	}
	if _, err := svc.ValidateToken(ctx, login.Token); err == nil {
		t.Error("ValidateToken() accepted a revoked token")
	}
}
