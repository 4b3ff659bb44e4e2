package usecase_test

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/frelanci/orderchat/internal/domain/errors"
	"github.com/frelanci/orderchat/internal/domain/model"
	pkgAuth "github.com/frelanci/orderchat/internal/pkg/auth"
	testhelpers "github.com/frelanci/orderchat/internal/test"
	"github.com/frelanci/orderchat/internal/usecase"
)

func newAuthUseCase(users *testhelpers.UserRepositoryStub) *usecase.AuthUseCase {
	return usecase.NewAuthUseCase(users, testhelpers.HasherStub{}, testhelpers.StrategyStub{
		IssueFn: func(userID string) (string, error) { return "tok:" + userID, nil },
		ParseFn: func(token string) (string, error) {
			if len(token) > 4 && token[:4] == "tok:" {
				return token[4:], nil
			}
			return "", pkgAuth.ErrInvalidToken
		},
	})
}

func TestRegisterCreatesUserAndIssuesToken(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	uc := newAuthUseCase(users)

	user, token, err := uc.Register(context.Background(), "cora", "secret", "Cora", model.UserTypeClient)
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected generated user id")
	}
	if user.PasswordHash != "hash:secret" {
		t.Fatalf("expected hashed password, got %q", user.PasswordHash)
	}
	if token != "tok:"+user.ID {
		t.Fatalf("unexpected token %q", token)
	}

	parsed, err := uc.ParseToken(token)
	if err != nil || parsed != user.ID {
		t.Fatalf("token round trip failed: %q %v", parsed, err)
	}
}

func TestRegisterValidation(t *testing.T) {
	uc := newAuthUseCase(testhelpers.NewUserRepositoryStub())

	cases := []struct {
		name     string
		login    string
		password string
		userName string
		userType model.UserType
		want     error
	}{
		{"empty login", "", "secret", "Cora", model.UserTypeClient, domainErrors.ErrInvalidCredentials},
		{"empty password", "cora", "", "Cora", model.UserTypeClient, domainErrors.ErrInvalidCredentials},
		{"empty name", "cora", "secret", "  ", model.UserTypeClient, domainErrors.ErrInvalidCredentials},
		{"bad user type", "cora", "secret", "Cora", model.UserType("admin"), domainErrors.ErrInvalidUserType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := uc.Register(context.Background(), tc.login, tc.password, tc.userName, tc.userType); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestRegisterDuplicateLogin(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	uc := newAuthUseCase(users)

	if _, _, err := uc.Register(context.Background(), "cora", "secret", "Cora", model.UserTypeClient); err != nil {
		t.Fatalf("first register returned error: %v", err)
	}
	if _, _, err := uc.Register(context.Background(), "cora", "other", "Another", model.UserTypeFreelancer); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	uc := newAuthUseCase(users)

	registered, _, err := uc.Register(context.Background(), "finn", "secret", "Finn", model.UserTypeFreelancer)
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	user, token, err := uc.Authenticate(context.Background(), "finn", "secret")
	if err != nil {
		t.Fatalf("authenticate returned error: %v", err)
	}
	if user.ID != registered.ID || token != "tok:"+registered.ID {
		t.Fatalf("unexpected session %q %q", user.ID, token)
	}

	if _, _, err := uc.Authenticate(context.Background(), "finn", "wrong"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, _, err := uc.Authenticate(context.Background(), "nobody", "secret"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("unknown login must not leak existence, got %v", err)
	}
}

func TestParseTokenRejectsEmpty(t *testing.T) {
	uc := newAuthUseCase(testhelpers.NewUserRepositoryStub())
	if _, err := uc.ParseToken(""); !errors.Is(err, pkgAuth.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
