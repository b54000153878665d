package handlers

import (
	"context"

	"promo-backoffice/embedded"
)

// mockEmbedded scripts the remote user API per test via function fields.
// Unset fields succeed, with FindUserByEmail echoing a fixed remote id.
type mockEmbedded struct {
	CreateUserFn        func(ctx context.Context, user embedded.User) error
	FindUserByEmailFn   func(ctx context.Context, email string) (*embedded.User, error)
	UpdateUserFn        func(ctx context.Context, user embedded.User) error
	DeleteUserByEmailFn func(ctx context.Context, email string) error
	SetPasswordFn       func(ctx context.Context, email, password string) error
}

func (m *mockEmbedded) CreateUser(ctx context.Context, user embedded.User) error {
	if m.CreateUserFn != nil {
		return m.CreateUserFn(ctx, user)
	}
	return nil
}

func (m *mockEmbedded) FindUserByEmail(ctx context.Context, email string) (*embedded.User, error) {
	if m.FindUserByEmailFn != nil {
		return m.FindUserByEmailFn(ctx, email)
	}
	return &embedded.User{ID: "remote-mock", Email: email}, nil
}

func (m *mockEmbedded) UpdateUser(ctx context.Context, user embedded.User) error {
	if m.UpdateUserFn != nil {
		return m.UpdateUserFn(ctx, user)
	}
	return nil
}

func (m *mockEmbedded) DeleteUserByEmail(ctx context.Context, email string) error {
	if m.DeleteUserByEmailFn != nil {
		return m.DeleteUserByEmailFn(ctx, email)
	}
	return nil
}

func (m *mockEmbedded) SetPassword(ctx context.Context, email, password string) error {
	if m.SetPasswordFn != nil {
		return m.SetPasswordFn(ctx, email, password)
	}
	return nil
}
