package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"veridoc/internal/domain"
	"veridoc/internal/repository/memory"
	"veridoc/internal/service"
)

func TestUserService_Create(t *testing.T) {
	store := memory.NewStore()
	svc := service.NewUserService(store.Users())

	user, err := svc.Create(context.Background(), service.CreateUserInput{
		Email:    "qa@example.com",
		Password: "password123",
		FullName: "Quinn QA",
		Role:     domain.RoleQA,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.True(t, user.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
}

func TestUserService_Create_InvalidRole(t *testing.T) {
	store := memory.NewStore()
	svc := service.NewUserService(store.Users())

	_, err := svc.Create(context.Background(), service.CreateUserInput{
		Email:    "nobody@example.com",
		Password: "password123",
		FullName: "No Body",
		Role:     domain.UserRole("superuser"),
	})
	assert.ErrorIs(t, err, domain.ErrValidationFailed)
}

func TestUserService_Update_PartialMerge(t *testing.T) {
	store := memory.NewStore()
	svc := service.NewUserService(store.Users())
	ctx := context.Background()

	user, err := svc.Create(ctx, service.CreateUserInput{
		Email:    "author@example.com",
		Password: "password123",
		FullName: "Avery Author",
		Role:     domain.RoleAuthor,
	})
	require.NoError(t, err)

	role := domain.RoleReviewer
	updated, err := svc.Update(ctx, user.ID, service.UpdateUserInput{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleReviewer, updated.Role)
	assert.Equal(t, "Avery Author", updated.FullName)
	assert.Equal(t, "author@example.com", updated.Email)
}

func TestUserService_Delete_Deactivates(t *testing.T) {
	store := memory.NewStore()
	svc := service.NewUserService(store.Users())
	ctx := context.Background()

	user, err := svc.Create(ctx, service.CreateUserInput{
		Email:    "leaver@example.com",
		Password: "password123",
		FullName: "Lee Leaver",
		Role:     domain.RoleAuthor,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, user.ID))

	got, err := svc.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}
