package user

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tastebook/domain"
	"tastebook/entities"
	"tastebook/pkg/jwt"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.User{}, &entities.Recipe{}, &entities.Comment{}))
	return db
}

func newTestService(t *testing.T) (UserService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewUserService(NewUserRepository(db), jwt.NewJWTService()), db
}

func register(t *testing.T, service UserService, username string) domain.AuthResponse {
	t.Helper()
	res, err := service.Register(context.Background(), domain.RegisterRequest{
		Username: username,
		Name:     "Test " + username,
		Email:    username + "@example.com",
		Password: "hunter2",
	})
	require.NoError(t, err)
	return res
}

func TestRegister(t *testing.T) {
	service, db := newTestService(t)

	res := register(t, service, "alice")
	assert.NotZero(t, res.ID)
	assert.Equal(t, "Test alice", res.Name)
	assert.NotEmpty(t, res.Token)

	var stored entities.User
	require.NoError(t, db.Where("username = ?", "alice").First(&stored).Error)
	assert.NotEqual(t, "hunter2", stored.PasswordHash)
	assert.Equal(t, "[]", stored.LikedRecipes)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	service, db := newTestService(t)

	register(t, service, "alice")

	_, err := service.Register(context.Background(), domain.RegisterRequest{
		Username: "alice",
		Name:     "Second Alice",
		Email:    "alice2@example.com",
		Password: "swordfish",
	})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	var count int64
	require.NoError(t, db.Model(&entities.User{}).Where("username = ?", "alice").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestVerify(t *testing.T) {
	service, _ := newTestService(t)
	registered := register(t, service, "alice")

	res, err := service.Verify(context.Background(), domain.LoginRequest{
		Username: "alice",
		Password: "hunter2",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, res.ID)
	assert.Equal(t, registered.Name, res.Name)
	assert.NotEmpty(t, res.Token)
}

func TestVerifyIncorrectPassword(t *testing.T) {
	service, _ := newTestService(t)
	register(t, service, "alice")

	_, err := service.Verify(context.Background(), domain.LoginRequest{
		Username: "alice",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, domain.ErrIncorrectPassword)
}

func TestVerifyUnknownUsername(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Verify(context.Background(), domain.LoginRequest{
		Username: "nobody",
		Password: "hunter2",
	})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestProfile(t *testing.T) {
	service, db := newTestService(t)
	registered := register(t, service, "alice")

	require.NoError(t, db.Create(&entities.Recipe{
		CreatedBy: registered.ID, CreatedOn: 100, Title: "Draft", Steps: "[]",
	}).Error)
	require.NoError(t, db.Create(&entities.Recipe{
		CreatedBy: registered.ID, CreatedOn: 200, Title: "Public", Steps: "[]", Published: true,
	}).Error)

	public, err := service.Profile(context.Background(), registered.ID, false)
	require.NoError(t, err)
	assert.Equal(t, registered.Name, public.Name)
	require.Len(t, public.Recipes, 1)
	assert.Equal(t, "Public", public.Recipes[0].Title)

	all, err := service.Profile(context.Background(), registered.ID, true)
	require.NoError(t, err)
	require.Len(t, all.Recipes, 2)
	// Ordered by creation time, oldest first.
	assert.Equal(t, "Draft", all.Recipes[0].Title)
	assert.Equal(t, "Public", all.Recipes[1].Title)
}

func TestProfileUnknownUser(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Profile(context.Background(), 99, false)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
