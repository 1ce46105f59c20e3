package validator_test

import (
	"context"
	"errors"
	"testing"

	"atelier/internal/domain/model"
	"atelier/internal/repository"
	"atelier/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type userRepoMock struct{ mock.Mock }

func (m *userRepoMock) Create(ctx context.Context, u *model.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *userRepoMock) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *userRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *userRepoMock) Update(ctx context.Context, u *model.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *userRepoMock) IncrementTokenVersion(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func TestValidateRegister_InvalidInput(t *testing.T) {
	v := validator.NewAuthValidator(&userRepoMock{})

	cases := map[string][3]string{
		"empty email":    {"", "password123", "Asha"},
		"bad email":      {"asha.gmail.com", "password123", "Asha"},
		"short password": {"asha@gmail.com", "short", "Asha"},
		"no name":        {"asha@gmail.com", "password123", "  "},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			err := v.ValidateRegister(context.Background(), in[0], in[1], in[2])
			assert.ErrorIs(t, err, validator.ErrInvalidInput)
		})
	}
}

func TestValidateRegister_EmailTaken(t *testing.T) {
	users := &userRepoMock{}
	users.On("FindByEmail", mock.Anything, "asha@gmail.com").Return(&model.User{ID: "u-1"}, nil)

	err := validator.NewAuthValidator(users).ValidateRegister(context.Background(), "asha@gmail.com", "password123", "Asha")
	assert.ErrorIs(t, err, validator.ErrEmailAlreadyUsed)
}

func TestValidateRegister_OK(t *testing.T) {
	users := &userRepoMock{}
	users.On("FindByEmail", mock.Anything, "asha@gmail.com").Return(nil, repository.ErrUserNotFound)

	err := validator.NewAuthValidator(users).ValidateRegister(context.Background(), " asha@gmail.com ", "password123", "Asha")
	assert.NoError(t, err)
}

func TestValidateRegister_RepoError(t *testing.T) {
	users := &userRepoMock{}
	dbErr := errors.New("connection refused")
	users.On("FindByEmail", mock.Anything, "asha@gmail.com").Return(nil, dbErr)

	err := validator.NewAuthValidator(users).ValidateRegister(context.Background(), "asha@gmail.com", "password123", "Asha")
	assert.ErrorIs(t, err, dbErr)
}

func TestValidateLogin(t *testing.T) {
	v := validator.NewAuthValidator(&userRepoMock{})

	assert.NoError(t, v.ValidateLogin(context.Background(), "asha@gmail.com", "x"))
	assert.ErrorIs(t, v.ValidateLogin(context.Background(), "asha@gmail.com", ""), validator.ErrInvalidInput)
	assert.ErrorIs(t, v.ValidateLogin(context.Background(), "not-an-email", "x"), validator.ErrInvalidInput)
}

func TestUserNotFoundIsNotFound(t *testing.T) {
	assert.ErrorIs(t, repository.ErrUserNotFound, repository.ErrNotFound)
}
