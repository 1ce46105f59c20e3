package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"atelier/internal/domain/model"
	"atelier/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

var (
	//400 入力不足
	ErrValidation = errors.New("validation error")
	//401 認証失敗
	ErrUnauthorized = errors.New("unauthorized")
	//403　権限
	ErrForbidden = errors.New("forbidden")
	//競合
	ErrConflict = errors.New("conflict")
	//500
	ErrInternal = errors.New("internal error")
)

// usecaseがValidatorInterfaceに依存する約束
type AuthValidator interface {
	ValidateRegister(ctx context.Context, email, password, name string) error
	ValidateLogin(ctx context.Context, email, password string) error
}

// auth-tokenを発行する約束
type TokenIssuer interface {
	Issue(u model.User, now time.Time) (token string, expiresAt time.Time, err error)
}

type UserDTO struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

type AuthRegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type AuthLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

// handlerはTokenをcookieに詰め、Userだけを返す
type LoginResult struct {
	User      UserDTO
	Token     string
	ExpiresAt time.Time
}

type ForceLogoutResponse struct {
	UserID          string `json:"user_id"`
	NewTokenVersion int    `json:"new_token_version"`
}

type AuthUsecase struct {
	users     repository.UserRepository
	tokens    TokenIssuer
	validator AuthValidator
	clock     Clock
}

func NewAuthUsecase(
	users repository.UserRepository,
	tokens TokenIssuer,
	validator AuthValidator,
	clock Clock,
) *AuthUsecase {
	return &AuthUsecase{
		users:     users,
		tokens:    tokens,
		validator: validator,
		clock:     clock,
	}
}

func (u *AuthUsecase) Register(ctx context.Context, req AuthRegisterRequest) (UserDTO, error) {
	//入力検証（validatorに寄せる）
	if err := u.validator.ValidateRegister(ctx, req.Email, req.Password, req.Name); err != nil {
		return UserDTO{}, err
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserDTO{}, ErrInternal
	}

	user := &model.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: string(pwHash),
		Role:         model.RoleUser,
		IsActive:     true,
	}

	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return UserDTO{}, ErrConflict
		}
		return UserDTO{}, ErrInternal
	}

	return toUserDTO(user), nil
}

func (u *AuthUsecase) Login(ctx context.Context, req AuthLoginRequest) (LoginResult, error) {
	if err := u.validator.ValidateLogin(ctx, req.Email, req.Password); err != nil {
		return LoginResult{}, err
	}

	user, err := u.users.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil || user == nil {
		return LoginResult{}, ErrUnauthorized
	}

	//停止ユーザーはログイン不可
	if !user.IsActive {
		return LoginResult{}, ErrUnauthorized
	}

	//パスワード照合（bcrypt）
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return LoginResult{}, ErrUnauthorized
	}

	now := u.clock.Now()
	user.LastLoginAt = &now
	_ = u.users.Update(ctx, user)

	token, exp, err := u.tokens.Issue(*user, now)
	if err != nil {
		return LoginResult{}, ErrInternal
	}

	return LoginResult{User: toUserDTO(user), Token: token, ExpiresAt: exp}, nil
}

func (u *AuthUsecase) Me(ctx context.Context, userID string) (UserDTO, error) {
	if userID == "" {
		return UserDTO{}, ErrUnauthorized
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil || user == nil {
		return UserDTO{}, ErrUnauthorized
	}
	if !user.IsActive {
		return UserDTO{}, ErrUnauthorized
	}

	return toUserDTO(user), nil
}

// token_versionを上げて、発行済みのauth-tokenを全て無効にする
func (u *AuthUsecase) ForceLogout(ctx context.Context, targetUserID string) (ForceLogoutResponse, error) {
	if strings.TrimSpace(targetUserID) == "" {
		return ForceLogoutResponse{}, ErrValidation
	}

	if err := u.users.IncrementTokenVersion(ctx, targetUserID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ForceLogoutResponse{}, ErrNotFound
		}
		return ForceLogoutResponse{}, ErrInternal
	}

	//更新後を取得してnew_token_versionを返す
	user, err := u.users.FindByID(ctx, targetUserID)
	if err != nil || user == nil {
		return ForceLogoutResponse{}, ErrInternal
	}

	return ForceLogoutResponse{
		UserID:          user.ID,
		NewTokenVersion: user.TokenVersion,
	}, nil
}

// model.UserをAPI返却用DTOに変換。
func toUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		Role:     string(u.Role),
		IsActive: u.IsActive,
	}
}
