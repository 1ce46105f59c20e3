package repository

import (
	"context"
	"fmt"

	"atelier/internal/domain/model"
)

// ErrNotFoundとしても判定できる
var ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)

type UserRepository interface {
	// メールは小文字で保存する。重複はErrDuplicate
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID string) (*model.User, error)
	// 大文字小文字を区別しない
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// 有効フラグ・ロール・最終ログインなど
	Update(ctx context.Context, user *model.User) error
	// 強制ログアウト。発行済みトークンのtvが合わなくなる
	IncrementTokenVersion(ctx context.Context, userID string) error
}
