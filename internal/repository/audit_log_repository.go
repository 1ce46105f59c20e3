package repository

import (
	"context"
	"time"

	"atelier/internal/domain/model"
)

// 管理画面の監査ログ一覧の条件。空の項目は絞り込まない
type AuditLogFilter struct {
	ActorUserID  string
	ResourceType model.AuditResourceType
	ResourceID   string
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}

type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error
	// 新しい順
	List(ctx context.Context, f AuditLogFilter) ([]model.AuditLog, error)
}
