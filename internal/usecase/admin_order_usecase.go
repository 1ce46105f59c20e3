package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"atelier/internal/domain/event"
	"atelier/internal/domain/legitimacy"
	"atelier/internal/domain/model"
	repo "atelier/internal/repository"

	"github.com/sirupsen/logrus"
)

type AdminOrderUsecase struct {
	tx     repo.TransactionManager
	clock  Clock
	events event.Publisher
	log    logrus.FieldLogger
	policy legitimacy.Policy
}

func NewAdminOrderUsecase(
	tx repo.TransactionManager,
	clock Clock,
	events event.Publisher,
	log logrus.FieldLogger,
	allowedDemoEmail string,
) *AdminOrderUsecase {
	if events == nil {
		events = event.Nop{}
	}
	return &AdminOrderUsecase{
		tx:     tx,
		clock:  clock,
		events: events,
		log:    log,
		policy: legitimacy.AdminCustomOrders(allowedDemoEmail),
	}
}

type AdminOrderListOutput struct {
	Orders []model.Order `json:"orders"`
	Total  int64         `json:"total"`
	Page   int           `json:"page"`
	Limit  int           `json:"limit"`
}

// 注文一覧
func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) (AdminOrderListOutput, error) {
	if f.Page < 1 {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if f.Status != "" && !model.OrderStatus(f.Status).Valid() {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var out AdminOrderListOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListAdmin(ctx, f)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = AdminOrderListOutput{Orders: orders, Total: total, Page: f.Page, Limit: f.Limit}
		return nil
	})
	if err != nil {
		return AdminOrderListOutput{}, err
	}
	return out, nil
}

type AdminUpdateStatusInput struct {
	Status string
}

// ステータス更新。遷移表に無い変更は409、CANCELLEDなら通常商品の在庫を戻す
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorAdminUserID string, orderID string, in AdminUpdateStatusInput) (model.Order, error) {
	if actorAdminUserID == "" {
		return model.Order{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(orderID) == "" {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	next := model.OrderStatus(strings.ToUpper(strings.TrimSpace(in.Status)))
	if !next.Valid() {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var (
		updated model.Order
		before  model.OrderStatus
		changed bool
	)

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// すでに同じなら何もしない（200）
		if o.Status == next {
			updated = o
			return nil
		}
		if !o.Status.CanTransitionTo(next) {
			return NewHTTPError(http.StatusConflict, "invalid status transition")
		}

		// 先に状態を確定させる。負けた側は在庫に触らない
		ok, err := r.Orders().UpdateStatus(ctx, orderID, o.Status, next)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !ok {
			return NewHTTPError(http.StatusConflict, "order was updated concurrently")
		}

		if next == model.OrderStatusCancelled {
			items, err := r.OrderItems().ListByOrderID(ctx, orderID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			for _, it := range items {
				// カスタム明細は在庫を持たない
				if it.IsCustom() {
					continue
				}
				if err := r.Inventory().IncreaseStock(ctx, it.ProductID, it.Quantity); err != nil && !errors.Is(err, repo.ErrNotFound) {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
			}
		}

		if err := r.AuditLogs().Create(ctx, u.audit(actorAdminUserID, model.AuditActionUpdateOrderStatus, model.AuditResourceOrder, orderID,
			map[string]string{"status": string(o.Status)},
			map[string]string{"status": string(next)},
		)); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		before = o.Status
		o.Status = next
		updated = o
		changed = true
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	if changed {
		u.publish(ctx, event.Event{
			Type:           event.OrderStatusChanged,
			ResourceID:     updated.ID,
			OrderNumber:    updated.OrderNumber,
			UserID:         updated.UserID,
			Status:         string(updated.Status),
			PreviousStatus: string(before),
			Total:          updated.Total,
			OccurredAt:     u.clock.Now(),
		})
	}
	return updated, nil
}

// 支払いステータス更新（遷移の制約なし）
func (u *AdminOrderUsecase) UpdatePaymentStatus(ctx context.Context, actorAdminUserID string, orderID string, in AdminUpdateStatusInput) (model.Order, error) {
	if actorAdminUserID == "" {
		return model.Order{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(orderID) == "" {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	next := model.PaymentStatus(strings.ToUpper(strings.TrimSpace(in.Status)))
	if !next.Valid() {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid payment status")
	}

	var updated model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.PaymentStatus == next {
			updated = o
			return nil
		}

		if err := r.Orders().UpdatePaymentStatus(ctx, orderID, next); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.AuditLogs().Create(ctx, u.audit(actorAdminUserID, model.AuditActionUpdatePaymentStatus, model.AuditResourceOrder, orderID,
			map[string]string{"payment_status": string(o.PaymentStatus)},
			map[string]string{"payment_status": string(next)},
		)); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		o.PaymentStatus = next
		updated = o
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}
	return updated, nil
}

type CustomOrderListMeta struct {
	Total    int `json:"total"`
	Filtered int `json:"filtered"`
}

type CustomOrderListOutput struct {
	CustomOrders []model.CustomOrder `json:"custom_orders"`
	Meta         CustomOrderListMeta `json:"meta"`
}

// カスタム受注一覧。テスト・ダミーのアカウントは除く
func (u *AdminOrderUsecase) ListCustomOrders(ctx context.Context, f repo.CustomOrderListFilter) (CustomOrderListOutput, error) {
	if f.Status != "" && !model.CustomOrderStatus(f.Status).Valid() {
		return CustomOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var list []model.CustomOrder
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		got, err := r.CustomOrders().ListWithUsers(ctx, f)
		if err != nil {
			return err
		}
		list = got
		return nil
	})
	if err != nil {
		u.log.WithError(err).Error("list custom orders failed")
		return CustomOrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "Failed to fetch custom orders")
	}

	res := legitimacy.Filter(u.policy, list, func(co model.CustomOrder) legitimacy.Candidate {
		c := legitimacy.Candidate{Total: co.Price, ItemCount: 1}
		if co.User != nil {
			c.Email = co.User.Email
		}
		return c
	})

	return CustomOrderListOutput{
		CustomOrders: res.Kept,
		Meta:         CustomOrderListMeta{Total: res.Total, Filtered: res.Filtered},
	}, nil
}

// カスタム受注のステータス更新
func (u *AdminOrderUsecase) UpdateCustomOrderStatus(ctx context.Context, actorAdminUserID string, id string, in AdminUpdateStatusInput) (model.CustomOrder, error) {
	if actorAdminUserID == "" {
		return model.CustomOrder{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(id) == "" {
		return model.CustomOrder{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	next := model.CustomOrderStatus(strings.ToUpper(strings.TrimSpace(in.Status)))
	if !next.Valid() {
		return model.CustomOrder{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var (
		updated model.CustomOrder
		before  model.CustomOrderStatus
		changed bool
	)
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		co, err := r.CustomOrders().FindByID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if co.Status == next {
			updated = co
			return nil
		}
		if !co.Status.CanTransitionTo(next) {
			return NewHTTPError(http.StatusConflict, "invalid status transition")
		}

		if err := r.CustomOrders().UpdateStatus(ctx, id, next); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.AuditLogs().Create(ctx, u.audit(actorAdminUserID, model.AuditActionUpdateCustomOrderStatus, model.AuditResourceCustomOrder, id,
			map[string]string{"status": string(co.Status)},
			map[string]string{"status": string(next)},
		)); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		before = co.Status
		co.Status = next
		updated = co
		changed = true
		return nil
	})
	if err != nil {
		return model.CustomOrder{}, err
	}

	if changed {
		u.publish(ctx, event.Event{
			Type:           event.CustomOrderStatusChanged,
			ResourceID:     updated.ID,
			UserID:         updated.UserID,
			Status:         string(updated.Status),
			PreviousStatus: string(before),
			Total:          updated.Price,
			OccurredAt:     u.clock.Now(),
		})
	}
	return updated, nil
}

type AuditLogListOutput struct {
	Logs []model.AuditLog `json:"logs"`
}

// 管理者操作の履歴を新しい順に返す
func (u *AdminOrderUsecase) ListAuditLogs(ctx context.Context, f repo.AuditLogFilter) (AuditLogListOutput, error) {
	if f.ResourceType != "" && !f.ResourceType.Valid() {
		return AuditLogListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid resource_type")
	}

	var logs []model.AuditLog
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		got, err := r.AuditLogs().List(ctx, f)
		if err != nil {
			return err
		}
		logs = got
		return nil
	})
	if err != nil {
		u.log.WithError(err).Error("list audit logs failed")
		return AuditLogListOutput{}, NewHTTPError(http.StatusInternalServerError, "Failed to fetch audit logs")
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return AuditLogListOutput{Logs: logs}, nil
}

func (u *AdminOrderUsecase) audit(actor string, action model.AuditAction, resource model.AuditResourceType, id string, before, after map[string]string) model.AuditLog {
	b, _ := json.Marshal(before)
	a, _ := json.Marshal(after)
	return model.AuditLog{
		ActorUserID:  actor,
		Action:       action,
		ResourceType: resource,
		ResourceID:   id,
		BeforeJSON:   string(b),
		AfterJSON:    string(a),
		CreatedAt:    u.clock.Now(),
	}
}

func (u *AdminOrderUsecase) publish(ctx context.Context, ev event.Event) {
	if err := u.events.Publish(ctx, ev); err != nil {
		u.log.WithError(err).WithField("event", ev.Type).Warn("publish event failed")
	}
}

// 期間パラメータ（RFC3339）。空ならnil
func ParseDateTimeRFC3339(s string) (*time.Time, bool) {
	if strings.TrimSpace(s) == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, false
	}
	return &t, true
}
