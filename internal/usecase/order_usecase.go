package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"atelier/internal/domain/event"
	"atelier/internal/domain/legitimacy"
	"atelier/internal/domain/model"
	"atelier/internal/domain/orderno"
	"atelier/internal/domain/pricing"
	repo "atelier/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// 注文番号の衝突時に試す回数
const maxOrderNumberAttempts = 5

const msgMissingFields = "Missing required fields"

type OrderUsecase struct {
	tx      repo.TransactionManager
	rules   pricing.Rules
	numbers *orderno.Generator
	clock   Clock
	events  event.Publisher
	log     logrus.FieldLogger
	policy  legitimacy.Policy
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	rules pricing.Rules,
	numbers *orderno.Generator,
	clock Clock,
	events event.Publisher,
	log logrus.FieldLogger,
) *OrderUsecase {
	if events == nil {
		events = event.Nop{}
	}
	return &OrderUsecase{
		tx:      tx,
		rules:   rules,
		numbers: numbers,
		clock:   clock,
		events:  events,
		log:     log,
		policy:  legitimacy.StorefrontOrders(),
	}
}

// 以下はPOST /api/ordersのbody

type CatalogRef struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Color string          `json:"color,omitempty"`
	Price decimal.Decimal `json:"price"`
}

type CustomDesignInput struct {
	Fabric          *CatalogRef     `json:"fabric"`
	FrontModel      *CatalogRef     `json:"frontModel"`
	BackModel       *CatalogRef     `json:"backModel"`
	Measurements    json.RawMessage `json:"measurements"`
	OwnFabric       bool            `json:"ownFabric"`
	AppointmentDate *time.Time      `json:"appointmentDate"`
	AppointmentType *string         `json:"appointmentType"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
}

type CheckoutItem struct {
	ProductID    string             `json:"productId"`
	Quantity     int64              `json:"quantity"`
	FinalPrice   decimal.Decimal    `json:"finalPrice"`
	Size         *string            `json:"size"`
	Color        *string            `json:"color"`
	CustomDesign *CustomDesignInput `json:"customDesign"`
}

type ShippingInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
}

type PaymentInfo struct {
	Method string  `json:"method"`
	Notes  *string `json:"notes"`
}

type PlaceOrderInput struct {
	UserID       string          `json:"userId"`
	Items        []CheckoutItem  `json:"items"`
	ShippingInfo *ShippingInfo   `json:"shippingInfo"`
	PaymentInfo  *PaymentInfo    `json:"paymentInfo"`
	AddressID    *string         `json:"addressId"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Tax          decimal.Decimal `json:"tax"`
	Shipping     decimal.Decimal `json:"shipping"`
	Total        decimal.Decimal `json:"total"`
}

type PlaceOrderOutput struct {
	Order model.Order `json:"order"`
}

// 1明細分の確定値
type orderLine struct {
	in     CheckoutItem
	price  decimal.Decimal
	custom *model.CustomOrder
}

// PlaceOrder はチェックアウトを1トランザクションで確定する。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, sessionUserID string, in PlaceOrderInput) (PlaceOrderOutput, error) {
	if sessionUserID == "" {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.UserID) == "" || len(in.Items) == 0 || in.ShippingInfo == nil || in.PaymentInfo == nil {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusBadRequest, msgMissingFields)
	}
	if in.UserID != sessionUserID {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	method := model.PaymentMethod(strings.ToUpper(strings.TrimSpace(in.PaymentInfo.Method)))
	if !method.Valid() {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid payment method")
	}

	for _, it := range in.Items {
		if strings.TrimSpace(it.ProductID) == "" || it.Quantity <= 0 {
			return PlaceOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid item")
		}
		if model.IsCustomProductID(it.ProductID) && it.CustomDesign == nil {
			return PlaceOrderOutput{}, NewHTTPError(http.StatusBadRequest, "custom design required")
		}
	}

	addressID := ""
	if in.AddressID != nil {
		addressID = strings.TrimSpace(*in.AddressID)
	}
	if addressID == "" && !in.ShippingInfo.complete() {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusBadRequest, msgMissingFields)
	}

	now := u.clock.Now()
	var created model.Order

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 住所
		addr, err := u.resolveAddress(ctx, r, sessionUserID, addressID, in.ShippingInfo)
		if err != nil {
			return err
		}

		// 金額はカタログから計算し直す
		lines := make([]orderLine, 0, len(in.Items))
		subtotal := decimal.Zero
		for _, it := range in.Items {
			line, err := u.priceLine(ctx, r, sessionUserID, it)
			if err != nil {
				return err
			}
			lines = append(lines, line)
			subtotal = subtotal.Add(line.price.Mul(decimal.NewFromInt(it.Quantity)))
		}

		totals := u.rules.Compute(subtotal)
		if !totals.Matches(in.Subtotal, in.Tax, in.Shipping, in.Total) {
			u.log.WithFields(logrus.Fields{
				"user_id":         sessionUserID,
				"client_subtotal": in.Subtotal.String(),
				"client_total":    in.Total.String(),
				"server_subtotal": totals.Subtotal.String(),
				"server_total":    totals.Total.String(),
			}).Warn("checkout totals differ from server calculation")
		}

		order, err := u.createOrder(ctx, r, now, model.Order{
			UserID:        sessionUserID,
			Status:        model.OrderStatusPending,
			Subtotal:      totals.Subtotal,
			Discount:      totals.Discount,
			Tax:           totals.Tax,
			Shipping:      totals.Shipping,
			Total:         totals.Total,
			PaymentMethod: method,
			PaymentStatus: model.PaymentStatusPending,
			Notes:         in.PaymentInfo.Notes,
			AddressID:     &addr.ID,
		})
		if err != nil {
			return err
		}

		items := make([]model.OrderItem, 0, len(lines))
		for _, line := range lines {
			if line.custom != nil {
				if err := r.CustomOrders().Create(ctx, line.custom); err != nil {
					return fmt.Errorf("create custom order: %w", err)
				}
			} else {
				ok, err := r.Inventory().DecreaseStockIfEnough(ctx, line.in.ProductID, line.in.Quantity)
				if err != nil {
					return fmt.Errorf("decrease stock: %w", err)
				}
				if !ok {
					return NewHTTPError(http.StatusConflict, "out of stock")
				}
			}

			item := model.OrderItem{
				OrderID:   order.ID,
				ProductID: line.in.ProductID,
				Quantity:  line.in.Quantity,
				Price:     line.price,
				Size:      line.in.Size,
				Color:     line.in.Color,
			}
			if err := r.OrderItems().Create(ctx, &item); err != nil {
				return fmt.Errorf("create order item: %w", err)
			}
			items = append(items, item)
		}

		// カートは注文内容に関係なく全部空にする
		if _, err := r.Carts().ClearByUserID(ctx, sessionUserID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}

		order.Items = items
		order.Address = &addr
		created = order
		return nil
	})
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return PlaceOrderOutput{}, err
		}
		u.log.WithError(err).WithField("user_id", sessionUserID).Error("place order failed")
		return PlaceOrderOutput{}, NewHTTPErrorWithDetails(http.StatusInternalServerError, "Failed to create order", err.Error())
	}

	u.publish(ctx, event.Event{
		Type:        event.OrderCreated,
		ResourceID:  created.ID,
		OrderNumber: created.OrderNumber,
		UserID:      created.UserID,
		Status:      string(created.Status),
		Total:       created.Total,
		ItemCount:   len(created.Items),
		OccurredAt:  now,
	})

	return PlaceOrderOutput{Order: created}, nil
}

func (s *ShippingInfo) complete() bool {
	return strings.TrimSpace(s.FirstName) != "" &&
		strings.TrimSpace(s.Address) != "" &&
		strings.TrimSpace(s.City) != "" &&
		strings.TrimSpace(s.State) != "" &&
		strings.TrimSpace(s.ZipCode) != ""
}

func (u *OrderUsecase) resolveAddress(ctx context.Context, r repo.TxRepos, userID, addressID string, s *ShippingInfo) (model.Address, error) {
	if addressID != "" {
		a, err := r.Addresses().FindByID(ctx, addressID)
		if errors.Is(err, repo.ErrNotFound) {
			return model.Address{}, NewHTTPError(http.StatusNotFound, "address not found")
		}
		if err != nil {
			return model.Address{}, fmt.Errorf("find address: %w", err)
		}
		//他人の住所は使えない
		if a.UserID != userID {
			return model.Address{}, NewHTTPError(http.StatusForbidden, "forbidden")
		}
		return a, nil
	}

	country := strings.TrimSpace(s.Country)
	if country == "" {
		country = "India"
	}
	a, err := r.Addresses().Create(ctx, model.Address{
		UserID:    userID,
		FirstName: strings.TrimSpace(s.FirstName),
		LastName:  strings.TrimSpace(s.LastName),
		Email:     strings.TrimSpace(s.Email),
		Phone:     strings.TrimSpace(s.Phone),
		Line1:     strings.TrimSpace(s.Address),
		City:      strings.TrimSpace(s.City),
		State:     strings.TrimSpace(s.State),
		ZipCode:   strings.TrimSpace(s.ZipCode),
		Country:   country,
	})
	if err != nil {
		return model.Address{}, fmt.Errorf("create address: %w", err)
	}
	return a, nil
}

func (u *OrderUsecase) priceLine(ctx context.Context, r repo.TxRepos, userID string, it CheckoutItem) (orderLine, error) {
	if model.IsCustomProductID(it.ProductID) {
		co, err := u.customOrderFor(ctx, r, userID, it)
		if err != nil {
			return orderLine{}, err
		}
		if !it.FinalPrice.IsZero() && !co.Price.Equal(it.FinalPrice) {
			u.log.WithFields(logrus.Fields{
				"product_id":   it.ProductID,
				"client_price": it.FinalPrice.String(),
				"server_price": co.Price.String(),
			}).Warn("custom item price differs from catalog")
		}
		return orderLine{in: it, price: co.Price, custom: co}, nil
	}

	p, err := r.Products().FindByID(ctx, it.ProductID)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && !p.IsActive) {
		return orderLine{}, NewHTTPError(http.StatusBadRequest, "invalid product")
	}
	if err != nil {
		return orderLine{}, fmt.Errorf("find product: %w", err)
	}
	if !it.FinalPrice.IsZero() && !p.Price.Equal(it.FinalPrice) {
		u.log.WithFields(logrus.Fields{
			"product_id":   p.ID,
			"client_price": it.FinalPrice.String(),
			"server_price": p.Price.String(),
		}).Warn("item price differs from catalog")
	}
	return orderLine{in: it, price: p.Price}, nil
}

// customOrderFor はカスタム明細からCustomOrderを組み立てる（保存はしない）。
// 価格はカタログの生地・モデルだけから出す。送られてきたpriceは使わない。
// 持ち込み生地のときだけ、生地の名前と色は入力をそのまま記録する（生地代は0）。
func (u *OrderUsecase) customOrderFor(ctx context.Context, r repo.TxRepos, userID string, it CheckoutItem) (*model.CustomOrder, error) {
	d := it.CustomDesign
	category, _ := model.CustomProductCategory(it.ProductID)

	fabricName, fabricColor, fabricPrice := model.DefaultFabricName, model.DefaultFabricColor, decimal.Zero
	switch {
	case d.Fabric != nil && d.Fabric.ID != "":
		f, err := r.Fabrics().FindByID(ctx, d.Fabric.ID)
		if errors.Is(err, repo.ErrNotFound) || (err == nil && !f.IsActive) {
			return nil, NewHTTPError(http.StatusBadRequest, "invalid fabric")
		}
		if err != nil {
			return nil, fmt.Errorf("find fabric: %w", err)
		}
		fabricName, fabricColor, fabricPrice = f.Name, nonEmpty(f.Color, fabricColor), f.Price
	case d.OwnFabric:
		if d.Fabric != nil {
			fabricName = nonEmpty(d.Fabric.Name, fabricName)
			fabricColor = nonEmpty(d.Fabric.Color, fabricColor)
		}
	default:
		return nil, NewHTTPError(http.StatusBadRequest, "fabric required")
	}

	frontName, frontID, frontPrice, err := u.resolveModel(ctx, r, d.FrontModel, category, model.SideFront, model.DefaultFrontDesignName)
	if err != nil {
		return nil, err
	}
	backName, backID, backPrice, err := u.resolveModel(ctx, r, d.BackModel, category, model.SideBack, model.DefaultBackDesignName)
	if err != nil {
		return nil, err
	}

	cp := pricing.CustomDesign(fabricPrice, frontPrice, backPrice, d.OwnFabric)
	if !cp.Price.IsPositive() {
		return nil, NewHTTPError(http.StatusBadRequest, "custom design has no priced components")
	}

	measurements := datatypes.JSON([]byte("{}"))
	if len(d.Measurements) > 0 && string(d.Measurements) != "null" {
		measurements = datatypes.JSON(d.Measurements)
	}

	return &model.CustomOrder{
		UserID:          userID,
		ProductType:     it.ProductID,
		FabricName:      fabricName,
		FabricColor:     fabricColor,
		FrontDesignName: frontName,
		BackDesignName:  backName,
		FrontModelID:    frontID,
		BackModelID:     backID,
		Measurements:    measurements,
		Price:           cp.Price,
		FabricCost:      cp.FabricCost,
		FrontModelPrice: cp.FrontModelPrice,
		BackModelPrice:  cp.BackModelPrice,
		OwnFabric:       d.OwnFabric,
		AppointmentDate: d.AppointmentDate,
		AppointmentType: d.AppointmentType,
		Status:          model.CustomOrderStatusPending,
	}, nil
}

// refがnilならモデル無し(0円)。指定されたら有効で、カテゴリと前後が合うモデルでなければ400
func (u *OrderUsecase) resolveModel(ctx context.Context, r repo.TxRepos, ref *CatalogRef, category model.GarmentCategory, side model.DesignSide, defaultName string) (string, *string, decimal.Decimal, error) {
	if ref == nil {
		return defaultName, nil, decimal.Zero, nil
	}
	if strings.TrimSpace(ref.ID) == "" {
		return "", nil, decimal.Zero, NewHTTPError(http.StatusBadRequest, "invalid design model")
	}

	m, err := r.DesignModels().FindByID(ctx, ref.ID)
	if errors.Is(err, repo.ErrNotFound) {
		return "", nil, decimal.Zero, NewHTTPError(http.StatusBadRequest, "invalid design model")
	}
	if err != nil {
		return "", nil, decimal.Zero, fmt.Errorf("find design model: %w", err)
	}
	if !m.IsActive || m.Category != category || m.Side != side {
		return "", nil, decimal.Zero, NewHTTPError(http.StatusBadRequest, "invalid design model")
	}

	id := m.ID
	return m.Name, &id, m.Price, nil
}

// createOrder は注文番号を採番して保存する。重複したら番号を変えて再試行。
func (u *OrderUsecase) createOrder(ctx context.Context, r repo.TxRepos, now time.Time, base model.Order) (model.Order, error) {
	for attempt := 0; attempt < maxOrderNumberAttempts; attempt++ {
		number, err := u.numbers.Next(now, attempt)
		if err != nil {
			return model.Order{}, err
		}

		order := base
		order.OrderNumber = number
		err = r.Orders().Create(ctx, &order)
		if err == nil {
			return order, nil
		}
		if !errors.Is(err, repo.ErrDuplicate) {
			return model.Order{}, fmt.Errorf("create order: %w", err)
		}
		u.log.WithField("order_number", number).Warn("order number collision, retrying")
	}
	return model.Order{}, fmt.Errorf("create order: no free order number after %d attempts", maxOrderNumberAttempts)
}

func (u *OrderUsecase) publish(ctx context.Context, ev event.Event) {
	if err := u.events.Publish(ctx, ev); err != nil {
		u.log.WithError(err).WithFields(logrus.Fields{
			"event":       ev.Type,
			"resource_id": ev.ResourceID,
		}).Warn("publish event failed")
	}
}

func nonEmpty(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// 以下は GET /api/orders

type MetaUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type OrderListMeta struct {
	Total    int      `json:"total"`
	Filtered int      `json:"filtered"`
	User     MetaUser `json:"user"`
}

type OrderListOutput struct {
	Orders []model.Order `json:"orders"`
	Meta   OrderListMeta `json:"meta"`
}

// ListMyOrders はログインユーザーの注文を、ダミーデータを除いて返す。
func (u *OrderUsecase) ListMyOrders(ctx context.Context, session model.User, requestedUserID string) (OrderListOutput, error) {
	if session.ID == "" {
		return OrderListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if requestedUserID != "" && requestedUserID != session.ID {
		return OrderListOutput{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	var orders []model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		list, err := r.Orders().ListByUserIDWithDetails(ctx, session.ID)
		if err != nil {
			return err
		}
		orders = list
		return nil
	})
	if err != nil {
		u.log.WithError(err).WithField("user_id", session.ID).Error("list orders failed")
		return OrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "Failed to fetch orders")
	}

	res := legitimacy.Filter(u.policy, orders, orderCandidate)

	//所有ユーザーは返さない
	kept := make([]model.Order, 0, len(res.Kept))
	for _, o := range res.Kept {
		o.User = nil
		kept = append(kept, o)
	}

	if res.Filtered > 0 {
		u.log.WithFields(logrus.Fields{
			"user_id":  session.ID,
			"total":    res.Total,
			"filtered": res.Filtered,
		}).Info("orders hidden by legitimacy filter")
	}

	return OrderListOutput{
		Orders: kept,
		Meta: OrderListMeta{
			Total:    res.Total,
			Filtered: res.Filtered,
			User:     MetaUser{ID: session.ID, Email: session.Email},
		},
	}, nil
}

func orderCandidate(o model.Order) legitimacy.Candidate {
	email := ""
	if o.User != nil {
		email = o.User.Email
	}
	return legitimacy.Candidate{
		Email:       email,
		OrderNumber: o.OrderNumber,
		Total:       o.Total,
		ItemCount:   len(o.Items),
	}
}

// 自分の注文を1件。他人の注文は存在しない扱い。
func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID string, orderID string) (model.Order, error) {
	if userID == "" {
		return model.Order{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(orderID) == "" {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindDetailByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.UserID != userID {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		out = o
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}
	return out, nil
}
