package model

// 注文ステータスの遷移表。DELIVERED / CANCELLED は終端
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:      {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:    {OrderStatusProcessing, OrderStatusInProduction, OrderStatusCancelled},
	OrderStatusProcessing:   {OrderStatusShipped, OrderStatusReady, OrderStatusCancelled},
	OrderStatusInProduction: {OrderStatusShipped, OrderStatusReady, OrderStatusCancelled},
	OrderStatusShipped:      {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusReady:        {OrderStatusDelivered, OrderStatusCancelled},
}

var customOrderTransitions = map[CustomOrderStatus][]CustomOrderStatus{
	CustomOrderStatusPending:      {CustomOrderStatusConfirmed, CustomOrderStatusCancelled},
	CustomOrderStatusConfirmed:    {CustomOrderStatusInProduction, CustomOrderStatusCancelled},
	CustomOrderStatusInProduction: {CustomOrderStatusReady, CustomOrderStatusCancelled},
	CustomOrderStatusReady:        {CustomOrderStatusDelivered, CustomOrderStatusCancelled},
}

func (s OrderStatus) Valid() bool {
	if s == OrderStatusDelivered || s == OrderStatusCancelled {
		return true
	}
	_, ok := orderTransitions[s]
	return ok
}

func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo は from -> to が遷移表にあるかを返す。
func (s OrderStatus) CanTransitionTo(to OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

func (s CustomOrderStatus) Valid() bool {
	if s == CustomOrderStatusDelivered || s == CustomOrderStatusCancelled {
		return true
	}
	_, ok := customOrderTransitions[s]
	return ok
}

func (s CustomOrderStatus) Terminal() bool {
	return s == CustomOrderStatusDelivered || s == CustomOrderStatusCancelled
}

func (s CustomOrderStatus) CanTransitionTo(to CustomOrderStatus) bool {
	for _, next := range customOrderTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}
