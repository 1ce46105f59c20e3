// Package pricing は注文金額をサーバー側で計算する。
package pricing

import "github.com/shopspring/decimal"

// 金額の許容誤差（クライアント値との比較用）
var tolerance = decimal.RequireFromString("0.01")

type Rules struct {
	TaxRate               decimal.Decimal
	ShippingFee           decimal.Decimal
	FreeShippingThreshold decimal.Decimal
}

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// Compute は小計から税・送料・合計を出す。割引は常に0。
func (r Rules) Compute(subtotal decimal.Decimal) Totals {
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(r.TaxRate).Round(2)

	shipping := r.ShippingFee
	if subtotal.IsZero() {
		shipping = decimal.Zero
	}
	if r.FreeShippingThreshold.IsPositive() && subtotal.GreaterThanOrEqual(r.FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	discount := decimal.Zero
	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal.Sub(discount).Add(tax).Add(shipping),
	}
}

// Matches はクライアントが送ってきた金額と一致するかを返す。
func (t Totals) Matches(subtotal, tax, shipping, total decimal.Decimal) bool {
	return near(t.Subtotal, subtotal) && near(t.Tax, tax) && near(t.Shipping, shipping) && near(t.Total, total)
}

func near(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}

// CustomPrice はカスタムデザイン1着分の内訳。
type CustomPrice struct {
	FabricCost      decimal.Decimal
	FrontModelPrice decimal.Decimal
	BackModelPrice  decimal.Decimal
	Price           decimal.Decimal
}

// CustomDesign は生地 + 前後モデルで1着の価格を出す。持ち込み生地なら生地代は0。
func CustomDesign(fabric, front, back decimal.Decimal, ownFabric bool) CustomPrice {
	if ownFabric {
		fabric = decimal.Zero
	}
	fabric = nonNegative(fabric)
	front = nonNegative(front)
	back = nonNegative(back)
	return CustomPrice{
		FabricCost:      fabric,
		FrontModelPrice: front,
		BackModelPrice:  back,
		Price:           fabric.Add(front).Add(back),
	}
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
