package handler

import (
	"bytes"
	"html/template"

	"atelier/internal/domain/model"

	"github.com/shopspring/decimal"
)

var invoiceTmpl = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"money": func(d decimal.Decimal) string { return "₹" + d.StringFixed(2) },
	"line": func(it model.OrderItem) string {
		return "₹" + it.Price.Mul(decimal.NewFromInt(it.Quantity)).StringFixed(2)
	},
}).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Invoice {{.OrderNumber}}</title></head>
<body>
<h1>Invoice {{.OrderNumber}}</h1>
<p>Date: {{.CreatedAt.Format "2006-01-02"}}</p>
<p>Status: {{.Status}} / Payment: {{.PaymentMethod}} ({{.PaymentStatus}})</p>
{{with .Address}}<p>{{.FirstName}} {{.LastName}}<br>{{.Line1}}<br>{{.City}}, {{.State}} {{.ZipCode}}<br>{{.Country}}</p>{{end}}
<table>
<tr><th>Item</th><th>Size</th><th>Color</th><th>Qty</th><th>Price</th><th>Amount</th></tr>
{{range .Items}}<tr><td>{{.ProductID}}</td><td>{{with .Size}}{{.}}{{end}}</td><td>{{with .Color}}{{.}}{{end}}</td><td>{{.Quantity}}</td><td>{{money .Price}}</td><td>{{line .}}</td></tr>
{{end}}</table>
<p>Subtotal: {{money .Subtotal}}</p>
<p>Tax: {{money .Tax}}</p>
<p>Shipping: {{money .Shipping}}</p>
<p><strong>Total: {{money .Total}}</strong></p>
</body>
</html>
`))

func renderInvoice(o model.Order) (string, error) {
	var buf bytes.Buffer
	if err := invoiceTmpl.Execute(&buf, o); err != nil {
		return "", err
	}
	return buf.String(), nil
}
