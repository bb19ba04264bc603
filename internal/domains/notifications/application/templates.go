package application

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/shopspring/decimal"
)

const receiptTemplate = `<div style="font-family: Arial, sans-serif; color: #333;">
  <h2 style="color: #00c8ff;">Thank you for your order, {{ .Receipt.Customer.Name }}!</h2>
  <p>Order #{{ .Receipt.OrderID }} placed {{ date .Receipt.PlacedAt }}</p>
  <p>Phone: {{ .Receipt.Customer.Phone }}<br>Email: {{ .Receipt.Customer.Email }}</p>
  {{- with .Receipt.ShippingAddress }}
  <p>Ship to: {{ . }}</p>
  {{- end }}
  <table style="width: 100%; border-collapse: collapse;">
    <tr><th align="left">Item</th><th align="right">Price</th></tr>
    {{- range .Receipt.Lines }}
    <tr><td>{{ .Name }} ×{{ .Quantity }}</td><td align="right">{{ money .Subtotal }} {{ $.Currency }}</td></tr>
    {{- end }}
  </table>
  <p><strong style="color: #00c8ff;">Total: {{ money .Receipt.Total }} {{ .Currency }}</strong></p>
  {{- with .Receipt.Comment }}
  <p>Comment: {{ . }}</p>
  {{- end }}
  <hr>
  <p style="font-size: 13px; color: #777;">Thank you for choosing {{ .Brand }}.</p>
</div>`

const confirmationTemplate = `<p>Hello, <strong>{{ .Confirmation.Name }}</strong>!</p>
<p>Your account has been approved by an administrator. You can now sign in and place orders.</p>
<p style="color: #00c8ff;">Thank you for choosing {{ .Brand }}.</p>`

var templateFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"date":  func(t time.Time) string { return t.UTC().Format("2006-01-02 15:04 MST") },
}

var (
	receiptTmpl      = template.Must(template.New("receipt").Funcs(templateFuncs).Parse(receiptTemplate))
	confirmationTmpl = template.Must(template.New("confirmation").Funcs(templateFuncs).Parse(confirmationTemplate))
)

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
