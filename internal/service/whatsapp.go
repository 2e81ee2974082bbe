package service

import (
	"fmt"
	"net/url"
	"strings"

	"go-dulceria-api/internal/model"
	"go-dulceria-api/internal/pricing"
)

// WhatsAppNumbers holds the contact number of every branch, in any format
type WhatsAppNumbers map[model.Branch]string

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// OrderLink returns a wa.me link that opens a chat with the branch of o and
// a pre-filled confirmation message. Empty when the branch has no number.
func (w WhatsAppNumbers) OrderLink(o *model.Order) string {
	phone := digitsOnly(w[o.SelectedBranch])
	if phone == "" {
		return ""
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "¡Hola! Acabo de hacer el pedido %s en la sede %s.\n", o.OrderNumber, o.SelectedBranch.DisplayName())
	fmt.Fprintf(&msg, "Nombre: %s\n", o.CustomerName)
	for _, it := range o.Items {
		fmt.Fprintf(&msg, "- %d x %s (%s)\n", it.Quantity, it.ProductName, pricing.FormatCOP(it.Total))
	}
	if o.DiscountAmount > 0 {
		fmt.Fprintf(&msg, "Descuento %s: -%s\n", o.CouponCode, pricing.FormatCOP(o.DiscountAmount))
	}
	fmt.Fprintf(&msg, "Total: %s", pricing.FormatCOP(o.Total))

	// wa.me wants %20 rather than + for spaces
	text := strings.ReplaceAll(url.QueryEscape(msg.String()), "+", "%20")
	return "https://wa.me/" + phone + "?text=" + text
}
