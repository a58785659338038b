package service

import (
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
)

const chatBaseURL = "https://zalo.me/"

// OrderMessage is an order summary ready to paste into the shop's chat
type OrderMessage struct {
	Text string `json:"text"`
	Link string `json:"link"`
}

// ComposeOrderMessage renders order for the shop owner and links to the shop's chat
func ComposeOrderMessage(order *domain.Order, shopPhone string, loc *time.Location) OrderMessage {
	if loc == nil {
		loc = time.Local
	}

	var b strings.Builder
	fmt.Fprintf(&b, "ĐƠN HÀNG MỚI #%s\n", order.ID)
	fmt.Fprintf(&b, "Ngày: %s\n\n", order.CreatedAt.In(loc).Format("15:04:05 2/1/2006"))

	b.WriteString("KHÁCH HÀNG:\n")
	fmt.Fprintf(&b, "- Tên: %s\n", order.CustomerName)
	fmt.Fprintf(&b, "- SĐT: %s\n", order.CustomerPhone)
	fmt.Fprintf(&b, "- Địa chỉ: %s\n\n", order.ShippingAddress)

	b.WriteString("SẢN PHẨM:\n")
	for i, item := range order.Items {
		fmt.Fprintf(&b, "%d. %s x%d\n", i+1, item.Name, item.Quantity)
	}

	fmt.Fprintf(&b, "\nTỔNG TIỀN: %s\n\n", FormatVND(order.TotalAmount))
	b.WriteString("Vui lòng xác nhận đơn hàng giúp mình nhé!")

	return OrderMessage{
		Text: b.String(),
		Link: chatBaseURL + domain.NormalizePhone(shopPhone),
	}
}

// FormatVND renders an amount the way Vietnamese shops print prices: whole
// dong, dot-grouped thousands, trailing currency sign.
func FormatVND(amount decimal.Decimal) string {
	digits := amount.Abs().Round(0).StringFixed(0)

	var grouped strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}

	sign := ""
	if amount.Round(0).IsNegative() {
		sign = "-"
	}
	return sign + grouped.String() + " ₫"
}
