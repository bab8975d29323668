package mailer

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/gomail.v2"

	"github.com/Artur470/postgreql/models"
)

// Notifier delivers an order summary to the shop operator. Delivery failure
// must never abort an already-committed order; callers log and move on.
type Notifier interface {
	NotifyOrderPlaced(order *models.Order, user *models.User, method *models.PaymentMethod, items []models.CartItem) error
}

// SMTPNotifier sends the summary as plain-text mail to a fixed operator
// address injected at construction.
type SMTPNotifier struct {
	dialer   *gomail.Dialer
	from     string
	operator string
	loc      *time.Location
}

func NewSMTPNotifier(host string, port int, user, password, from, operator string, loc *time.Location) *SMTPNotifier {
	return &SMTPNotifier{
		dialer:   gomail.NewDialer(host, port, user, password),
		from:     from,
		operator: operator,
		loc:      loc,
	}
}

func (n *SMTPNotifier) NotifyOrderPlaced(order *models.Order, user *models.User, method *models.PaymentMethod, items []models.CartItem) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.operator)
	m.SetHeader("Subject", "New order!")
	m.SetBody("text/plain", FormatOrderSummary(order, user, method, items, n.loc))
	return n.dialer.DialAndSend(m)
}

// FormatOrderSummary renders the operator mail body: order header, customer
// contact details, then one block per line item. The order timestamp is
// shown in the shop's local timezone.
func FormatOrderSummary(order *models.Order, user *models.User, method *models.PaymentMethod, items []models.CartItem, loc *time.Location) string {
	methodName := "unspecified"
	if method != nil {
		methodName = method.Name
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Order number: %d\n", order.ID)
	fmt.Fprintf(&b, "User email: %s\n", user.Email)
	fmt.Fprintf(&b, "User name: %s %s\n", user.FirstName, user.LastName)
	fmt.Fprintf(&b, "User phone number: %s\n", user.Phone)
	fmt.Fprintf(&b, "Address: %s\n", order.Address)
	fmt.Fprintf(&b, "Payment method: %s\n", methodName)
	fmt.Fprintf(&b, "Total price: %s\n", order.TotalPrice)
	fmt.Fprintf(&b, "Order time: %s\n\n", order.CreatedAt.In(loc).Format("2006-01-02 15:04:05"))

	if user.Wholesaler {
		b.WriteString("The customer is a wholesaler.\n\n")
	}

	if len(items) > 0 {
		b.WriteString("\nItems in the order:\n\n")
		for _, item := range items {
			unit := item.Price
			if item.Quantity > 0 {
				unit = item.Price.Div(decimal.NewFromInt(int64(item.Quantity)))
			}
			fmt.Fprintf(&b, "Product ID: %d\n", item.ProductID)
			fmt.Fprintf(&b, "Product: %s\n", item.Product.Title)
			fmt.Fprintf(&b, "Category: %s\n", item.Product.Category)
			fmt.Fprintf(&b, "Color: %s\n", item.Product.Color)
			fmt.Fprintf(&b, "Brand: %s\n", item.Product.Brand)
			fmt.Fprintf(&b, "Quantity: %d\n", item.Quantity)
			fmt.Fprintf(&b, "Price per unit: %s\n", unit)
			fmt.Fprintf(&b, "Price for all units: %s\n\n", item.Price)
		}
	}

	return b.String()
}
