package filter

var (
	StatusOptions = []Option{
		{"draft", "Draft"},
		{"completed", "Completed"},
		{"canceled", "Canceled"},
		{"failed", "Failed"},
	}
	PaymentStatusOptions = []Option{
		{"unpaid", "Unpaid"},
		{"partial", "Partial"},
		{"paid", "Paid"},
		{"overpaid", "Overpaid"},
	}
	SortOptions = []Option{
		{"recently_added", "Recently added"},
		{"ascending", "Reference A-Z"},
		{"descending", "Reference Z-A"},
		{"last_month", "Last month"},
		{"last_7_days", "Last 7 days"},
	}
)

func withPlaceholder(label string, opts []Option) []Option {
	out := make([]Option, 0, len(opts)+1)
	out = append(out, Option{Label: label})
	return append(out, opts...)
}

// NewOrderForm builds the order-listing filter form.
func NewOrderForm(customers []string) *Form {
	custOpts := make([]Option, 0, len(customers))
	for _, name := range customers {
		custOpts = append(custOpts, Option{Value: name, Label: name})
	}
	return NewForm(
		&Control{
			Name:    FieldCustomer,
			Label:   "Customer",
			Tooltip: "Filter orders by customer name",
			Options: withPlaceholder("All customers", custOpts),
		},
		&Control{
			Name:    FieldStatus,
			Label:   "Status",
			Tooltip: "Filter by order status (Draft, Completed, Canceled)",
			Options: withPlaceholder("All statuses", StatusOptions),
		},
		&Control{
			Name:    FieldPaymentStatus,
			Label:   "Payment status",
			Tooltip: "Filter by payment status (Paid, Partial, Unpaid)",
			Options: withPlaceholder("All payment statuses", PaymentStatusOptions),
		},
		&Control{
			Name:    FieldSort,
			Label:   "Sort",
			Tooltip: "Sort orders by different criteria",
			Options: withPlaceholder("Default order", SortOptions),
		},
	)
}
