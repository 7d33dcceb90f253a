package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

type Order struct {
	ID            int
	Reference     string
	Customer      string
	Date          time.Time
	Status        string
	PaymentStatus string
	GrandTotal    float64
	PaidAmount    float64
	Source        string
}

// Due is what is left to pay on the order.
func (o Order) Due() float64 {
	d := o.GrandTotal - o.PaidAmount
	if d < 0 {
		return 0
	}
	return d
}

type Store struct {
	db  *sql.DB
	now func() time.Time
}

func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	dsn := sqliteDSN(dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS orders (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	reference TEXT NOT NULL UNIQUE,
	customer TEXT DEFAULT '',
	date TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'draft',
	payment_status TEXT NOT NULL DEFAULT 'unpaid',
	grand_total REAL NOT NULL DEFAULT 0,
	paid_amount REAL NOT NULL DEFAULT 0,
	source TEXT NOT NULL DEFAULT 'pos'
);`
	if _, err := s.db.Exec(ddl); err != nil {
		return err
	}
	return s.ensureOrderColumns()
}

func (s *Store) ensureOrderColumns() error {
	required := map[string]string{
		"paid_amount": "ALTER TABLE orders ADD COLUMN paid_amount REAL NOT NULL DEFAULT 0;",
		"source":      "ALTER TABLE orders ADD COLUMN source TEXT NOT NULL DEFAULT 'pos';",
	}
	existing := map[string]struct{}{}
	rows, err := s.db.Query(`PRAGMA table_info(orders);`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return err
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for col, alter := range required {
		if _, ok := existing[col]; ok {
			continue
		}
		if _, err := s.db.Exec(alter); err != nil {
			return err
		}
	}
	return nil
}

// Query is the order listing request, built from the filter form payload.
type Query struct {
	Source        string
	Customer      string
	Status        string
	PaymentStatus string
	SortBy        string
}

func ParseQuery(v url.Values) Query {
	return Query{
		Source:        strings.TrimSpace(v.Get("source")),
		Customer:      strings.TrimSpace(v.Get("customer")),
		Status:        strings.TrimSpace(v.Get("status")),
		PaymentStatus: strings.TrimSpace(v.Get("payment_status")),
		SortBy:        strings.TrimSpace(v.Get("sort_by")),
	}
}

func (s *Store) QueryOrders(q Query) ([]Order, error) {
	var (
		where []string
		args  []any
	)
	if q.Source != "" {
		where = append(where, "source = ?")
		args = append(args, q.Source)
	}
	if q.Customer != "" {
		where = append(where, "customer LIKE ?")
		args = append(args, "%"+q.Customer+"%")
	}
	if q.Status != "" {
		where = append(where, "status = ?")
		args = append(args, q.Status)
	}
	if q.PaymentStatus != "" {
		where = append(where, "payment_status = ?")
		args = append(args, q.PaymentStatus)
	}

	order := "id DESC"
	switch q.SortBy {
	case "ascending":
		order = "reference ASC"
	case "descending":
		order = "reference DESC"
	case "last_month", "last_7_days":
		days := 30
		if q.SortBy == "last_7_days" {
			days = 7
		}
		where = append(where, "date >= ?")
		args = append(args, s.now().AddDate(0, 0, -days).Format(dateLayout))
		order = "date DESC, id DESC"
	}

	stmt := `SELECT id, reference, customer, date, status, payment_status, grand_total, paid_amount, source FROM orders`
	if len(where) > 0 {
		stmt += " WHERE " + strings.Join(where, " AND ")
	}
	stmt += " ORDER BY " + order + ";"

	rows, err := s.db.Query(stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		var dateStr string
		if err := rows.Scan(&o.ID, &o.Reference, &o.Customer, &dateStr, &o.Status, &o.PaymentStatus, &o.GrandTotal, &o.PaidAmount, &o.Source); err != nil {
			return nil, err
		}
		if parsed, err := time.Parse(dateLayout, dateStr); err == nil {
			o.Date = parsed
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

// Customers lists the distinct customer names for the customer filter.
func (s *Store) Customers() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT customer FROM orders WHERE customer != '' ORDER BY customer;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *Store) AddOrder(o Order) error {
	if o.Date.IsZero() {
		o.Date = s.now()
	}
	if o.Source == "" {
		o.Source = "pos"
	}
	_, err := s.db.Exec(`INSERT INTO orders (reference, customer, date, status, payment_status, grand_total, paid_amount, source) VALUES (?, ?, ?, ?, ?, ?, ?, ?);`,
		o.Reference, o.Customer, o.Date.Format(dateLayout), o.Status, o.PaymentStatus, o.GrandTotal, o.PaidAmount, o.Source)
	return err
}

func (s *Store) CountOrders() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM orders;`).Scan(&n)
	return n, err
}

// SeedDemo fills an empty listing with sample orders. It is a no-op when
// any order exists.
func (s *Store) SeedDemo() error {
	n, err := s.CountOrders()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	today := s.now()
	demo := []Order{
		{Reference: "POS-0001", Customer: "Amina Odhiambo", Status: "completed", PaymentStatus: "paid", GrandTotal: 1250, PaidAmount: 1250, Date: today.AddDate(0, 0, -45)},
		{Reference: "POS-0002", Customer: "Baraka Mwangi", Status: "completed", PaymentStatus: "partial", GrandTotal: 3400, PaidAmount: 2000, Date: today.AddDate(0, 0, -20)},
		{Reference: "POS-0003", Customer: "Chebet Kiprono", Status: "draft", PaymentStatus: "unpaid", GrandTotal: 780, Date: today.AddDate(0, 0, -5)},
		{Reference: "POS-0004", Customer: "Amina Odhiambo", Status: "canceled", PaymentStatus: "unpaid", GrandTotal: 560, Date: today.AddDate(0, 0, -2)},
		{Reference: "POS-0005", Customer: "Dalmas Otieno", Status: "completed", PaymentStatus: "overpaid", GrandTotal: 990, PaidAmount: 1000, Date: today},
	}
	for _, o := range demo {
		if err := s.AddOrder(o); err != nil {
			return fmt.Errorf("seed %s: %w", o.Reference, err)
		}
	}
	return nil
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
