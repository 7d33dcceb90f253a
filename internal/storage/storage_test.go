package storage

import (
	"database/sql"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	s.now = func() time.Time { return time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC) }
	require.NoError(t, s.SeedDemo())
	return s
}

func references(orders []Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.Reference)
	}
	return out
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}

func TestOpenUpgradesLegacyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")
	legacy, err := sql.Open("sqlite", sqliteDSN(path))
	require.NoError(t, err)
	_, err = legacy.Exec(`
CREATE TABLE orders (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	reference TEXT NOT NULL UNIQUE,
	customer TEXT DEFAULT '',
	date TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'draft',
	payment_status TEXT NOT NULL DEFAULT 'unpaid',
	grand_total REAL NOT NULL DEFAULT 0
);
INSERT INTO orders (reference, customer, date, status, payment_status, grand_total)
VALUES ('POS-0100', 'Zawadi Njeri', '2026-10-01', 'completed', 'paid', 410);`)
	require.NoError(t, err)
	require.NoError(t, legacy.Close())

	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	orders, err := s.QueryOrders(Query{Source: "pos"})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "POS-0100", orders[0].Reference)
	assert.Equal(t, "pos", orders[0].Source)
	assert.Zero(t, orders[0].PaidAmount)

	require.NoError(t, s.AddOrder(Order{Reference: "POS-0101", Status: "draft", PaymentStatus: "partial", GrandTotal: 300, PaidAmount: 120, Source: "online"}))
	orders, err = s.QueryOrders(Query{Source: "online"})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, 120.0, orders[0].PaidAmount)
	assert.Equal(t, 180.0, orders[0].Due())
}

func TestSeedDemoOnlyOnce(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.SeedDemo())
	n, err := s.CountOrders()
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestQueryOrders(t *testing.T) {
	s := openTestStore(t)

	cases := []struct {
		name string
		q    Query
		want []string
	}{
		{"default newest first", Query{}, []string{"POS-0005", "POS-0004", "POS-0003", "POS-0002", "POS-0001"}},
		{"customer substring", Query{Customer: "amina"}, []string{"POS-0004", "POS-0001"}},
		{"status", Query{Status: "completed"}, []string{"POS-0005", "POS-0002", "POS-0001"}},
		{"payment status", Query{PaymentStatus: "unpaid"}, []string{"POS-0004", "POS-0003"}},
		{"ascending", Query{SortBy: "ascending"}, []string{"POS-0001", "POS-0002", "POS-0003", "POS-0004", "POS-0005"}},
		{"descending", Query{SortBy: "descending", Status: "completed"}, []string{"POS-0005", "POS-0002", "POS-0001"}},
		{"last month", Query{SortBy: "last_month"}, []string{"POS-0005", "POS-0004", "POS-0003", "POS-0002"}},
		{"last 7 days", Query{SortBy: "last_7_days"}, []string{"POS-0005", "POS-0004", "POS-0003"}},
		{"other source", Query{Source: "online"}, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.QueryOrders(tc.q)
			require.NoError(t, err)
			assert.Equal(t, tc.want, references(got))
		})
	}
}

func TestParseQuery(t *testing.T) {
	q := ParseQuery(url.Values{"customer": {" Baraka "}, "payment_status": {"partial"}, "sort_by": {"ascending"}})
	assert.Equal(t, Query{Customer: "Baraka", PaymentStatus: "partial", SortBy: "ascending"}, q)
}

func TestCustomers(t *testing.T) {
	s := openTestStore(t)
	names, err := s.Customers()
	require.NoError(t, err)
	assert.Equal(t, []string{"Amina Odhiambo", "Baraka Mwangi", "Chebet Kiprono", "Dalmas Otieno"}, names)
}

func TestOrderDue(t *testing.T) {
	assert.Equal(t, 1400.0, Order{GrandTotal: 3400, PaidAmount: 2000}.Due())
	assert.Equal(t, 0.0, Order{GrandTotal: 990, PaidAmount: 1000}.Due())
}
