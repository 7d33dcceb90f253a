package filter

import (
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeDebouncesToLatest(t *testing.T) {
	f := NewOrderForm([]string{"Amina", "Baraka"})

	first, err := f.Change(FieldStatus, 2)
	require.NoError(t, err)
	second, err := f.Change(FieldPaymentStatus, 3)
	require.NoError(t, err)

	assert.False(t, f.Due(first))
	require.True(t, f.Due(second))

	sub := f.Submit()
	assert.Equal(t, url.Values{"status": {"completed"}, "payment_status": {"paid"}}, sub.Values)
	assert.Equal(t, 2, sub.Active)
	assert.False(t, f.Due(second), "submitted already")
}

func TestChangeRejectsBadInput(t *testing.T) {
	f := NewOrderForm(nil)
	_, err := f.Change("nope", 1)
	assert.Error(t, err)
	_, err = f.Change(FieldStatus, 99)
	assert.Error(t, err)
}

func TestEnterAndEscape(t *testing.T) {
	f := NewOrderForm([]string{"Amina"})
	_, err := f.Change(FieldCustomer, 1)
	require.NoError(t, err)

	assert.True(t, f.Key(FieldCustomer, "enter"))
	assert.Equal(t, "Amina", f.Submit().Values.Get(FieldCustomer))

	assert.True(t, f.Key(FieldCustomer, "esc"))
	c, _ := f.Control(FieldCustomer)
	assert.Equal(t, 0, c.Selected())
	assert.Empty(t, f.Submit().Values)

	assert.False(t, f.Key(FieldCustomer, "x"))
	assert.False(t, f.Key("nope", "enter"))
}

func TestStepWraps(t *testing.T) {
	f := NewOrderForm(nil)
	_, err := f.Step(FieldSort, -1)
	require.NoError(t, err)
	c, _ := f.Control(FieldSort)
	assert.Equal(t, "last_7_days", c.Value())

	_, err = f.Step(FieldSort, 1)
	require.NoError(t, err)
	assert.False(t, c.Active())
}

func TestSummary(t *testing.T) {
	f := NewOrderForm(nil)
	assert.Equal(t, "No filters applied", f.Summary())

	f.Change(FieldStatus, 1)
	f.Change(FieldSort, 2)
	assert.Equal(t, "Applied filters: Status: Draft, Sort: Reference A-Z", f.Summary())
	assert.Equal(t, 2, f.ActiveCount())
}

func TestApplyingState(t *testing.T) {
	f := NewOrderForm(nil)
	a := f.Submit()
	b := f.Submit()
	assert.True(t, f.Applying())

	f.Expire(a.ID)
	assert.True(t, f.Applying())
	f.Expire(b.ID)
	assert.False(t, f.Applying())

	c := f.Submit()
	d := f.Submit()
	assert.False(t, f.Done(c.ID))
	assert.True(t, f.Applying())
	assert.True(t, f.Done(d.ID))
	assert.False(t, f.Applying())
}

func TestLoad(t *testing.T) {
	f := NewOrderForm([]string{"Amina", "Baraka"})
	f.Load(url.Values{"customer": {"Baraka"}, "sort_by": {"descending"}, "status": {"bogus"}})

	assert.Equal(t, url.Values{"customer": {"Baraka"}, "sort_by": {"descending"}}, f.Values())
}

func TestEnhance(t *testing.T) {
	many := make([]string, 25)
	for i := range many {
		many[i] = fmt.Sprintf("Customer %02d", i)
	}

	f := NewOrderForm(many)
	f.Enhance(Capabilities{SearchableSelect: false})
	c, _ := f.Control(FieldCustomer)
	assert.False(t, c.Searchable)

	f.Enhance(Capabilities{SearchableSelect: true})
	assert.True(t, c.Searchable)

	seq, ok := f.Search(FieldCustomer, "customer 17")
	require.True(t, ok)
	assert.True(t, f.Due(seq))
	assert.Equal(t, "Customer 17", c.Value())

	_, ok = f.Search(FieldCustomer, "nobody")
	assert.False(t, ok)

	small := NewOrderForm([]string{"Amina"})
	small.Enhance(Capabilities{SearchableSelect: true})
	sc, _ := small.Control(FieldCustomer)
	assert.False(t, sc.Searchable)
	_, ok = small.Search(FieldCustomer, "amina")
	assert.False(t, ok)
}
