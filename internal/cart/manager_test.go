package cart

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"FlatMart/internal/events"
	"FlatMart/internal/store"
)

func newManager(t *testing.T) (*Manager, *store.Document[Cart]) {
	t.Helper()

	doc := store.Open[Cart](filepath.Join(t.TempDir(), "carts.json"))
	require.NoError(t, doc.Save(nil))
	return NewManager(doc, events.NewBus(), zap.NewNop()), doc
}

func TestCreateAssignsMonotonicIDs(t *testing.T) {
	m, _ := newManager(t)

	first, err := m.Create()
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)
	assert.NotNil(t, first.Products)
	assert.Empty(t, first.Products)

	second, err := m.Create()
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)
}

func TestGetMissing(t *testing.T) {
	m, _ := newManager(t)

	_, err := m.Get(7)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAddProductInsertsThenIncrements(t *testing.T) {
	m, _ := newManager(t)

	c, err := m.Create()
	require.NoError(t, err)

	got, err := m.AddProduct(c.ID, 42)
	require.NoError(t, err)
	require.Equal(t, []Line{{ProductID: 42, Quantity: 1}}, got.Products)

	got, err = m.AddProduct(c.ID, 42)
	require.NoError(t, err)
	require.Equal(t, []Line{{ProductID: 42, Quantity: 2}}, got.Products, "repeat add merges, no duplicate line")

	got, err = m.AddProduct(c.ID, 7)
	require.NoError(t, err)
	require.Equal(t, []Line{{ProductID: 42, Quantity: 2}, {ProductID: 7, Quantity: 1}}, got.Products)

	stored, err := m.Get(c.ID)
	require.NoError(t, err)
	assert.Equal(t, got, stored, "mutation is visible to the next read")
}

func TestAddProductMissingCartDoesNotFabricateOne(t *testing.T) {
	m, doc := newManager(t)

	_, err := m.AddProduct(99, 42)
	require.ErrorIs(t, err, ErrNotFound)

	carts, err := doc.Load()
	require.NoError(t, err)
	assert.Empty(t, carts, "a failed add must not create a cart under the caller's id")
}

func TestCartEventsEmitted(t *testing.T) {
	doc := store.Open[Cart](filepath.Join(t.TempDir(), "carts.json"))
	require.NoError(t, doc.Save(nil))

	bus := events.NewBus()
	var names []string
	bus.Subscribe(func(ev events.Event) { names = append(names, ev.Name) })

	m := NewManager(doc, bus, zap.NewNop())

	c, err := m.Create()
	require.NoError(t, err)
	_, err = m.AddProduct(c.ID, 1)
	require.NoError(t, err)

	assert.Equal(t, []string{events.CartCreated, events.CartProductAdded}, names)
}
