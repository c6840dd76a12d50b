package cart

import (
	"errors"

	"go.uber.org/zap"

	"FlatMart/internal/events"
	"FlatMart/internal/store"
)

var ErrNotFound = errors.New("cart not found")

type Manager struct {
	doc *store.Document[Cart]
	bus *events.Bus
	log *zap.Logger
}

func NewManager(doc *store.Document[Cart], bus *events.Bus, log *zap.Logger) *Manager {
	return &Manager{doc: doc, bus: bus, log: log}
}

func (m *Manager) Ready() error {
	_, err := m.doc.Load()
	return err
}

func (m *Manager) Get(id int64) (Cart, error) {
	carts, err := m.doc.Load()
	if err != nil {
		return Cart{}, err
	}

	for _, c := range carts {
		if c.ID == id {
			return c, nil
		}
	}
	return Cart{}, ErrNotFound
}

func (m *Manager) Create() (Cart, error) {
	var created Cart
	err := m.doc.Update(func(carts []Cart) ([]Cart, error) {
		created = Cart{ID: nextID(carts), Products: []Line{}}
		return append(carts, created), nil
	})
	if err != nil {
		return Cart{}, err
	}

	m.publish(events.CartCreated, created)
	return created, nil
}

// AddProduct increments the line for productID, or appends a fresh line with
// quantity 1. A missing cart is an error: it is never fabricated under the
// caller's id.
func (m *Manager) AddProduct(cartID, productID int64) (Cart, error) {
	var updated Cart
	err := m.doc.Update(func(carts []Cart) ([]Cart, error) {
		i := indexOf(carts, cartID)
		if i < 0 {
			return nil, ErrNotFound
		}

		merged := false
		for j := range carts[i].Products {
			if carts[i].Products[j].ProductID == productID {
				carts[i].Products[j].Quantity++
				merged = true
				break
			}
		}
		if !merged {
			carts[i].Products = append(carts[i].Products, Line{ProductID: productID, Quantity: 1})
		}

		updated = carts[i]
		return carts, nil
	})
	if err != nil {
		return Cart{}, err
	}

	m.publish(events.CartProductAdded, updated)
	return updated, nil
}

func (m *Manager) publish(name string, payload any) {
	if m.bus == nil {
		return
	}
	ev := m.bus.Publish(name, payload)
	if m.log != nil {
		m.log.Debug("event published", zap.String("event", ev.Name), zap.String("event_id", ev.ID))
	}
}

func nextID(carts []Cart) int64 {
	var max int64
	for _, c := range carts {
		if c.ID > max {
			max = c.ID
		}
	}
	return max + 1
}

func indexOf(carts []Cart, id int64) int {
	for i, c := range carts {
		if c.ID == id {
			return i
		}
	}
	return -1
}
