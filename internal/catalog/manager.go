package catalog

import (
	"errors"

	"go.uber.org/zap"

	"FlatMart/internal/authn"
	"FlatMart/internal/events"
	"FlatMart/internal/store"
)

var ErrNotFound = errors.New("product not found")

// Manager owns CRUD over the product document. The file is the only state:
// every mutation is a full read-modify-write cycle under the document's
// write lock, and every read loads fresh.
type Manager struct {
	doc *store.Document[Product]
	bus *events.Bus
	log *zap.Logger
}

func NewManager(doc *store.Document[Product], bus *events.Bus, log *zap.Logger) *Manager {
	return &Manager{doc: doc, bus: bus, log: log}
}

func (m *Manager) Ready() error {
	_, err := m.doc.Load()
	return err
}

func (m *Manager) List(params QueryParams) (Page, error) {
	products, err := m.doc.Load()
	if err != nil {
		return Page{}, err
	}
	return Evaluate(products, params), nil
}

func (m *Manager) Get(id int64) (Product, error) {
	products, err := m.doc.Load()
	if err != nil {
		return Product{}, err
	}

	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (m *Manager) Create(in Input, actor authn.Actor) (Product, error) {
	if err := in.validate(); err != nil {
		return Product{}, err
	}

	keywords := in.Keywords
	if keywords == nil {
		keywords = []string{}
	}

	var created Product
	err := m.doc.Update(func(products []Product) ([]Product, error) {
		created = Product{
			ID:          nextID(products),
			Title:       in.Title,
			Description: in.Description,
			Price:       *in.Price,
			Keywords:    keywords,
			Owner:       actor.Identity,
			Extra:       in.Extra,
		}
		return append(products, created), nil
	})
	if err != nil {
		return Product{}, err
	}

	m.publish(events.ProductAdded, created)
	return created, nil
}

func (m *Manager) Update(id int64, patch Patch, actor authn.Actor) (Product, error) {
	if err := patch.validate(); err != nil {
		return Product{}, err
	}

	var updated Product
	err := m.doc.Update(func(products []Product) ([]Product, error) {
		i := indexOf(products, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		if !actor.CanManage(products[i].Owner) {
			return nil, authn.ErrForbidden
		}

		products[i] = patch.Apply(products[i])
		updated = products[i]
		return products, nil
	})
	if err != nil {
		return Product{}, err
	}

	m.publish(events.ProductUpdated, updated)
	return updated, nil
}

func (m *Manager) Delete(id int64, actor authn.Actor) error {
	err := m.doc.Update(func(products []Product) ([]Product, error) {
		i := indexOf(products, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		if !actor.CanManage(products[i].Owner) {
			return nil, authn.ErrForbidden
		}
		return append(products[:i], products[i+1:]...), nil
	})
	if err != nil {
		return err
	}

	m.publish(events.ProductDeleted, id)
	return nil
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

// nextID is monotonic over the ids still present: max+1, or 1 for an empty
// collection. An id freed by a delete below the max is never handed out
// again.
func nextID(products []Product) int64 {
	var max int64
	for _, p := range products {
		if p.ID > max {
			max = p.ID
		}
	}
	return max + 1
}

func indexOf(products []Product, id int64) int {
	for i, p := range products {
		if p.ID == id {
			return i
		}
	}
	return -1
}
