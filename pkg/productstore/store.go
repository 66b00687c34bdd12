// Package productstore keeps the in-memory product collection of a UI in
// step with the API. The store is the only writer of its collection;
// consumers read copies and change data only through its operations.
package productstore

import (
	"context"
	"sync"

	"kasir/pkg/productclient"
)

// Service is the part of the API client the store depends on.
type Service interface {
	List(ctx context.Context, page int) (productclient.Page, error)
	Get(ctx context.Context, id string) (productclient.Product, error)
	Create(ctx context.Context, payload productclient.Payload) (productclient.Product, error)
	Update(ctx context.Context, id string, payload productclient.Payload) (productclient.Product, error)
	Delete(ctx context.Context, id string) error
	Categories(ctx context.Context) ([]productclient.Category, error)
	CreateCategory(ctx context.Context, name string) (productclient.Category, error)
}

// Store owns the product collection, the focused product, the loading and
// error state and the pagination cursor.
//
// Every operation returns its own outcome. ErrorMessage only mirrors the
// most recent failure for display and is cleared by the next success.
type Store struct {
	svc Service

	mu         sync.Mutex
	products   []productclient.Product
	focused    *productclient.Product
	errMessage string
	inFlight   int
	pagination productclient.Pagination
	categories []productclient.Category
	listeners  []func()

	mountOnce sync.Once
	mountErr  error
}

// New creates an empty store. Call Mount to load the first page.
func New(svc Service) *Store {
	return &Store{
		svc:        svc,
		products:   []productclient.Product{},
		pagination: productclient.Pagination{Page: 1},
	}
}

// OnChange registers fn to be called after every state change.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Mount loads the first page the first time it is called. Later calls
// return the outcome of that first load without calling the API again.
func (s *Store) Mount(ctx context.Context) error {
	s.mountOnce.Do(func() {
		s.mountErr = s.LoadAll(ctx, 1)
	})
	return s.mountErr
}

// Products returns a copy of the collection.
func (s *Store) Products() []productclient.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]productclient.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Focused returns the product loaded by the last LoadOne.
func (s *Store) Focused() (productclient.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.focused == nil {
		return productclient.Product{}, false
	}
	return *s.focused, true
}

func (s *Store) ErrorMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMessage
}

// Loading reports whether any operation is waiting on the API.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight > 0
}

func (s *Store) Pagination() productclient.Pagination {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pagination
}

func (s *Store) Categories() []productclient.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]productclient.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// LoadAll replaces the collection with the given page.
func (s *Store) LoadAll(ctx context.Context, page int) (err error) {
	s.begin()
	defer s.end(&err)

	result, err := s.svc.List(ctx, page)
	if err != nil {
		return err
	}
	s.mutate(func() {
		s.products = dedupe(result.Products)
		s.pagination = result.Pagination
	})
	return nil
}

// LoadOne fetches a single product and makes it the focused one.
func (s *Store) LoadOne(ctx context.Context, id string) (err error) {
	s.begin()
	defer s.end(&err)

	product, err := s.svc.Get(ctx, id)
	if err != nil {
		return err
	}
	s.mutate(func() {
		s.focused = &product
	})
	return nil
}

// Create stores a product and appends the server's copy to the collection.
func (s *Store) Create(ctx context.Context, payload productclient.Payload) (created productclient.Product, err error) {
	s.begin()
	defer s.end(&err)

	created, err = s.svc.Create(ctx, payload)
	if err != nil {
		return productclient.Product{}, err
	}
	s.mutate(func() {
		if i := s.indexOf(created.ID); i >= 0 {
			s.products[i] = created
			return
		}
		s.products = append(s.products, created)
		s.pagination = recount(s.pagination, 1)
	})
	return created, nil
}

// Update replaces a product and swaps the server's copy in at the same position.
func (s *Store) Update(ctx context.Context, id string, payload productclient.Payload) (updated productclient.Product, err error) {
	s.begin()
	defer s.end(&err)

	updated, err = s.svc.Update(ctx, id, payload)
	if err != nil {
		return productclient.Product{}, err
	}
	s.mutate(func() {
		if i := s.indexOf(id); i >= 0 {
			s.products[i] = updated
		}
		if s.focused != nil && s.focused.ID == id {
			s.focused = &updated
		}
	})
	return updated, nil
}

// Delete removes a product. On failure the collection is left as it was and
// the error tells NotFound and Conflict apart from other failures.
func (s *Store) Delete(ctx context.Context, id string) (err error) {
	s.begin()
	defer s.end(&err)

	if err := s.svc.Delete(ctx, id); err != nil {
		return err
	}
	s.mutate(func() {
		if i := s.indexOf(id); i >= 0 {
			s.products = append(s.products[:i:i], s.products[i+1:]...)
		}
		s.pagination = recount(s.pagination, -1)
		if s.focused != nil && s.focused.ID == id {
			s.focused = nil
		}
	})
	return nil
}

// LoadCategories refreshes the category list offered by the product form.
func (s *Store) LoadCategories(ctx context.Context) (err error) {
	s.begin()
	defer s.end(&err)

	categories, err := s.svc.Categories(ctx)
	if err != nil {
		return err
	}
	s.mutate(func() {
		s.categories = categories
	})
	return nil
}

// CreateCategory stores a category and appends it to the category list.
func (s *Store) CreateCategory(ctx context.Context, name string) (created productclient.Category, err error) {
	s.begin()
	defer s.end(&err)

	created, err = s.svc.CreateCategory(ctx, name)
	if err != nil {
		return productclient.Category{}, err
	}
	s.mutate(func() {
		s.categories = append(s.categories, created)
	})
	return created, nil
}

func (s *Store) begin() {
	s.mutate(func() {
		s.inFlight++
	})
}

// end clears the loading state and records the outcome of the operation.
func (s *Store) end(errp *error) {
	s.mutate(func() {
		s.inFlight--
		if *errp != nil {
			s.errMessage = messageOf(*errp)
		} else {
			s.errMessage = ""
		}
	})
}

// mutate applies fn under the lock and then notifies listeners.
func (s *Store) mutate(fn func()) {
	s.mu.Lock()
	fn()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l()
	}
}

// indexOf must be called with the lock held.
func (s *Store) indexOf(id string) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}

func messageOf(err error) string {
	if msg := productclient.ServerMessage(err); msg != "" {
		return msg
	}
	return err.Error()
}

// recount moves the product total by delta and derives the page count from
// it. The loaded page itself is not re-cut: a create on a full page leaves
// more than Limit products in the collection until the next LoadAll.
func recount(p productclient.Pagination, delta int) productclient.Pagination {
	p.Total += delta
	if p.Total < 0 {
		p.Total = 0
	}
	p.TotalPage = 1
	if p.Limit > 0 && p.Total > p.Limit {
		p.TotalPage = (p.Total + p.Limit - 1) / p.Limit
	}
	return p
}

// dedupe keeps the first occurrence of every id.
func dedupe(products []productclient.Product) []productclient.Product {
	seen := make(map[string]bool, len(products))
	out := make([]productclient.Product, 0, len(products))
	for _, p := range products {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out
}
