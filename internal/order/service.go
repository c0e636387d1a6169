package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/pedidos-api/internal/user"
)

var (
	// ErrNotPending is returned in strict mode when an order outside
	// PENDING is mutated or re-transitioned.
	ErrNotPending = errors.New("order is no longer pending")

	// ErrIntegrity marks an item whose parent order is missing. With the
	// cascade in place this should never happen; it is surfaced, not
	// swallowed.
	ErrIntegrity = errors.New("order item references a missing order")
)

// Service orchestrates lifecycle, pricing and the access guard behind the
// public order operations.
type Service struct {
	repo   Repository
	users  user.Repository
	strict bool
}

func NewService(repo Repository, users user.Repository, strict bool) *Service {
	return &Service{repo: repo, users: users, strict: strict}
}

// Create opens a new PENDING order with price 0 and no items. The owner
// must exist.
func (s *Service) Create(ctx context.Context, ownerID string) (*Order, error) {
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, fmt.Errorf("owner: %w", err)
	}
	o := &Order{
		ID:     uuid.NewString(),
		UserID: ownerID,
		Status: StatusPending,
		Price:  "0.00",
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

type ItemSpec struct {
	Count     int
	Flavor    string
	Size      string
	UnitPrice string
}

func (sp ItemSpec) validate() error {
	if sp.Count <= 0 {
		return fmt.Errorf("count must be positive")
	}
	d, err := decimal.NewFromString(sp.UnitPrice)
	if err != nil {
		return fmt.Errorf("unit_price is not a valid amount")
	}
	if d.IsNegative() {
		return fmt.Errorf("unit_price must be non-negative")
	}
	return nil
}

// AddItem appends a line item and returns it with the recomputed total.
func (s *Service) AddItem(ctx context.Context, actor *user.User, orderID string, spec ItemSpec) (*Item, string, error) {
	if err := spec.validate(); err != nil {
		return nil, "", err
	}
	o, _, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, "", err
	}
	if !CanAccess(actor, o) {
		return nil, "", ErrForbidden
	}
	if s.strict && o.Status != StatusPending {
		return nil, "", ErrNotPending
	}
	it := &Item{
		ID:        uuid.NewString(),
		OrderID:   o.ID,
		Count:     spec.Count,
		Flavor:    spec.Flavor,
		Size:      spec.Size,
		UnitPrice: spec.UnitPrice,
	}
	price, err := s.repo.AddItem(ctx, it)
	if err != nil {
		return nil, "", err
	}
	return it, price, nil
}

// RemoveItem deletes a line item and returns the recomputed total. The item
// is resolved first; a dangling order reference is an integrity failure.
func (s *Service) RemoveItem(ctx context.Context, actor *user.User, itemID string) (string, error) {
	it, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return "", err
	}
	o, _, err := s.repo.GetByID(ctx, it.OrderID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrIntegrity
		}
		return "", err
	}
	if !CanAccess(actor, o) {
		return "", ErrForbidden
	}
	if s.strict && o.Status != StatusPending {
		return "", ErrNotPending
	}
	return s.repo.RemoveItem(ctx, o.ID, itemID)
}

func (s *Service) transition(ctx context.Context, actor *user.User, orderID, status string) (*Order, error) {
	o, _, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !CanAccess(actor, o) {
		return nil, ErrForbidden
	}
	if s.strict && o.Status != StatusPending {
		return nil, ErrNotPending
	}
	if err := s.repo.UpdateStatus(ctx, o.ID, status); err != nil {
		return nil, err
	}
	o.Status = status
	return o, nil
}

// Cancel moves the order to CANCELLED.
func (s *Service) Cancel(ctx context.Context, actor *user.User, orderID string) (*Order, error) {
	return s.transition(ctx, actor, orderID, StatusCancelled)
}

// Finish moves the order to COMPLETED.
func (s *Service) Finish(ctx context.Context, actor *user.User, orderID string) (*Order, error) {
	return s.transition(ctx, actor, orderID, StatusCompleted)
}

// View returns the order with its items and the item count.
func (s *Service) View(ctx context.Context, actor *user.User, orderID string) (*Order, int, error) {
	o, items, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, 0, err
	}
	if !CanAccess(actor, o) {
		return nil, 0, ErrForbidden
	}
	o.Items = items
	return o, len(items), nil
}

// ListAll enumerates every order in the system. Admins only.
func (s *Service) ListAll(ctx context.Context, actor *user.User, limit, offset int) ([]Order, error) {
	if actor == nil || !actor.Admin {
		return nil, ErrForbidden
	}
	return s.repo.ListAll(ctx, limit, offset)
}

// ListMine returns the caller's orders with nested items. No admin check:
// the scope is the caller itself.
func (s *Service) ListMine(ctx context.Context, actor *user.User) ([]Order, error) {
	return s.repo.ListByUser(ctx, actor.ID)
}

// Delete removes an order and, by cascade, all its items. Admins only.
func (s *Service) Delete(ctx context.Context, actor *user.User, orderID string) error {
	if actor == nil || !actor.Admin {
		return ErrForbidden
	}
	ok, err := s.repo.Delete(ctx, orderID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
