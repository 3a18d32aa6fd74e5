package draft

import (
	"context"
	"time"

	"github.com/ariefcatur/go-fooddist-admin.git/internal/errs"
	"github.com/ariefcatur/go-fooddist-admin.git/internal/events"
	"github.com/ariefcatur/go-fooddist-admin.git/internal/ordersvc"
	"github.com/pkg/errors"
)

// Invalidator is satisfied by events.Publisher.
type Invalidator interface {
	Invalidate(scope string, productIDs []int64, traceID, correlationID string)
}

// Service orchestrates composition sessions: draft transitions run under
// the session lock, submit makes one upstream call and emits exactly one
// refresh signal per accepted order.
type Service struct {
	Store    *Store
	Upstream ordersvc.API
	Signals  Invalidator
}

func (s *Service) Create() (string, View) {
	sess := s.Store.Create()
	return sess.ID, sess.draft.View()
}

func (s *Service) Get(sessionID string) (View, error) {
	sess, ok := s.Store.Get(sessionID)
	if !ok {
		return View{}, errors.Wrap(errs.ErrNotFound, "draft session")
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.draft.View(), nil
}

func (s *Service) AddLine(sessionID, productID, quantity, unitPrice string) (View, error) {
	return s.mutate(sessionID, func(d *Draft) error {
		return d.AddLine(productID, quantity, unitPrice)
	})
}

func (s *Service) RemoveLine(sessionID string, index int) (View, error) {
	return s.mutate(sessionID, func(d *Draft) error {
		return d.RemoveLine(index)
	})
}

// Update applies the header fields the operator may edit before submit.
// Empty strings / nil mean "leave as is".
func (s *Service) Update(sessionID, customerID, status string, orderDate *time.Time) (View, error) {
	return s.mutate(sessionID, func(d *Draft) error {
		if customerID != "" {
			if err := d.SetCustomer(customerID); err != nil {
				return err
			}
		}
		if status != "" {
			if err := d.SetStatus(status); err != nil {
				return err
			}
		}
		if orderDate != nil {
			return d.SetOrderDate(*orderDate)
		}
		return nil
	})
}

func (s *Service) mutate(sessionID string, fn func(*Draft) error) (View, error) {
	sess, ok := s.Store.Get(sessionID)
	if !ok {
		return View{}, errors.Wrap(errs.ErrNotFound, "draft session")
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := fn(sess.draft); err != nil {
		return View{}, err
	}
	return sess.draft.View(), nil
}

// Submit sends the whole draft (header + all lines) upstream. Only after
// the service acknowledges is the draft cleared and a refresh signal
// emitted; on failure the draft is preserved unmodified so the operator can
// retry or correct input.
func (s *Service) Submit(ctx context.Context, sessionID, traceID string) (ordersvc.Order, error) {
	sess, ok := s.Store.Get(sessionID)
	if !ok {
		return ordersvc.Order{}, errors.Wrap(errs.ErrNotFound, "draft session")
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	payload, err := sess.draft.ToCreateOrder()
	if err != nil {
		return ordersvc.Order{}, err
	}
	if err := sess.draft.transition(StateSubmitting); err != nil {
		return ordersvc.Order{}, err
	}

	ord, err := s.Upstream.CreateOrder(ctx, payload)
	if err != nil {
		// rollback: draft utuh, operator bisa retry
		sess.draft.state = StateComposing
		return ordersvc.Order{}, err
	}

	sess.draft.Reset()
	s.Store.Delete(sessionID)
	s.Signals.Invalidate(events.ScopeOrders, nil, traceID, sessionID)
	return ord, nil
}

// Cancel discards the draft unconditionally.
func (s *Service) Cancel(sessionID string) {
	if sess, ok := s.Store.Get(sessionID); ok {
		sess.mu.Lock()
		sess.draft.Reset()
		sess.mu.Unlock()
	}
	s.Store.Delete(sessionID)
}
