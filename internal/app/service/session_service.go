package service

import (
	"context"
	"sync"
	"time"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/repository"
	"github.com/ikkim/storefront/pkg/logger"
	"golang.org/x/sync/singleflight"
)

// CartBroadcaster receives every new cart state of a session.
type CartBroadcaster interface {
	BroadcastCart(sessionID string, cart model.Cart)
}

type SessionService interface {
	// Cart returns the session's cart, loading it from the store on first use.
	// A failed load is not cached; the next call retries it.
	Cart(ctx context.Context, sessionID string) (CartManager, error)
	// Sweep evicts carts not touched for longer than idle and returns how
	// many were evicted. Their state stays in the store. A cart with a
	// checkout in flight is kept.
	Sweep(idle time.Duration) int
	Active() int
}

type sessionEntry struct {
	cart     CartManager
	lastSeen time.Time
}

type sessionService struct {
	store       repository.Store
	broadcaster CartBroadcaster

	mu      sync.Mutex
	entries map[string]*sessionEntry
	loads   singleflight.Group

	now func() time.Time
}

// NewSessionService creates the registry. broadcaster may be nil.
func NewSessionService(store repository.Store, broadcaster CartBroadcaster) SessionService {
	return &sessionService{
		store:       store,
		broadcaster: broadcaster,
		entries:     make(map[string]*sessionEntry),
		now:         time.Now,
	}
}

func (s *sessionService) Cart(ctx context.Context, sessionID string) (CartManager, error) {
	if cart, ok := s.touch(sessionID); ok {
		return cart, nil
	}

	// The load is shared by every waiter and ignores the caller's cancellation.
	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := s.loads.Do(sessionID, func() (interface{}, error) {
		if cart, ok := s.touch(sessionID); ok {
			return cart, nil
		}

		var hooks []CartHook
		if s.broadcaster != nil {
			hooks = append(hooks, func(_ context.Context, cart model.Cart) {
				s.broadcaster.BroadcastCart(sessionID, cart)
			})
		}
		cart, err := LoadCartManager(loadCtx, s.store, model.CartKey(sessionID), hooks...)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.entries[sessionID] = &sessionEntry{cart: cart, lastSeen: s.now()}
		s.mu.Unlock()

		logger.Debug("Session cart loaded", map[string]interface{}{
			"session_id": sessionID,
			"items":      cart.TotalItemCount(),
		})
		return cart, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(CartManager), nil
}

func (s *sessionService) touch(sessionID string) (CartManager, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[sessionID]
	if !ok {
		return nil, false
	}
	entry.lastSeen = s.now()
	return entry.cart, true
}

func (s *sessionService) Sweep(idle time.Duration) int {
	cutoff := s.now().Add(-idle)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, entry := range s.entries {
		if entry.lastSeen.Before(cutoff) && !entry.cart.CheckoutInProgress() {
			delete(s.entries, id)
			evicted++
		}
	}
	return evicted
}

func (s *sessionService) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
