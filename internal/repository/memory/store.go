// Package memory is a process-local implementation of the repository
// contracts. Card updates are serialized per card id.
package memory

import (
	"sync"
	"time"

	"github.com/ecommerce-cloud/backend/internal/models"
	"github.com/ecommerce-cloud/backend/internal/repository"
)

type rows struct {
	mu sync.RWMutex

	lastUserID    int64
	lastAddressID int64
	lastCardID    int64
	lastEntryID   int64

	users     map[int64]models.User
	addresses []models.Address
	cards     map[int64]models.Card
	entries   []models.LedgerEntry

	locksMu   sync.Mutex
	cardLocks map[int64]*sync.Mutex

	now func() time.Time
}

type documents struct {
	mu       sync.RWMutex
	products map[string]models.Product
	orders   map[string]models.Order
	// insertion order of orders, used for per-user listing
	orderIDs []string
}

// New returns a Store backed entirely by memory.
func New() *repository.Store {
	return NewWithClock(time.Now)
}

// NewWithClock is New with an injectable clock for ledger timestamps.
func NewWithClock(now func() time.Time) *repository.Store {
	r := &rows{
		users:     make(map[int64]models.User),
		cards:     make(map[int64]models.Card),
		cardLocks: make(map[int64]*sync.Mutex),
		now:       now,
	}
	d := &documents{
		products: make(map[string]models.Product),
		orders:   make(map[string]models.Order),
	}
	return &repository.Store{
		Users:     &UserRepository{rows: r},
		Addresses: &AddressRepository{rows: r},
		Cards:     &CardRepository{rows: r},
		Ledger:    &LedgerRepository{rows: r},
		Products:  &ProductRepository{docs: d},
		Orders:    &OrderRepository{docs: d},
	}
}

func (r *rows) cardLock(id int64) *sync.Mutex {
	r.locksMu.Lock()
	defer r.locksMu.Unlock()
	l, ok := r.cardLocks[id]
	if !ok {
		l = &sync.Mutex{}
		r.cardLocks[id] = l
	}
	return l
}

// appendEntryLocked assigns identity and write time. Caller holds r.mu.
func (r *rows) appendEntryLocked(entry *models.LedgerEntry) {
	r.lastEntryID++
	entry.ID = r.lastEntryID
	entry.CreatedAt = r.now()
	r.entries = append(r.entries, *entry)
}
