package session

import (
	"github.com/google/uuid"
)

// CartLine is one entry of the session cart. Name and UnitPrice are
// snapshots taken when the product was added; UnitPrice is a string decimal
// so the session blob round-trips without float drift.
type CartLine struct {
	Name      string `json:"name"`
	UnitPrice string `json:"price"`
	Quantity  int    `json:"quantity"`
}

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Flash levels
const (
	FlashSuccess = "success"
	FlashWarning = "warning"
	FlashError   = "error"
)

// Data is everything one browser session holds: login state, the CSRF
// secret, the cart and pending flash messages. It lives in the session
// store and nowhere else; mutations mark it dirty so the boundary layer
// knows to persist it.
type Data struct {
	ID        string              `json:"-"`
	UserID    int64               `json:"user_id,omitempty"`
	CSRFToken string              `json:"csrf_token"`
	Cart      map[string]CartLine `json:"cart"`
	Flash     []Flash             `json:"flash,omitempty"`

	dirty bool
}

// New creates a fresh anonymous session with its own CSRF secret.
func New() *Data {
	return &Data{
		ID:        uuid.New().String(),
		CSRFToken: uuid.New().String(),
		Cart:      make(map[string]CartLine),
		dirty:     true,
	}
}

// Dirty reports whether the session has unsaved mutations.
func (d *Data) Dirty() bool { return d.dirty }

// MarkDirty flags the session for persistence.
func (d *Data) MarkDirty() { d.dirty = true }

// IsAuthenticated reports whether a user is logged in on this session.
func (d *Data) IsAuthenticated() bool { return d.UserID != 0 }

// Login binds the session to a user and rotates the session ID and CSRF
// secret so a pre-login identifier cannot be replayed.
func (d *Data) Login(userID int64) {
	d.UserID = userID
	d.ID = uuid.New().String()
	d.CSRFToken = uuid.New().String()
	d.dirty = true
}

// Reset wipes the session on logout: login state and cart are dropped and
// the ID and CSRF secret rotate. The caller deletes the old session blob.
func (d *Data) Reset() {
	d.UserID = 0
	d.ID = uuid.New().String()
	d.CSRFToken = uuid.New().String()
	d.Cart = make(map[string]CartLine)
	d.Flash = nil
	d.dirty = true
}

// AddFlash queues a one-shot message.
func (d *Data) AddFlash(level, message string) {
	d.Flash = append(d.Flash, Flash{Level: level, Message: message})
	d.dirty = true
}

// PopFlash returns and clears the pending messages.
func (d *Data) PopFlash() []Flash {
	if len(d.Flash) == 0 {
		return nil
	}
	flashes := d.Flash
	d.Flash = nil
	d.dirty = true
	return flashes
}
