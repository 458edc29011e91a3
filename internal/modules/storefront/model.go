// README: Store catalog entries and the pending store-switch suggestion.
package storefront

import (
	"time"

	"kart/internal/types"
)

type Store struct {
	ID       types.ID
	Name     string
	UPIID    string
	Location types.Point
}

// PendingSwitch is the at-most-one live suggestion that a nearer store exists.
// A newer detection replaces it; accepting or declining clears it.
type PendingSwitch struct {
	Candidate Store
	RaisedAt  time.Time
}
