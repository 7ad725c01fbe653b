package policy

import (
	"context"
	"strings"

	"insurance-assistant-be/pkg/objectstore"
)

// NotFoundSentinel is the value handed to prompt construction when a
// customer has no policy on file. Downstream code never branches on a
// lookup error, only on this text.
const NotFoundSentinel = "No insurance policy found for the customer"

// Lookup fetches a customer's private policy text by identity.
type Lookup struct {
	store     objectstore.ObjectStore
	keyPrefix string
}

func NewLookup(store objectstore.ObjectStore, keyPrefix string) *Lookup {
	return &Lookup{store: store, keyPrefix: keyPrefix}
}

// Key returns the storage key holding the identity's policy document.
func (l *Lookup) Key(identity string) string {
	return l.keyPrefix + identity + ".txt"
}

// GetPolicy returns the policy text for the identity, or the sentinel
// when the object is missing or storage fails. It never returns an
// error; the prompt always receives some policy value.
func (l *Lookup) GetPolicy(ctx context.Context, identity string) string {
	data, err := l.store.Get(ctx, l.Key(identity))
	if err != nil || len(data) == 0 {
		return NotFoundSentinel
	}
	return strings.TrimSpace(string(data))
}
