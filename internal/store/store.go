package store

import (
	"context"
	"errors"
)

// Slot names for the three pieces of client-owned state. Every backend
// persists them independently, JSON-encoded by the caller.
const (
	SlotToken    = "auth_token"
	SlotCart     = "cart"
	SlotWishlist = "wishlist"
)

var ErrNotFound = errors.New("slot not found")

// Store persists named slots of client state between runs. Implementations
// must treat slots as independent: writing one never touches the others.
type Store interface {
	Get(ctx context.Context, slot string) ([]byte, error)
	Set(ctx context.Context, slot string, data []byte) error
	Delete(ctx context.Context, slot string) error
}
