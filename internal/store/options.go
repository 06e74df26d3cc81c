package store

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

const DefaultKey = "cart"

// QuantityPolicy decides what UpdateQuantity does with a quantity below 1.
type QuantityPolicy int

const (
	// PolicyKeep stores the quantity as given, even zero or negative.
	PolicyKeep QuantityPolicy = iota
	// PolicyRemove treats a non-positive quantity as a removal.
	PolicyRemove
)

func ParseQuantityPolicy(s string) (QuantityPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "keep":
		return PolicyKeep, nil
	case "remove":
		return PolicyRemove, nil
	default:
		return PolicyKeep, fmt.Errorf("unknown quantity policy %q", s)
	}
}

func (p QuantityPolicy) String() string {
	if p == PolicyRemove {
		return "remove"
	}
	return "keep"
}

type Option func(*Store)

// WithKey changes the storage key the cart is persisted under.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

func WithQuantityPolicy(p QuantityPolicy) Option {
	return func(s *Store) { s.policy = p }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) { s.log = log }
}
