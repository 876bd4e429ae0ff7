// SPDX-License-Identifier: Apache-2.0

package intern

import (
	arena "github.com/wundergraph/binder-arena"
	"github.com/wundergraph/binder-arena/hashmap"
)

type config struct {
	logger *arena.Logger
	keys   hashmap.KeyStore
}

// Option configures a Table.
type Option func(*config)

// WithLogger sets the logger used to report rejected inserts.
func WithLogger(l *arena.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithKeyStore sets where copied strings live. A strpool.Pool keeps them in its arena.
func WithKeyStore(ks hashmap.KeyStore) Option {
	return func(c *config) {
		c.keys = ks
	}
}
