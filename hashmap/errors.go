// SPDX-License-Identifier: Apache-2.0

package hashmap

import "errors"

// ErrKeyNotFound is raised in debug builds when a key that is not bound is removed.
var ErrKeyNotFound = errors.New("hashmap: key not found")
