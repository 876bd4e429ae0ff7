// SPDX-License-Identifier: Apache-2.0

package intern

import "errors"

// ErrTableFull indicates that no bin is left on the probe sequence of a new string.
// The table is undersized for its workload.
var ErrTableFull = errors.New("intern: table full")
