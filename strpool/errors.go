// SPDX-License-Identifier: Apache-2.0

package strpool

import "errors"

var (
	// ErrShortRead indicates that fewer bytes than the file size could be read.
	ErrShortRead = errors.New("strpool: short read")

	// ErrInvertedRange indicates a substring whose end index precedes its start index.
	ErrInvertedRange = errors.New("strpool: end index before start index")

	// ErrOutOfRange indicates a substring index past the source terminator.
	ErrOutOfRange = errors.New("strpool: index out of range")
)
