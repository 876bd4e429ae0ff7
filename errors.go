// SPDX-License-Identifier: Apache-2.0

package arena

import "errors"

var (
	// ErrArenaExhausted indicates that a bump allocation would run past the arena capacity.
	// The pool is undersized for its workload; the condition is not recoverable.
	ErrArenaExhausted = errors.New("arena: capacity exhausted")

	// ErrForeignPointer indicates a pointer that does not address a block of this pool.
	ErrForeignPointer = errors.New("arena: pointer not owned by pool")

	// ErrDoubleFree indicates an attempt to free a block that is already on a free list.
	ErrDoubleFree = errors.New("arena: block already freed")

	// ErrFreeBlock indicates a header query on a block that is currently a free-list node.
	ErrFreeBlock = errors.New("arena: block is a free-list node")
)
