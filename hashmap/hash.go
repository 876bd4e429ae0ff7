// SPDX-License-Identifier: Apache-2.0

package hashmap

import "github.com/cespare/xxhash/v2"

// Hasher maps a key to a 64-bit hash. The home bin of a key is its hash modulo the bin count.
type Hasher[K any] func(K) uint64

// HashUint32 mixes k with the murmur3 32-bit finaliser.
func HashUint32(k uint32) uint64 {
	k ^= k >> 16
	k *= 0x85ebca6b
	k ^= k >> 13
	k *= 0xc2b2ae35
	k ^= k >> 16
	return uint64(k)
}

// HashUint64 mixes k with the murmur3 64-bit finaliser.
func HashUint64(k uint64) uint64 {
	k ^= k >> 33
	k *= 0xff51afd7ed558ccd
	k ^= k >> 33
	k *= 0xc4ceb9fe1a85ec53
	k ^= k >> 33
	return k
}

// HashInt hashes k as HashUint64 does.
func HashInt(k int) uint64 {
	return HashUint64(uint64(k))
}

// HashBytes hashes b with xxHash64.
func HashBytes(b []byte) uint64 {
	return xxhash.Sum64(b)
}

// HashString hashes s with xxHash64. It agrees with HashBytes on equal contents.
func HashString(s string) uint64 {
	return xxhash.Sum64String(s)
}
