// SPDX-License-Identifier: Apache-2.0

//go:build !windows

package strpool

import (
	"errors"
	"os"
	"runtime/debug"

	"golang.org/x/sys/unix"
)

var errMappingTruncated = errors.New("file shorter than its mapping")

// readFile maps the file and copies it into dst. Files that cannot be mapped
// are read instead.
func readFile(f *os.File, dst []byte) error {
	if len(dst) == 0 {
		return nil
	}
	data, err := unix.Mmap(int(f.Fd()), 0, len(dst), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return readFull(f, dst)
	}
	defer func() { _ = unix.Munmap(data) }()

	return copyMapped(dst, data)
}

// copyMapped copies a mapping into dst. Pages past the end of a file that was
// truncated after it was sized fault on access; the fault is reported as an error.
func copyMapped(dst, src []byte) (err error) {
	old := debug.SetPanicOnFault(true)
	defer func() {
		debug.SetPanicOnFault(old)
		if r := recover(); r != nil {
			if _, fault := r.(interface{ Addr() uintptr }); !fault {
				panic(r)
			}
			err = errMappingTruncated
		}
	}()
	copy(dst, src)
	return nil
}
