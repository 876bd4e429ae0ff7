// SPDX-License-Identifier: Apache-2.0

package strpool

import (
	"fmt"
	"io"
	"os"
)

// LoadFile returns a pool-owned copy of the whole file at path.
// A file that cannot be opened yields a nil buffer and an error wrapping the
// os error. Reading fewer bytes than the file size, as when the file shrinks
// while it is read, panics with ErrShortRead.
func (p *Pool) LoadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("strpool: load file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("strpool: load file: %w", err)
	}

	buf := p.narrow(int(info.Size()))
	if err := readFile(f, buf); err != nil {
		p.Free(buf)
		panic(fmt.Errorf("%w: %s: %w", ErrShortRead, path, err))
	}
	return buf, nil
}

func readFull(f *os.File, dst []byte) error {
	_, err := io.ReadFull(f, dst)
	return err
}
