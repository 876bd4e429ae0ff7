// SPDX-License-Identifier: Apache-2.0

//go:build windows

package strpool

import "os"

func readFile(f *os.File, dst []byte) error {
	return readFull(f, dst)
}
