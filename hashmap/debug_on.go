// SPDX-License-Identifier: Apache-2.0

//go:build binder_debug

package hashmap

const debugChecks = true
