// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package lex

import (
	"cmp"
)

// Scanner is a function which accepts some number of items from the front of
// a given sequence, returning how many it matched (zero on failure).
type Scanner[T any] func(items []T) uint

// Or combines zero or more scanners such that the resulting scanner succeeds if
// any of them succeeds.  Scanners are tried from left to right.
func Or[T any](scanners ...Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		for _, scanner := range scanners {
			if n := scanner(items); n > 0 {
				return n
			}
		}
		// fail
		return 0
	}
}

// Unit accepts a given sequence of items, one after the other in their given
// order.
func Unit[T comparable](chars ...T) Scanner[T] {
	return func(items []T) uint {
		if len(items) < len(chars) {
			return 0
		}
		//
		for i := range chars {
			if items[i] != chars[i] {
				return 0
			}
		}
		//
		return uint(len(chars))
	}
}

// Within accepts any single item within a given range (inclusive).
func Within[T cmp.Ordered](lowest T, highest T) Scanner[T] {
	return func(items []T) uint {
		if len(items) != 0 && lowest <= items[0] && items[0] <= highest {
			return 1
		}
		// fail
		return 0
	}
}

// Many matches zero or more repetitions of a given scanner.  Observe that, on
// its own, matching zero items is indistinguishable from failure.
func Many[T any](acceptor Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		index := uint(0)
		//
		for index < uint(len(items)) {
			n := acceptor(items[index:])
			//
			if n == 0 {
				break
			}
			//
			index += n
		}
		//
		return index
	}
}

// Until matches everything up to (but excluding) a given item, or the end of
// input.
func Until[T comparable](item T) Scanner[T] {
	return func(items []T) uint {
		index := uint(0)
		//
		for index < uint(len(items)) && items[index] != item {
			index++
		}
		//
		return index
	}
}

// Then matches a head followed by a (possibly empty) tail.  The resulting
// scanner fails only if the head fails.
func Then[T any](head Scanner[T], tail Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		n := head(items)
		//
		if n == 0 {
			return 0
		}
		//
		return n + tail(items[n:])
	}
}

// Quoted matches a sequence of items enclosed in a given delimiter, where any
// item following the escape is taken literally.  The scanner fails when the
// closing delimiter is missing.
func Quoted[T comparable](delimiter T, escape T) Scanner[T] {
	return func(items []T) uint {
		if len(items) == 0 || items[0] != delimiter {
			return 0
		}
		//
		for i := 1; i < len(items); i++ {
			switch items[i] {
			case escape:
				i++
			case delimiter:
				return uint(i + 1)
			}
		}
		// unterminated
		return 0
	}
}

// Eof matches the end of the input stream.
func Eof[T any]() Scanner[T] {
	return func(items []T) uint {
		if len(items) == 0 {
			return 1
		}
		//
		return 0
	}
}
