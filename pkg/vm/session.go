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
package vm

import "sync/atomic"

// session identifies a single build session of a tape.  Every value which
// refers into a tape (offsets, addresses, constants and halt signals) carries
// the session which produced it, and is checked against the session of the
// tape it is used with.  The zero session is never issued.
type session uint64

var sessions atomic.Uint64

func newSession() session {
	return session(sessions.Add(1))
}
