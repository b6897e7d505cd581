// Copyright 2025 Oraqon Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package elta

import "fmt"

// Revision bundles the wire parameters that changed between ICD revisions:
// the header field ordering and the SystemControl payload shape. Source
// material disagrees on both, so they are configuration rather than
// constants.
type Revision struct {
	Name         string
	Layout       HeaderLayout
	ControlSpare int // trailing spare bytes in a SystemControl payload
}

// ControlPayloadSize returns the fixed SystemControl payload size for this
// revision: state(4) + mission(4) + HFL(4) + radar(4) + freq(4) + spare.
func (r Revision) ControlPayloadSize() int {
	return 20 + r.ControlSpare
}

var (
	// RevD is the default supported revision, matching the ICD_2135M-004
	// catalog: sourceId-first header, 40-byte SystemControl payload.
	RevD = Revision{Name: "D", Layout: LayoutRevD, ControlSpare: 20}

	// RevE is the later field ordering with a 44-byte SystemControl
	// payload (six trailing spare words).
	RevE = Revision{Name: "E", Layout: LayoutRevE, ControlSpare: 24}
)

// RevisionByName resolves a revision from its configuration name.
func RevisionByName(name string) (Revision, error) {
	switch name {
	case "D", "d", "":
		return RevD, nil
	case "E", "e":
		return RevE, nil
	default:
		return Revision{}, fmt.Errorf("%w: %q", ErrUnknownRevision, name)
	}
}
