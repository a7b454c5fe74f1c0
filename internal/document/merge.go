// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package document

// Merge layers override on top of base and returns a new document. Tables
// present on both sides are merged recursively. Everywhere else the override
// wins, including arrays, which are replaced and never concatenated, and
// mismatched kinds. Neither input is modified and the result shares no
// tables or arrays with them.
func Merge(base, override Document) Document {
	result := make(Document, len(base)+len(override))

	for key, bv := range base {
		ov, ok := override[key]
		if !ok {
			result[key] = cloneValue(bv)
			continue
		}
		result[key] = mergeValue(bv, ov)
	}

	for key, ov := range override {
		if _, ok := base[key]; ok {
			continue
		}
		result[key] = cloneValue(ov)
	}

	return result
}

// mergeValue resolves a key present on both sides.
func mergeValue(base, override any) any {
	bt, bok := AsTable(base)
	ot, ook := AsTable(override)
	if bok && ook {
		return map[string]any(Merge(bt, ot))
	}

	// Arrays and every other combination: the override replaces the base.
	return cloneValue(override)
}
