// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package intergas

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// MarshalCBOR encodes the reading as an integer-keyed CBOR map
func (t Telemetry) MarshalCBOR() ([]byte, error) {
	data, err := cbor.Marshal(t.Record())
	if err != nil {
		return nil, fmt.Errorf("failed to encode CBOR: %w", err)
	}
	return data, nil
}

// ParseCBORRecord decodes a reading produced by MarshalCBOR
func ParseCBORRecord(data []byte) (Record, error) {
	if len(data) == 0 {
		return Record{}, fmt.Errorf("empty CBOR payload")
	}
	var r Record
	if err := cbor.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("failed to decode CBOR: %w", err)
	}
	return r, nil
}
