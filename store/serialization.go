// Copyright 2026 Poiesic Systems
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


package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// EntryMUS is the binary serializer for Entry values persisted by the
// structured backend. Timestamps are stored with microsecond precision.
var EntryMUS = entryMUS{}

var _ mus.Serializer[Entry] = EntryMUS

type entryMUS struct{}

func (entryMUS) Marshal(e Entry, bs []byte) (n int) {
	n = ord.String.Marshal(e.Key, bs)
	n += ord.String.Marshal(string(e.Value), bs[n:])
	n += varint.Int64.Marshal(e.Timestamp.UnixMicro(), bs[n:])
	return
}

func (entryMUS) Unmarshal(bs []byte) (e Entry, n int, err error) {
	var n1 int
	e.Key, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var value string
	value, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if value != "" {
		e.Value = json.RawMessage(value)
	}
	var ts int64
	ts, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	e.Timestamp = time.UnixMicro(ts).UTC()
	return
}

func (entryMUS) Size(e Entry) (size int) {
	size = ord.String.Size(e.Key)
	size += ord.String.Size(string(e.Value))
	size += varint.Int64.Size(e.Timestamp.UnixMicro())
	return
}

func (entryMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int64.Skip(bs[n:])
	n += n1
	return
}

// MarshalEntry serializes an Entry to bytes.
func MarshalEntry(e *Entry) []byte {
	buf := make([]byte, EntryMUS.Size(*e))
	EntryMUS.Marshal(*e, buf)
	return buf
}

// UnmarshalEntry deserializes an Entry from bytes.
func UnmarshalEntry(data []byte) (*Entry, error) {
	e, _, err := EntryMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTruncatedData, err)
	}
	return &e, nil
}
