// Package structure defines the flat brick record format: the on-disk JSON
// contract for saved structures and the in-memory record list the resolver
// consumes. Records carry no positions; geometry is derived entirely from
// socket connectivity.
package structure

import (
	"encoding/json"
	"fmt"
	"io"
)

// ID is a brick identifier. Exporters write ids as either JSON numbers or
// strings; both decode to the same canonical string form, so "1" and 1
// always compare equal.
type ID string

// Empty is the sentinel id marking a disconnected socket. It is never a
// real brick and is never looked up.
const Empty = ID("-1")

// BaseID is the fixed id of the base brick every structure is rooted on.
const BaseID = ID("1")

// IsEmpty reports whether the id is the disconnected-socket sentinel.
func (id ID) IsEmpty() bool {
	return id == Empty
}

// UnmarshalJSON accepts both number and string forms.
func (id *ID) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*id = ID(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ID(s)
		return nil
	}
	return fmt.Errorf("brick id must be a number or string, got %s", data)
}

// SocketRef is one socket slot of a brick record. A disconnected socket
// carries the sentinel id and no hole.
type SocketRef struct {
	ID              int     `json:"id"`
	Brick           ID      `json:"brick"`
	ConnectedToHole *int    `json:"connectedToHole,omitempty"`
	Orientation     float32 `json:"orientation,omitempty"`
}

// Connected reports whether the socket references another brick.
func (s SocketRef) Connected() bool {
	return s.Brick != "" && !s.Brick.IsEmpty()
}

// Record is one brick in the flat structure list.
type Record struct {
	ID      ID          `json:"id"`
	Type    string      `json:"type"`
	Color   string      `json:"color,omitempty"`
	Sockets []SocketRef `json:"sockets"`
}

// Parse decodes a JSON structure file into its record list.
func Parse(data []byte) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("structure: %w", err)
	}
	return records, nil
}

// Decode reads a JSON structure from r.
func Decode(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("structure: %w", err)
	}
	return records, nil
}

// Index builds an id lookup over the records. Duplicate ids overwrite in
// input order, so the last record wins.
func Index(records []Record) map[ID]*Record {
	idx := make(map[ID]*Record, len(records))
	for i := range records {
		idx[records[i].ID] = &records[i]
	}
	return idx
}
