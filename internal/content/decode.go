package content

import (
	"bytes"
	"encoding/json"
)

// payload mirrors Document with pointer sections so that an absent section
// can be told apart from an empty one.
type payload struct {
	Header *Header `json:"header"`
	Navbar *Navbar `json:"navbar"`
	Footer *Footer `json:"footer"`
}

// Decode parses a JSON payload into a Document. It fails with ErrMalformed
// on bad JSON and ErrMissingSection when a section is absent. The result is
// not validated.
func Decode(b []byte) (*Document, error) {
	var p payload
	dec := json.NewDecoder(bytes.NewReader(b))
	if err := dec.Decode(&p); err != nil {
		return nil, Malformed(err)
	}
	if p.Header == nil || p.Navbar == nil || p.Footer == nil {
		return nil, MissingSection()
	}
	return &Document{Header: *p.Header, Navbar: *p.Navbar, Footer: *p.Footer}, nil
}
