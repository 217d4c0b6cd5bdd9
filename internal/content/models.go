package content

import "time"

// DocumentType is the discriminator that locates the single dashboard
// document. Every deployment holds exactly one record with this type and all
// writes are upserts against it.
const DocumentType = "dashboard_content"

// LinkCount is the fixed number of navigation links.
const LinkCount = 3

// Document is the editable site content (header, navbar, footer).
type Document struct {
	Type      string     `json:"type,omitempty" bson:"type"`
	Header    Header     `json:"header" bson:"header"`
	Navbar    Navbar     `json:"navbar" bson:"navbar"`
	Footer    Footer     `json:"footer" bson:"footer"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

type Header struct {
	Title    string `json:"title" bson:"title"`
	ImageURL string `json:"imageUrl" bson:"imageUrl"`
}

type Navbar struct {
	Links []Link `json:"links" bson:"links"`
}

type Link struct {
	Label string `json:"label" bson:"label"`
	URL   string `json:"url" bson:"url"`
}

type Footer struct {
	Email   string `json:"email" bson:"email"`
	Phone   string `json:"phone" bson:"phone"`
	Address string `json:"address" bson:"address"`
}

// SaveOutcome is the result of an upsert of the document.
type SaveOutcome struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	ModifiedCount int64  `json:"modifiedCount"`
	UpsertedCount int64  `json:"upsertedCount"`
}

// Default returns the document written on first read.
func Default() *Document {
	return &Document{
		Type: DocumentType,
		Header: Header{
			Title:    "Welcome to My Website",
			ImageURL: "",
		},
		Navbar: Navbar{Links: []Link{
			{Label: "Home", URL: "/"},
			{Label: "About", URL: "/about"},
			{Label: "Contact", URL: "/contact"},
		}},
		Footer: Footer{
			Email:   "info@example.com",
			Phone:   "+1 (555) 123-4567",
			Address: "123 Main St, City, State 12345",
		},
	}
}

// Clone returns a deep copy so callers can mutate links freely.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	if d.Navbar.Links != nil {
		out.Navbar.Links = make([]Link, len(d.Navbar.Links))
		copy(out.Navbar.Links, d.Navbar.Links)
	}
	if d.UpdatedAt != nil {
		t := *d.UpdatedAt
		out.UpdatedAt = &t
	}
	return &out
}

// Payload strips the persistence-only fields (discriminator and timestamp),
// leaving what the operator edits.
func (d *Document) Payload() *Document {
	out := d.Clone()
	if out == nil {
		return nil
	}
	out.Type = ""
	out.UpdatedAt = nil
	return out
}
