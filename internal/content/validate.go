package content

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Validation codes. A *ValidationError unwraps to exactly one of these.
var (
	ErrMalformed        = errors.New("malformed payload")
	ErrMissingSection   = errors.New("missing section")
	ErrEmptyTitle       = errors.New("empty title")
	ErrLinkCount        = errors.New("wrong link count")
	ErrEmptyLink        = errors.New("empty link")
	ErrInvalidLinkURL   = errors.New("invalid link url")
	ErrIncompleteFooter = errors.New("incomplete footer")
	ErrInvalidEmail     = errors.New("invalid email")
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	pathSafePattern = regexp.MustCompile(`^[A-Za-z0-9\-_./]+$`)
)

// ValidationError reports the first rule a document violates.
type ValidationError struct {
	Code    error
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Code }

func invalid(code error, field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Code: code, Field: field, Message: fmt.Sprintf(format, args...)}
}

// MissingSection is returned by decoders when header, navbar or footer is
// absent from a payload.
func MissingSection() *ValidationError {
	return invalid(ErrMissingSection, "", "Missing required component data (header, navbar, or footer)")
}

// Malformed wraps a payload decoding failure.
func Malformed(err error) *ValidationError {
	return invalid(ErrMalformed, "", "Invalid request body: %v", err)
}

// Validate checks doc against the content rules, stopping at the first
// violation. It returns nil or a *ValidationError.
func Validate(doc *Document) error {
	if doc == nil {
		return MissingSection()
	}
	if strings.TrimSpace(doc.Header.Title) == "" {
		return invalid(ErrEmptyTitle, "header.title", "Header title is required and must be a string")
	}
	if len(doc.Navbar.Links) != LinkCount {
		return invalid(ErrLinkCount, "navbar.links", "Navbar must contain exactly %d links", LinkCount)
	}
	for i, l := range doc.Navbar.Links {
		if strings.TrimSpace(l.Label) == "" || strings.TrimSpace(l.URL) == "" {
			return invalid(ErrEmptyLink, fmt.Sprintf("navbar.links[%d]", i),
				"Navigation link %d must have a label and a path/URL", i+1)
		}
	}
	for i, l := range doc.Navbar.Links {
		if !ValidLinkURL(l.URL) {
			return invalid(ErrInvalidLinkURL, fmt.Sprintf("navbar.links[%d].url", i),
				"Navigation link %d has an invalid path or URL %q (use e.g. /about or https://example.com)", i+1, l.URL)
		}
	}
	f := doc.Footer
	if strings.TrimSpace(f.Email) == "" || strings.TrimSpace(f.Phone) == "" || strings.TrimSpace(f.Address) == "" {
		return invalid(ErrIncompleteFooter, "footer", "Footer must contain email, phone, and address")
	}
	if !emailPattern.MatchString(f.Email) {
		return invalid(ErrInvalidEmail, "footer.email", "Footer email %q is not a valid email address", f.Email)
	}
	return nil
}

// ValidLinkURL accepts root-relative paths, anchors, absolute URLs and
// plain path-safe relative paths such as "relative/path.html".
func ValidLinkURL(raw string) bool {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "/") || strings.HasPrefix(s, "#") {
		return true
	}
	if u, err := url.Parse(s); err == nil && u.Scheme != "" && (u.Host != "" || u.Opaque != "") {
		return true
	}
	return pathSafePattern.MatchString(s)
}

// CodeName returns a short label for a validation code, used for metrics.
func CodeName(err error) string {
	switch {
	case errors.Is(err, ErrMalformed):
		return "malformed"
	case errors.Is(err, ErrMissingSection):
		return "missing_section"
	case errors.Is(err, ErrEmptyTitle):
		return "empty_title"
	case errors.Is(err, ErrLinkCount):
		return "link_count"
	case errors.Is(err, ErrEmptyLink):
		return "empty_link"
	case errors.Is(err, ErrInvalidLinkURL):
		return "invalid_link_url"
	case errors.Is(err, ErrIncompleteFooter):
		return "incomplete_footer"
	case errors.Is(err, ErrInvalidEmail):
		return "invalid_email"
	}
	return "unknown"
}

// CodeByName is the inverse of CodeName. Unknown names map to nil.
func CodeByName(name string) error {
	for _, code := range []error{ErrMalformed, ErrMissingSection, ErrEmptyTitle, ErrLinkCount, ErrEmptyLink,
		ErrInvalidLinkURL, ErrIncompleteFooter, ErrInvalidEmail} {
		if CodeName(code) == name {
			return code
		}
	}
	return nil
}
