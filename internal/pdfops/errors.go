package pdfops

import "fmt"

// InvalidPageNumberError reports an explicit page index outside the document.
// By the time page numbers reach this package they are machine-validated;
// an out-of-range index is a caller bug, not dirty user input, so it fails
// loudly instead of being dropped the way the free-text resolver drops
// malformed tokens.
type InvalidPageNumberError struct {
	PageNumber int
	TotalPages int
}

func (e *InvalidPageNumberError) Error() string {
	return fmt.Sprintf("invalid page number %d: document has %d pages", e.PageNumber, e.TotalPages)
}
