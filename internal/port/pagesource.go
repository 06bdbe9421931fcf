package port

// PageSource opens documents for page-by-page text access.
type PageSource interface {
	// Open opens the document at path. Errors wrap domain.ErrDocumentUnavailable.
	Open(path string) (Document, error)
}

// Document is an opened document.
type Document interface {
	// PageCount returns the number of pages.
	PageCount() int

	// PageText returns the raw text of page i, 1-based.
	PageText(i int) (string, error)

	Close() error
}
