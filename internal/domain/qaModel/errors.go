package qaModel

import "errors"

var (
	ErrDocumentNotFound         = errors.New("document not found")
	ErrCollectionNotFound       = errors.New("collection not found")
	ErrCombinedIndexUnavailable = errors.New("combined collection index unavailable")
	ErrEmptyDocument            = errors.New("document has no extractable text")
	ErrUnsupportedDocument      = errors.New("unsupported document type")
	ErrEmptyQuestion            = errors.New("question is empty")
)

// IsNotFound reports whether err is a NotFound on a document or collection id.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDocumentNotFound) || errors.Is(err, ErrCollectionNotFound)
}
