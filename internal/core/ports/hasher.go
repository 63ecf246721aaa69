package ports

// Fingerprinter computes the content fingerprint stored on every template record.
//
//go:generate mockgen -destination=mocks/hasher_mock.go -package=mocks -source=hasher.go
type Fingerprinter interface {
	// Fingerprint returns a stable hash of content.
	Fingerprint(content []byte) string
}
