// Package blob stores attachment bytes and hands back retrievable
// URLs. The core only produces normalized bytes plus a name; where
// they land (local disk or an S3-compatible bucket) is deployment
// configuration.
package blob

import "context"

// Store accepts named byte content and returns a reference the API
// layer can serve or redirect to.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
