// File: internal/services/classifier/interface.go
package classifier

import "context"

// Classifier labels a leaf image. The label is an opaque lowercase string
// such as "corn common rust"; interpretation is up to the caller.
type Classifier interface {
	Predict(ctx context.Context, image []byte) (string, error)
}
