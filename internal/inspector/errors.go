package inspector

import (
	"errors"
	"fmt"
)

var (
	// ErrNotResident is returned by a Graph for data that is still loading.
	ErrNotResident = errors.New("data not resident")

	// ErrNotReady means a build was deferred because the data it needs to
	// start is not resident. The reconciler retries on the next tick.
	ErrNotReady = errors.New("asset not ready")

	// ErrNoActiveAsset means nothing is selected yet.
	ErrNoActiveAsset = errors.New("no active asset")

	// ErrMalformedGraph is returned for node graphs that are not trees.
	ErrMalformedGraph = errors.New("malformed node graph")
)

// MissingMaterialError reports a primitive scheduled for drawing without a
// material. It is a content defect and aborts the build.
type MissingMaterialError struct {
	Asset     string
	Node      NodeID
	Primitive PrimitiveID
}

func (e *MissingMaterialError) Error() string {
	return fmt.Sprintf("%s: node %d, %s has no material", e.Asset, e.Node, e.Primitive)
}
