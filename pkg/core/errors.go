package core

import (
	"errors"
	"fmt"
)

// ErrEmptyScene is returned when an acceleration structure is built from no objects
var ErrEmptyScene = errors.New("scene contains no objects")

// MissingBoundsError reports an object that cannot produce a bounding box
type MissingBoundsError struct {
	Index  int    // Position of the object in the build list
	Object string // Go type of the object
}

func (e *MissingBoundsError) Error() string {
	return fmt.Sprintf("object %d (%s) has no bounding box", e.Index, e.Object)
}

// DegenerateGeometryError reports geometry whose parameters make intersection undefined
type DegenerateGeometryError struct {
	Shape  string
	Reason string
}

func (e *DegenerateGeometryError) Error() string {
	return fmt.Sprintf("degenerate %s: %s", e.Shape, e.Reason)
}
