package geometry

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// BVHNode is an interior node of a Bounding Volume Hierarchy.
// Children are either further nodes or the scene objects themselves.
type BVHNode struct {
	Left  Hittable
	Right Hittable
	Box   core.AABB

	leftBox, rightBox core.AABB
	single            bool // Left and Right are the same object
}

// bvhEntry pairs an object with its box so boxes are computed once per build
type bvhEntry struct {
	object Hittable
	box    core.AABB
}

// NewBVH builds a hierarchy over objects for the shutter interval [t0, t1].
// The split axis at each level is drawn from random, so equal seeds give equal trees.
// Every object must be valid and bounded; the input slice is not modified.
func NewBVH(objects []Hittable, t0, t1 float64, random *rand.Rand) (*BVHNode, error) {
	if len(objects) == 0 {
		return nil, core.ErrEmptyScene
	}

	entries := make([]bvhEntry, len(objects))
	for i, object := range objects {
		if err := validate(object); err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
		box, ok := object.BoundingBox(t0, t1)
		if !ok {
			return nil, &core.MissingBoundsError{Index: i, Object: fmt.Sprintf("%T", object)}
		}
		entries[i] = bvhEntry{object: object, box: box}
	}

	return buildBVH(entries, random), nil
}

// buildBVH splits entries at the median along a random axis.
// A single entry becomes a node whose children both point at it.
func buildBVH(entries []bvhEntry, random *rand.Rand) *BVHNode {
	axis := random.Intn(3)

	var left, right bvhEntry
	switch len(entries) {
	case 1:
		left, right = entries[0], entries[0]
	case 2:
		left, right = entries[0], entries[1]
		if right.box.Min.Axis(axis) < left.box.Min.Axis(axis) {
			left, right = right, left
		}
	default:
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].box.Min.Axis(axis) < entries[j].box.Min.Axis(axis)
		})

		mid := len(entries) / 2
		leftNode := buildBVH(entries[:mid], random)
		rightNode := buildBVH(entries[mid:], random)
		left = bvhEntry{object: leftNode, box: leftNode.Box}
		right = bvhEntry{object: rightNode, box: rightNode.Box}
	}

	return &BVHNode{
		Left:     left.object,
		Right:    right.object,
		Box:      core.SurroundingBox(left.box, right.box),
		leftBox:  left.box,
		rightBox: right.box,
		single:   len(entries) == 1,
	}
}

// Hit tests both children, narrowing the range to the left hit before testing the right
func (n *BVHNode) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.SurfaceInteraction, bool) {
	if !n.Box.Hit(ray, tMin, tMax) {
		return nil, false
	}

	leftHit, hitLeft := n.Left.Hit(ray, tMin, tMax, sampler)
	if hitLeft {
		tMax = leftHit.T
	}

	if rightHit, hitRight := n.Right.Hit(ray, tMin, tMax, sampler); hitRight {
		return rightHit, true
	}
	return leftHit, hitLeft
}

// BoundingBox returns the node's box
func (n *BVHNode) BoundingBox(t0, t1 float64) (core.AABB, bool) {
	return n.Box, true
}

// BVHStats describes the shape of a hierarchy
type BVHStats struct {
	Nodes    int // Interior nodes
	Leaves   int // Distinct object references at the bottom of the tree
	MaxDepth int // Depth of the deepest interior node, root at 0
}

// Stats walks the tree and collects node counts and depth
func (n *BVHNode) Stats() BVHStats {
	var stats BVHStats
	n.collectStats(0, &stats)
	return stats
}

func (n *BVHNode) collectStats(depth int, stats *BVHStats) {
	stats.Nodes++
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	for i, child := range []Hittable{n.Left, n.Right} {
		if i == 1 && n.single {
			break
		}
		if node, ok := child.(*BVHNode); ok {
			node.collectStats(depth+1, stats)
		} else {
			stats.Leaves++
		}
	}
}
