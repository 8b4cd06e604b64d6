package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// flatNode is one entry of a depth-first BVH layout.
// Interior nodes keep their left child at the next index; leaves hold an object.
type flatNode struct {
	box         core.AABB
	secondChild int
	object      Hittable
}

// FlatBVH is a BVH laid out in a single slice and traversed without recursion.
// It returns the same hits as the tree it was built from.
type FlatBVH struct {
	nodes []flatNode
}

// Flatten converts the tree into its linear form
func (n *BVHNode) Flatten() *FlatBVH {
	flat := &FlatBVH{}
	flat.appendNode(n, n.Box)
	return flat
}

func (f *FlatBVH) appendNode(object Hittable, box core.AABB) {
	node, isInterior := object.(*BVHNode)
	if !isInterior {
		f.nodes = append(f.nodes, flatNode{box: box, object: object})
		return
	}
	if node.single {
		f.nodes = append(f.nodes, flatNode{box: box, object: node.Left})
		return
	}

	index := len(f.nodes)
	f.nodes = append(f.nodes, flatNode{box: box})
	f.appendNode(node.Left, node.leftBox)
	f.nodes[index].secondChild = len(f.nodes)
	f.appendNode(node.Right, node.rightBox)
}

// Len returns the number of entries in the layout
func (f *FlatBVH) Len() int {
	return len(f.nodes)
}

// Hit walks the layout with an explicit stack, visiting left before right
func (f *FlatBVH) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.SurfaceInteraction, bool) {
	var closestHit *material.SurfaceInteraction
	closestSoFar := tMax

	var buf [64]int
	stack := buf[:0]
	index := 0

	for {
		node := &f.nodes[index]
		if node.box.Hit(ray, tMin, closestSoFar) {
			if node.object == nil {
				stack = append(stack, node.secondChild)
				index++
				continue
			}
			if hit, isHit := node.object.Hit(ray, tMin, closestSoFar, sampler); isHit {
				closestSoFar = hit.T
				closestHit = hit
			}
		}

		if len(stack) == 0 {
			break
		}
		index = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
	}

	return closestHit, closestHit != nil
}

// BoundingBox returns the root box
func (f *FlatBVH) BoundingBox(t0, t1 float64) (core.AABB, bool) {
	return f.nodes[0].box, true
}
