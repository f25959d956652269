package geometry

import (
	"sort"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
)

// BVHNode represents a node in the Bounding Volume Hierarchy. Children are
// either primitives or further nodes. A node built over a single primitive
// holds it in both children and is flagged as a leaf.
type BVHNode struct {
	Left, Right Hittable
	bbox        core.AABB
	leaf        bool
}

// BVHStats summarizes the shape of a built tree
type BVHStats struct {
	Nodes      int // BVHNode count
	Primitives int // primitives referenced by the tree
	Depth      int // longest root-to-primitive path, counted in nodes
}

// NewBVH builds a BVH over objects. The slice is copied, the caller's order is kept.
func NewBVH(objects []Hittable) (*BVHNode, error) {
	if len(objects) == 0 {
		return nil, ErrEmptyScene
	}

	objectsCopy := make([]Hittable, len(objects))
	copy(objectsCopy, objects)

	return newBVHNode(objectsCopy, 0, len(objectsCopy)), nil
}

// newBVHNode builds a median split over objects[start:end], splitting on the
// longest axis of the sub-range's bounding box
func newBVHNode(objects []Hittable, start, end int) *BVHNode {
	bbox := core.EmptyAABB
	for _, object := range objects[start:end] {
		bbox = core.NewAABBEnclosing(bbox, object.BoundingBox())
	}
	axis := bbox.LongestAxis()

	node := &BVHNode{bbox: bbox}

	switch span := end - start; span {
	case 1:
		node.Left = objects[start]
		node.Right = objects[start]
		node.leaf = true
	case 2:
		if boxMin(objects[start+1], axis) < boxMin(objects[start], axis) {
			node.Left, node.Right = objects[start+1], objects[start]
		} else {
			node.Left, node.Right = objects[start], objects[start+1]
		}
	default:
		subRange := objects[start:end]
		sort.SliceStable(subRange, func(i, j int) bool {
			return boxMin(subRange[i], axis) < boxMin(subRange[j], axis)
		})

		mid := start + span/2
		node.Left = newBVHNode(objects, start, mid)
		node.Right = newBVHNode(objects, mid, end)
	}

	return node
}

func boxMin(object Hittable, axis int) float64 {
	return object.BoundingBox().Axis(axis).Min
}

// Hit tests the node's box, then the left child, then the right child with
// the interval shrunk to any left hit so the closer hit always wins
func (n *BVHNode) Hit(ray core.Ray, rayT core.Interval) (*material.HitRecord, bool) {
	if !n.bbox.Hit(ray, rayT) {
		return nil, false
	}

	leftHit, hitLeft := n.Left.Hit(ray, rayT)
	if n.leaf {
		return leftHit, hitLeft
	}

	rightT := rayT
	if hitLeft {
		rightT = core.NewInterval(rayT.Min, leftHit.T)
	}
	if rightHit, hitRight := n.Right.Hit(ray, rightT); hitRight {
		return rightHit, true
	}

	return leftHit, hitLeft
}

// BoundingBox returns the union of both children's boxes
func (n *BVHNode) BoundingBox() core.AABB {
	return n.bbox
}

// IsLeaf reports whether the node wraps a single primitive
func (n *BVHNode) IsLeaf() bool {
	return n.leaf
}

// GatherBoxes appends the box of every node and every primitive beneath it,
// each exactly once. A leaf contributes only its own box, which equals its primitive's.
func (n *BVHNode) GatherBoxes(boxes []core.AABB) []core.AABB {
	boxes = append(boxes, n.bbox)
	if n.leaf {
		return boxes
	}

	for _, child := range []Hittable{n.Left, n.Right} {
		if gatherer, ok := child.(BoxGatherer); ok {
			boxes = gatherer.GatherBoxes(boxes)
		} else {
			boxes = append(boxes, child.BoundingBox())
		}
	}
	return boxes
}

// Stats walks the tree and reports its size and depth
func (n *BVHNode) Stats() BVHStats {
	stats := BVHStats{Nodes: 1, Depth: 1}
	if n.leaf {
		stats.Primitives = 1
		return stats
	}

	deepest := 0
	for _, child := range []Hittable{n.Left, n.Right} {
		if node, ok := child.(*BVHNode); ok {
			childStats := node.Stats()
			stats.Nodes += childStats.Nodes
			stats.Primitives += childStats.Primitives
			deepest = max(deepest, childStats.Depth)
		} else {
			stats.Primitives++
		}
	}
	stats.Depth += deepest

	return stats
}
