package scene

import (
	"sort"

	"github.com/df07/go-wave-optics/pkg/core"
	"github.com/df07/go-wave-optics/pkg/element"
)

// BVHNode represents a node in the bounding volume hierarchy
type BVHNode struct {
	BoundingBox core.AABB
	Left        *BVHNode
	Right       *BVHNode
	Elements    []element.Element // Leaf payload (nil for internal nodes)
}

// BVH is a bounding volume hierarchy over element bounds, used as a
// prefilter so the per-pixel tracing workload only runs exact intersection
// tests against elements whose boxes the segment can touch. Results are
// identical to a linear scan over all elements.
type BVH struct {
	Root *BVHNode
}

// Leaf threshold: nodes with this many or fewer elements become leaves
const leafThreshold = 4

// NewBVH constructs a BVH from the element list
func NewBVH(elements []element.Element) *BVH {
	if len(elements) == 0 {
		return &BVH{}
	}

	// Copy so sorting during the build never reorders the scene collection
	els := make([]element.Element, len(elements))
	copy(els, elements)

	return &BVH{Root: buildBVH(els)}
}

// buildBVH recursively splits elements at the median along the longer axis
func buildBVH(els []element.Element) *BVHNode {
	bounds := els[0].Bounds()
	for _, el := range els[1:] {
		bounds = bounds.Union(el.Bounds())
	}

	if len(els) <= leafThreshold {
		return &BVHNode{BoundingBox: bounds, Elements: els}
	}

	// Sort by center along the longer axis and split at the median
	byX := bounds.Width() >= bounds.Height()
	sort.Slice(els, func(i, j int) bool {
		ci, cj := els[i].Bounds().Center(), els[j].Bounds().Center()
		if byX {
			return ci.X < cj.X
		}
		return ci.Y < cj.Y
	})

	mid := len(els) / 2
	return &BVHNode{
		BoundingBox: bounds,
		Left:        buildBVH(els[:mid]),
		Right:       buildBVH(els[mid:]),
	}
}

// Candidates appends every element whose bounding box the segment touches
func (b *BVH) Candidates(ray core.Ray, out []element.Element) []element.Element {
	return collectCandidates(b.Root, ray, out)
}

func collectCandidates(node *BVHNode, ray core.Ray, out []element.Element) []element.Element {
	if node == nil || !node.BoundingBox.Hit(ray, 0, 1) {
		return out
	}
	if node.Elements != nil {
		return append(out, node.Elements...)
	}
	out = collectCandidates(node.Left, ray, out)
	return collectCandidates(node.Right, ray, out)
}
