package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"csafe/internal/cast"
	"csafe/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on an adapter-
// produced cast.Tree:
//  1. the root translation-unit span is non-empty and within file bounds
//  2. every top-level declaration span is non-empty and fully contained in
//     the root span
//  3. the root span covers the union of the top-level declaration spans (if
//     any exist)
func CheckSpanInvariants(tree *cast.Tree, sf *source.File) error {
	if tree == nil || sf == nil {
		return fmt.Errorf("nil tree or file")
	}
	root := tree.Node(tree.Root)
	if root == nil {
		return fmt.Errorf("root node not found")
	}

	if root.Span.End <= root.Span.Start {
		return fmt.Errorf("root span is empty: %v", root.Span)
	}
	if root.Span.File != sf.ID {
		return fmt.Errorf("root span points to different file id: got=%d want=%d", root.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if root.Span.End > lenContent {
		return fmt.Errorf("root span end beyond content: %d > %d", root.Span.End, lenContent)
	}

	var union source.Span
	var haveChild bool
	for _, childID := range root.Children {
		child := tree.Node(childID)
		if child == nil {
			return fmt.Errorf("nil child for id=%d", childID)
		}
		sp := child.Span
		if sp.End <= sp.Start {
			return fmt.Errorf("empty declaration span: %v", sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("declaration span file mismatch: got=%d want=%d", sp.File, sf.ID)
		}
		if sp.Start < root.Span.Start || sp.End > root.Span.End {
			return fmt.Errorf("declaration span %v is outside root span %v", sp, root.Span)
		}
		if !haveChild {
			union = sp
			haveChild = true
		} else {
			union = union.Cover(sp)
		}
	}

	if haveChild && (union.Start < root.Span.Start || union.End > root.Span.End) {
		return fmt.Errorf("root span %v does not cover union of declarations %v", root.Span, union)
	}
	return nil
}
