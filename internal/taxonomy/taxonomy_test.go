// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package taxonomy

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/jaat-ai/knowledge-engine/pkg/types"
)

func testTree() *Tree {
	return NewTree(func() time.Time {
		return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	})
}

func TestNewTreeSeedsDefaults(t *testing.T) {
	tree := testTree()

	if tree.Root().ID != RootID {
		t.Fatalf("root id = %q", tree.Root().ID)
	}
	// root + 4 top-level + 4 second-level.
	if got := tree.CountNodes(); got != 9 {
		t.Errorf("CountNodes = %d, want 9", got)
	}

	for _, id := range []string{"science", "technology", "arts", "society", "physics", "biology", "computers", "software"} {
		if tree.Find(id) == nil {
			t.Errorf("seed node %s missing", id)
		}
	}

	parent, _ := tree.FindParent("physics")
	if parent == nil || parent.ID != "science" {
		t.Error("physics should sit under science")
	}
}

func TestAddNode(t *testing.T) {
	tree := testTree()

	err := tree.AddNode("science", &Node{ID: "chemistry", Name: "Chemistry"})
	if err != nil {
		t.Fatal(err)
	}
	if tree.Find("chemistry") == nil {
		t.Fatal("chemistry not added")
	}

	// Duplicate id anywhere in the tree conflicts.
	err = tree.AddNode("technology", &Node{ID: "chemistry", Name: "Other"})
	if !errors.Is(err, types.ErrConflict) {
		t.Errorf("duplicate add: got %v, want ErrConflict", err)
	}

	err = tree.AddNode("nope", &Node{ID: "x", Name: "X"})
	if !errors.Is(err, types.ErrNotFound) {
		t.Errorf("missing parent: got %v, want ErrNotFound", err)
	}
}

func TestUpdateNode(t *testing.T) {
	tree := testTree()

	node, err := tree.UpdateNode("physics", "Physics & Astronomy", "")
	if err != nil {
		t.Fatal(err)
	}
	if node.Name != "Physics & Astronomy" {
		t.Errorf("Name = %q", node.Name)
	}
	if node.Description != "Physical sciences" {
		t.Error("empty description should leave the old value")
	}

	if _, err := tree.UpdateNode("nope", "X", ""); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestRemoveNodeRelocatesItemsToParent(t *testing.T) {
	tree := testTree()
	tree.AttachItem("science/physics", "k1", "Quantum")
	tree.AttachItem("science/physics", "k2", "Gravity")

	if err := tree.RemoveNode("physics"); err != nil {
		t.Fatal(err)
	}

	science := tree.Find("science")
	if science.Meta.ItemCount != 2 || len(science.Items) != 2 {
		t.Errorf("science items = %d (count %d), want 2", len(science.Items), science.Meta.ItemCount)
	}
	if tree.Find("physics") != nil {
		t.Error("physics should be gone")
	}
}

func TestRemoveNodeUnderRootUsesGeneral(t *testing.T) {
	tree := testTree()
	tree.AttachItem("society", "k1", "Norms")

	if err := tree.RemoveNode("society"); err != nil {
		t.Fatal(err)
	}

	general := tree.Find("general")
	if general == nil {
		t.Fatal("General node should have been created")
	}
	if general.Meta.ItemCount != 1 {
		t.Errorf("general item count = %d, want 1", general.Meta.ItemCount)
	}
}

func TestRemoveNodePromotesChildren(t *testing.T) {
	tree := testTree()

	if err := tree.RemoveNode("science"); err != nil {
		t.Fatal(err)
	}

	// physics and biology flatten up to the root.
	for _, id := range []string{"physics", "biology"} {
		parent, _ := tree.FindParent(id)
		if parent == nil || parent.ID != RootID {
			t.Errorf("%s should now sit under root", id)
		}
	}
}

func TestRemoveRootRejected(t *testing.T) {
	tree := testTree()
	if err := tree.RemoveNode(RootID); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("got %v, want ErrInvalidArgument", err)
	}
}

func TestAttachItemFallsBackToGeneral(t *testing.T) {
	tree := testTree()

	node := tree.AttachItem("nonexistent/path", "k1", "Lost")
	if node.Name != "General" {
		t.Errorf("filed under %q, want General", node.Name)
	}
	if node.Meta.ItemCount != 1 {
		t.Errorf("item count = %d, want 1", node.Meta.ItemCount)
	}
}

func TestAttachItemCaseInsensitivePath(t *testing.T) {
	tree := testTree()

	node := tree.AttachItem("SCIENCE/Physics", "k1", "Quantum")
	if node.ID != "physics" {
		t.Errorf("filed under %q, want physics", node.ID)
	}
}

func TestDetachItem(t *testing.T) {
	tree := testTree()
	tree.AttachItem("science", "k1", "A")

	if !tree.DetachItem("science", "k1") {
		t.Error("detach should succeed")
	}
	if tree.Find("science").Meta.ItemCount != 0 {
		t.Error("item count should drop to 0")
	}

	// Detaching something never filed is a no-op, not an error.
	if tree.DetachItem("science", "k1") {
		t.Error("second detach should report false")
	}
	if tree.DetachItem("no/such/path", "k1") {
		t.Error("unknown path should report false")
	}
}

func totalItems(n *Node) int {
	total := n.Meta.ItemCount
	for _, child := range n.Children {
		total += totalItems(child)
	}
	return total
}

// Item references survive any sequence of node removals: relocated, never
// dropped.
func TestRemovalConservesItems(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tree := testTree()

		// Grow a few extra nodes.
		extra := rapid.IntRange(0, 5).Draw(t, "extra")
		parents := []string{"science", "technology", "arts", "society", "physics"}
		for i := 0; i < extra; i++ {
			parent := rapid.SampledFrom(parents).Draw(t, "parent")
			id := fmt.Sprintf("n%d", i)
			if err := tree.AddNode(parent, &Node{ID: id, Name: id}); err != nil {
				t.Fatal(err)
			}
			parents = append(parents, id)
		}

		// File items across random paths (some unresolvable).
		paths := []string{"science", "science/physics", "technology/software", "bogus/path"}
		items := rapid.IntRange(1, 10).Draw(t, "items")
		for i := 0; i < items; i++ {
			path := rapid.SampledFrom(paths).Draw(t, "path")
			tree.AttachItem(path, fmt.Sprintf("k%d", i), "Item")
		}

		before := totalItems(tree.Root())

		// Remove a few removable nodes.
		removals := rapid.IntRange(1, 3).Draw(t, "removals")
		candidates := []string{"physics", "science", "technology", "arts"}
		for i := 0; i < removals; i++ {
			id := rapid.SampledFrom(candidates).Draw(t, "victim")
			if tree.Find(id) == nil {
				continue
			}
			if err := tree.RemoveNode(id); err != nil {
				t.Fatal(err)
			}
		}

		if after := totalItems(tree.Root()); after != before {
			t.Fatalf("items not conserved: %d before, %d after", before, after)
		}
	})
}
