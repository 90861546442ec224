package inspector

import (
	"reflect"
	"sort"
	"testing"
)

func builtFixture(t *testing.T) *Generation {
	t.Helper()
	gen, err := Build(fixtureGraph(), assetA, 0, 3)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return gen
}

func highlightedLabels(gen *Generation) []string {
	var out []string
	for _, i := range gen.Highlighted() {
		out = append(out, gen.Rows[i].Label)
	}
	sort.Strings(out)
	return out
}

func TestPickHighlightsAncestorChainAndMesh(t *testing.T) {
	gen := builtFixture(t)
	s := NewSelector(nil)

	leaf, ok := gen.PrimitiveLeaf(nY, 1)
	if !ok {
		t.Fatal("leaf not found")
	}
	sel := s.Pick(gen, leaf)

	if !sel.Valid {
		t.Fatal("pick should resolve")
	}
	if !reflect.DeepEqual(sel.Chain, []NodeID{nRoot, nX, nY}) {
		t.Errorf("chain = %v, want [0 1 2]", sel.Chain)
	}
	if sel.Owner != nY || sel.Primitive != (PrimitiveID{Mesh: 0, Index: 1}) {
		t.Errorf("selection = %+v", sel)
	}

	want := []string{
		"Node 0 references node 1",
		"Node 1 references node 2",
		"Node 2 references mesh 0",
		"Scene 0 references node 0",
	}
	if got := highlightedLabels(gen); !reflect.DeepEqual(got, want) {
		t.Errorf("highlighted = %v, want %v", got, want)
	}

	s.Cancel(gen)
	if got := gen.Highlighted(); len(got) != 0 {
		t.Errorf("after cancel highlighted = %v, want none", got)
	}
}

func TestPickSharedMeshHighlightsOwnerRowOnly(t *testing.T) {
	gen := builtFixture(t)
	s := NewSelector(nil)

	// Mesh 1 is referenced by Z and root2; only Z's mesh row lights up.
	leaf, _ := gen.PrimitiveLeaf(nZ, 0)
	s.Pick(gen, leaf)

	want := []string{
		"Node 0 references node 3",
		"Node 3 references mesh 1",
		"Scene 0 references node 0",
	}
	if got := highlightedLabels(gen); !reflect.DeepEqual(got, want) {
		t.Errorf("highlighted = %v, want %v", got, want)
	}
}

func TestUnresolvedPickClearsEverything(t *testing.T) {
	gen := builtFixture(t)
	s := NewSelector(nil)

	leaf, _ := gen.PrimitiveLeaf(nZ, 0)
	s.Pick(gen, leaf)
	if len(gen.Highlighted()) == 0 {
		t.Fatal("setup: nothing highlighted")
	}

	nodeEntity, _ := gen.EntityOf(nX)
	tests := []struct {
		name string
		ref  LeafRef
	}{
		{"node entity", LeafRef{Generation: gen.ID, Entity: nodeEntity}},
		{"anchor", LeafRef{Generation: gen.ID, Entity: gen.Tree.Anchor()}},
		{"out of range", LeafRef{Generation: gen.ID, Entity: 9999}},
		{"stale generation", LeafRef{Generation: gen.ID - 1, Entity: leaf.Entity}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.Pick(gen, leaf)
			sel := s.Pick(gen, tt.ref)
			if sel.Valid {
				t.Error("pick should not resolve")
			}
			if got := gen.Highlighted(); len(got) != 0 {
				t.Errorf("highlighted = %v, want none", got)
			}
		})
	}
}

func TestPickHiddenUnderCamera(t *testing.T) {
	gen := builtFixture(t)
	s := NewSelector(nil)

	leaf, _ := gen.PrimitiveLeaf(nHidden, 0)
	sel := s.Pick(gen, leaf)
	if !reflect.DeepEqual(sel.Chain, []NodeID{nRoot2, nCamera, nHidden}) {
		t.Errorf("chain = %v", sel.Chain)
	}
	// Only root2 is listed on that chain.
	want := []string{"Scene 0 references node 4"}
	if got := highlightedLabels(gen); !reflect.DeepEqual(got, want) {
		t.Errorf("highlighted = %v, want %v", got, want)
	}
}

func TestPickWithoutGeneration(t *testing.T) {
	s := NewSelector(nil)
	if sel := s.Pick(nil, LeafRef{}); sel.Valid {
		t.Error("pick without a tree should not resolve")
	}
	if sel := s.Cancel(nil); sel.Valid {
		t.Error("cancel returns an empty selection")
	}
}
