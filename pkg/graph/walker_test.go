package graph

import (
	"errors"
	"testing"
)

func TestClosureTransitive(t *testing.T) {
	g := NewGraph("/ws")
	addTarget(t, g, "//c:c", "c/BUILD")
	addTarget(t, g, "//b:b", "b/BUILD", "//c:c")
	a := addTarget(t, g, "//a:a", "a/BUILD", "//b:b")

	got, err := Closure(g, []*Target{a}, true, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"//a:a", "//b:b", "//c:c"}
	labels := got.Labels()
	if len(labels) != len(want) {
		t.Fatalf("got %v, want %v", labels, want)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("closure[%d] = %s, want %s", i, labels[i], want[i])
		}
	}
}

func TestClosureIntransitiveStillWalksDeps(t *testing.T) {
	g := NewGraph("/ws")
	addTarget(t, g, "//c:c", "c/BUILD")
	b := addTarget(t, g, "//b:b", "b/BUILD", "//c:c")
	a := addTarget(t, g, "//a:a", "a/BUILD", "//b:b", "//missing:missing")

	// Dependencies are resolved even in intransitive mode, so a dangling
	// address is still a hard error.
	_, err := Closure(g, []*Target{a}, false, nil)
	if !errors.Is(err, ErrUnresolvedAddress) {
		t.Fatalf("got %v, want ErrUnresolvedAddress", err)
	}

	a.Deps = a.Deps[:1]
	got, err := Closure(g, []*Target{a}, false, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Contains(a) || got.Contains(b) || got.Len() != 1 {
		t.Errorf("intransitive closure = %v, want just //a:a", got.Labels())
	}
}

func TestClosurePredicateGatesInclusionNotTraversal(t *testing.T) {
	g := NewGraph("/ws")
	c := addTarget(t, g, "//c:c", "c/BUILD")
	c.Caps = CapJava
	b := addTarget(t, g, "//b:b", "b/BUILD", "//c:c")
	b.Caps = CapCodegen
	a := addTarget(t, g, "//a:a", "a/BUILD", "//b:b")
	a.Caps = CapJava

	// b fails the predicate but its dependency edge to c must still be
	// followed.
	got, err := Closure(g, []*Target{a}, true, func(t *Target) bool {
		return !t.IsCodegen()
	})
	if err != nil {
		t.Fatal(err)
	}
	if !got.Contains(a) || !got.Contains(c) {
		t.Errorf("closure = %v, want a and c", got.Labels())
	}
	if got.Contains(b) {
		t.Error("excluded target leaked into the closure")
	}
}

func TestClosureDiamondAndCycle(t *testing.T) {
	g := NewGraph("/ws")
	d := addTarget(t, g, "//d:d", "d/BUILD")
	addTarget(t, g, "//b:b", "b/BUILD", "//d:d")
	addTarget(t, g, "//c:c", "c/BUILD", "//d:d")
	a := addTarget(t, g, "//a:a", "a/BUILD", "//b:b", "//c:c")
	// Defective but must terminate.
	d.Deps = append(d.Deps, a.Label)

	got, err := Closure(g, []*Target{a}, true, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got.Len() != 4 {
		t.Errorf("closure size = %d, want 4 (each target once)", got.Len())
	}
}

func TestClosureDeterministicAcrossRuns(t *testing.T) {
	g := NewGraph("/ws")
	addTarget(t, g, "//e:e", "e/BUILD")
	addTarget(t, g, "//d:d", "d/BUILD", "//e:e")
	addTarget(t, g, "//c:c", "c/BUILD", "//d:d")
	addTarget(t, g, "//b:b", "b/BUILD", "//d:d", "//e:e")
	a := addTarget(t, g, "//a:a", "a/BUILD", "//b:b", "//c:c")

	first, err := Closure(g, []*Target{a}, true, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		again, err := Closure(g, []*Target{a}, true, nil)
		if err != nil {
			t.Fatal(err)
		}
		fl, al := first.Labels(), again.Labels()
		if len(fl) != len(al) {
			t.Fatalf("closure size changed between runs")
		}
		for i := range fl {
			if fl[i] != al[i] {
				t.Fatalf("closure order changed between runs: %v vs %v", fl, al)
			}
		}
	}
}
