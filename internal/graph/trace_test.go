package graph

import (
	"errors"
	"testing"

	"github.com/pagegraph/pagegraph/internal/model"
)

// TestDirectEffectsScriptElement tests the inline/src dispatch on <script>
// elements.
func TestDirectEffectsScriptElement(t *testing.T) {
	t.Parallel()

	t.Run("inline element executes its script", func(t *testing.T) {
		t.Parallel()
		// One DOM root, one script element with no resource neighbor but
		// one outgoing edge to a script node.
		b := quietBuilder()
		root := b.AddNode(model.Node{Timestamp: model.TimestampUnknown, Kind: model.DOMRoot{URL: strPtr("http://a.test/")}})
		el := b.AddNode(model.Node{Timestamp: 1, Kind: model.HTMLElement{TagName: "script", DOMNodeID: 1}})
		script := b.AddNode(model.Node{Timestamp: 2, Kind: model.Script{ScriptType: "classic"}})
		b.AddEdge(root, el, model.Edge{Kind: model.Structure{}})
		b.AddEdge(el, script, model.Edge{Timestamp: tsPtr(2), Kind: model.Execute{}})
		g := b.Graph()

		effects, err := g.DirectEffects(el)
		if err != nil {
			t.Fatalf("DirectEffects returned error: %v", err)
		}
		if ids := refIDs(effects); len(ids) != 1 || ids[0] != script {
			t.Errorf("effects = %v, expected exactly [%d]", ids, script)
		}
	})

	t.Run("src-bearing element fetches instead", func(t *testing.T) {
		t.Parallel()
		f := buildPageFixture(t)
		effects, err := f.graph.DirectEffects(f.scriptEl)
		if err != nil {
			t.Fatalf("DirectEffects returned error: %v", err)
		}
		// Resource neighbors win over the attached script.
		if ids := refIDs(effects); len(ids) != 1 || ids[0] != f.extRes {
			t.Errorf("effects = %v, expected [%d]", ids, f.extRes)
		}
	})
}

// TestDirectEffectsResource tests that a completed script fetch executes
// the script attached to the receiving element.
func TestDirectEffectsResource(t *testing.T) {
	t.Parallel()

	f := buildPageFixture(t)
	effects, err := f.graph.DirectEffects(f.extRes)
	if err != nil {
		t.Fatalf("DirectEffects returned error: %v", err)
	}
	if ids := refIDs(effects); len(ids) != 1 || ids[0] != f.extScript {
		t.Errorf("effects = %v, expected [%d]", ids, f.extScript)
	}
}

// TestDirectEffectsScript tests the union of the causing fetch and the
// executed scripts.
func TestDirectEffectsScript(t *testing.T) {
	t.Parallel()

	b := quietBuilder()
	res := b.AddNode(model.Node{Timestamp: 1, Kind: model.Resource{URL: "http://a.test/outer.js"}})
	outer := b.AddNode(model.Node{Timestamp: 2, Kind: model.Script{URL: strPtr("http://a.test/outer.js"), ScriptType: "classic"}})
	inner := b.AddNode(model.Node{Timestamp: 3, Kind: model.Script{ScriptType: "classic"}})
	b.AddEdge(res, outer, model.Edge{Timestamp: tsPtr(2), Kind: model.RequestComplete{ResourceType: "script", Status: "ok", RequestID: 1}})
	b.AddEdge(outer, inner, model.Edge{Timestamp: tsPtr(4), Kind: model.Execute{}})
	g := b.Graph()

	effects, err := g.DirectEffects(outer)
	if err != nil {
		t.Fatalf("DirectEffects returned error: %v", err)
	}
	if ids := refIDs(effects); len(ids) != 2 || ids[0] != res || ids[1] != inner {
		t.Errorf("effects = %v, expected [%d %d]", ids, res, inner)
	}
}

// TestDirectEffectsUnsupportedKinds tests the deliberate scope boundary.
func TestDirectEffectsUnsupportedKinds(t *testing.T) {
	t.Parallel()

	f := buildPageFixture(t)
	testCases := []struct {
		name string
		id   model.NodeID
	}{
		{"DOM root", f.root},
		{"parser", f.parser},
		{"non-script element", f.div},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := f.graph.DirectEffects(tc.id); !errors.Is(err, ErrUnsupportedKind) {
				t.Errorf("DirectEffects(%s) error = %v, expected ErrUnsupportedKind", tc.name, err)
			}
		})
	}

	t.Run("storage kinds", func(t *testing.T) {
		t.Parallel()
		b := quietBuilder()
		jar := b.AddNode(model.Node{Timestamp: model.TimestampUnknown, Kind: model.CookieJar{}})
		if _, err := b.Graph().DirectEffects(jar); !errors.Is(err, ErrUnsupportedKind) {
			t.Errorf("error = %v, expected ErrUnsupportedKind", err)
		}
	})
}

// TestAllDownstreamEffects tests the transitive closure over the fixture:
// element -> resource -> script -> pixel resource.
func TestAllDownstreamEffects(t *testing.T) {
	t.Parallel()

	f := buildPageFixture(t)

	all, err := f.graph.AllDownstreamEffects(f.scriptEl)
	if err != nil {
		t.Fatalf("AllDownstreamEffects returned error: %v", err)
	}

	got := refIDs(all)
	// pixelRes is absent: request-start fetches are provenance, not a
	// causal effect of the script under the propagation rules.
	expected := []model.NodeID{f.scriptEl, f.extRes, f.extScript}
	want := map[model.NodeID]bool{}
	for _, id := range expected {
		want[id] = true
	}
	if len(got) != len(expected) {
		t.Fatalf("closure = %v, expected the %d nodes %v", got, len(expected), expected)
	}
	for _, id := range got {
		if !want[id] {
			t.Errorf("closure contains unexpected node %d", id)
		}
	}

	t.Run("superset of direct effects and start", func(t *testing.T) {
		t.Parallel()
		direct, err := f.graph.DirectEffects(f.scriptEl)
		if err != nil {
			t.Fatalf("DirectEffects returned error: %v", err)
		}
		member := map[model.NodeID]bool{}
		for _, id := range got {
			member[id] = true
		}
		if !member[f.scriptEl] {
			t.Error("closure must contain the start node")
		}
		for _, ref := range direct {
			if !member[ref.ID] {
				t.Errorf("closure missing direct effect %d", ref.ID)
			}
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()
		again, err := f.graph.AllDownstreamEffects(f.scriptEl)
		if err != nil {
			t.Fatalf("AllDownstreamEffects returned error: %v", err)
		}
		if len(again) != len(all) {
			t.Fatalf("second run returned %d nodes, expected %d", len(again), len(all))
		}
		for i := range again {
			if again[i].ID != all[i].ID {
				t.Errorf("run mismatch at %d: %d vs %d", i, again[i].ID, all[i].ID)
			}
		}
	})
}

// TestAllDownstreamEffectsCycle tests termination on a resource/script
// cycle: the fetch causes the script, the script's cause is the fetch.
func TestAllDownstreamEffectsCycle(t *testing.T) {
	t.Parallel()

	b := quietBuilder()
	res := b.AddNode(model.Node{Timestamp: 1, Kind: model.Resource{URL: "http://a.test/x.js"}})
	el := b.AddNode(model.Node{Timestamp: 2, Kind: model.HTMLElement{TagName: "script", DOMNodeID: 1}})
	script := b.AddNode(model.Node{Timestamp: 3, Kind: model.Script{URL: strPtr("http://a.test/x.js"), ScriptType: "classic"}})
	b.AddEdge(res, el, model.Edge{Timestamp: tsPtr(2), Kind: model.RequestComplete{ResourceType: "script", Status: "ok", RequestID: 1}})
	b.AddEdge(el, script, model.Edge{Timestamp: tsPtr(3), Kind: model.Execute{}})
	g := b.Graph()

	all, err := g.AllDownstreamEffects(res)
	if err != nil {
		t.Fatalf("AllDownstreamEffects returned error: %v", err)
	}
	if ids := refIDs(all); len(ids) != 2 || ids[0] != res || ids[1] != script {
		t.Errorf("closure = %v, expected [%d %d]", ids, res, script)
	}
}

// TestAllDownstreamEffectsUnsupportedStart tests that starting from an
// unmodeled kind propagates the scope-boundary error.
func TestAllDownstreamEffectsUnsupportedStart(t *testing.T) {
	t.Parallel()

	f := buildPageFixture(t)
	if _, err := f.graph.AllDownstreamEffects(f.parser); !errors.Is(err, ErrUnsupportedKind) {
		t.Errorf("error = %v, expected ErrUnsupportedKind", err)
	}
}
