package correlation

import (
	"reflect"
	"testing"
)

func TestGrouper_GroupMembershipByKey(t *testing.T) {
	rule, _ := RuleByName(RuleNameQualifier)
	g := NewGrouper()

	a := containerArtifact("a1", "run1")
	b := containerArtifact("a2", "run2")
	c := containerArtifact("a3", "run3")
	c.Qualifier = "2.0.0" // different group

	g.Add(rule, a)
	g.Add(rule, b)
	g.Add(rule, c)

	entries := g.Entries()
	want := []Entry{
		{RunID: "run1", Peers: []string{"run2"}},
		{RunID: "run2", Peers: []string{"run1"}},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("expected %v, got %v", want, entries)
	}
}

func TestGrouper_SingletonGroupProducesNoEntry(t *testing.T) {
	rule, _ := RuleByName(RuleNameQualifier)
	g := NewGrouper()
	g.Add(rule, containerArtifact("a1", "run1"))

	if entries := g.Entries(); len(entries) != 0 {
		t.Errorf("expected no entries for a singleton group, got %v", entries)
	}
}

func TestGrouper_UnionAcrossRules(t *testing.T) {
	nq, _ := RuleByName(RuleNameQualifier)
	hash, _ := RuleByName(RuleHash)
	g := NewGrouper()

	// run1 and run2 share (name, qualifier); run1 and run3 share a hash.
	a := containerArtifact("a1", "run1")
	b := containerArtifact("a2", "run2")
	b.Hash = "sha256:unrelated"
	c := containerArtifact("a3", "run3")
	c.Name = "other/svc"
	c.Qualifier = "3.0.0"

	for _, art := range []Artifact{a, b, c} {
		if nq.Applies(art) {
			g.Add(nq, art)
		}
		if hash.Applies(art) {
			g.Add(hash, art)
		}
	}

	entries := g.Entries()
	want := []Entry{
		{RunID: "run1", Peers: []string{"run2", "run3"}},
		{RunID: "run2", Peers: []string{"run1"}},
		{RunID: "run3", Peers: []string{"run1"}},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("expected %v, got %v", want, entries)
	}
}

func TestGrouper_IdentityAddsSelfPeer(t *testing.T) {
	rule, _ := RuleByName(RuleNameQualifier)
	g := NewGrouper()

	g.Add(rule, containerArtifact("a1", "run1"))
	g.Add(rule, containerArtifact("a2", "run2"))
	g.AddSelf("run1")
	g.AddSelf("run2")
	g.AddSelf("run3") // no artifacts at all

	entries := g.Entries()
	want := []Entry{
		{RunID: "run1", Peers: []string{"run1", "run2"}},
		{RunID: "run2", Peers: []string{"run1", "run2"}},
		{RunID: "run3", Peers: []string{"run3"}},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("expected %v, got %v", want, entries)
	}
}

func TestGrouper_SameRunTwiceInGroupIsNotItsOwnPeer(t *testing.T) {
	// Two artifacts of the same run sharing a hash must not relate the
	// run to itself; only the identity rule may do that.
	hash, _ := RuleByName(RuleHash)
	g := NewGrouper()

	a := containerArtifact("a1", "run1")
	b := containerArtifact("a2", "run1")
	b.Name = "other/svc"
	g.Add(hash, a)
	g.Add(hash, b)

	if entries := g.Entries(); len(entries) != 0 {
		t.Errorf("expected no self-edge from duplicate group membership, got %v", entries)
	}
}

func TestPairCount(t *testing.T) {
	entries := []Entry{
		{RunID: "run1", Peers: []string{"run2", "run3"}},
		{RunID: "run2", Peers: []string{"run1"}},
	}
	if got := PairCount(entries); got != 3 {
		t.Errorf("expected 3 pairs, got %d", got)
	}
}
