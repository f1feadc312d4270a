package correlation

import "sort"

// Entry is one consolidated "run1 relates to these runs" record, the unit
// handed to the mapping store's replace primitive.
type Entry struct {
	RunID string
	Peers []string // sorted, deduplicated
}

// Grouper accumulates per-rule artifact groupings for a batch invocation and
// produces the consolidated run -> peer-set table.
//
// Consolidation happens globally, before any pagination, so a given run
// appears in exactly one output entry. That is what lets callers page the
// entries and apply the replace primitive exactly once per run.
type Grouper struct {
	// groups keys by (rule, grouping key); each group holds the set of
	// runs owning any artifact in the group.
	groups map[groupKey]map[string]struct{}
	// selves holds runs added by the identity rule.
	selves map[string]struct{}
}

type groupKey struct {
	rule RuleName
	key  string
}

// NewGrouper returns an empty Grouper.
func NewGrouper() *Grouper {
	return &Grouper{
		groups: make(map[groupKey]map[string]struct{}),
		selves: make(map[string]struct{}),
	}
}

// Add records a qualifying artifact under the rule's grouping key.
// The caller is responsible for checking rule.Applies first.
func (g *Grouper) Add(rule Rule, a Artifact) {
	k := groupKey{rule: rule.Name(), key: rule.Key(a)}
	set, ok := g.groups[k]
	if !ok {
		set = make(map[string]struct{})
		g.groups[k] = set
	}
	set[a.RunID] = struct{}{}
}

// AddSelf records a run under the identity rule: the run becomes its own peer.
func (g *Grouper) AddSelf(runID string) {
	g.selves[runID] = struct{}{}
}

// Entries consolidates all recorded groups into one entry per run: the
// union of peers found by every rule, with the run itself removed unless
// added via AddSelf. Runs whose peer set ends up empty are omitted rather
// than emitted with an empty set, so their previously stored edges are
// left untouched by a subsequent replace.
//
// Entries are sorted by run ID and each peer list is sorted, so output is
// deterministic and safe to paginate.
func (g *Grouper) Entries() []Entry {
	peers := make(map[string]map[string]struct{})

	for _, group := range g.groups {
		for run := range group {
			for other := range group {
				if other == run {
					continue
				}
				set, ok := peers[run]
				if !ok {
					set = make(map[string]struct{})
					peers[run] = set
				}
				set[other] = struct{}{}
			}
		}
	}

	for run := range g.selves {
		set, ok := peers[run]
		if !ok {
			set = make(map[string]struct{})
			peers[run] = set
		}
		set[run] = struct{}{}
	}

	entries := make([]Entry, 0, len(peers))
	for run, set := range peers {
		if len(set) == 0 {
			continue
		}
		list := make([]string, 0, len(set))
		for p := range set {
			list = append(list, p)
		}
		sort.Strings(list)
		entries = append(entries, Entry{RunID: run, Peers: list})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].RunID < entries[j].RunID })

	return entries
}

// PairCount returns the number of (run1, run2) pairs across entries.
func PairCount(entries []Entry) int {
	n := 0
	for _, e := range entries {
		n += len(e.Peers)
	}
	return n
}
