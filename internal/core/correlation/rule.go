// Package correlation implements run relatedness inference over build
// artifacts. Two runs are related when a rule observes that they produced
// or consumed the same physical artifact (e.g. the same container image).
// The rule set is closed: adding a rule means adding it here and to
// AllRules, nowhere else.
package correlation

// RuleName identifies a correlation rule.
type RuleName string

const (
	// RuleIdentity maps every run to itself. It ignores artifact data
	// entirely and guarantees every run participates in the graph.
	RuleIdentity RuleName = "identity"
	// RuleNameQualifier links runs whose container artifacts share
	// name and qualifier.
	RuleNameQualifier RuleName = "name-qualifier"
	// RuleNameQualifierLocation links runs whose container artifacts share
	// name, qualifier and location. Strictly narrower than RuleNameQualifier.
	RuleNameQualifierLocation RuleName = "name-qualifier-location"
	// RuleHash links runs whose container artifacts share a hash,
	// regardless of name or location. The most permissive rule.
	RuleHash RuleName = "hash"
)

// ArtifactTypeContainer is the only artifact type currently correlated.
const ArtifactTypeContainer = "container"

// Artifact is the projection of a stored artifact that rules operate on.
type Artifact struct {
	ID        string
	RunID     string
	Type      string
	Location  string
	Name      string
	Qualifier string
	Hash      string
}

// PeerFilter describes "artifacts that share a given artifact's key,
// excluding the artifact itself" as query data. Adapters translate it to
// their own query shape; rules never build SQL.
type PeerFilter struct {
	ExcludeIDs []string
	Types      []string
	Names      []string
	Qualifiers []string
	Locations  []string
	Hashes     []string
}

// Rule is one correlation strategy over artifacts.
//
// RuleIdentity is deliberately not a Rule: it does not inspect artifacts,
// so callers special-case it by scanning the run registry instead.
type Rule interface {
	// Name returns the rule's stable identifier.
	Name() RuleName

	// Applies reports whether the artifact qualifies for this rule.
	// Artifacts with an empty required key field silently do not qualify.
	Applies(a Artifact) bool

	// Key returns the grouping key for a qualifying artifact.
	// Only valid when Applies returns true.
	Key(a Artifact) string

	// PeerFilter describes the artifacts sharing a's key, excluding a itself.
	// Only valid when Applies returns true.
	PeerFilter(a Artifact) PeerFilter
}

// artifactRules holds the closed set of artifact-driven rules in evaluation order.
var artifactRules = []Rule{
	nameQualifierRule{},
	nameQualifierLocationRule{},
	hashRule{},
}

// AllRuleNames returns every rule name, RuleIdentity included, in stable order.
func AllRuleNames() []RuleName {
	return []RuleName{RuleIdentity, RuleNameQualifier, RuleNameQualifierLocation, RuleHash}
}

// ArtifactRules returns the artifact-driven rules (everything but RuleIdentity)
// in stable order.
func ArtifactRules() []Rule {
	out := make([]Rule, len(artifactRules))
	copy(out, artifactRules)
	return out
}

// RuleByName resolves an artifact-driven rule by name.
// Returns false for RuleIdentity and unknown names.
func RuleByName(name RuleName) (Rule, bool) {
	for _, r := range artifactRules {
		if r.Name() == name {
			return r, true
		}
	}
	return nil, false
}

// ValidRuleName reports whether name identifies a known rule, RuleIdentity included.
func ValidRuleName(name RuleName) bool {
	for _, n := range AllRuleNames() {
		if n == name {
			return true
		}
	}
	return false
}
