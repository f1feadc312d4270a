package correlation

// nameQualifierRule groups container artifacts by (name, qualifier).
type nameQualifierRule struct{}

func (nameQualifierRule) Name() RuleName { return RuleNameQualifier }

func (nameQualifierRule) Applies(a Artifact) bool {
	return a.Type == ArtifactTypeContainer && a.Name != "" && a.Qualifier != ""
}

func (nameQualifierRule) Key(a Artifact) string {
	return a.Name + "\x00" + a.Qualifier
}

func (nameQualifierRule) PeerFilter(a Artifact) PeerFilter {
	return PeerFilter{
		ExcludeIDs: []string{a.ID},
		Types:      []string{ArtifactTypeContainer},
		Names:      []string{a.Name},
		Qualifiers: []string{a.Qualifier},
	}
}

// nameQualifierLocationRule groups container artifacts by (name, qualifier, location).
type nameQualifierLocationRule struct{}

func (nameQualifierLocationRule) Name() RuleName { return RuleNameQualifierLocation }

func (nameQualifierLocationRule) Applies(a Artifact) bool {
	return a.Type == ArtifactTypeContainer && a.Name != "" && a.Qualifier != "" && a.Location != ""
}

func (nameQualifierLocationRule) Key(a Artifact) string {
	return a.Name + "\x00" + a.Qualifier + "\x00" + a.Location
}

func (nameQualifierLocationRule) PeerFilter(a Artifact) PeerFilter {
	return PeerFilter{
		ExcludeIDs: []string{a.ID},
		Types:      []string{ArtifactTypeContainer},
		Names:      []string{a.Name},
		Qualifiers: []string{a.Qualifier},
		Locations:  []string{a.Location},
	}
}

// hashRule groups container artifacts by hash alone.
type hashRule struct{}

func (hashRule) Name() RuleName { return RuleHash }

func (hashRule) Applies(a Artifact) bool {
	return a.Type == ArtifactTypeContainer && a.Hash != ""
}

func (hashRule) Key(a Artifact) string {
	return a.Hash
}

func (hashRule) PeerFilter(a Artifact) PeerFilter {
	return PeerFilter{
		ExcludeIDs: []string{a.ID},
		Types:      []string{ArtifactTypeContainer},
		Hashes:     []string{a.Hash},
	}
}

// Ensure the closed set stays closed.
var (
	_ Rule = nameQualifierRule{}
	_ Rule = nameQualifierLocationRule{}
	_ Rule = hashRule{}
)
