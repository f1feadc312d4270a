package primary

import "context"

// ArtifactService defines the primary port for artifact operations.
type ArtifactService interface {
	// CreateArtifact records a new artifact for an existing run.
	CreateArtifact(ctx context.Context, req CreateArtifactRequest) (*Artifact, error)

	// GetArtifact retrieves an artifact by ID.
	GetArtifact(ctx context.Context, tenant, artifactID string) (*Artifact, error)

	// ListArtifacts retrieves a page of artifacts.
	ListArtifacts(ctx context.Context, tenant string, req ListArtifactsRequest) ([]*Artifact, error)

	// DeleteArtifact deletes an artifact.
	DeleteArtifact(ctx context.Context, tenant, artifactID string) error
}

// CreateArtifactRequest contains parameters for creating an artifact.
// Absent string attributes stay empty, never null.
type CreateArtifactRequest struct {
	Tenant    string
	RunID     string
	Type      string
	Location  string
	Name      string
	Qualifier string
	Hash      string
	IsInput   bool
	IsOutput  bool
	Metadata  string
}

// ListArtifactsRequest contains filter and pagination options for listing artifacts.
// Page is 1-based; 0 and 1 both mean the first page.
type ListArtifactsRequest struct {
	RunID    string
	Type     string
	Name     string
	Hash     string
	Page     int
	PageSize int
}

// Artifact represents an artifact at the port boundary.
type Artifact struct {
	Tenant    string
	ID        string
	RunID     string
	Type      string
	Location  string
	Name      string
	Qualifier string
	Hash      string
	IsInput   bool
	IsOutput  bool
	Metadata  string
	CreatedAt string
}
