package formation

import "github.com/google/uuid"

const (
	SnapshotVersion    = "1.0"
	DefaultProjectName = "ChoreoMaster Project"
)

// Project is the flat snapshot exchanged with the serializer.
type Project struct {
	Version    string      `json:"version" yaml:"version"`
	CreatedAt  string      `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	Name       string      `json:"name" yaml:"name"`
	MusicName  *string     `json:"musicName" yaml:"musicName"`
	Performers []Performer `json:"performers" yaml:"performers"`
	Frames     []Frame     `json:"frames" yaml:"frames"`
}

// IDFunc mints opaque identifiers.
type IDFunc func() string

// NewID returns a random UUID string.
func NewID() string {
	return uuid.NewString()
}
