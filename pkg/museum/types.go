// Package museum defines the shared data model for the memory museum
// pipeline: uploaded file references, analyzed memory artifacts, similarity
// clusters, and the spatial scene graph (rooms, exhibits, connections)
// handed to a renderer.
package museum

// SourceType identifies the kind of media an uploaded file contains.
type SourceType string

const (
	// SourceImage is an uploaded photograph or picture.
	SourceImage SourceType = "image"

	// SourceText is an uploaded text document or note.
	SourceText SourceType = "text"

	// SourceAudio is an uploaded audio recording.
	SourceAudio SourceType = "audio"
)

// Vec3 is a 3D vector. It serializes as a JSON array of three numbers,
// matching the renderer's [x, y, z] convention.
type Vec3 [3]float64

// UploadedFileRef describes one uploaded media file before AI analysis.
//
// It carries user-supplied metadata (title, description) plus the raw file
// attributes the analyzer needs. The actual file bytes are out of scope;
// image files may carry an inline DataURL for vision analysis and for
// category-museum hydration.
type UploadedFileRef struct {
	// ID is the unique identifier of the uploaded file.
	ID string `json:"id"`

	// Name is the original file name.
	Name string `json:"name"`

	// Type is the MIME type of the file.
	Type string `json:"type"`

	// SourceType is the media kind (image, text, audio).
	SourceType SourceType `json:"sourceType"`

	// Size is the file size in bytes.
	Size int64 `json:"size"`

	// UserTitle is an optional user-supplied title.
	UserTitle string `json:"userTitle,omitempty"`

	// UserDescription is an optional user-supplied description.
	UserDescription string `json:"userDescription,omitempty"`

	// DataURL optionally inlines the file content as a data URL
	// (images only; used for vision analysis and asset resolution).
	DataURL string `json:"dataUrl,omitempty"`

	// TextContent optionally carries the content of text files.
	TextContent string `json:"textContent,omitempty"`

	// UploadedAt is the upload timestamp in RFC 3339 form.
	UploadedAt string `json:"uploadedAt"`
}

// MemoryArtifact is the semantically-analyzed representation of one
// uploaded media file. Artifacts are produced by an analyzer provider and
// are immutable once created; every downstream stage treats them as
// read-only input.
type MemoryArtifact struct {
	// ID is the unique identifier of the artifact.
	ID string `json:"id"`

	// FileID references the uploaded file this artifact was derived from.
	FileID string `json:"fileId"`

	// SourceType is the media kind of the originating file.
	SourceType SourceType `json:"sourceType"`

	// Title is the display title.
	Title string `json:"title"`

	// Description is the display description, also used as the exhibit
	// plaque text.
	Description string `json:"description"`

	// Emotion is a free-text emotion label (e.g. "joy", "calm reflection").
	Emotion string `json:"emotion"`

	// SentimentScore is the sentiment strength in [0, 1].
	SentimentScore float64 `json:"sentimentScore"`

	// Objects lists detected object labels in relevance order.
	Objects []string `json:"objects"`

	// SemanticTags lists tag strings in relevance order.
	SemanticTags []string `json:"semanticTags"`

	// Category is the closed-set content category slug (see pkg/category).
	Category string `json:"category,omitempty"`

	// Palette lists dominant color strings.
	Palette []string `json:"palette"`

	// Timestamp optionally records when the memory was captured.
	Timestamp string `json:"timestamp,omitempty"`

	// Embedding is the fixed-length semantic vector. Dimensionality is
	// consistent within one pipeline run but not globally fixed.
	Embedding []float64 `json:"embedding"`
}

// MemoryCluster is a group of artifacts judged similar enough to share a
// room and theme. Clusters are created by the cluster builder and never
// mutated afterwards.
type MemoryCluster struct {
	// ID is the unique identifier of the cluster.
	ID string `json:"id"`

	// Theme is a human-readable label derived from the most frequent
	// member tag ("<tag> memories"), or a generic placeholder.
	Theme string `json:"theme"`

	// EmotionProfile is the most frequent emotion label among members.
	EmotionProfile string `json:"emotionProfile"`

	// Centroid is the per-dimension mean of member embeddings.
	Centroid []float64 `json:"centroid"`

	// MemberIDs lists member artifact ids in join order.
	MemberIDs []string `json:"memberIds"`

	// Tags lists the top 4 most frequent tags across members,
	// descending by frequency.
	Tags []string `json:"tags"`
}

// RoomStyle is the visual style of a room, derived from the owning
// cluster's dominant emotion.
type RoomStyle string

const (
	// StyleWarm renders warm, nostalgic tones.
	StyleWarm RoomStyle = "warm"

	// StyleJoy renders bright, celebratory tones.
	StyleJoy RoomStyle = "joy"

	// StyleCalm renders muted, serene tones.
	StyleCalm RoomStyle = "calm"

	// StyleChaotic renders high-contrast, restless tones.
	StyleChaotic RoomStyle = "chaotic"

	// StyleMinimal is the neutral default.
	StyleMinimal RoomStyle = "minimal"
)

// IsValid reports whether s is one of the five known room styles.
func (s RoomStyle) IsValid() bool {
	switch s {
	case StyleWarm, StyleJoy, StyleCalm, StyleChaotic, StyleMinimal:
		return true
	}
	return false
}

// RoomNode is one walkable room volume in the museum.
type RoomNode struct {
	// ID is the unique identifier of the room.
	ID string `json:"id"`

	// ClusterID references the cluster this room exhibits, or a synthetic
	// id when the room is not cluster-scoped (tunnel galleries).
	ClusterID string `json:"clusterId"`

	// Center is the room center in world coordinates.
	Center Vec3 `json:"center"`

	// Size is the room extent (width, height, depth), each component
	// within [0.5, 500].
	Size Vec3 `json:"size"`

	// Style is the visual style derived from the cluster emotion.
	Style RoomStyle `json:"style"`

	// Label is the display name of the room.
	Label string `json:"label"`

	// Keywords are matching hints for consumers (theme plus tags).
	Keywords []string `json:"keywords"`
}

// ExhibitNode is a single artifact's wall-mounted placement in a room.
type ExhibitNode struct {
	// ID is the unique identifier of the exhibit.
	ID string `json:"id"`

	// RoomID references the room this exhibit hangs in. It must resolve
	// to a room in the same scene.
	RoomID string `json:"roomId"`

	// ArtifactID references the exhibited artifact.
	ArtifactID string `json:"artifactId"`

	// AssetURL is present only for image-sourced artifacts. It is a path
	// the asset resolver interprets using the session and file ids; the
	// pipeline never fetches it.
	AssetURL string `json:"assetUrl,omitempty"`

	// TextFallback is shown when no asset is available.
	TextFallback string `json:"textFallback,omitempty"`

	// Position places the exhibit flush against an interior wall plane.
	Position Vec3 `json:"position"`

	// Rotation is the Euler rotation that faces the exhibit into the room.
	Rotation Vec3 `json:"rotation"`

	// Plaque is the display text beside the exhibit.
	Plaque string `json:"plaque"`

	// Title is the display title of the exhibit.
	Title string `json:"title"`
}

// ConnectionEdge is an undirected walkable adjacency between two rooms.
type ConnectionEdge struct {
	// FromRoomID is one endpoint room id.
	FromRoomID string `json:"fromRoomId"`

	// ToRoomID is the other endpoint room id.
	ToRoomID string `json:"toRoomId"`
}

// SceneDefinition is the complete spatial description handed to a
// renderer. Scenes are constructed fresh on every rebuild and replaced
// wholesale, never partially mutated, so consumers can safely cache a
// snapshot.
type SceneDefinition struct {
	// SessionID identifies the owning session.
	SessionID string `json:"sessionId"`

	// Rooms lists the room volumes (non-empty in a valid scene).
	Rooms []RoomNode `json:"rooms"`

	// Exhibits lists the wall placements (non-empty in a valid scene).
	Exhibits []ExhibitNode `json:"exhibits"`

	// Connections lists room adjacencies. Rooms form a simple path:
	// room[i] connects to room[i+1].
	Connections []ConnectionEdge `json:"connections"`
}
