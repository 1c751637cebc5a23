package valueobject

import "fmt"

// ModelSource records which classifier produced a prediction.
type ModelSource struct {
	value string
}

var (
	ModelSourceArtifact = ModelSource{value: "artifact"}
	ModelSourceFallback = ModelSource{value: "fallback"}
)

// ModelSourceFromString reconstructs a ModelSource.
func ModelSourceFromString(s string) (ModelSource, error) {
	switch s {
	case "artifact":
		return ModelSourceArtifact, nil
	case "fallback":
		return ModelSourceFallback, nil
	default:
		return ModelSource{}, fmt.Errorf("invalid model source: %s", s)
	}
}

func (m ModelSource) String() string { return m.value }
