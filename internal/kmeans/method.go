package kmeans

import (
	"fmt"
	"strings"
)

// Method selects the centroid initialization strategy.
type Method int

const (
	// MethodUnspecified means no strategy has been chosen yet.
	MethodUnspecified Method = iota
	// MethodRandom samples k distinct dataset points uniformly.
	MethodRandom
	// MethodFarthestFirst greedily picks the point farthest from the chosen set.
	MethodFarthestFirst
	// MethodKMeansPlusPlus samples proportionally to distance from the chosen set.
	MethodKMeansPlusPlus
	// MethodManual accumulates centroids from explicit placements.
	MethodManual
)

func (m Method) String() string {
	switch m {
	case MethodUnspecified:
		return "Unspecified"
	case MethodRandom:
		return "Random"
	case MethodFarthestFirst:
		return "FarthestFirst"
	case MethodKMeansPlusPlus:
		return "KMeans++"
	case MethodManual:
		return "Manual"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// Samples reports whether the method draws centroids from the dataset
// without replacement, which bounds k by the dataset size.
func (m Method) Samples() bool {
	switch m {
	case MethodRandom, MethodFarthestFirst, MethodKMeansPlusPlus:
		return true
	default:
		return false
	}
}

// ParseMethod parses a method name. Matching ignores case, spaces, dashes and
// underscores, so "farthest-first", "Farthest First" and "FarthestFirst" are
// all accepted.
func ParseMethod(s string) (Method, error) {
	norm := strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(s))
	switch norm {
	case "random":
		return MethodRandom, nil
	case "farthestfirst":
		return MethodFarthestFirst, nil
	case "kmeans++", "kmeansplusplus", "kmeanspp":
		return MethodKMeansPlusPlus, nil
	case "manual":
		return MethodManual, nil
	default:
		return MethodUnspecified, fmt.Errorf("%w: unknown method %q", ErrNoMethodSelected, s)
	}
}
