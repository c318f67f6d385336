package graph

import (
	"fmt"
	"math/rand/v2"

	"github.com/OFFIS-RIT/constellation/backend/pkg/common"
)

// Importance bands for generated nodes, inclusive.
const (
	rootImportance = 100

	conceptImportanceMin = 60
	conceptImportanceMax = 85
	detailImportanceMin  = 25
	detailImportanceMax  = 50
)

// Rand is the randomness a Generator draws importance values from.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

type conceptTemplate struct {
	name        string
	description string
	details     [3]string
}

// Every generated graph has this shape: one concept per entry, three
// details per concept.
var genericConcepts = []conceptTemplate{
	{
		name:        "Fundamentals of %s",
		description: "The core ideas everything else about %s builds on.",
		details:     [3]string{"Core Terminology", "Key Principles", "Historical Background"},
	},
	{
		name:        "%s Techniques",
		description: "Methods practitioners use when working with %s.",
		details:     [3]string{"Common Methods", "Best Practices", "Advanced Approaches"},
	},
	{
		name:        "%s Tools",
		description: "Tools and material that help with %s.",
		details:     [3]string{"Essential Tools", "Frameworks and Libraries", "Learning Resources"},
	},
	{
		name:        "%s Applications",
		description: "Where %s is put to use.",
		details:     [3]string{"Real-World Use Cases", "Industry Adoption", "Case Studies"},
	},
	{
		name:        "Future of %s",
		description: "Where %s is heading next.",
		details:     [3]string{"Emerging Trends", "Open Problems", "Research Directions"},
	},
}

var detailCategories = [3]common.Category{
	common.CategoryConcept,
	common.CategorySkill,
	common.CategoryResource,
}

// Generator synthesises a graph for any topic. The topology is fixed; only
// importance values are random.
type Generator struct {
	rng Rand
}

// NewGenerator creates a Generator drawing from rng. A nil rng uses the
// math/rand/v2 global source, which is safe for concurrent use. A seeded
// *rand.Rand makes the output reproducible but is not safe for concurrent
// use.
func NewGenerator(rng Rand) *Generator {
	if rng == nil {
		rng = globalRand{}
	}
	return &Generator{rng: rng}
}

// Generate returns a valid graph for topic. It never fails: empty,
// whitespace-only and non-ASCII topics are all accepted.
func (g *Generator) Generate(topic string) *common.Graph {
	rootID := SanitizeID(topic)
	name := displayName(topic)

	nodeCount := 1 + len(genericConcepts)*(1+len(detailCategories))
	out := &common.Graph{
		Nodes: make([]common.Node, 0, nodeCount),
		Links: make([]common.Link, 0, nodeCount-1),
	}

	out.Nodes = append(out.Nodes, common.Node{
		ID:          rootID,
		Name:        name,
		Importance:  rootImportance,
		Category:    common.CategoryTopic,
		Description: fmt.Sprintf("An overview of %s.", name),
	})

	for i, c := range genericConcepts {
		conceptID := fmt.Sprintf("%s-concept-%d", rootID, i+1)
		out.Nodes = append(out.Nodes, common.Node{
			ID:          conceptID,
			Name:        fmt.Sprintf(c.name, name),
			Importance:  g.between(conceptImportanceMin, conceptImportanceMax),
			Category:    common.CategoryConcept,
			Description: fmt.Sprintf(c.description, name),
		})
		out.Links = append(out.Links, common.NewLink(rootID, conceptID, "includes").WithStrength(0.8))

		for j, detail := range c.details {
			detailID := fmt.Sprintf("%s-detail-%d", conceptID, j+1)
			out.Nodes = append(out.Nodes, common.Node{
				ID:          detailID,
				Name:        detail,
				Importance:  g.between(detailImportanceMin, detailImportanceMax),
				Category:    detailCategories[j],
				Description: fmt.Sprintf("%s within %s.", detail, fmt.Sprintf(c.name, name)),
			})
			out.Links = append(out.Links, common.NewLink(conceptID, detailID, "covers").WithStrength(0.5))
		}
	}

	return out
}

func (g *Generator) between(lo, hi int) float64 {
	return float64(lo + g.rng.IntN(hi-lo+1))
}
