package selector

import (
	"sort"

	"github.com/lexigraph/engine/internal/domain"
)

// Weights are the scoring-function constants. They are fixed product values,
// not config: changing them changes what the product means by "connected".
const (
	prereqsMetScore     = 100
	directRelationScore = 50
	phraseSiblingScore  = 40
	morphPatternScore   = 30
	twoHopPathScore     = 20
	highFrequencyScore  = 10
	tierPenalty         = 10

	highFrequencyRank = 1000
)

// directRelationTypes are the edge kinds that count as a direct connection
// to learned material.
var directRelationTypes = []domain.RelationType{
	domain.RelationRelatedTo,
	domain.RelationCollocatesWith,
	domain.RelationOppositeOf,
}

// scoreContext is everything the scoring function sees beyond the candidate
// itself.
type scoreContext struct {
	// learned is the set of block ids the learner has encountered and
	// retained (LEARNING, REVIEWING, or MASTERED).
	learned map[string]bool

	// inboundDirect counts direct-type edges from learned blocks pointing
	// at a candidate, since edges are stored on the source block only.
	inboundDirect map[string]int

	// inboundMorph is the same for MORPHOLOGICAL edges.
	inboundMorph map[string]int

	// neighbors resolves a block id to its loaded relationships, for the
	// two-hop term. Unloaded blocks resolve to nil.
	neighbors map[string][]domain.Relationship

	learnerLevel int
}

// score applies the selection scoring function to one candidate.
func score(b domain.Block, sc scoreContext) int {
	total := 0

	// Prerequisite term: only blocks that actually have prerequisites can
	// earn it, and only when every one is already in the learner's set.
	if prereqs := b.Prerequisites(); len(prereqs) > 0 {
		met := true
		for _, p := range prereqs {
			if !sc.learned[p] {
				met = false
				break
			}
		}
		if met {
			total += prereqsMetScore
		}
	}

	total += directRelationScore * directConnections(b, sc)

	if b.IsPhrase() && phraseSiblingsLearned(b, sc) {
		total += phraseSiblingScore
	}

	total += morphPatternScore * morphConnections(b, sc)
	total += twoHopPathScore * twoHopPaths(b, sc)

	if b.FrequencyRank > 0 && b.FrequencyRank < highFrequencyRank {
		total += highFrequencyScore
	}
	if b.Tier > sc.learnerLevel+1 {
		total -= tierPenalty
	}

	return total
}

func directConnections(b domain.Block, sc scoreContext) int {
	n := sc.inboundDirect[b.ID]
	for _, id := range b.RelatedIDs(directRelationTypes...) {
		if sc.learned[id] {
			n++
		}
	}
	return n
}

func morphConnections(b domain.Block, sc scoreContext) int {
	n := sc.inboundMorph[b.ID]
	for _, id := range b.RelatedIDs(domain.RelationMorphological) {
		if sc.learned[id] {
			n++
		}
	}
	return n
}

// phraseSiblingsLearned reports whether every component of a phrase block is
// already in the learner's set.
func phraseSiblingsLearned(b domain.Block, sc scoreContext) bool {
	parts := b.RelatedIDs(domain.RelationPartOf)
	for _, id := range parts {
		if !sc.learned[id] {
			return false
		}
	}
	return len(parts) > 0
}

// twoHopPaths counts paths candidate -> intermediate -> learned where the
// intermediate itself is not learned. Paths whose first hop lands on a
// learned block already earn the direct-connection term.
func twoHopPaths(b domain.Block, sc scoreContext) int {
	n := 0
	for _, rel := range b.Relationships {
		if sc.learned[rel.TargetID] {
			continue
		}
		for _, hop2 := range sc.neighbors[rel.TargetID] {
			if sc.learned[hop2.TargetID] {
				n++
			}
		}
	}
	return n
}

// scored pairs a block with its score for ranking.
type scored struct {
	block domain.Block
	score int
}

// rank sorts candidates by score descending, ties broken by lower frequency
// rank, then by id for determinism.
func rank(candidates []scored) {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if candidates[i].block.FrequencyRank != candidates[j].block.FrequencyRank {
			return candidates[i].block.FrequencyRank < candidates[j].block.FrequencyRank
		}
		return candidates[i].block.ID < candidates[j].block.ID
	})
}
