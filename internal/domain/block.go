package domain

// Block is one unit of vocabulary knowledge (a word sense, phrase, idiom, or
// morphological pattern). Blocks are owned and mutated by the external
// Knowledge Graph; this engine only reads them.
type Block struct {
	ID            string
	Tier          int // complexity class 1–7
	FrequencyRank int // lower = more common
	BaseValue     int // XP awarded on a passing check
	Text          string
	Definition    string
	Relationships []Relationship
}

// Relationship is a typed edge from one block to another.
type Relationship struct {
	Type     RelationType
	TargetID string
}

// RelatedIDs returns target ids of relationships matching any of the given
// types. With no types given, all targets are returned.
func (b Block) RelatedIDs(types ...RelationType) []string {
	var ids []string
	for _, rel := range b.Relationships {
		if len(types) == 0 {
			ids = append(ids, rel.TargetID)
			continue
		}
		for _, t := range types {
			if rel.Type == t {
				ids = append(ids, rel.TargetID)
				break
			}
		}
	}
	return ids
}

// Prerequisites returns the ids of blocks that must be learned before this one.
func (b Block) Prerequisites() []string {
	return b.RelatedIDs(RelationPrerequisiteOf)
}

// IsPhrase reports whether the block is a multi-component phrase or idiom,
// i.e. it has PART_OF edges pointing at its components.
func (b Block) IsPhrase() bool {
	return len(b.RelatedIDs(RelationPartOf)) > 0
}
