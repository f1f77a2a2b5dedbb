package graph

import "github.com/lexigraph/engine/internal/domain"

// blockDTO mirrors the Knowledge Graph wire representation of a block.
type blockDTO struct {
	ID            string            `json:"id"`
	Tier          int               `json:"tier"`
	FrequencyRank int               `json:"frequency_rank"`
	BaseValue     int               `json:"base_value"`
	Text          string            `json:"text"`
	Definition    string            `json:"definition"`
	Relationships []relationshipDTO `json:"relationships"`
}

type relationshipDTO struct {
	Type     string `json:"type"`
	TargetID string `json:"target_id"`
}

func (d blockDTO) toDomain() domain.Block {
	b := domain.Block{
		ID:            d.ID,
		Tier:          d.Tier,
		FrequencyRank: d.FrequencyRank,
		BaseValue:     d.BaseValue,
		Text:          d.Text,
		Definition:    d.Definition,
	}
	for _, rel := range d.Relationships {
		rt := domain.RelationType(rel.Type)
		if !rt.IsValid() {
			// Unknown edge types from a newer graph schema are skipped,
			// not treated as errors.
			continue
		}
		b.Relationships = append(b.Relationships, domain.Relationship{
			Type:     rt,
			TargetID: rel.TargetID,
		})
	}
	return b
}
