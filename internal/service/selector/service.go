// Package selector chooses which blocks a learner should face today: a
// graph-connectivity scorer over a depth-bounded frontier walk, blended with
// a level-band pool so learners without connections still get material.
package selector

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/lexigraph/engine/internal/adapter/graph"
	"github.com/lexigraph/engine/internal/adapter/postgres/blockstate"
	"github.com/lexigraph/engine/internal/config"
	"github.com/lexigraph/engine/internal/domain"
)

type stateRepo interface {
	List(ctx context.Context, learnerID uuid.UUID, filter blockstate.Filter) ([]domain.BlockState, error)
}

// Service selects daily study candidates.
type Service struct {
	source graph.Source
	states stateRepo
	cfg    config.SelectorConfig
	log    *slog.Logger
}

// New creates the selector service.
func New(source graph.Source, states stateRepo, cfg config.SelectorConfig, logger *slog.Logger) *Service {
	return &Service{
		source: source,
		states: states,
		cfg:    cfg,
		log:    logger.With("service", "selector"),
	}
}

// SelectDaily returns today's ordered candidate block ids for the learner.
// dayCap is a hard ceiling: the result never exceeds it, however many
// high-scoring candidates exist. dayCap <= 0 falls back to the configured
// default.
func (s *Service) SelectDaily(ctx context.Context, learnerID uuid.UUID, dayCap int) ([]string, error) {
	if dayCap <= 0 {
		dayCap = s.cfg.DayCap
	}

	states, err := s.states.List(ctx, learnerID, blockstate.Filter{})
	if err != nil {
		return nil, fmt.Errorf("list learner states: %w", err)
	}

	learned := make(map[string]bool)
	mastered := make(map[string]bool)
	for _, st := range states {
		switch st.Status {
		case domain.BlockStatusMastered:
			mastered[st.BlockID] = true
			learned[st.BlockID] = true
		case domain.BlockStatusLearning, domain.BlockStatusReviewing:
			learned[st.BlockID] = true
		}
	}

	level := s.estimateLevel(ctx, learned)

	// Cold start: no learned material means no connections to score, so the
	// full cap comes from the level band.
	if len(learned) == 0 {
		band, err := s.levelBand(ctx, level, dayCap, nil)
		if err != nil {
			return nil, err
		}
		s.log.InfoContext(ctx, "cold-start selection",
			slog.String("learner_id", learnerID.String()),
			slog.Int("count", len(band)),
		)
		return band, nil
	}

	candidates, err := s.connectedCandidates(ctx, learned, mastered, level)
	if err != nil {
		return nil, err
	}
	rank(candidates)

	connectedQuota := int(math.Round(float64(dayCap) * s.cfg.ConnectedRatio))
	if connectedQuota > len(candidates) {
		connectedQuota = len(candidates)
	}

	picked := make([]string, 0, dayCap)
	seen := make(map[string]bool, dayCap)
	for _, c := range candidates[:connectedQuota] {
		picked = append(picked, c.block.ID)
		seen[c.block.ID] = true
	}

	// Level-band fill: frequency-sorted, regardless of connection score.
	if len(picked) < dayCap {
		exclude := make(map[string]bool, len(seen)+len(mastered))
		for id := range seen {
			exclude[id] = true
		}
		for id := range mastered {
			exclude[id] = true
		}
		band, err := s.levelBand(ctx, level, dayCap-len(picked), exclude)
		if err != nil {
			return nil, err
		}
		picked = append(picked, band...)
		for _, id := range band {
			seen[id] = true
		}
	}

	// If the band ran dry, backfill from the remaining connected ranking.
	for _, c := range candidates[connectedQuota:] {
		if len(picked) >= dayCap {
			break
		}
		if !seen[c.block.ID] {
			picked = append(picked, c.block.ID)
			seen[c.block.ID] = true
		}
	}

	s.log.InfoContext(ctx, "daily selection",
		slog.String("learner_id", learnerID.String()),
		slog.Int("connected", connectedQuota),
		slog.Int("total", len(picked)),
		slog.Int("level", level),
	)

	return picked, nil
}

// SelectExplorer returns candidates drawn entirely from the learner's level
// band, ignoring connection scores. Blocks the learner has already touched
// are excluded regardless of status.
func (s *Service) SelectExplorer(ctx context.Context, learnerID uuid.UUID, dayCap int) ([]string, error) {
	if dayCap <= 0 {
		dayCap = s.cfg.DayCap
	}

	states, err := s.states.List(ctx, learnerID, blockstate.Filter{})
	if err != nil {
		return nil, fmt.Errorf("list learner states: %w", err)
	}

	learned := make(map[string]bool)
	exclude := make(map[string]bool, len(states))
	for _, st := range states {
		exclude[st.BlockID] = true
		switch st.Status {
		case domain.BlockStatusLearning, domain.BlockStatusReviewing, domain.BlockStatusMastered:
			learned[st.BlockID] = true
		}
	}

	band, err := s.levelBand(ctx, s.estimateLevel(ctx, learned), dayCap, exclude)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "explorer selection",
		slog.String("learner_id", learnerID.String()),
		slog.Int("count", len(band)),
	)
	return band, nil
}

// connectedCandidates walks at most MaxHops out from the learned set and
// scores every reachable not-yet-mastered block. Loads go through a per-run
// dataloader so a block reached over several edges is fetched once.
func (s *Service) connectedCandidates(ctx context.Context, learned, mastered map[string]bool, level int) ([]scored, error) {
	loader := graph.NewLoader(s.source)

	learnedIDs := make([]string, 0, len(learned))
	for id := range learned {
		learnedIDs = append(learnedIDs, id)
	}
	sort.Strings(learnedIDs)

	neighbors := make(map[string][]domain.Relationship)
	inboundDirect := make(map[string]int)
	inboundMorph := make(map[string]int)

	frontier := loader.LoadMany(ctx, learnedIDs)
	visited := make(map[string]bool, len(learned))
	candidateIDs := make(map[string]bool)

	for _, b := range frontier {
		visited[b.ID] = true
		neighbors[b.ID] = b.Relationships
		for _, rel := range b.Relationships {
			switch rel.Type {
			case domain.RelationRelatedTo, domain.RelationCollocatesWith, domain.RelationOppositeOf:
				inboundDirect[rel.TargetID]++
			case domain.RelationMorphological:
				inboundMorph[rel.TargetID]++
			}
		}
	}

	for hop := 0; hop < s.cfg.MaxHops; hop++ {
		var next []string
		for _, b := range frontier {
			for _, rel := range b.Relationships {
				if visited[rel.TargetID] {
					continue
				}
				visited[rel.TargetID] = true
				next = append(next, rel.TargetID)
			}
		}
		if len(next) == 0 {
			break
		}

		frontier = loader.LoadMany(ctx, next)
		for _, b := range frontier {
			neighbors[b.ID] = b.Relationships
			if !learned[b.ID] && !mastered[b.ID] {
				candidateIDs[b.ID] = true
			}
		}
	}

	sc := scoreContext{
		learned:       learned,
		inboundDirect: inboundDirect,
		inboundMorph:  inboundMorph,
		neighbors:     neighbors,
		learnerLevel:  level,
	}

	candidates := make([]scored, 0, len(candidateIDs))
	ids := make([]string, 0, len(candidateIDs))
	for id := range candidateIDs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, b := range loader.LoadMany(ctx, ids) {
		candidates = append(candidates, scored{block: b, score: score(b, sc)})
	}

	return candidates, nil
}

// levelBand returns up to limit block ids from the learner's level band,
// frequency-sorted, excluding the given ids.
func (s *Service) levelBand(ctx context.Context, level, limit int, exclude map[string]bool) ([]string, error) {
	// Over-fetch to survive exclusions without a second round trip.
	blocks, err := s.source.ListLevelBand(ctx, level, level+1, limit+len(exclude))
	if err != nil {
		return nil, fmt.Errorf("list level band: %w", err)
	}

	ids := make([]string, 0, limit)
	for _, b := range blocks {
		if len(ids) >= limit {
			break
		}
		if exclude[b.ID] {
			continue
		}
		ids = append(ids, b.ID)
	}

	return ids, nil
}

// estimateLevel derives the learner's level as the median tier of their
// learned blocks, defaulting to tier 1.
func (s *Service) estimateLevel(ctx context.Context, learned map[string]bool) int {
	if len(learned) == 0 {
		return 1
	}

	ids := make([]string, 0, len(learned))
	for id := range learned {
		ids = append(ids, id)
	}
	blocks, err := s.source.GetBlocks(ctx, ids)
	if err != nil || len(blocks) == 0 {
		return 1
	}

	tiers := make([]int, 0, len(blocks))
	for _, b := range blocks {
		tiers = append(tiers, b.Tier)
	}
	sort.Ints(tiers)
	return tiers[len(tiers)/2]
}
