// Package item generates 6-option verification items: one correct answer,
// four graded distractors sourced from the knowledge graph, and a fixed
// "I don't know" option. Generation degrades tier by tier: content provider,
// Redis item pool, Postgres item pool, then raw block definitions.
package item

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/google/uuid"

	"github.com/lexigraph/engine/internal/adapter/graph"
	"github.com/lexigraph/engine/internal/adapter/provider/content"
	"github.com/lexigraph/engine/internal/domain"
)

// distractor grades in storage order, strongest confusable first.
var distractorGrades = []float64{
	domain.GradeClose,
	domain.GradePartial,
	domain.GradeRelated,
	domain.GradeWrong,
}

// distractorPreference orders relationship kinds by how confusable the
// target is with the source block.
var distractorPreference = []domain.RelationType{
	domain.RelationConfusedWith,
	domain.RelationOppositeOf,
	domain.RelationRelatedTo,
	domain.RelationCollocatesWith,
	domain.RelationRegisterVariant,
}

type renderer interface {
	Render(ctx context.Context, target domain.Block, qtype domain.QuestionType, distractors []domain.Block) (content.RenderResult, error)
}

type itemRepo interface {
	Create(ctx context.Context, it domain.VerificationItem) (domain.VerificationItem, error)
	GetPooled(ctx context.Context, blockID string, qtype domain.QuestionType, excludeIDs []uuid.UUID) (domain.VerificationItem, error)
}

type itemPool interface {
	Get(ctx context.Context, blockID string, qtype domain.QuestionType) (domain.VerificationItem, error)
	Put(ctx context.Context, it domain.VerificationItem) error
}

// Service generates and pools verification items.
type Service struct {
	source   graph.Source
	renderer renderer
	items    itemRepo
	pool     itemPool
	log      *slog.Logger
}

// New creates the item generator. renderer may be nil when no content
// provider is configured; generation then uses raw definitions.
func New(source graph.Source, r renderer, items itemRepo, pool itemPool, logger *slog.Logger) *Service {
	return &Service{
		source:   source,
		renderer: r,
		items:    items,
		pool:     pool,
		log:      logger.With("service", "item"),
	}
}

// Generate produces a verification item for the block and question type.
// excludeItemIDs lists items the learner has already answered; pooled items
// matching them are skipped.
func (s *Service) Generate(ctx context.Context, blockID string, qtype domain.QuestionType, excludeItemIDs []uuid.UUID) (domain.VerificationItem, error) {
	if !qtype.IsValid() {
		return domain.VerificationItem{}, fmt.Errorf("question type %q: %w", qtype, domain.ErrValidation)
	}

	block, err := s.source.GetBlock(ctx, blockID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.VerificationItem{}, err
		}
		// Graph degraded: the pools may still hold an item.
		return s.fromPools(ctx, blockID, qtype, excludeItemIDs, err)
	}

	distractors, err := s.distractorBlocks(ctx, block)
	if err != nil {
		return s.fromPools(ctx, blockID, qtype, excludeItemIDs, err)
	}

	it, err := s.buildItem(ctx, block, qtype, distractors)
	if err != nil {
		return s.fromPools(ctx, blockID, qtype, excludeItemIDs, err)
	}

	created, err := s.items.Create(ctx, it)
	if err != nil {
		return domain.VerificationItem{}, fmt.Errorf("persist item: %w", err)
	}
	if err := s.pool.Put(ctx, created); err != nil {
		// Pool writes are best effort.
		s.log.WarnContext(ctx, "item pool write failed",
			slog.String("block_id", blockID), slog.String("error", err.Error()))
	}

	return created, nil
}

// buildItem renders the six options. The five answer options are shuffled so
// the correct one is not positionally learnable; "I don't know" is pinned at
// the last index and never counts as a guess.
func (s *Service) buildItem(ctx context.Context, block domain.Block, qtype domain.QuestionType, distractors []domain.Block) (domain.VerificationItem, error) {
	prompt, correctText, texts := s.renderTexts(ctx, block, qtype, distractors)

	options := make([]domain.Option, 0, domain.OptionsPerItem)
	options = append(options, domain.Option{
		Text:          correctText,
		Grade:         domain.GradeCorrect,
		SourceBlockID: block.ID,
	})
	for i, d := range distractors {
		options = append(options, domain.Option{
			Text:          texts[d.ID],
			Grade:         distractorGrades[i],
			SourceBlockID: d.ID,
		})
	}

	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	options = append(options, domain.Option{
		Text:     "I don't know",
		Grade:    domain.GradeDontKnow,
		DontKnow: true,
	})

	correctIndex := 0
	for i, opt := range options {
		if opt.Grade == domain.GradeCorrect {
			correctIndex = i
			break
		}
	}

	return domain.VerificationItem{
		ID:           uuid.New(),
		BlockID:      block.ID,
		QuestionType: qtype,
		Prompt:       prompt,
		Options:      options,
		CorrectIndex: correctIndex,
	}, nil
}

// renderTexts asks the content provider to phrase the question, falling back
// to raw definitions when no provider is configured or it is degraded.
func (s *Service) renderTexts(ctx context.Context, block domain.Block, qtype domain.QuestionType, distractors []domain.Block) (prompt, correctText string, texts map[string]string) {
	if s.renderer != nil {
		result, err := s.renderer.Render(ctx, block, qtype, distractors)
		if err == nil {
			return result.Prompt, result.CorrectText, result.DistractorTexts
		}
		s.log.WarnContext(ctx, "content provider degraded, using definitions",
			slog.String("block_id", block.ID), slog.String("error", err.Error()))
	}

	texts = make(map[string]string, len(distractors))
	for _, d := range distractors {
		texts[d.ID] = d.Definition
	}

	switch qtype {
	case domain.QuestionTypeContext:
		prompt = fmt.Sprintf("Which meaning fits %q as used in context?", block.Text)
	case domain.QuestionTypeRelationship:
		prompt = fmt.Sprintf("Which description best relates to %q?", block.Text)
	default:
		prompt = fmt.Sprintf("Which definition matches %q?", block.Text)
	}

	return prompt, block.Definition, texts
}

// distractorBlocks picks four distractor sources: graph relationships in
// confusability order, topped up from same-tier similar-frequency blocks.
func (s *Service) distractorBlocks(ctx context.Context, block domain.Block) ([]domain.Block, error) {
	need := len(distractorGrades)

	var relatedIDs []string
	seen := map[string]bool{block.ID: true}
	for _, t := range distractorPreference {
		for _, id := range block.RelatedIDs(t) {
			if !seen[id] {
				seen[id] = true
				relatedIDs = append(relatedIDs, id)
			}
		}
	}
	if len(relatedIDs) > need {
		relatedIDs = relatedIDs[:need]
	}

	blocks, err := s.source.GetBlocks(ctx, relatedIDs)
	if err != nil {
		return nil, fmt.Errorf("load distractor blocks: %w", err)
	}

	distractors := make([]domain.Block, 0, need)
	for _, id := range relatedIDs {
		if b, ok := blocks[id]; ok {
			distractors = append(distractors, b)
		}
	}

	if len(distractors) < need {
		fill, err := s.tierFill(ctx, block, seen, need-len(distractors))
		if err != nil {
			return nil, err
		}
		distractors = append(distractors, fill...)
	}

	if len(distractors) < need {
		return nil, fmt.Errorf("block %s: only %d distractor sources: %w",
			block.ID, len(distractors), domain.ErrUpstream)
	}

	return distractors, nil
}

// tierFill returns same-tier blocks closest in frequency rank to the target.
func (s *Service) tierFill(ctx context.Context, block domain.Block, seen map[string]bool, need int) ([]domain.Block, error) {
	band, err := s.source.ListLevelBand(ctx, block.Tier, block.Tier, (need+len(seen))*4)
	if err != nil {
		return nil, fmt.Errorf("list tier band: %w", err)
	}

	// The band arrives frequency-sorted; walk outward from the target's
	// rank by taking nearest ranks first.
	type ranked struct {
		block domain.Block
		dist  int
	}
	candidates := make([]ranked, 0, len(band))
	for _, b := range band {
		if seen[b.ID] {
			continue
		}
		dist := b.FrequencyRank - block.FrequencyRank
		if dist < 0 {
			dist = -dist
		}
		candidates = append(candidates, ranked{block: b, dist: dist})
	}
	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0 && candidates[j].dist < candidates[j-1].dist; j-- {
			candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
		}
	}

	if len(candidates) > need {
		candidates = candidates[:need]
	}
	out := make([]domain.Block, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.block)
	}

	return out, nil
}

// fromPools serves a cached item when live generation is impossible.
func (s *Service) fromPools(ctx context.Context, blockID string, qtype domain.QuestionType, excludeItemIDs []uuid.UUID, cause error) (domain.VerificationItem, error) {
	if it, err := s.pool.Get(ctx, blockID, qtype); err == nil && !excluded(it.ID, excludeItemIDs) {
		s.log.InfoContext(ctx, "serving pooled item",
			slog.String("block_id", blockID), slog.String("tier", "redis"))
		return it, nil
	}

	it, err := s.items.GetPooled(ctx, blockID, qtype, excludeItemIDs)
	if err != nil {
		return domain.VerificationItem{}, fmt.Errorf("generate item for %s: %w", blockID, cause)
	}

	s.log.InfoContext(ctx, "serving pooled item",
		slog.String("block_id", blockID), slog.String("tier", "postgres"))
	return it, nil
}

func excluded(id uuid.UUID, exclude []uuid.UUID) bool {
	for _, e := range exclude {
		if e == id {
			return true
		}
	}
	return false
}
