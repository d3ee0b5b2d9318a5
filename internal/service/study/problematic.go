package study

import (
	"context"
	"fmt"
	"sort"

	"github.com/kotobadev/jlpt-backend/internal/domain"
	"github.com/kotobadev/jlpt-backend/pkg/ctxutil"
)

// RankProblematicWords returns the learner's vocabulary items with more
// failures than successes, worst first. Ties on failure rate fall back to
// the kanji so the ordering is stable across calls.
func (s *Service) RankProblematicWords(ctx context.Context) ([]domain.ProblematicItem, error) {
	return s.rankProblematic(ctx, domain.FamilyVocabulary)
}

// RankProblematicGrammarPoints returns the learner's grammar points with
// more failures than successes, worst first.
func (s *Service) RankProblematicGrammarPoints(ctx context.Context) ([]domain.ProblematicItem, error) {
	return s.rankProblematic(ctx, domain.FamilyGrammar)
}

func (s *Service) rankProblematic(ctx context.Context, family domain.ItemFamily) ([]domain.ProblematicItem, error) {
	learnerID, ok := ctxutil.LearnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	items, err := s.progress.ListProblematic(ctx, learnerID, family)
	if err != nil {
		return nil, fmt.Errorf("list problematic %s items: %w", family, err)
	}

	sort.SliceStable(items, func(i, j int) bool {
		ri, rj := items[i].FailureRate(), items[j].FailureRate()
		if ri != rj {
			return ri > rj
		}
		return items[i].DisplayName() < items[j].DisplayName()
	})
	return items, nil
}
