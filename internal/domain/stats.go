package domain

// ProblematicItem is the joined shape returned by the progress store's
// problematic-item query: an item plus the counters used for ranking.
// Exactly one of Word / GrammarPoint is set, matching the queried family.
type ProblematicItem struct {
	Word         *Word
	GrammarPoint *GrammarPoint
	SuccessCount int
	FailureCount int
}

// FailureRate returns FailureCount over total attempts (0 for no attempts).
func (p *ProblematicItem) FailureRate() float64 {
	attempts := p.SuccessCount + p.FailureCount
	if attempts == 0 {
		return 0
	}
	return float64(p.FailureCount) / float64(attempts)
}

// DisplayName returns the item's natural sort key (kanji for words, name
// for grammar points).
func (p *ProblematicItem) DisplayName() string {
	switch {
	case p.Word != nil:
		return p.Word.Kanji
	case p.GrammarPoint != nil:
		return p.GrammarPoint.Name
	}
	return ""
}

// QuestionStats holds aggregated question-progress statistics for a learner,
// computed in SQL by the progress store.
type QuestionStats struct {
	TotalAttempted  int
	CurrentlyDue    int
	OverallAccuracy float64
	MasteryRate     float64
	AverageSRSLevel float64
	ByType          []QuestionTypeStats
}

// QuestionTypeStats is the per-question-type breakdown of QuestionStats.
type QuestionTypeStats struct {
	Type            string
	Attempted       int
	Due             int
	TotalSuccess    int
	TotalFailure    int
	AverageSRSLevel float64
	AtLevelZero     int
	Accuracy        float64
	MasteryRate     float64
}
