package domain

// ItemFamily identifies one of the structurally distinct study item families.
// FLASHCARD and QUESTION are interval-scheduled (SRS); VOCABULARY and GRAMMAR
// carry a continuous BKT mastery score instead of a review schedule.
type ItemFamily string

const (
	FamilyFlashcard  ItemFamily = "FLASHCARD"
	FamilyQuestion   ItemFamily = "QUESTION"
	FamilyVocabulary ItemFamily = "VOCABULARY"
	FamilyGrammar    ItemFamily = "GRAMMAR"
)

func (f ItemFamily) String() string { return string(f) }

func (f ItemFamily) IsValid() bool {
	switch f {
	case FamilyFlashcard, FamilyQuestion, FamilyVocabulary, FamilyGrammar:
		return true
	}
	return false
}

// TracksMastery reports whether the family maintains a BKT mastery score.
func (f ItemFamily) TracksMastery() bool {
	return f == FamilyVocabulary || f == FamilyGrammar
}

// TracksSchedule reports whether the family maintains an SRS review schedule.
func (f ItemFamily) TracksSchedule() bool {
	return f == FamilyFlashcard || f == FamilyQuestion
}

// Level is a JLPT proficiency level tag carried by every content item.
type Level string

const (
	LevelN5 Level = "N5"
	LevelN4 Level = "N4"
	LevelN3 Level = "N3"
	LevelN2 Level = "N2"
	LevelN1 Level = "N1"
)

func (l Level) String() string { return string(l) }

func (l Level) IsValid() bool {
	switch l {
	case LevelN5, LevelN4, LevelN3, LevelN2, LevelN1:
		return true
	}
	return false
}
