package litigation

import "context"

// GraphRepository is the two-stage lookup surface of the litigation store.
// Implementations report connectivity failures as ErrCodeStoreUnavailable;
// an empty result is never an error.
type GraphRepository interface {
	// PlaintiffIDsByName returns the ids of plaintiff records whose plaintiff
	// list contains name.
	PlaintiffIDsByName(ctx context.Context, name string) ([]string, error)
	// DefendantsByPlaintiffID returns every defendant value stored under id.
	DefendantsByPlaintiffID(ctx context.Context, id string) ([]Defendant, error)
}

// Litigants is the result of a joined lookup.
type Litigants struct {
	PlaintiffIDs []string
	Defendants   []Defendant
}

// JoinedGraphRepository is implemented by stores that can resolve both stages
// in a single round trip.
type JoinedGraphRepository interface {
	GraphRepository
	LitigantsByPlaintiffName(ctx context.Context, name string) (*Litigants, error)
}

// RecordWriter persists litigation records. Saving the same record twice
// leaves the store unchanged.
type RecordWriter interface {
	SaveRecords(ctx context.Context, records []Record) (int, error)
}

//Personal.AI order the ending
