package patent

import (
	"encoding/json"
	"fmt"

	"github.com/turtacn/patent-litigation-graph/pkg/errors"
)

// NormalizeRecords converts raw upstream items into PatentRecords. The first
// occurrence of an id wins, later duplicates are dropped, and order is kept.
// Items without an id share the empty id and collapse the same way.
func NormalizeRecords(raw []RawRecord) []*PatentRecord {
	out := make([]*PatentRecord, 0, len(raw))
	for _, item := range raw {
		out = append(out, &PatentRecord{
			ID:       item.String("id"),
			Title:    item.String("title"),
			Inventor: item.String("inventor"),
			Abstract: item.String("abstract"),
			Link:     item.String("url"),
		})
	}
	return Dedup(out)
}

// Dedup keeps the first record of each id, in order, and drops nil entries.
func Dedup(records []*PatentRecord) []*PatentRecord {
	out := make([]*PatentRecord, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}

type envelope struct {
	Patents *json.RawMessage `json:"patents"`
}

func decodePatents(body []byte) ([]RawRecord, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataSourceParseError, "undecodable upstream response")
	}
	if env.Patents == nil {
		return nil, errors.New(errors.ErrCodeDataSourceParseError, "upstream response has no patents key")
	}
	var items []RawRecord
	if err := json.Unmarshal(*env.Patents, &items); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataSourceParseError, "patents is not a list of objects")
	}
	return items, nil
}

func statusErr(status int) error {
	if status >= 200 && status < 300 {
		return nil
	}
	code := errors.ErrCodeDataSourceUnavailable
	switch status {
	case 401, 403:
		code = errors.ErrCodeDataSourceAuthFailed
	case 429:
		code = errors.ErrCodeDataSourceRateLimited
	}
	return errors.New(code, fmt.Sprintf("upstream returned status %d", status))
}

// ParseSearchResponse turns an upstream search response into records.
// A non-2xx status yields an upstream-unavailable error and a body without a
// decodable "patents" list yields a malformed-response error; in both cases the
// returned slice is empty, never nil, so callers can log and carry on.
func ParseSearchResponse(status int, body []byte) ([]*PatentRecord, error) {
	if err := statusErr(status); err != nil {
		return []*PatentRecord{}, err
	}
	items, err := decodePatents(body)
	if err != nil {
		return []*PatentRecord{}, err
	}
	return NormalizeRecords(items), nil
}

// ParseDetailResponse reads the first entry of a detail lookup. An empty
// "patents" list is ErrCodePatentNotFound.
func ParseDetailResponse(externalID string, status int, body []byte) (*Detail, error) {
	if err := statusErr(status); err != nil {
		return nil, err
	}
	items, err := decodePatents(body)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.New(errors.ErrCodePatentNotFound, "no patent matches "+externalID)
	}
	first := items[0]
	return &Detail{
		ExternalID: externalID,
		Title:      first.String("title"),
		Inventor:   first.String("inventor"),
		Summary:    first.String("summary"),
	}, nil
}

//Personal.AI order the ending
