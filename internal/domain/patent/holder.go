package patent

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/turtacn/patent-litigation-graph/pkg/errors"
	"github.com/turtacn/patent-litigation-graph/pkg/validation"
)

const dateLayout = "2006-01-02"

// Date is a calendar date that serializes as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate truncates t to its UTC calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{dateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
}

// Scan implements sql.Scanner.
func (d *Date) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		d.Time = time.Time{}
	case time.Time:
		d.Time = v.UTC()
	case string:
		return d.UnmarshalJSON([]byte(v))
	case []byte:
		return d.UnmarshalJSON(v)
	default:
		return fmt.Errorf("cannot scan %T into Date", value)
	}
	return nil
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Time, nil
}

// PatentHolder is one row of the patent ownership registry: who holds a
// granted patent, who sold it, and analyst scores on a 1-10 scale.
type PatentHolder struct {
	ReferenceID         string `json:"reference_id" validate:"required,max=20"`
	GrantDocNumber      string `json:"grant_doc_number" validate:"required,max=20"`
	RecordDate          Date   `json:"record_date"`
	PatentHolderID      string `json:"patent_holder_id" validate:"required,max=20"`
	PatentHolder        string `json:"patent_holder" validate:"required,max=200"`
	PatentSeller        string `json:"patent_seller" validate:"max=200"`
	PatentSellerID      string `json:"patent_seller_id" validate:"max=20"`
	Litigation          int    `json:"litigation" validate:"min=1,max=10"`
	TechField           string `json:"tech_field" validate:"required,max=200"`
	FilingYear          Date   `json:"filing_year"`
	TypePatentHolder    string `json:"type_patent_holder" validate:"required,max=200"`
	PatentQuality       int    `json:"patent_quality" validate:"min=1,max=10"`
	PatentValue         int    `json:"patent_value" validate:"min=1,max=10"`
	LitigationRisk      int    `json:"litigation_risk" validate:"min=1,max=10"`
	CountryPatentHolder string `json:"country_patent_holder" validate:"required,max=200"`
	CountryPatentSeller string `json:"country_patent_seller" validate:"max=200"`
}

var scoreFields = map[string]bool{
	"litigation":      true,
	"patent_quality":  true,
	"patent_value":    true,
	"litigation_risk": true,
}

// Validate checks field lengths, required fields and score ranges. Score
// failures are reported as ErrCodeHolderInvalidScore, everything else as
// ErrCodeValidation.
func (h *PatentHolder) Validate() error {
	fields := validation.Struct(h)
	if len(fields) == 0 {
		if h.RecordDate.IsZero() {
			return errors.Validation("record_date", "record_date is required")
		}
		if h.FilingYear.IsZero() {
			return errors.Validation("filing_year", "filing_year is required")
		}
		return nil
	}
	for _, f := range fields {
		if scoreFields[f.Field] {
			return validation.ToAppError(errors.ErrCodeHolderInvalidScore, fields)
		}
	}
	return validation.ToAppError(errors.ErrCodeValidation, fields)
}

//Personal.AI order the ending
