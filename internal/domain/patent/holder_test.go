package patent

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/patent-litigation-graph/pkg/errors"
)

func validHolder() *PatentHolder {
	return &PatentHolder{
		ReferenceID:         "R-1",
		GrantDocNumber:      "US1234567",
		RecordDate:          NewDate(2019, time.May, 1),
		PatentHolderID:      "H-1",
		PatentHolder:        "Acme Corp",
		Litigation:          1,
		TechField:           "Batteries",
		FilingYear:          NewDate(2015, time.January, 1),
		TypePatentHolder:    "Company",
		PatentQuality:       7,
		PatentValue:         8,
		LitigationRisk:      3,
		CountryPatentHolder: "US",
	}
}

func TestPatentHolder_Validate_OK(t *testing.T) {
	assert.NoError(t, validHolder().Validate())
}

func TestPatentHolder_Validate_ScoreOutOfRange(t *testing.T) {
	cases := map[string]func(h *PatentHolder){
		"quality zero":    func(h *PatentHolder) { h.PatentQuality = 0 },
		"value eleven":    func(h *PatentHolder) { h.PatentValue = 11 },
		"risk negative":   func(h *PatentHolder) { h.LitigationRisk = -1 },
		"litigation high": func(h *PatentHolder) { h.Litigation = 11 },
		"litigation zero": func(h *PatentHolder) { h.Litigation = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			h := validHolder()
			mutate(h)
			err := h.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeHolderInvalidScore))
		})
	}
}

func TestPatentHolder_Validate_RequiredFields(t *testing.T) {
	h := validHolder()
	h.PatentHolder = ""
	err := h.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Contains(t, err.Error(), "patent_holder is required")

	h = validHolder()
	h.RecordDate = Date{}
	assert.True(t, errors.IsValidation(h.Validate()))
}

func TestPatentHolder_Validate_LengthLimit(t *testing.T) {
	h := validHolder()
	h.ReferenceID = "123456789012345678901"
	assert.True(t, errors.IsValidation(h.Validate()))
}

func TestDate_JSON(t *testing.T) {
	data, err := json.Marshal(validHolder())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"record_date":"2019-05-01"`)

	var h PatentHolder
	require.NoError(t, json.Unmarshal([]byte(`{"record_date":"2020-02-29","filing_year":"2018-01-01T00:00:00Z"}`), &h))
	assert.Equal(t, NewDate(2020, time.February, 29), h.RecordDate)
	assert.Equal(t, 2018, h.FilingYear.Year())

	assert.Error(t, json.Unmarshal([]byte(`{"record_date":"29/02/2020"}`), &h))
}

func TestDate_ScanValue(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, NewDate(2021, time.March, 4), d)

	require.NoError(t, d.Scan("2022-07-08"))
	assert.Equal(t, 2022, d.Year())

	require.NoError(t, d.Scan(nil))
	v, err := d.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	assert.Error(t, d.Scan(42))
}

//Personal.AI order the ending
