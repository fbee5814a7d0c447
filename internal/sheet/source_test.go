package sheet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// testHeader lays the columns out the way the form's response sheet does,
// with "Abstract" appearing once in the individual section and once in the
// roundtable section.
func testHeader() []interface{} {
	return []interface{}{
		"Timestamp",
		"Email address",
		"First name",
		"Last name",
		"Affiliation",
		"What proposal are you planning to submit",
		"Abstract",
		"Topic of the panel",
		"Names of the panelists",
		"Contact information of the panelists",
		"Abstracts",
		"Abstract",
		"Name of the participants",
		"Contact information of the participants",
	}
}

func TestParseRowsMapsColumnsByHeader(t *testing.T) {
	values := [][]interface{}{
		testHeader(),
		{
			"1/15/2026 10:00:00",
			"ada@example.edu",
			"Ada",
			"Lovelace",
			"Analytical Engines Ltd",
			"A proposal for an individual paper, film screening or other presentationtation",
			"Individual abstract.",
			"Panel topic",
			"Panelist names",
			"Panelist emails",
			"Panel abstracts",
			"Roundtable abstract.",
			"Participant names",
			"Participant emails",
		},
	}

	rows, err := parseRows(values)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	p := rows[0]
	assert.Equal(t, 1, p.Row)
	assert.Equal(t, "1/15/2026 10:00:00", p.Timestamp)
	assert.Equal(t, "ada@example.edu", p.Email)
	assert.Equal(t, "Ada", p.FirstName)
	assert.Equal(t, "Lovelace", p.LastName)
	assert.Equal(t, "Analytical Engines Ltd", p.Affiliation)
	// The two "Abstract" columns must land on different fields.
	assert.Equal(t, "Individual abstract.", p.Abstract)
	assert.Equal(t, "Roundtable abstract.", p.RoundtableAbstract)
	assert.Equal(t, "Panel topic", p.PanelTopic)
	assert.Equal(t, "Panelist names", p.Panelists)
	assert.Equal(t, "Panelist emails", p.PanelistContacts)
	assert.Equal(t, "Panel abstracts", p.PanelAbstracts)
	assert.Equal(t, "Participant names", p.Participants)
	assert.Equal(t, "Participant emails", p.ParticipantContacts)
}

func TestParseRowsNumbersRowsFromOne(t *testing.T) {
	values := [][]interface{}{
		testHeader(),
		{"t1", "a@example.edu"},
		{"t2", "b@example.edu"},
		{"t3", "c@example.edu"},
	}

	rows, err := parseRows(values)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, 1, rows[0].Row)
	assert.Equal(t, 2, rows[1].Row)
	assert.Equal(t, 3, rows[2].Row)
}

func TestParseRowsRaggedRow(t *testing.T) {
	// The API omits trailing empty cells, so a row can be shorter than the
	// header. Everything past its end reads as empty.
	values := [][]interface{}{
		testHeader(),
		{"1/15/2026 10:00:00", "ada@example.edu", "Ada"},
	}

	rows, err := parseRows(values)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	p := rows[0]
	assert.Equal(t, "Ada", p.FirstName)
	assert.Equal(t, "", p.LastName)
	assert.Equal(t, "", p.Abstract)
	assert.Equal(t, "", p.RoundtableAbstract)
}

func TestParseRowsTrimsCells(t *testing.T) {
	values := [][]interface{}{
		testHeader(),
		{" 1/15/2026 ", " ada@example.edu\n", "  Ada"},
	}

	rows, err := parseRows(values)
	require.NoError(t, err)
	assert.Equal(t, "1/15/2026", rows[0].Timestamp)
	assert.Equal(t, "ada@example.edu", rows[0].Email)
	assert.Equal(t, "Ada", rows[0].FirstName)
}

func TestParseRowsEmptySheet(t *testing.T) {
	rows, err := parseRows(nil)
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = parseRows([][]interface{}{testHeader()})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseRowsMissingColumn(t *testing.T) {
	header := testHeader()
	// Drop "Email address".
	header = append(header[:1], header[2:]...)

	_, err := parseRows([][]interface{}{header})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing column "Email address"`)
}

func TestParseRowsRequiresBothAbstractColumns(t *testing.T) {
	header := testHeader()
	// Drop the second "Abstract" (index 11).
	header = append(header[:11], header[12:]...)

	_, err := parseRows([][]interface{}{header})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing column "Abstract"`)
}

func TestParseRowsHeaderOrderDoesNotMatter(t *testing.T) {
	values := [][]interface{}{
		{
			"Email address",
			"What proposal are you planning to submit",
			"Timestamp",
			"First name",
			"Last name",
			"Affiliation",
			"Topic of the panel",
			"Names of the panelists",
			"Contact information of the panelists",
			"Abstracts",
			"Abstract",
			"Abstract",
			"Name of the participants",
			"Contact information of the participants",
		},
		{"ada@example.edu", "A proposal for a paper panel", "1/15/2026"},
	}

	rows, err := parseRows(values)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ada@example.edu", rows[0].Email)
	assert.Equal(t, "1/15/2026", rows[0].Timestamp)
	assert.Equal(t, "A proposal for a paper panel", rows[0].CategoryAnswer)
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "", cellString(nil))
	assert.Equal(t, "hello", cellString("hello"))
	assert.Equal(t, "42", cellString(float64(42)))
	assert.Equal(t, "true", cellString(true))
}

func TestFetchReadsWholeSheet(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		resp := sheets.ValueRange{
			MajorDimension: "ROWS",
			Values: [][]interface{}{
				testHeader(),
				{"1/15/2026", "ada@example.edu", "Ada", "Lovelace"},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer ts.Close()

	ctx := context.Background()
	svc, err := sheets.NewService(ctx, option.WithEndpoint(ts.URL), option.WithoutAuthentication())
	require.NoError(t, err)

	src := NewSource(svc, "sheet-123", "Form responses 1")
	rows, err := src.Fetch(ctx)
	require.NoError(t, err)

	assert.Equal(t, "/v4/spreadsheets/sheet-123/values/Form responses 1", gotPath)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ada", rows[0].FirstName)
}

func TestFetchWrapsAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"forbidden"}}`, http.StatusForbidden)
	}))
	defer ts.Close()

	ctx := context.Background()
	svc, err := sheets.NewService(ctx, option.WithEndpoint(ts.URL), option.WithoutAuthentication())
	require.NoError(t, err)

	src := NewSource(svc, "sheet-123", "Form responses 1")
	_, err = src.Fetch(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `failed to read sheet "Form responses 1"`)
}
