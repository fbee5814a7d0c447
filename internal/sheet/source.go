// Package sheet reads proposal submissions from the Google Form's response
// spreadsheet through the Sheets API.
package sheet

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/sheets/v4"

	"github.com/cots-conf/proposal-filer/internal/models"
)

// Column headers as the form writes them. The form has an individual section
// and a roundtable section that both emit an "Abstract" column, so that
// header appears twice and is looked up by occurrence.
const (
	colTimestamp           = "Timestamp"
	colEmail               = "Email address"
	colFirstName           = "First name"
	colLastName            = "Last name"
	colAffiliation         = "Affiliation"
	colProposalType        = "What proposal are you planning to submit"
	colAbstract            = "Abstract"
	colPanelTopic          = "Topic of the panel"
	colPanelists           = "Names of the panelists"
	colPanelistContacts    = "Contact information of the panelists"
	colPanelAbstracts      = "Abstracts"
	colParticipants        = "Name of the participants"
	colParticipantContacts = "Contact information of the participants"
)

// requiredColumns is the schema check applied to the header row: every
// expected column must be present, and "Abstract" twice.
var requiredColumns = []struct {
	name  string
	count int
}{
	{colTimestamp, 1},
	{colEmail, 1},
	{colFirstName, 1},
	{colLastName, 1},
	{colAffiliation, 1},
	{colProposalType, 1},
	{colAbstract, 2},
	{colPanelTopic, 1},
	{colPanelists, 1},
	{colPanelistContacts, 1},
	{colPanelAbstracts, 1},
	{colParticipants, 1},
	{colParticipantContacts, 1},
}

// Source lists submission rows from one sheet of the response spreadsheet.
type Source struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
}

// NewSource returns a Source for the given spreadsheet and sheet name.
func NewSource(svc *sheets.Service, spreadsheetID, sheetName string) *Source {
	return &Source{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}
}

// Fetch reads the whole sheet and returns its data rows, in sheet order,
// numbered from 1. The first row must be the form's header row; Fetch fails
// if any expected column is missing from it.
func (s *Source) Fetch(ctx context.Context) ([]models.Proposal, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.sheetName).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q of %s: %w", s.sheetName, s.spreadsheetID, err)
	}
	return parseRows(resp.Values)
}

func parseRows(values [][]interface{}) ([]models.Proposal, error) {
	if len(values) == 0 {
		return nil, nil
	}

	cols, err := mapColumns(values[0])
	if err != nil {
		return nil, err
	}

	proposals := make([]models.Proposal, 0, len(values)-1)
	for i, row := range values[1:] {
		proposals = append(proposals, models.Proposal{
			Row:                 i + 1,
			Timestamp:           cols.value(row, colTimestamp, 0),
			Email:               cols.value(row, colEmail, 0),
			FirstName:           cols.value(row, colFirstName, 0),
			LastName:            cols.value(row, colLastName, 0),
			Affiliation:         cols.value(row, colAffiliation, 0),
			CategoryAnswer:      cols.value(row, colProposalType, 0),
			Abstract:            cols.value(row, colAbstract, 0),
			PanelTopic:          cols.value(row, colPanelTopic, 0),
			Panelists:           cols.value(row, colPanelists, 0),
			PanelistContacts:    cols.value(row, colPanelistContacts, 0),
			PanelAbstracts:      cols.value(row, colPanelAbstracts, 0),
			RoundtableAbstract:  cols.value(row, colAbstract, 1),
			Participants:        cols.value(row, colParticipants, 0),
			ParticipantContacts: cols.value(row, colParticipantContacts, 0),
		})
	}
	return proposals, nil
}

// columns locates each form question in the header row.
type columns struct {
	index map[string][]int
}

func mapColumns(header []interface{}) (*columns, error) {
	index := make(map[string][]int)
	for i, cell := range header {
		name := strings.TrimSpace(cellString(cell))
		if name == "" {
			continue
		}
		index[name] = append(index[name], i)
	}

	for _, want := range requiredColumns {
		if len(index[want.name]) < want.count {
			return nil, fmt.Errorf("response sheet is missing column %q", want.name)
		}
	}
	return &columns{index: index}, nil
}

// value returns the trimmed cell under the given header occurrence, or ""
// when the row is too short: the Sheets API omits trailing empty cells.
func (c *columns) value(row []interface{}, name string, occurrence int) string {
	positions := c.index[name]
	if occurrence >= len(positions) {
		return ""
	}
	i := positions[occurrence]
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(cellString(row[i]))
}

func cellString(cell interface{}) string {
	if cell == nil {
		return ""
	}
	if s, ok := cell.(string); ok {
		return s
	}
	return fmt.Sprint(cell)
}
