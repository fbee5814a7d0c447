package models

import "strings"

// Category classifies a proposal and decides which Drive folder receives the
// generated document.
type Category string

const (
	CategoryIndividual Category = "individual"
	CategoryPanel      Category = "panel"
	CategoryRoundtable Category = "roundtable"
	CategoryUnknown    Category = "unknown"
)

// formAnswers maps the submission form's answer strings to categories. The
// strings must match the live form verbatim, typos included.
var formAnswers = map[string]Category{
	"A proposal for an individual paper, film screening or other presentationtation": CategoryIndividual,
	"A proposal for a paper panel": CategoryPanel,
	"A proposal for a routable":    CategoryRoundtable,
}

// ParseCategory resolves a form answer to a Category. Answers not present in
// the table resolve to CategoryUnknown; rows with an unknown category are
// skipped rather than routed.
func ParseCategory(answer string) Category {
	if c, ok := formAnswers[strings.TrimSpace(answer)]; ok {
		return c
	}
	return CategoryUnknown
}

// Heading returns the document heading used for this category.
func (c Category) Heading() string {
	switch c {
	case CategoryIndividual:
		return "Individual/Film/Other"
	case CategoryPanel:
		return "Panel"
	case CategoryRoundtable:
		return "Roundtable"
	}
	return ""
}

// Proposal is one submitted row of the response sheet, with fields named
// after the form questions. Row is the 1-based index of the data row (the
// header row is not counted). A Proposal is immutable once read.
type Proposal struct {
	Row            int
	Timestamp      string
	Email          string
	FirstName      string
	LastName       string
	Affiliation    string
	CategoryAnswer string

	// Individual proposals.
	Abstract string

	// Panel proposals.
	PanelTopic       string
	Panelists        string
	PanelistContacts string
	PanelAbstracts   string

	// Roundtable proposals.
	RoundtableAbstract  string
	Participants        string
	ParticipantContacts string
}

// Category derives the proposal's category from its form answer.
func (p Proposal) Category() Category {
	return ParseCategory(p.CategoryAnswer)
}

// FullName joins the submitter's first and last name.
func (p Proposal) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

// HasSubmitter reports whether the row identifies who submitted it. A row
// with no name and no email cannot be turned into a document.
func (p Proposal) HasSubmitter() bool {
	return p.FullName() != "" || strings.TrimSpace(p.Email) != ""
}

// Document is the rendered payload for one proposal: the Drive file name and
// an HTML body that Drive converts into a Google Doc on upload.
type Document struct {
	Name string
	HTML string
}
