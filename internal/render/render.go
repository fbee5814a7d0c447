// Package render turns a submitted proposal into the document payload that
// gets uploaded to Drive: a file name plus an HTML body. Drive converts the
// HTML into a Google Doc, so formatting is plain semantic markup.
package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/cots-conf/proposal-filer/internal/models"
)

var docTemplate = template.Must(template.New("proposal").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: Arial, sans-serif;">
<h1>{{.Heading}}</h1>
<p><b>Submitted by:</b> {{.Submitter}} <b>At:</b> {{.Timestamp}}</p>
<p><b>Affiliation:</b> {{.Affiliation}}</p>
{{range .Sections}}<h2>{{.Heading}}</h2>
<p style="white-space: pre-wrap;">{{.Body}}</p>
{{end}}</body>
</html>
`))

type section struct {
	Heading string
	Body    string
}

type templateData struct {
	Heading     string
	Submitter   string
	Timestamp   string
	Affiliation string
	Sections    []section
}

// Build renders the payload for one proposal. It fails on rows that carry no
// submitter identity (nothing to name the document after) and on categories
// without a layout; the caller is expected to have skipped unknown
// categories already.
func Build(p models.Proposal) (models.Document, error) {
	category := p.Category()
	if category == models.CategoryUnknown {
		return models.Document{}, fmt.Errorf("category %q has no document layout", p.CategoryAnswer)
	}
	if !p.HasSubmitter() {
		return models.Document{}, fmt.Errorf("proposal has no submitter name or email")
	}

	data := templateData{
		Heading:     category.Heading(),
		Submitter:   submitter(p),
		Timestamp:   p.Timestamp,
		Affiliation: p.Affiliation,
		Sections:    sectionsFor(category, p),
	}

	var buf bytes.Buffer
	if err := docTemplate.Execute(&buf, data); err != nil {
		return models.Document{}, fmt.Errorf("failed to render document: %w", err)
	}

	return models.Document{
		Name: docName(p, category),
		HTML: buf.String(),
	}, nil
}

// docName builds the Drive file name, "Full Name (id-7 type-panel)". The row
// index keeps re-submissions tellable apart in the folder listing.
func docName(p models.Proposal, category models.Category) string {
	base := p.FullName()
	if base == "" {
		base = p.Email
	}
	return fmt.Sprintf("%s (id-%d type-%s)", base, p.Row, category)
}

func submitter(p models.Proposal) string {
	name := p.FullName()
	switch {
	case name == "":
		return p.Email
	case p.Email == "":
		return name
	}
	return fmt.Sprintf("%s (%s)", name, p.Email)
}

func sectionsFor(category models.Category, p models.Proposal) []section {
	switch category {
	case models.CategoryIndividual:
		return []section{
			{"Abstract", p.Abstract},
		}
	case models.CategoryPanel:
		return []section{
			{"Topic", p.PanelTopic},
			{"Panelists", p.Panelists},
			{"Emails", p.PanelistContacts},
			{"Abstracts", p.PanelAbstracts},
		}
	case models.CategoryRoundtable:
		return []section{
			{"Abstract", p.RoundtableAbstract},
			{"Participants", p.Participants},
			{"Emails", p.ParticipantContacts},
		}
	}
	return nil
}
