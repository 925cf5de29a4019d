// Package renderer turns reconciliation results into markdown reports.
//
// Each report is a view struct built from satsnav values, with every number
// already formatted, and rendered by a text/template assembled from the
// embedded templates directory.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var templates embed.FS

// RenderHistory renders the start of day history of an asset.
func RenderHistory(h *History) string {
	partials := map[string]string{
		"history_title": "history_title.md",
		"history_table": "history_table.md",
	}
	return renderTemplate("history", "history.md", partials, h)
}

// RenderRecap renders the per wallet summary.
func RenderRecap(r *Recap) string {
	return renderTemplate("recap", "recap.md", nil, r)
}

// RenderBalances renders every lot of every wallet.
func RenderBalances(b *Balances) string {
	return renderTemplate("balances", "balances.md", nil, b)
}

// RenderDetail renders the lot changes of one transaction.
func RenderDetail(d *Detail) string {
	partials := map[string]string{
		"detail_entries": "detail_entries.md",
		"detail_changes": "detail_changes.md",
	}
	return renderTemplate("detail", "detail.md", partials, d)
}

// RenderTrace renders the ancestry of one lot.
func RenderTrace(t *Trace) string {
	partials := map[string]string{"trace_parents": "trace_parents.md"}
	if len(t.Parents) == 0 {
		partials["trace_parents"] = ""
	}
	return renderTemplate("trace", "trace.md", partials, t)
}

// RenderDiagnostics renders the recoverable findings of a run.
// Sections without findings are skipped.
func RenderDiagnostics(d *Diagnostics) string {
	partials := map[string]string{
		"diagnostics_findings":   "diagnostics_findings.md",
		"diagnostics_mismatches": "diagnostics_mismatches.md",
	}
	if d.Clean {
		partials["diagnostics_findings"] = ""
		partials["diagnostics_mismatches"] = ""
	}
	return renderTemplate("diagnostics", "diagnostics.md", partials, d)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name results in an empty template.
		if file != "" {
			content, err = fs.ReadFile(templates, "templates/"+file)
			if err != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, err)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
