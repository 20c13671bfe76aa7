// Package render: PDF renderer.
// Produces a printable town handout with gofpdf: every building grouped by
// category, each occupant with name, profession, and measurements.
// The map grid is not drawn.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gaurav-prasanna/townpipe/core"
	"github.com/gaurav-prasanna/townpipe/core/markup"
	"github.com/jung-kurt/gofpdf"
)

// PDFRenderer renders a town as a PDF handout.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render lays out res as an A4 document.
func (r *PDFRenderer) Render(res *core.Result) ([]byte, error) {
	if res == nil || res.City == nil {
		return nil, fmt.Errorf("nothing to render")
	}
	city := res.City

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetTitle(city.Title, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	title := city.Title
	if title == "" {
		title = "Untitled town"
	}
	pdf.SetFont("Helvetica", "B", 20)
	pdf.MultiCell(0, 9, tr(title), "", "L", false)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.MultiCell(0, 5, fmt.Sprintf("%d buildings, %d inhabitants", len(city.Buildings), len(city.NPCs)), "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	if ruler, ok := res.Part(core.SectionRuler); ok {
		renderHeading(pdf, "Ruler", 2)
		paragraph(pdf, tr(plainText(ruler)))
	}

	for _, cat := range core.Categories {
		first := true
		for _, b := range city.Buildings {
			if b.Category != cat {
				continue
			}
			if first {
				renderHeading(pdf, categoryTitles[cat], 2)
				first = false
			}
			renderBuilding(pdf, tr, city, b)
		}
	}

	if len(city.Unplaced) > 0 {
		renderHeading(pdf, "Unplaced", 2)
		for _, u := range city.Unplaced {
			paragraph(pdf, "- "+tr(plainText(u)))
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

func renderBuilding(pdf *gofpdf.Fpdf, tr func(string) string, city *core.City, b *core.Building) {
	renderHeading(pdf, tr(b.DisplayTitle()), 3)
	if len(b.NPCs) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 5, "No occupants.", "", "L", false)
		return
	}
	for _, id := range b.NPCs {
		n := city.NPC(id)
		if n == nil {
			continue
		}
		pdf.SetFont("Helvetica", "B", 10)
		name := n.Name
		if n.Profession != "" {
			name += ", " + n.Profession
			if n.ProfessionInfo != "" {
				name += " [" + n.ProfessionInfo + "]"
			}
		}
		pdf.MultiCell(0, 5, tr(name), "", "L", false)

		pdf.SetFont("Helvetica", "", 9)
		lines := []string{fmt.Sprintf("Height %d cm, weight %d kg", n.Height, n.Weight)}
		if d := plainText(n.Description); d != "" {
			lines = append(lines, d)
		}
		if len(n.Clothing) > 0 {
			lines = append(lines, "Wearing: "+strings.Join(n.Clothing, ", "))
		}
		if len(n.Possessions) > 0 {
			lines = append(lines, "Possessions: "+strings.Join(n.Possessions, ", "))
		}
		for _, l := range lines {
			pdf.MultiCell(0, 4.5, tr(l), "", "L", false)
		}
		pdf.Ln(2)
	}
}

// renderHeading sets the font size based on heading level and writes text.
func renderHeading(pdf *gofpdf.Fpdf, text string, level int) {
	sizes := map[int]float64{1: 18, 2: 15, 3: 12}
	size, ok := sizes[level]
	if !ok {
		size = 10
	}
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", size)
	pdf.MultiCell(0, size*0.6, text, "", "L", false)
	pdf.Ln(1)
}

func paragraph(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, text, "", "L", false)
}

// plainText returns the collapsed text content of an HTML fragment.
func plainText(fragment string) string {
	doc, err := markup.Parse(fragment)
	if err != nil {
		return fragment
	}
	return strings.Join(strings.Fields(markup.Body(doc).Text()), " ")
}
