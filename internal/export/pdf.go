package export

import (
	"fmt"
	"io"
	"math"
	"os"

	"SceneBoard/internal/render"
	"SceneBoard/internal/state"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageWidth  = 210.0 // A4, mm
	pageHeight = 297.0
	margin     = 10.0
	// one screen pixel at 96 dpi, in mm; drawings are never enlarged past this
	pxToMM = 25.4 / 96
	mmToPt = 72 / 25.4
)

// PageTransform fits the scene onto an A4 page inside the margins.
func PageTransform(elements []state.Element) render.Transform {
	b, ok := state.SceneBounds(elements)
	if !ok {
		return render.Transform{PanX: margin, PanY: margin, Zoom: pxToMM}
	}
	scale := pxToMM
	if w := b.Width(); w > 0 {
		scale = math.Min(scale, (pageWidth-2*margin)/w)
	}
	if h := b.Height(); h > 0 {
		scale = math.Min(scale, (pageHeight-2*margin)/h)
	}
	return render.Transform{
		PanX: margin - b.MinX*scale,
		PanY: margin - b.MinY*scale,
		Zoom: scale,
	}
}

// pdfRenderer paints frames onto a gofpdf document.
type pdfRenderer struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func newPDFRenderer() *pdfRenderer {
	p := gofpdf.New("P", "mm", "A4", "")
	p.SetLineCapStyle("round")
	p.SetLineJoinStyle("round")
	p.AddPage()
	return &pdfRenderer{pdf: p, tr: p.UnicodeTranslatorFromDescriptor("")}
}

func (r *pdfRenderer) Render(f render.Frame) error {
	for _, s := range f.Shapes {
		r.shape(s)
	}
	return r.pdf.Error()
}

func (r *pdfRenderer) shape(s render.Shape) {
	p := r.pdf
	c, err := render.ParseColor(s.Color)
	if err != nil {
		logger.Debugf("element %s: %v", s.ElementID, err)
	}
	p.SetDrawColor(int(c.R), int(c.G), int(c.B))
	p.SetFillColor(int(c.R), int(c.G), int(c.B))
	p.SetTextColor(int(c.R), int(c.G), int(c.B))
	p.SetLineWidth(s.Width)

	switch s.Kind {
	case render.ShapePolyline:
		if len(s.Points) == 1 {
			p.Circle(s.Points[0].X, s.Points[0].Y, s.Width/2, "F")
			return
		}
		for i := 1; i < len(s.Points); i++ {
			p.Line(s.Points[i-1].X, s.Points[i-1].Y, s.Points[i].X, s.Points[i].Y)
		}
	case render.ShapeRect:
		a, b := s.Points[0], s.Points[1]
		p.Rect(math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Abs(b.X-a.X), math.Abs(b.Y-a.Y), "D")
	case render.ShapeCircle:
		p.Circle(s.Points[0].X, s.Points[0].Y, s.Radius, "D")
	case render.ShapeSegment:
		p.Line(s.Points[0].X, s.Points[0].Y, s.Points[1].X, s.Points[1].Y)
	case render.ShapeText:
		p.SetFont("Helvetica", "", s.FontSize*mmToPt)
		p.Text(s.Points[0].X, s.Points[0].Y, r.tr(s.Text))
	}
}

// WritePDF renders the scene onto a single A4 page.
func WritePDF(w io.Writer, elements []state.Element) error {
	r := newPDFRenderer()
	frame := render.BuildFrame(elements, nil, PageTransform(elements), render.Options{})
	if err := r.Render(frame); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	if err := r.pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	logger.Infof("exported %d element(s) to PDF", len(frame.Shapes))
	return nil
}

func WritePDFFile(path string, elements []state.Element) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePDF(f, elements); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
