package render

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"hukuk-asistani/models"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	pageMargin   = 20.0
	bodyFontSize = 12.0
	lineHeight   = 6.0
	utf8Family   = "petition"
	coreFamily   = "Times"
	footerRule   = 0.2
	signatureLen = 50.0
)

var turkishMonths = [...]string{
	"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran",
	"Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık",
}

// FormatTurkishDate renders t as "14 Ekim 2026"
func FormatTurkishDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), turkishMonths[t.Month()-1], t.Year())
}

// cp1252 has no glyphs for these
var cp1252Fallback = strings.NewReplacer(
	"ğ", "g", "Ğ", "G",
	"ı", "i", "İ", "I",
	"ş", "s", "Ş", "S",
)

// PetitionRenderer lays out petitions on A4 pages
type PetitionRenderer struct {
	fontPath string
	now      func() time.Time
}

type RendererOption func(*PetitionRenderer)

// WithFont embeds a UTF-8 TrueType font for full Turkish coverage.
// The file is assumed to carry regular and bold glyphs.
func WithFont(path string) RendererOption {
	return func(r *PetitionRenderer) {
		r.fontPath = path
	}
}

// WithClock overrides the date printed on petitions
func WithClock(now func() time.Time) RendererOption {
	return func(r *PetitionRenderer) {
		r.now = now
	}
}

func NewPetitionRenderer(opts ...RendererOption) *PetitionRenderer {
	r := &PetitionRenderer{now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render returns the PDF for content addressed from user to receiver
func (r *PetitionRenderer) Render(content string, user models.UserDetails, receiver models.Receiver) ([]byte, error) {
	fontDir, fontFile := "", ""
	if r.fontPath != "" {
		fontDir, fontFile = filepath.Split(r.fontPath)
	}
	pdf := fpdf.New("P", "mm", "A4", fontDir)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)

	family := coreFamily
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(s string) string { return tr(cp1252Fallback.Replace(s)) }
	if r.fontPath != "" {
		pdf.AddUTF8Font(utf8Family, "", fontFile)
		pdf.AddUTF8Font(utf8Family, "B", fontFile)
		family = utf8Family
		text = func(s string) string { return s }
	}
	upper := cases.Upper(language.Turkish)

	pdf.AddPage()
	width, _ := pdf.GetPageSize()
	usable := width - 2*pageMargin
	date := FormatTurkishDate(r.now())

	pdf.SetFont(family, "", bodyFontSize)
	pdf.CellFormat(usable, lineHeight, text(date), "", 1, "R", false, 0, "")
	pdf.Ln(lineHeight * 2)

	pdf.SetFont(family, "B", bodyFontSize+2)
	pdf.CellFormat(usable, lineHeight+1, text(upper.String(receiver.Name)), "", 1, "C", false, 0, "")
	if receiver.Department != "" {
		pdf.CellFormat(usable, lineHeight+1, text(upper.String(receiver.Department)), "", 1, "C", false, 0, "")
	}
	pdf.Ln(lineHeight * 2)

	subject := user.Subject
	if subject == "" {
		subject = "Dilekçe"
	}
	pdf.SetFont(family, "B", bodyFontSize)
	pdf.CellFormat(usable, lineHeight, text("KONU: "+subject), "", 1, "L", false, 0, "")
	pdf.Ln(lineHeight)

	pdf.SetFont(family, "", bodyFontSize)
	for _, p := range Paragraphs(content) {
		pdf.MultiCell(usable, lineHeight, text(p), "", "J", false)
		pdf.Ln(lineHeight / 2)
	}
	pdf.Ln(lineHeight)

	pdf.CellFormat(usable, lineHeight, text("Saygılarımla,"), "", 1, "R", false, 0, "")
	pdf.SetFont(family, "B", bodyFontSize)
	pdf.CellFormat(usable, lineHeight, text(user.Name), "", 1, "R", false, 0, "")
	pdf.Ln(lineHeight * 2)

	r.footer(pdf, family, text, usable, user, date)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render petition pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PetitionRenderer) footer(pdf *fpdf.Fpdf, family string, text func(string) string, usable float64, user models.UserDetails, date string) {
	half := usable / 2
	top := pdf.GetY()
	pdf.SetLineWidth(footerRule)
	pdf.Line(pageMargin, top, pageMargin+usable, top)
	pdf.Ln(lineHeight / 2)

	fields := [][2]string{{"Adres:", user.Address}}
	if user.Phone != "" {
		fields = append(fields, [2]string{"Telefon:", user.Phone})
	}
	if user.Email != "" {
		fields = append(fields, [2]string{"E-posta:", user.Email})
	}
	if user.TCNo != "" {
		fields = append(fields, [2]string{"T.C. Kimlik No:", user.TCNo})
	}

	start := pdf.GetY()
	for _, f := range fields {
		pdf.SetFont(family, "B", bodyFontSize-2)
		label := text(f[0]) + " "
		lw := pdf.GetStringWidth(label)
		pdf.CellFormat(lw, lineHeight-1, label, "", 0, "L", false, 0, "")
		pdf.SetFont(family, "", bodyFontSize-2)
		pdf.MultiCell(half-lw, lineHeight-1, text(f[1]), "", "L", false)
	}
	end := pdf.GetY()

	pdf.SetXY(pageMargin+half, start)
	pdf.SetFont(family, "B", bodyFontSize-2)
	pdf.CellFormat(half, lineHeight-1, text("Tarih: ")+text(date), "", 2, "R", false, 0, "")
	pdf.CellFormat(half-signatureLen, lineHeight-1, text("İmza:"), "", 0, "R", false, 0, "")
	y := pdf.GetY() + lineHeight - 2
	pdf.Line(pageMargin+usable-signatureLen+2, y, pageMargin+usable, y)

	if end > pdf.GetY() {
		pdf.SetY(end)
	}
}

// Paragraphs splits petition text into its non-empty trimmed lines
func Paragraphs(content string) []string {
	var out []string
	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
