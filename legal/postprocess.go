package legal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"hukuk-asistani/models"
)

var (
	jsonBlockPattern     = regexp.MustCompile("(?s)```(?i:json)\\s*(\\{.*?\\})\\s*```")
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)

	emphasisPattern     = regexp.MustCompile(`[*_]`)
	doubledQuotePattern = regexp.MustCompile(`"{2,}`)
	sayiliCasePattern   = regexp.MustCompile(`(\d{3,5})(\s+)Sayılı`)
	lawPhrasePattern    = regexp.MustCompile(`\d{3,5} sayılı [^\n]{1,150}?Kanunu`)
	blankLinesPattern   = regexp.MustCompile(`\n{3,}`)
)

// flexString decodes JSON strings, numbers and null into a string.
// Models often emit "number": 4857.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = flexString(n.String())
	return nil
}

type jsonReference struct {
	Number  flexString `json:"number"`
	Name    flexString `json:"name"`
	Code    flexString `json:"code"`
	Article flexString `json:"article"`
	Text    flexString `json:"text"`
}

type jsonReferenceBlock struct {
	LegalReferences *[]jsonReference `json:"legalReferences"`
}

// PostProcessor turns a raw model reply into a StructuredAnswer
type PostProcessor struct {
	registry  *LawRegistry
	extractor *Extractor
}

func NewPostProcessor(registry *LawRegistry, extractor *Extractor) *PostProcessor {
	return &PostProcessor{registry: registry, extractor: extractor}
}

// Process prefers the fenced JSON reference block of raw and falls back to
// pattern extraction when the block is missing, malformed or empty.
func (p *PostProcessor) Process(raw string) models.StructuredAnswer {
	text := raw
	refs, loc, ok := p.parseReferenceBlock(raw)
	if ok {
		text = raw[:loc[0]] + raw[loc[1]:]
	}

	source := models.SourceJSON
	if len(refs) == 0 {
		refs = p.upgradeExtracted(p.extractor.Extract(text))
		source = models.SourceExtracted
	}
	refs = dedupeByKey(refs)
	if len(refs) == 0 {
		source = models.SourceNone
	}

	return models.StructuredAnswer{
		CleanedText:     CleanText(text),
		LegalReferences: refs,
		ReferenceSource: source,
	}
}

// parseReferenceBlock returns the references of the last fenced JSON block
// that decodes and carries a legalReferences field, plus that block's span.
func (p *PostProcessor) parseReferenceBlock(raw string) ([]models.LegalReference, []int, bool) {
	blocks := jsonBlockPattern.FindAllStringSubmatchIndex(raw, -1)
	for i := len(blocks) - 1; i >= 0; i-- {
		loc := blocks[i]
		body := trailingCommaPattern.ReplaceAllString(raw[loc[2]:loc[3]], "$1")

		var block jsonReferenceBlock
		if err := json.Unmarshal([]byte(body), &block); err != nil || block.LegalReferences == nil {
			continue
		}
		refs := make([]models.LegalReference, 0, len(*block.LegalReferences))
		for _, jr := range *block.LegalReferences {
			if ref, ok := p.normalize(jr); ok {
				refs = append(refs, ref)
			}
		}
		return refs, loc[:2], true
	}
	return nil, nil, false
}

// normalize fills what the model left out from the registry and builds the
// canonical text and link.
func (p *PostProcessor) normalize(jr jsonReference) (models.LegalReference, bool) {
	ref := models.LegalReference{
		Number:  string(jr.Number),
		Name:    collapseSpaces(stripEmphasis(string(jr.Name))),
		Code:    string(jr.Code),
		Article: string(jr.Article),
		Text:    collapseSpaces(stripEmphasis(string(jr.Text))),
		Kind:    models.KindStatute,
	}
	if ref.Code != "" {
		if law, ok := p.registry.Resolve(ref.Code); ok {
			ref.Code = law.Code
			if ref.Number == "" {
				ref.Number = law.Number
			}
			if ref.Name == "" {
				ref.Name = law.Name
			}
		}
	}
	if ref.Name == "" && ref.Number != "" {
		if law, ok := p.registry.LookupNumber(ref.Number); ok {
			ref.Name = law.Name
		}
	}
	if ref.Text == "" {
		ref.Text = canonicalText(ref)
	}
	if ref.Text == "" {
		return ref, false
	}
	ref.URL = MevzuatURL(ref.Number, ref.Article)
	return ref, true
}

func canonicalText(ref models.LegalReference) string {
	switch {
	case ref.Number != "" && ref.Name != "" && ref.Article != "":
		return fmt.Sprintf("%s sayılı %s Madde %s", ref.Number, ref.Name, ref.Article)
	case ref.Code != "" && ref.Article != "":
		return fmt.Sprintf("%s Madde %s", ref.Code, ref.Article)
	case ref.Number != "" && ref.Name != "":
		return fmt.Sprintf("%s sayılı %s", ref.Number, ref.Name)
	}
	return ""
}

// upgradeExtracted keeps only extracted references that can be linked: an
// article of a registry code, or an article of a numbered, named law.
func (p *PostProcessor) upgradeExtracted(refs []models.LegalReference) []models.LegalReference {
	out := make([]models.LegalReference, 0, len(refs))
	for _, r := range refs {
		if r.Kind == models.KindCourt || r.Article == "" {
			continue
		}
		if r.Code != "" {
			law, ok := p.registry.Resolve(r.Code)
			if !ok {
				continue
			}
			r.Code, r.Number, r.Name = law.Code, law.Number, law.Name
		} else if r.Number == "" || r.Name == "" {
			continue
		}
		r.URL = MevzuatURL(r.Number, r.Article)
		out = append(out, r)
	}
	return out
}

func dedupeByKey(refs []models.LegalReference) []models.LegalReference {
	seen := make(map[string]bool, len(refs))
	out := make([]models.LegalReference, 0, len(refs))
	for _, r := range refs {
		if seen[r.Key()] {
			continue
		}
		seen[r.Key()] = true
		out = append(out, r)
	}
	return out
}

func stripEmphasis(s string) string {
	return doubledQuotePattern.ReplaceAllString(emphasisPattern.ReplaceAllString(s, ""), "")
}

// CleanText strips emphasis markup and doubled quotes, normalizes "Sayılı"
// and collapses immediately repeated law names. It is idempotent.
func CleanText(text string) string {
	for i := 0; i < 4; i++ {
		next := cleanOnce(text)
		if next == text {
			break
		}
		text = next
	}
	return text
}

func cleanOnce(text string) string {
	text = stripEmphasis(text)
	text = sayiliCasePattern.ReplaceAllString(text, "${1}${2}sayılı")
	text = collapseRepeatedLaws(text)
	text = blankLinesPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// collapseRepeatedLaws rewrites "4857 sayılı İş Kanunu 4857 sayılı İş Kanunu"
// to a single mention.
func collapseRepeatedLaws(text string) string {
	var b strings.Builder
	pos := 0
	for pos < len(text) {
		loc := lawPhrasePattern.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		phrase := text[start:end]
		b.WriteString(text[pos:end])
		for {
			next := end
			for next < len(text) && (text[next] == ' ' || text[next] == '\t') {
				next++
			}
			if !strings.HasPrefix(text[next:], phrase) {
				break
			}
			end = next + len(phrase)
		}
		pos = end
	}
	b.WriteString(text[pos:])
	return b.String()
}
