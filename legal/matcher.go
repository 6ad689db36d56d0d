package legal

import (
	"fmt"
	"regexp"
	"strings"

	"hukuk-asistani/models"
)

// Span is a candidate citation found by a Matcher, with byte offsets into
// the scanned text.
type Span struct {
	Start     int
	End       int
	Reference models.LegalReference
}

func (s Span) overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Matcher finds one surface form of legal citation. Matchers are independent;
// the Extractor decides precedence between them.
type Matcher interface {
	Name() string
	Match(text string) []Span
}

const (
	sayiliPattern  = `(?:[Ss]ay[ıi]l[ıi]|SAYILI)`
	articleKeyword = `(?:[Mm]adde(?:si)?|MADDE|[Mm]d\.?|[Mm]\.)`
)

var (
	innerLawNumber = regexp.MustCompile(`\d{3,5}\s*` + sayiliPattern)
	innerLawWord   = regexp.MustCompile(`[Kk]anunu?(?:['’][a-zçğıöşü]+)?`)
	followingMadde = regexp.MustCompile(`\s+[Mm]adde\s+\d+`)
)

// fullLawMatcher: "6098 sayılı Türk Borçlar Kanunu Madde 11"
type fullLawMatcher struct {
	re *regexp.Regexp
}

// The law name and its surrounding separators never cross a line break.
func newFullLawMatcher() *fullLawMatcher {
	return &fullLawMatcher{
		re: regexp.MustCompile(`(\d{3,5})[ \t]*` + sayiliPattern + `[ \t]+([^\n]{1,150}?)[ \t]*([Kk]anunu?)n?(?:['’][a-zçğıöşü]+)?[ \t]*` +
			articleKeyword + `[ \t]*(\d{1,3})`),
	}
}

func (m *fullLawMatcher) Name() string { return "full_law_article" }

func (m *fullLawMatcher) Match(text string) []Span {
	spans := []Span{}
	pos := 0
	for pos < len(text) {
		loc := m.re.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += pos
			}
		}
		name := text[loc[4]:loc[5]]
		// The lazy name can swallow an earlier "N sayılı X Kanunu" mention; retry from the inner number.
		if inner := innerLawNumber.FindStringIndex(name); inner != nil {
			pos = loc[4] + inner[0]
			continue
		}
		// Likewise for a bare "X Kanunu" that is not followed by an article.
		if end, ok := innerLawWordEnd(text, loc[4], loc[5]); ok {
			pos = end
			continue
		}
		if digitBefore(text, loc[2]) {
			pos = loc[2] + 1
			continue
		}
		if digitAt(text, loc[9]) {
			pos = loc[1]
			continue
		}

		number := text[loc[2]:loc[3]]
		suffix := "Kanun"
		if strings.HasSuffix(text[loc[6]:loc[7]], "u") {
			suffix = "Kanunu"
		}
		lawName := collapseSpaces(name) + " " + suffix
		article := text[loc[8]:loc[9]]
		spans = append(spans, Span{
			Start: loc[2],
			End:   loc[1],
			Reference: models.LegalReference{
				Number:  number,
				Name:    lawName,
				Article: article,
				Text:    fmt.Sprintf("%s sayılı %s Madde %s", number, lawName, article),
				URL:     MevzuatURL(number, article),
				Kind:    models.KindStatute,
				Tier:    models.TierFullLawArticle,
			},
		})
		pos = loc[1]
	}
	return spans
}

// innerLawWordEnd returns the end offset of the first standalone
// "Kanun"/"Kanunu" word inside text[start:end].
func innerLawWordEnd(text string, start, end int) (int, bool) {
	for _, w := range innerLawWord.FindAllStringIndex(text[start:end], -1) {
		s, e := start+w[0], start+w[1]
		if wordBoundaryBefore(text, s) && wordBoundaryAfter(text, e) {
			return e, true
		}
	}
	return 0, false
}

// codeArticleMatcher: "TMK Madde 123", "TCK md. 81"
type codeArticleMatcher struct {
	registry *LawRegistry
	re       *regexp.Regexp
}

func newCodeArticleMatcher(registry *LawRegistry) *codeArticleMatcher {
	return &codeArticleMatcher{
		registry: registry,
		re:       regexp.MustCompile(`(` + codeAlternation(registry) + `)\s*` + articleKeyword + `\s*(\d{1,3})`),
	}
}

func (m *codeArticleMatcher) Name() string { return "code_article" }

func (m *codeArticleMatcher) Match(text string) []Span {
	spans := []Span{}
	for _, loc := range m.re.FindAllStringSubmatchIndex(text, -1) {
		if !wordBoundaryBefore(text, loc[2]) || digitAt(text, loc[5]) {
			continue
		}
		code := text[loc[2]:loc[3]]
		article := text[loc[4]:loc[5]]
		law, resolved := m.registry.Resolve(code)
		if resolved {
			code = law.Code
		}
		ref := models.LegalReference{
			Code:    code,
			Article: article,
			Text:    fmt.Sprintf("%s Madde %s", code, article),
			Kind:    models.KindStatute,
			Tier:    models.TierCodeArticle,
		}
		if resolved {
			ref.Number = law.Number
			ref.Name = law.Name
			ref.URL = MevzuatURL(law.Number, article)
		}
		spans = append(spans, Span{Start: loc[2], End: loc[1], Reference: ref})
	}
	return spans
}

// bareLawMatcher: "4857 sayılı İş Kanunu" with no "Madde N" in the 50 runes
// starting at the number
type bareLawMatcher struct {
	registry *LawRegistry
	re       *regexp.Regexp
}

func newBareLawMatcher(registry *LawRegistry) *bareLawMatcher {
	return &bareLawMatcher{
		registry: registry,
		re: regexp.MustCompile(`(\d{3,5})\s*` + sayiliPattern +
			`[ \t]*((?:\p{L}+[ \t]+){0,12}?[Kk]anunu?|[Yy]asas[ıi]|[Yy]asa|[Tt]orba)(?:['’]?[a-zçğıöşü]+)?`),
	}
}

func (m *bareLawMatcher) Name() string { return "bare_law" }

func (m *bareLawMatcher) Match(text string) []Span {
	spans := []Span{}
	for _, loc := range m.re.FindAllStringSubmatchIndex(text, -1) {
		// Case endings ("Kanuna", "Yasaya") are absorbed by the match.
		if digitBefore(text, loc[2]) || !wordBoundaryAfter(text, loc[1]) {
			continue
		}
		if followingMadde.MatchString(after(text, loc[0], 50)) {
			continue
		}
		number := text[loc[2]:loc[3]]
		fragment := turkishTitle(collapseSpaces(text[loc[4]:loc[5]]))
		ref := models.LegalReference{
			Number: number,
			Text:   fmt.Sprintf("%s sayılı %s", number, fragment),
			Kind:   models.KindStatute,
			Tier:   models.TierBareLaw,
		}
		if isGenericLawWord(fragment) {
			if law, ok := m.registry.LookupNumber(number); ok {
				ref.Name = law.Name
			}
		} else {
			ref.Name = fragment
		}
		spans = append(spans, Span{Start: loc[2], End: loc[1], Reference: ref})
	}
	return spans
}

func isGenericLawWord(s string) bool {
	switch turkishLower(s) {
	case "kanun", "kanunu", "yasa", "yasası", "yasasi", "torba":
		return true
	}
	return false
}

// bareCodeMatcher: "TMK" standing alone
type bareCodeMatcher struct {
	registry *LawRegistry
	re       *regexp.Regexp
}

func newBareCodeMatcher(registry *LawRegistry) *bareCodeMatcher {
	return &bareCodeMatcher{
		registry: registry,
		re:       regexp.MustCompile(`(?:` + codeAlternation(registry) + `)`),
	}
}

func (m *bareCodeMatcher) Name() string { return "bare_code" }

func (m *bareCodeMatcher) Match(text string) []Span {
	spans := []Span{}
	for _, loc := range m.re.FindAllStringIndex(text, -1) {
		if !wordBoundaryBefore(text, loc[0]) || !wordBoundaryAfter(text, loc[1]) {
			continue
		}
		if followingMadde.MatchString(after(text, loc[0], 30)) {
			continue
		}
		ref := models.LegalReference{
			Code: text[loc[0]:loc[1]],
			Kind: models.KindStatute,
			Tier: models.TierBareLaw,
		}
		if law, ok := m.registry.Resolve(ref.Code); ok {
			ref.Code = law.Code
			ref.Number = law.Number
			ref.Name = law.Name
		}
		ref.Text = ref.Code
		spans = append(spans, Span{Start: loc[0], End: loc[1], Reference: ref})
	}
	return spans
}

// contextLaw is a well-known statute used to attribute a bare article
// mentioned near its name or number.
type contextLaw struct {
	markers []string
	number  string
	name    string
}

// Checked in order; the first law found in the window wins.
var contextLaws = []contextLaw{
	{markers: []string{"İdari Yargılama Usulü", "2577 sayılı"}, number: "2577", name: "İdari Yargılama Usulü Kanunu"},
	{markers: []string{"Türk Medeni", "4721 sayılı"}, number: "4721", name: "Türk Medeni Kanunu"},
	{markers: []string{"Türk Borçlar", "6098 sayılı"}, number: "6098", name: "Türk Borçlar Kanunu"},
	{markers: []string{"Türk Ceza", "5237 sayılı"}, number: "5237", name: "Türk Ceza Kanunu"},
	{markers: []string{"İş Kanunu", "4857 sayılı"}, number: "4857", name: "İş Kanunu"},
	{markers: []string{"Tüketicinin Korunması", "6502 sayılı"}, number: "6502", name: "Tüketicinin Korunması Hakkında Kanun"},
}

const (
	articleLookbehind = 100
	articleWindow     = 80
)

// bareArticleMatcher: "Madde 17", attributed to a nearby well-known statute
// when one is mentioned within articleWindow runes.
type bareArticleMatcher struct {
	re           *regexp.Regexp
	lawNumber    *regexp.Regexp
	trailingCode *regexp.Regexp
}

func newBareArticleMatcher(registry *LawRegistry) *bareArticleMatcher {
	return &bareArticleMatcher{
		re:           regexp.MustCompile(`(?:[Mm]adde|MADDE|[Mm]d\.|[Mm]\.)\s*(\d{1,3})`),
		lawNumber:    regexp.MustCompile(`\d{3,5}\s*` + sayiliPattern),
		trailingCode: regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}])(?:` + codeAlternation(registry) + `)[^\p{L}\p{N}]*$`),
	}
}

func (m *bareArticleMatcher) Name() string { return "bare_article" }

func (m *bareArticleMatcher) Match(text string) []Span {
	spans := []Span{}
	for _, loc := range m.re.FindAllStringSubmatchIndex(text, -1) {
		if !wordBoundaryBefore(text, loc[0]) || digitAt(text, loc[3]) {
			continue
		}
		prev := before(text, loc[0], articleLookbehind)
		if m.lawNumber.MatchString(prev) || m.trailingCode.MatchString(prev) {
			continue
		}
		article := text[loc[2]:loc[3]]
		ref := models.LegalReference{
			Article: article,
			Text:    "Madde " + article,
			Kind:    models.KindStatute,
			Tier:    models.TierBareArticle,
		}
		if law, ok := lawInWindow(window(text, loc[0], loc[1], articleWindow)); ok {
			ref.Number = law.number
			ref.Name = law.name
			ref.Text = fmt.Sprintf("%s sayılı %s Madde %s", law.number, law.name, article)
			ref.URL = MevzuatURL(law.number, article)
		}
		spans = append(spans, Span{Start: loc[0], End: loc[1], Reference: ref})
	}
	return spans
}

func lawInWindow(context string) (contextLaw, bool) {
	for _, law := range contextLaws {
		for _, marker := range law.markers {
			if strings.Contains(context, marker) {
				return law, true
			}
		}
	}
	return contextLaw{}, false
}

// courtDecisionMatcher: "Yargıtay 9. Hukuk Dairesi 2019/1234"
type courtDecisionMatcher struct {
	re *regexp.Regexp
}

func newCourtDecisionMatcher() *courtDecisionMatcher {
	return &courtDecisionMatcher{
		re: regexp.MustCompile(`(?i)(Yargıtay|Danıştay|Anayasa Mahkemesi|AYM|AİHM)[\s,]+` +
			`((?:\d+)\.?\s*(?:[A-Za-zÇĞİÖŞÜçğıöşü]+\.?)?\s*Daire(?:si)?|(?:(?:Hukuk|Ceza|[İi]dari|Vergi)\s+)?Genel\s+Kurul(?:u)?|Büyük\s+Daire)` +
			`[\s,]+(?:E\.\s*)?(\d+/\d+|\d+\.\d+\.\d+)`),
	}
}

func (m *courtDecisionMatcher) Name() string { return "court_decision" }

func (m *courtDecisionMatcher) Match(text string) []Span {
	spans := []Span{}
	for _, loc := range m.re.FindAllStringSubmatchIndex(text, -1) {
		if !wordBoundaryBefore(text, loc[0]) {
			continue
		}
		court := text[loc[2]:loc[3]]
		chamber := collapseSpaces(text[loc[4]:loc[5]])
		decision := text[loc[6]:loc[7]]
		spans = append(spans, Span{
			Start: loc[0],
			End:   loc[1],
			Reference: models.LegalReference{
				Text:     fmt.Sprintf("%s %s %s", court, chamber, decision),
				Kind:     models.KindCourt,
				Court:    court,
				Chamber:  chamber,
				Decision: decision,
				Tier:     models.TierCourt,
			},
		})
	}
	return spans
}

func codeAlternation(registry *LawRegistry) string {
	codes := registry.Codes()
	quoted := make([]string, len(codes))
	for i, c := range codes {
		quoted[i] = regexp.QuoteMeta(c)
	}
	return strings.Join(quoted, "|")
}
