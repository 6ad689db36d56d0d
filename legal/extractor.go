package legal

import (
	"sort"

	"hukuk-asistani/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Extractor runs an ordered list of statute matchers plus a court matcher over
// text. Earlier matchers claim their spans first; a later candidate that
// overlaps a claimed span is dropped.
type Extractor struct {
	statutes []Matcher
	courts   Matcher
}

// NewExtractor builds the default cascade, most specific form first
func NewExtractor(registry *LawRegistry) *Extractor {
	return NewExtractorWith(
		[]Matcher{
			newFullLawMatcher(),
			newCodeArticleMatcher(registry),
			newBareLawMatcher(registry),
			newBareCodeMatcher(registry),
			newBareArticleMatcher(registry),
		},
		newCourtDecisionMatcher(),
	)
}

// NewExtractorWith composes custom matchers. Claim order is slice order.
func NewExtractorWith(statutes []Matcher, courts Matcher) *Extractor {
	return &Extractor{statutes: statutes, courts: courts}
}

// Extract returns the deduplicated, ranked references found in text.
// Statutes come first ordered by tier then Turkish alphabetical order;
// court decisions follow in discovery order. The result is never nil.
func (e *Extractor) Extract(text string) []models.LegalReference {
	statutes := dedupe(claim(text, e.statutes))
	sortByTier(statutes)

	refs := make([]models.LegalReference, 0, len(statutes))
	refs = append(refs, statutes...)
	if e.courts != nil {
		refs = append(refs, dedupe(claim(text, []Matcher{e.courts}))...)
	}
	return refs
}

// Texts returns the display strings of Extract
func (e *Extractor) Texts(text string) []string {
	refs := e.Extract(text)
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.Text
	}
	return out
}

func claim(text string, matchers []Matcher) []models.LegalReference {
	var claimed []Span
	refs := []models.LegalReference{}
	for _, m := range matchers {
		spans := m.Match(text)
		sort.SliceStable(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
		for _, s := range spans {
			if overlapsAny(s, claimed) {
				continue
			}
			claimed = append(claimed, s)
			refs = append(refs, s.Reference)
		}
	}
	return refs
}

func overlapsAny(s Span, claimed []Span) bool {
	for _, c := range claimed {
		if s.overlaps(c) {
			return true
		}
	}
	return false
}

// dedupe keeps the first reference per normalized text and per identity key
func dedupe(refs []models.LegalReference) []models.LegalReference {
	seenText := make(map[string]bool, len(refs))
	seenKey := make(map[string]bool, len(refs))
	out := make([]models.LegalReference, 0, len(refs))
	for _, r := range refs {
		text, key := normalizeKey(r.Text), r.Key()
		if seenText[text] || seenKey[key] {
			continue
		}
		seenText[text] = true
		seenKey[key] = true
		out = append(out, r)
	}
	return out
}

func sortByTier(refs []models.LegalReference) {
	c := collate.New(language.Turkish, collate.IgnoreCase)
	sort.SliceStable(refs, func(i, j int) bool {
		if refs[i].Tier != refs[j].Tier {
			return refs[i].Tier < refs[j].Tier
		}
		return c.CompareString(refs[i].Text, refs[j].Text) < 0
	})
}
