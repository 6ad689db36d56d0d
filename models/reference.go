package models

// ReferenceKind separates statute citations from court decisions
type ReferenceKind string

const (
	KindStatute ReferenceKind = "statute"
	KindCourt   ReferenceKind = "court"
)

// ReferenceTier ranks extracted citations, lower is more specific
type ReferenceTier int

const (
	TierFullLawArticle ReferenceTier = 1
	TierCodeArticle    ReferenceTier = 2
	TierBareLaw        ReferenceTier = 3
	TierBareArticle    ReferenceTier = 4
	// TierCourt is never sorted against statutes; court decisions trail the list.
	TierCourt ReferenceTier = 5
)

// LegalReference is a normalized citation to a Turkish statute article,
// a whole statute, or a court decision.
type LegalReference struct {
	Number  string        `json:"number,omitempty"`
	Name    string        `json:"name,omitempty"`
	Code    string        `json:"code,omitempty"`
	Article string        `json:"article,omitempty"`
	Text    string        `json:"text"`
	URL     string        `json:"url,omitempty"`
	Kind    ReferenceKind `json:"kind,omitempty"`

	// Court decision fields
	Court    string `json:"court,omitempty"`
	Chamber  string `json:"chamber,omitempty"`
	Decision string `json:"decision,omitempty"`

	Tier ReferenceTier `json:"-"`
}

// Key returns the identity of the reference: code (or number) and article.
// Court decisions are keyed by their text so distinct decisions never collide.
func (r LegalReference) Key() string {
	if r.Kind == KindCourt {
		return "court_" + r.Text
	}
	id := r.Code
	if id == "" {
		id = r.Number
	}
	return id + "_" + r.Article
}

// IsStructured reports whether the reference can be rendered as a statute link
func (r LegalReference) IsStructured() bool {
	return r.Kind != KindCourt && r.Article != "" && r.Number != ""
}

// ReferenceSource records where a StructuredAnswer's references came from
type ReferenceSource string

const (
	SourceJSON      ReferenceSource = "json"
	SourceExtracted ReferenceSource = "extracted"
	SourceNone      ReferenceSource = "none"
)

// StructuredAnswer is the post-processed model reply returned to the chat UI
type StructuredAnswer struct {
	CleanedText     string           `json:"text"`
	LegalReferences []LegalReference `json:"legalReferences"`
	Error           bool             `json:"error,omitempty"`

	ReferenceSource ReferenceSource `json:"-"`
}
