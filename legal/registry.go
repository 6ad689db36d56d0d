package legal

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Law is a Turkish statute known by one or more abbreviations
type Law struct {
	Code    string
	Aliases []string
	Number  string
	Name    string
}

// LawRegistry resolves statute abbreviations and numbers to canonical laws.
// It is immutable once built and safe for concurrent use.
type LawRegistry struct {
	byCode   map[string]Law
	byNumber map[string]Law
	codes    []string
}

// NewLawRegistry indexes laws by every spelling of their abbreviation.
// The first law registered for a number wins number lookups.
func NewLawRegistry(laws []Law) *LawRegistry {
	r := &LawRegistry{
		byCode:   make(map[string]Law),
		byNumber: make(map[string]Law),
	}
	seen := make(map[string]bool)
	for _, law := range laws {
		for _, code := range append([]string{law.Code}, law.Aliases...) {
			r.byCode[foldCode(code)] = law
			if !seen[code] {
				seen[code] = true
				r.codes = append(r.codes, code)
			}
		}
		if _, ok := r.byNumber[law.Number]; !ok {
			r.byNumber[law.Number] = law
		}
	}
	sort.SliceStable(r.codes, func(i, j int) bool {
		return utf8.RuneCountInString(r.codes[i]) > utf8.RuneCountInString(r.codes[j])
	})
	return r
}

// DefaultLawRegistry returns the registry of statutes cited by the assistant
func DefaultLawRegistry() *LawRegistry {
	return NewLawRegistry(defaultLaws)
}

var defaultLaws = []Law{
	{Code: "TMK", Number: "4721", Name: "Türk Medeni Kanunu"},
	{Code: "TBK", Number: "6098", Name: "Türk Borçlar Kanunu"},
	{Code: "HMK", Number: "6100", Name: "Hukuk Muhakemeleri Kanunu"},
	{Code: "İYUK", Aliases: []string{"IYUK"}, Number: "2577", Name: "İdari Yargılama Usulü Kanunu"},
	{Code: "TTK", Number: "6102", Name: "Türk Ticaret Kanunu"},
	{Code: "TKHK", Number: "6502", Name: "Tüketicinin Korunması Hakkında Kanun"},
	{Code: "TCK", Number: "5237", Name: "Türk Ceza Kanunu"},
	{Code: "CMK", Number: "5271", Name: "Ceza Muhakemesi Kanunu"},
	{Code: "İİK", Aliases: []string{"IIK"}, Number: "2004", Name: "İcra ve İflas Kanunu"},
	{Code: "VUK", Number: "213", Name: "Vergi Usul Kanunu"},
	{Code: "SGK", Number: "5510", Name: "Sosyal Sigortalar ve Genel Sağlık Sigortası Kanunu"},
	{Code: "KVKK", Number: "6698", Name: "Kişisel Verilerin Korunması Kanunu"},
	{Code: "SPK", Number: "6362", Name: "Sermaye Piyasası Kanunu"},
	{Code: "BTK", Number: "5809", Name: "Elektronik Haberleşme Kanunu"},
	{Code: "ÇK", Number: "4857", Name: "Çalışma Kanunu"},
	{Code: "FSEK", Number: "5846", Name: "Fikir ve Sanat Eserleri Kanunu"},
	{Code: "SK", Number: "7166", Name: "Sosyal Hizmetler Kanunu"},
	{Code: "KVK", Number: "5520", Name: "Kurumlar Vergisi Kanunu"},
	{Code: "GVK", Number: "193", Name: "Gelir Vergisi Kanunu"},
	{Code: "ASK", Number: "5718", Name: "Milletlerarası Özel Hukuk ve Usul Hukuku Hakkında Kanun"},
	{Code: "AK", Number: "2709", Name: "Türkiye Cumhuriyeti Anayasası"},
	{Code: "HUMK", Number: "1086", Name: "Hukuk Usulü Muhakemeleri Kanunu"},
}

// Resolve looks up an abbreviation, ignoring case and the İ/I distinction
func (r *LawRegistry) Resolve(code string) (Law, bool) {
	law, ok := r.byCode[foldCode(code)]
	return law, ok
}

// LookupNumber finds a law by its sequence number
func (r *LawRegistry) LookupNumber(number string) (Law, bool) {
	law, ok := r.byNumber[number]
	return law, ok
}

// Codes lists every registered spelling, longest first, for building patterns
func (r *LawRegistry) Codes() []string {
	out := make([]string, len(r.codes))
	copy(out, r.codes)
	return out
}

// Len returns the number of distinct spellings in the registry
func (r *LawRegistry) Len() int {
	return len(r.codes)
}

// MevzuatURL deep-links an article on mevzuat.gov.tr. It returns "" unless
// both number and article are set.
func MevzuatURL(number, article string) string {
	if number == "" || article == "" {
		return ""
	}
	return fmt.Sprintf("https://www.mevzuat.gov.tr/mevzuat?MevzuatNo=%s&MevzuatTur=1&MevzuatTertip=5#MADDE_%s", number, article)
}
