package legal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLawRegistry_Resolve(t *testing.T) {
	reg := DefaultLawRegistry()

	tests := []struct {
		code   string
		number string
		name   string
	}{
		{"TMK", "4721", "Türk Medeni Kanunu"},
		{"tmk", "4721", "Türk Medeni Kanunu"},
		{"İYUK", "2577", "İdari Yargılama Usulü Kanunu"},
		{"IYUK", "2577", "İdari Yargılama Usulü Kanunu"},
		{"iyuk", "2577", "İdari Yargılama Usulü Kanunu"},
		{"İİK", "2004", "İcra ve İflas Kanunu"},
		{"IIK", "2004", "İcra ve İflas Kanunu"},
		{"ÇK", "4857", "Çalışma Kanunu"},
		{"çk", "4857", "Çalışma Kanunu"},
		{" VUK ", "213", "Vergi Usul Kanunu"},
		{"HUMK", "1086", "Hukuk Usulü Muhakemeleri Kanunu"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			law, ok := reg.Resolve(tt.code)
			require.True(t, ok)
			assert.Equal(t, tt.number, law.Number)
			assert.Equal(t, tt.name, law.Name)
		})
	}
}

func TestLawRegistry_Unknown(t *testing.T) {
	reg := DefaultLawRegistry()
	_, ok := reg.Resolve("XYZ")
	assert.False(t, ok)
	_, ok = reg.Resolve("")
	assert.False(t, ok)
}

func TestLawRegistry_CodesLongestFirst(t *testing.T) {
	codes := DefaultLawRegistry().Codes()
	require.NotEmpty(t, codes)
	assert.Contains(t, codes, "İYUK")
	assert.Contains(t, codes, "IYUK")

	pos := func(c string) int {
		for i, v := range codes {
			if v == c {
				return i
			}
		}
		return -1
	}
	assert.Less(t, pos("KVKK"), pos("KVK"))
	assert.Less(t, pos("ASK"), pos("AK"))
}

func TestLawRegistry_LookupNumber(t *testing.T) {
	law, ok := DefaultLawRegistry().LookupNumber("6098")
	require.True(t, ok)
	assert.Equal(t, "TBK", law.Code)
}

func TestMevzuatURL(t *testing.T) {
	assert.Equal(t,
		"https://www.mevzuat.gov.tr/mevzuat?MevzuatNo=4721&MevzuatTur=1&MevzuatTertip=5#MADDE_123",
		MevzuatURL("4721", "123"))
	assert.Empty(t, MevzuatURL("4721", ""))
	assert.Empty(t, MevzuatURL("", "5"))
}
