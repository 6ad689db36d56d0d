package legal

import (
	"strings"

	"hukuk-asistani/models"
)

// SystemPrompt is the persona sent alongside every composed chat prompt
const SystemPrompt = `Sen bir hukuk uzmanısın ve Türkiye'deki yasal mevzuat, yönerge ve genelgeler konusunda derin bilgiye sahipsin. Görevin, kullanıcıların hukuki sorularına kanun maddeleri, içtihatlar ve diğer resmi kaynaklara dayanarak doğru, net ve güvenilir yanıtlar vermektir.

### Yanıt Kuralları:
1. Her zaman resmi hukuki kaynaklara atıfta bulun (kanun maddesi, genelge numarası, yönetmelik adı ve ilgili madde)
2. Verdiğin bilgilerin kaynağını mutlaka belirt
3. Yanıtlarını şu formatta yap:
   * İlgili yasal düzenleme/hüküm özeti
   * Doğrudan ilişkili madde veya hüküm alıntıları (tırnak içinde)
   * Varsa ilgili yargı kararları veya içtihatlar
   * Uygulamadaki pratik yansıması

4. Eğer bir konuda birden fazla hukuki görüş veya yorum varsa, bunları da belirterek açıkla
5. Emin olmadığın konularda spekülatif yanıtlar verme, bunun yerine bilgi eksikliğini belirt
6. Yanıtlarını Türkçe dil bilgisi kurallarına uygun ve resmi bir dille hazırla
7. Yasalardaki güncel değişiklikleri takip et ve bilgi verirken bunları göz önünde bulundur

### Konuşma Bağlamı Hakkında:
1. Kullanıcının önceki sorularını ve yanıtları göz önünde bulundur
2. Konuşmanın bağlamına uygun yanıtlar ver
3. Kullanıcı önceki bir soruya veya yanıta atıfta bulunuyorsa, bunu dikkate al
4. Önceki yanıtlarında verdiğin bilgileri hatırla ve tutarlı ol`

// Section headings of the answer template.
const (
	SectionPractical = "Uygulamadaki Pratik Yansıması:"
	SectionSummary   = "İlgili Yasal Düzenleme/Hüküm Özeti:"
	SectionQuotes    = "Doğrudan İlişkili Madde veya Hüküm Alıntıları:"
	SectionCaseLaw   = "İlgili Yargı Kararları veya İçtihatlar:"
)

const answerInstructions = `### Cevap İçin Yönlendirmeler:
1. Bu soruyla ilgili güncel yasal mevzuatı belirt
2. İlgili kanun maddeleri, yönetmelikler veya genelgelerden alıntılar yap
3. Mümkünse Yargıtay/Danıştay gibi yüksek mahkemelerin konuyla ilgili emsal kararlarına atıf yap
4. Emin olmadığın noktaları açıkça belirt, spekülatif bilgi verme
5. Yanıtı hem hukuki açıdan doğru hem de anlaşılır, resmi bir dille aktarmaya özen göster`

const citationInstructions = `### Kanun Madde Referansları:
1. Bahsettiğin TÜM kanun maddelerini aşağıdaki formatta belirt:
   - Tam format şöyle olmalı: "6563 sayılı Elektronik Ticaretin Düzenlenmesi Hakkında Kanun Madde 5"
   - Her zaman kanun numarasını, tam adını ve madde numarasını içerecek şekilde yaz
   - Yazım birliği için "sayılı" kelimesini küçük harfle yaz
   - Alıntı yaparken doğrudan bu formatta kullan
   - Herhangi bir metin biçimlendirme (yıldız, alt çizgi, tırnak işareti) KULLANMA
2. Alıntı yaparken mutlaka doğru madde numarasını belirt
3. Yanıtın içerisinde geçen tüm kanun maddeleri için yukarıdaki standart gösterimi kullan`

const practicalOrdering = `### Yanıt Sıralaması:
Bu soru pratik/prosedürel bilgi gerektiriyor. Yanıtını şu sırayla yapılandır:

1. Önce kullanıcının doğrudan sorduğu soruya net ve pratik bir cevap ver (gerekli belgeler, adımlar, prosedürler)
2. Sonra yasal dayanakları ve detayları açıkla

` + SectionPractical + `
[Kullanıcının sorduğu pratik soruya doğrudan cevap ver, gerekli belgeleri listele, prosedürü açıkla]

` + SectionSummary + `
[İlgili yasal düzenlemeyi sonra açıkla]

` + SectionQuotes + `
[Kanun maddelerini alıntıla]

` + SectionCaseLaw + `
[Varsa içtihatları belirt]`

const doctrinalOrdering = `### Yanıt Biçimlendirme:
Cevabı aşağıdaki bölümlere ayırarak yanıtla:

` + SectionSummary + `
[İlgili yasal düzenlemeyi ve ana hükümleri özet olarak yaz]

` + SectionQuotes + `
[İlgili kanun maddelerini veya hükümleri doğrudan alıntıla]

` + SectionCaseLaw + `
[Varsa ilgili yargı kararları veya içtihatları belirt]

` + SectionPractical + `
[Bu hukuki düzenlemelerin pratik etkisini açıkla]`

const jsonInstructions = "### Yanıt Yapısı:\n" +
	"Yanıtın sonunda, bahsettiğin tüm kanun maddelerini aşağıdaki JSON formatında listele (bu liste kullanıcıya gösterilmeyecek, sistem tarafından kullanılacaktır):\n\n" +
	"```json\n" +
	`{
  "legalReferences": [
    {
      "number": "6563",
      "name": "Elektronik Ticaretin Düzenlenmesi Hakkında Kanun",
      "article": "5",
      "text": "6563 sayılı Elektronik Ticaretin Düzenlenmesi Hakkında Kanun Madde 5"
    },
    {
      "number": "4857",
      "name": "İş Kanunu",
      "article": "18",
      "text": "4857 sayılı İş Kanunu Madde 18"
    }
  ]
}` + "\n```\n\n" +
	`NOT 1: Yukarıdaki JSON formatına MUTLAKA uy. Her kanun maddesi için "number" (kanun numarası), "name" (tam adı), "article" (madde numarası) ve "text" (tam gösterim metni) bilgilerini içermelidir.
NOT 2: Eğer bir bilgi yoksa (örneğin kısaltma), o alanı JSON'da dahil etme.
NOT 3: Yanıtında bahsettiğin TÜM kanun maddelerini bu JSON'a eklediğinden emin ol.
NOT 4: JSON formatı çıktısı yanıtından sonra, üç backtick içinde olmalıdır.
NOT 5: "text" alanında asla yıldız, alt çizgi, tırnak işareti gibi biçimlendirmeler kullanma.

Yanıtını okunabilir ve düzenli bir formatta yap. Tüm kanun maddelerini ve yasal referansları belirgin şekilde vurgula. Cevabı çok uzun ve karmaşık yapmaktan kaçın.`

// Composer assembles the enriched prompt for a chat question
type Composer struct {
	classifier *Classifier
	summarizer *Summarizer
}

func NewComposer(classifier *Classifier, summarizer *Summarizer) *Composer {
	return &Composer{classifier: classifier, summarizer: summarizer}
}

// Compose builds the prompt: question, topic analysis, conversation digest,
// answer and citation rules, the section ordering chosen by intent, and the
// trailing JSON reporting instructions.
func (c *Composer) Compose(question string, history []models.ConversationExchange) string {
	analysis := c.classifier.Classify(question)

	var b strings.Builder
	b.WriteString("### Kullanıcı Sorusu: ")
	b.WriteString(question)
	b.WriteString("\n\n### Konu Analizi:\n")
	b.WriteString(analysis.TopicBlock())
	b.WriteString("\n\n### Önceki Konuşma Bağlamı:\n")
	b.WriteString(c.summarizer.Summarize(history))
	b.WriteString("\n\n")
	b.WriteString(answerInstructions)
	b.WriteString("\n\n")
	b.WriteString(citationInstructions)
	b.WriteString("\n\n")
	if analysis.IsPractical {
		b.WriteString(practicalOrdering)
	} else {
		b.WriteString(doctrinalOrdering)
	}
	b.WriteString("\n\n")
	b.WriteString(jsonInstructions)
	b.WriteString("\n")
	return b.String()
}
