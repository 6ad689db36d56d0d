package models

// LegalArea is a subject area of Turkish law detected in a question
type LegalArea string

const (
	AreaCriminal       LegalArea = "Ceza Hukuku"
	AreaCivil          LegalArea = "Medeni Hukuk"
	AreaLabor          LegalArea = "İş Hukuku"
	AreaAdministrative LegalArea = "İdare Hukuku"
	AreaCommercial     LegalArea = "Ticaret Hukuku"
	AreaTax            LegalArea = "Vergi Hukuku"
	AreaObligations    LegalArea = "Borçlar Hukuku"
	AreaConsumer       LegalArea = "Tüketici Hukuku"
	AreaSocialSecurity LegalArea = "Sosyal Güvenlik Hukuku"
	AreaLease          LegalArea = "Kira Hukuku"
)

// ConversationExchange is one question/answer pair of a chat history
type ConversationExchange struct {
	UserQuestion      string `json:"userQuestion"`
	AssistantResponse string `json:"assistantResponse"`
}
