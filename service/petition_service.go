package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"hukuk-asistani/metrics"
	"hukuk-asistani/models"
	"hukuk-asistani/repository"
	"hukuk-asistani/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrPetitionNotFound is returned for unknown petition IDs
var ErrPetitionNotFound = errors.New("petition not found")

// ValidationError carries a user facing message for invalid input
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// PetitionTypes is the fixed catalogue offered to clients
var PetitionTypes = []models.PetitionType{
	{ID: "itiraz", Name: "İtiraz Dilekçesi"},
	{ID: "basvuru", Name: "Başvuru Dilekçesi"},
	{ID: "sikayet", Name: "Şikayet Dilekçesi"},
	{ID: "bilgi-edinme", Name: "Bilgi Edinme Dilekçesi"},
	{ID: "tazminat", Name: "Tazminat Dilekçesi"},
	{ID: "sorusturma", Name: "Soruşturma Dilekçesi"},
	{ID: "ihtarname", Name: "İhtarname"},
	{ID: "ihbar", Name: "İhbar Dilekçesi"},
	{ID: "ozur", Name: "Özür Dilekçesi"},
	{ID: "dava", Name: "Dava Dilekçesi"},
	{ID: "istifa", Name: "İstifa Dilekçesi"},
	{ID: "izin", Name: "İzin Dilekçesi"},
	{ID: "itiraz-mahkeme", Name: "Mahkemeye İtiraz Dilekçesi"},
}

// PetitionRenderer turns drafted content into a printable document
type PetitionRenderer interface {
	Render(content string, user models.UserDetails, receiver models.Receiver) ([]byte, error)
}

// PetitionService drafts petitions with the model and stores their PDFs
type PetitionService struct {
	petitionRepo repository.PetitionRepository
	store        storage.Storage
	model        LanguageModel
	renderer     PetitionRenderer
	logger       *zap.Logger
	metrics      *metrics.Metrics
}

// PetitionServiceOption is a functional option for PetitionService
type PetitionServiceOption func(*PetitionService)

// WithPetitionRepository sets the petition repository
func WithPetitionRepository(repo repository.PetitionRepository) PetitionServiceOption {
	return func(s *PetitionService) {
		s.petitionRepo = repo
	}
}

// WithPetitionStorage sets where rendered PDFs are kept
func WithPetitionStorage(store storage.Storage) PetitionServiceOption {
	return func(s *PetitionService) {
		s.store = store
	}
}

// WithPetitionModel sets the drafting model
func WithPetitionModel(model LanguageModel) PetitionServiceOption {
	return func(s *PetitionService) {
		s.model = model
	}
}

// WithPetitionRenderer sets the PDF renderer
func WithPetitionRenderer(r PetitionRenderer) PetitionServiceOption {
	return func(s *PetitionService) {
		s.renderer = r
	}
}

func WithPetitionLogger(logger *zap.Logger) PetitionServiceOption {
	return func(s *PetitionService) {
		s.logger = logger
	}
}

func WithPetitionMetrics(m *metrics.Metrics) PetitionServiceOption {
	return func(s *PetitionService) {
		s.metrics = m
	}
}

// NewPetitionService creates a new petition service
func NewPetitionService(opts ...PetitionServiceOption) *PetitionService {
	s := &PetitionService{logger: zap.NewNop(), metrics: metrics.Noop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GeneratePetitionRequest is the body of POST /petitions/generate. Pointers
// distinguish an omitted object from an empty one.
type GeneratePetitionRequest struct {
	PetitionType string              `json:"petitionType"`
	Description  string              `json:"description"`
	UserDetails  *models.UserDetails `json:"userDetails"`
	Receiver     *models.Receiver    `json:"receiver"`
}

// Validate reports the first missing field
func (r GeneratePetitionRequest) Validate() error {
	if strings.TrimSpace(r.PetitionType) == "" || strings.TrimSpace(r.Description) == "" || r.UserDetails == nil || r.Receiver == nil {
		return &ValidationError{Message: "Eksik bilgi. Dilekçe türü, açıklama, kullanıcı ve alıcı bilgileri gereklidir."}
	}
	if strings.TrimSpace(r.UserDetails.Name) == "" || strings.TrimSpace(r.UserDetails.Address) == "" {
		return &ValidationError{Message: "Ad-soyad ve adres zorunludur."}
	}
	if strings.TrimSpace(r.Receiver.Name) == "" {
		return &ValidationError{Message: "Alıcı kurum/makam adı gereklidir."}
	}
	return nil
}

// GeneratePetitionResult is the result of drafting a petition
type GeneratePetitionResult struct {
	Petition *models.Petition
}

// GeneratePetition validates req, drafts the text, renders and stores the
// PDF and records the petition
func (s *PetitionService) GeneratePetition(ctx context.Context, req GeneratePetitionRequest) (*GeneratePetitionResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.petitionRepo == nil || s.store == nil || s.model == nil || s.renderer == nil {
		return nil, errors.New("petition service not fully configured")
	}

	content, err := s.model.GenerateText(ctx, PetitionOptions, PetitionPrompt(req))
	if err != nil {
		s.metrics.PetitionFailures.Inc()
		return nil, fmt.Errorf("failed to draft petition: %w", err)
	}
	content = strings.TrimSpace(content)

	pdf, err := s.renderer.Render(content, *req.UserDetails, *req.Receiver)
	if err != nil {
		s.metrics.PetitionFailures.Inc()
		return nil, err
	}

	id := uuid.New()
	fileName := fmt.Sprintf("dilekce-%s.pdf", id)
	path, err := s.store.Put(ctx, storage.Object{
		ID:          id,
		Name:        fileName,
		Namespace:   storage.NamespacePetitions,
		ContentType: "application/pdf",
	}, bytes.NewReader(pdf))
	if err != nil {
		s.metrics.PetitionFailures.Inc()
		return nil, fmt.Errorf("failed to store petition pdf: %w", err)
	}

	petition := &models.Petition{
		ID:           id,
		Title:        req.PetitionType + " Dilekçesi",
		Content:      content,
		FileName:     fileName,
		StoragePath:  path,
		PetitionType: req.PetitionType,
		UserDetails:  *req.UserDetails,
		Receiver:     *req.Receiver,
	}
	if err := s.petitionRepo.Create(ctx, petition); err != nil {
		s.metrics.PetitionFailures.Inc()
		if delErr := s.store.Delete(ctx, path); delErr != nil {
			s.logger.Warn("Failed to remove orphaned petition pdf", zap.String("path", path), zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to save petition: %w", err)
	}

	s.metrics.PetitionsCreated.Inc()
	s.logger.Info("Petition generated",
		zap.String("id", id.String()),
		zap.String("type", req.PetitionType))
	return &GeneratePetitionResult{Petition: petition}, nil
}

// GetPetition retrieves a petition by ID
func (s *PetitionService) GetPetition(ctx context.Context, id uuid.UUID) (*models.Petition, error) {
	if s.petitionRepo == nil {
		return nil, errors.New("petition repository not set")
	}
	petition, err := s.petitionRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPetitionNotFound
	}
	return petition, err
}

// ListPetitions returns every petition in creation order
func (s *PetitionService) ListPetitions(ctx context.Context) ([]models.PetitionSummary, error) {
	if s.petitionRepo == nil {
		return nil, errors.New("petition repository not set")
	}
	petitions, err := s.petitionRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.PetitionSummary, 0, len(petitions))
	for _, p := range petitions {
		out = append(out, p.Summary())
	}
	return out, nil
}

// OpenPetition streams the stored PDF of a petition
func (s *PetitionService) OpenPetition(ctx context.Context, id uuid.UUID) (*models.Petition, io.ReadCloser, error) {
	petition, err := s.GetPetition(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.store.Open(ctx, petition.StoragePath)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, ErrPetitionNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return petition, rc, nil
}

// PetitionPrompt builds the drafting instructions for req
func PetitionPrompt(req GeneratePetitionRequest) string {
	u, r := req.UserDetails, req.Receiver

	var b strings.Builder
	b.WriteString("Sen profesyonel bir hukuk asistanısın ve Türkiye'de hukuk diline ve dilekçe formatlarına hakimsin.\n")
	fmt.Fprintf(&b, "Kullanıcıdan gelen bilgilere dayanarak %s için Türkiye standartlarına uygun resmi bir dilekçe hazırlamanı istiyorum.\n\n", req.PetitionType)

	b.WriteString("### KULLANICI BİLGİLERİ:\n")
	fmt.Fprintf(&b, "Ad Soyad: %s\nAdres: %s\n", u.Name, u.Address)
	optionalLine(&b, "Telefon: ", u.Phone)
	optionalLine(&b, "E-posta: ", u.Email)
	optionalLine(&b, "T.C. Kimlik No: ", u.TCNo)

	b.WriteString("\n### ALICI BİLGİLERİ:\n")
	fmt.Fprintf(&b, "Kurum: %s\n", r.Name)
	optionalLine(&b, "Birim: ", r.Department)

	fmt.Fprintf(&b, "\n### KULLANICININ AÇIKLAMASI:\n%s\n", req.Description)
	fmt.Fprintf(&b, "\n### DİLEKÇE TÜRÜ:\n%s\n\n", req.PetitionType)
	b.WriteString(petitionInstructions)
	return b.String()
}

func optionalLine(b *strings.Builder, label, value string) {
	if value != "" {
		b.WriteString(label + value + "\n")
	}
}

const petitionInstructions = `### HAZIRLANACAK DİLEKÇE İÇİN TALİMATLAR:
1. Resmi bir Türk dilekçe formatına uygun olarak hazırlayın (tarih/alıcı/metin/imza sıralamasında).
2. Dilekçenin ana metnini paragraflar halinde düzenleyin, blok halinde yazma.
3. Kısa, açık ve anlaşılır cümleler kullanın.
4. Her paragraf tek bir düşünceyi ifade etmeli.
5. Dilekçenin giriş bölümünde, dilekçenin neden yazıldığını kısaca açıklayın.
6. Gelişme bölümünde, ana konuyu detaylandırın ve gerekçeleri açıklayın.
7. Sonuç bölümünde, ne talep edildiğini açıkça belirtin.
8. Resmi, saygılı ve ölçülü bir dil kullanın. Duygusal ifadelerden kaçının.
9. İlgili kanun maddeleri varsa, bunlara uygun şekilde atıfta bulunun.
10. Dilekçe sonunda "Saygılarımla," veya "Gereğini arz ederim." gibi uygun bir kapanış ifadesi kullanın.

Lütfen sadece dilekçe metnini yaz, başka yorum veya açıklama ekleme.
`
