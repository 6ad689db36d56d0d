package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"hukuk-asistani/legal"
	"hukuk-asistani/metrics"
	"hukuk-asistani/models"
	"hukuk-asistani/render"
	"hukuk-asistani/repository"
	"hukuk-asistani/service"
	"hukuk-asistani/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubModel struct {
	text string
	err  error
}

func (m *stubModel) GenerateText(ctx context.Context, opts service.GenerationOptions, prompt string) (string, error) {
	return m.text, m.err
}

func (m *stubModel) Chat(ctx context.Context, opts service.GenerationOptions, history []service.Turn, prompt string) (string, error) {
	return m.text, m.err
}

type stubRecognizer struct{ text string }

func (r stubRecognizer) RecognizeText(ctx context.Context, format string, data []byte) (string, error) {
	return r.text, nil
}

type testServer struct {
	router   *gin.Engine
	model    *stubModel
	registry *prometheus.Registry
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	model := &stubModel{}

	st, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	chain := service.NewFallbackChain(logger, m,
		service.NewDirectStrategy(model, service.ChatOptions),
		service.NewChatStrategy(model, service.ChatOptions))
	chatSvc := service.NewChatService(legal.NewPipeline(legal.DefaultLawRegistry()), chain, service.WithChatMetrics(m))
	docSvc := service.NewDocumentService(repository.NewMemoryDocumentRepository(), st, model,
		service.WithImageRecognizer(stubRecognizer{text: "Kira sözleşmesi metni"}),
		service.WithMaxUploadBytes(1024),
		service.WithDocumentMetrics(m))
	petitionSvc := service.NewPetitionService(
		service.WithPetitionRepository(repository.NewMemoryPetitionRepository()),
		service.WithPetitionStorage(st),
		service.WithPetitionModel(model),
		service.WithPetitionRenderer(render.NewPetitionRenderer()),
		service.WithPetitionMetrics(m))

	router := NewRouter(Handlers{
		Chat:      NewChatHandler(chatSvc),
		Documents: NewDocumentHandler(docSvc, logger),
		Petitions: NewPetitionHandler(petitionSvc, logger),
	}, logger, reg)
	return &testServer{router: router, model: model, registry: reg}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) postJSON(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return s.do(req)
}

func (s *testServer) get(path string) *httptest.ResponseRecorder {
	return s.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func uploadRequest(t *testing.T, field, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	w := newTestServer(t).get("/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"status": "ok", "message": "Hukuki Asistan API çalışıyor"}, decode(t, w))
}

func TestChat_Answer(t *testing.T) {
	s := newTestServer(t)
	s.model.text = "Yanıt metni.\n```json\n{\"legalReferences\": [{\"code\": \"TMK\", \"article\": \"166\"}]}\n```"

	w := s.postJSON("/api/chat", `{"message": "Boşanma şartları nelerdir?", "conversationHistory": [{"userQuestion": "Merhaba", "assistantResponse": "Merhaba, nasıl yardımcı olabilirim?"}]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var answer models.StructuredAnswer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &answer))
	assert.Equal(t, "Yanıt metni.", answer.CleanedText)
	require.Len(t, answer.LegalReferences, 1)
	assert.Equal(t, "4721", answer.LegalReferences[0].Number)
	assert.False(t, answer.Error)
}

func TestChat_ModelFailureIsNot5xx(t *testing.T) {
	s := newTestServer(t)
	s.model.err = errors.New("connection refused")

	w := s.postJSON("/api/chat", `{"message": "Soru"}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, true, body["error"])
	assert.Equal(t, service.FallbackMessage, body["text"])
	assert.Equal(t, []any{}, body["legalReferences"])
}

func TestChat_InvalidMessage(t *testing.T) {
	s := newTestServer(t)
	for _, body := range []string{`{}`, `{"message": ""}`, `{"message": 42}`, `not json`} {
		w := s.postJSON("/api/chat", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, "Geçerli bir mesaj gereklidir", decode(t, w)["error"], body)
	}
}

func TestLegalReference(t *testing.T) {
	w := newTestServer(t).get("/api/legal-reference/TMK%20Madde%20166")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, "TMK Madde 166", body["reference"])
	assert.Len(t, body["relatedCases"], 2)
	resolved, ok := body["resolved"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "4721", resolved["number"])
}

func TestDocuments_UploadListGetAsk(t *testing.T) {
	s := newTestServer(t)

	w := s.do(uploadRequest(t, "document", "sozlesme.png", "image/png", []byte("png-bytes")))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "Doküman başarıyla yüklendi", body["message"])
	doc := body["document"].(map[string]any)
	id := doc["id"].(string)
	assert.Equal(t, "image", doc["type"])
	assert.NotContains(t, doc, "text")

	w = s.get("/api/documents")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["documents"], 1)

	w = s.get("/api/documents/" + id)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sozlesme.png", decode(t, w)["filename"])

	s.model.text = "Belgeye göre kira bedeli aylıktır."
	w = s.postJSON("/api/documents/"+id+"/ask", `{"question": "Kira bedeli nedir?"}`)
	require.Equal(t, http.StatusOK, w.Code)
	ask := decode(t, w)
	assert.Equal(t, "Kira bedeli nedir?", ask["question"])
	assert.Equal(t, "Belgeye göre kira bedeli aylıktır.", ask["answer"])
	assert.Equal(t, id, ask["documentId"])
	assert.Equal(t, "sozlesme.png", ask["documentName"])
}

func TestDocuments_UploadRejections(t *testing.T) {
	s := newTestServer(t)

	w := s.do(uploadRequest(t, "file", "a.png", "image/png", []byte("x")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Dosya bulunamadı", decode(t, w)["error"])

	w = s.do(uploadRequest(t, "document", "a.txt", "text/plain", []byte("x")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, unsupportedDocumentMessage, decode(t, w)["error"])

	w = s.do(uploadRequest(t, "document", "big.png", "image/png", bytes.Repeat([]byte("x"), 2048)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = s.get("/api/documents")
	assert.Empty(t, decode(t, w)["documents"])
}

func TestDocuments_ExtractionFailureHidesDetails(t *testing.T) {
	s := newTestServer(t)

	w := s.do(uploadRequest(t, "document", "bozuk.pdf", "application/pdf", []byte("not a pdf")))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Doküman yükleme başarısız", body["error"])
	assert.NotContains(t, body, "details")
}

func TestDocuments_NotFoundAndBadQuestion(t *testing.T) {
	s := newTestServer(t)

	w := s.get("/api/documents/0f8fad5b-d9cb-469f-a165-70867728950e")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Doküman bulunamadı", decode(t, w)["error"])

	w = s.get("/api/documents/not-a-uuid")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.postJSON("/api/documents/0f8fad5b-d9cb-469f-a165-70867728950e/ask", `{"question": ""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Geçerli bir soru gereklidir", decode(t, w)["error"])

	w = s.postJSON("/api/documents/0f8fad5b-d9cb-469f-a165-70867728950e/ask", `{"question": "Ne?"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

const petitionBody = `{
	"petitionType": "itiraz",
	"description": "Trafik cezasına itiraz",
	"userDetails": {"name": "Ayşe Yılmaz", "address": "İstanbul", "tcNo": "12345678901"},
	"receiver": {"name": "İstanbul Sulh Ceza Hakimliği"}
}`

func TestPetitions_GenerateListGetDownload(t *testing.T) {
	s := newTestServer(t)
	s.model.text = "Sayın Hakimlik,\n\nİtirazımı arz ederim."

	w := s.postJSON("/api/petitions/generate", petitionBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "Dilekçe başarıyla oluşturuldu", body["message"])
	petition := body["petition"].(map[string]any)
	id := petition["id"].(string)
	assert.Equal(t, "dilekce-"+id+".pdf", petition["fileName"])

	w = s.get("/api/petitions")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["petitions"], 1)

	w = s.get("/api/petitions/" + id)
	require.Equal(t, http.StatusOK, w.Code)
	full := decode(t, w)
	assert.Equal(t, "Sayın Hakimlik,\n\nİtirazımı arz ederim.", full["content"])
	assert.NotContains(t, full, "storagePath")

	w = s.get("/api/petitions/" + id + "/download")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="dilekce-`+id+`.pdf"`, w.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))
}

func TestPetitions_Validation(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		body string
		want string
	}{
		{`{"petitionType": "itiraz"}`, "Eksik bilgi. Dilekçe türü, açıklama, kullanıcı ve alıcı bilgileri gereklidir."},
		{`{"petitionType": "itiraz", "description": "d", "userDetails": {"name": "A"}, "receiver": {"name": "B"}}`, "Ad-soyad ve adres zorunludur."},
		{`{"petitionType": "itiraz", "description": "d", "userDetails": {"name": "A", "address": "X"}, "receiver": {}}`, "Alıcı kurum/makam adı gereklidir."},
	}
	for _, tt := range tests {
		w := s.postJSON("/api/petitions/generate", tt.body)
		assert.Equal(t, http.StatusBadRequest, w.Code, tt.body)
		assert.Equal(t, tt.want, decode(t, w)["error"], tt.body)
	}
}

func TestPetitions_ModelFailure(t *testing.T) {
	s := newTestServer(t)
	s.model.err = errors.New("quota exceeded")

	w := s.postJSON("/api/petitions/generate", petitionBody)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Dilekçe oluşturma başarısız", body["error"])
	assert.Contains(t, body["details"], "quota exceeded")
}

func TestPetitions_TypesAndNotFound(t *testing.T) {
	s := newTestServer(t)

	w := s.get("/api/petitions/types/list")
	require.Equal(t, http.StatusOK, w.Code)
	types := decode(t, w)["petitionTypes"].([]any)
	require.Len(t, types, 13)
	assert.Equal(t, map[string]any{"id": "itiraz", "name": "İtiraz Dilekçesi"}, types[0])

	w = s.get("/api/petitions/0f8fad5b-d9cb-469f-a165-70867728950e")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Dilekçe bulunamadı", decode(t, w)["error"])

	w = s.get("/api/petitions/0f8fad5b-d9cb-469f-a165-70867728950e/download")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.model.err = errors.New("down")
	s.postJSON("/api/chat", `{"message": "Soru"}`)

	w := s.get("/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `hukuk_chat_requests_total{outcome="fallback"} 1`)
}
