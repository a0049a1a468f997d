package server

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"

	"github.com/shouni/gemini-tryon-kit/pkg/domain"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// --- Mocks ---

// mockSynthesizer は generator.ImageSynthesizer のテスト用モックです。
type mockSynthesizer struct {
	mu             sync.Mutex
	calls          int
	lastRequest    domain.SynthesisRequest
	synthesizeFunc func(ctx context.Context, req domain.SynthesisRequest) (*domain.ImageResponse, error)
}

func (m *mockSynthesizer) Synthesize(ctx context.Context, req domain.SynthesisRequest) (*domain.ImageResponse, error) {
	m.mu.Lock()
	m.calls++
	m.lastRequest = req
	m.mu.Unlock()

	if m.synthesizeFunc != nil {
		return m.synthesizeFunc(ctx, req)
	}
	return &domain.ImageResponse{Data: []byte("PNGBYTES"), MimeType: "image/png"}, nil
}

// mockSink は storage.ImageSink のテスト用モックです。
type mockSink struct {
	mu            sync.Mutex
	saved         []*domain.ImageResponse
	lastRequestID string
	saveFunc      func(ctx context.Context, requestID string, img *domain.ImageResponse) (string, error)
}

func (m *mockSink) Save(ctx context.Context, requestID string, img *domain.ImageResponse) (string, error) {
	m.mu.Lock()
	m.saved = append(m.saved, img)
	m.lastRequestID = requestID
	m.mu.Unlock()

	if m.saveFunc != nil {
		return m.saveFunc(ctx, requestID, img)
	}
	return "mock://" + requestID, nil
}

// fakeGemini は generator.ContentGenerator の代役です。
type fakeGemini struct {
	mu       sync.Mutex
	calls    int
	contents []*genai.Content
	respond  func() (*genai.GenerateContentResponse, error)
}

func (f *fakeGemini) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	f.calls++
	f.contents = contents
	f.mu.Unlock()
	return f.respond()
}

// --- Helpers ---

type formFile struct {
	field    string
	name     string
	mimeType string
	data     []byte
}

// newMultipartRequest はファイルフィールドを持つ POST リクエストを組み立てます。
func newMultipartRequest(t *testing.T, target string, files ...formFile) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.name))
		if f.mimeType != "" {
			h.Set("Content-Type", f.mimeType)
		}
		pw, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = pw.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func imageResponse(mimeType string, data []byte) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Parts: []*genai.Part{{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}}},
			},
		}},
	}
}
