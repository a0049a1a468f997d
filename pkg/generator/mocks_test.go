package generator

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/shouni/gemini-tryon-kit/pkg/domain"
	"google.golang.org/genai"
)

// --- Mocks ---

// mockAIClient は ContentGenerator のテスト用モックです。
type mockAIClient struct {
	mu           sync.Mutex
	calls        int
	lastModel    string
	lastContents []*genai.Content
	generateFunc func(ctx context.Context, model string, contents []*genai.Content) (*genai.GenerateContentResponse, error)
}

func (m *mockAIClient) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.mu.Lock()
	m.calls++
	m.lastModel = model
	m.lastContents = contents
	m.mu.Unlock()

	if m.generateFunc != nil {
		return m.generateFunc(ctx, model, contents)
	}
	return imageResponse("image/png", []byte("fake")), nil
}

// mockExecutor は ImageExecutor のテスト用モックです。
type mockExecutor struct {
	prepareFunc func(ctx context.Context, files []domain.UploadedFile) ([]*genai.Part, error)
	executeFunc func(ctx context.Context, model string, parts []*genai.Part) (*domain.ImageResponse, error)
}

func (m *mockExecutor) PrepareParts(ctx context.Context, files []domain.UploadedFile) ([]*genai.Part, error) {
	if m.prepareFunc != nil {
		return m.prepareFunc(ctx, files)
	}
	parts := make([]*genai.Part, len(files))
	for i := range files {
		parts[i] = genai.NewPartFromBytes([]byte(files[i].Name), files[i].MIMEType)
	}
	return parts, nil
}

func (m *mockExecutor) ExecuteRequest(ctx context.Context, model string, parts []*genai.Part) (*domain.ImageResponse, error) {
	if m.executeFunc != nil {
		return m.executeFunc(ctx, model, parts)
	}
	return &domain.ImageResponse{Data: []byte("fake"), MimeType: "image/png"}, nil
}

// --- Helpers ---

func imageResponse(mimeType string, data []byte) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Parts: []*genai.Part{{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}}},
			},
		}},
	}
}

func stringsReader(s string) io.Reader {
	return bytes.NewReader([]byte(s))
}
