package generator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/gemini-tryon-kit/pkg/domain"

	"google.golang.org/genai"
)

// GeminiGenerator は人物写真とアイテム画像から着用合成画像を生成するジェネレーターです。
type GeminiGenerator struct {
	core  ImageExecutor
	model string
}

// NewGeminiGenerator は GeminiGenerator を初期化します。model が空なら DefaultModel を使います。
func NewGeminiGenerator(core ImageExecutor, model string) (*GeminiGenerator, error) {
	if core == nil {
		return nil, fmt.Errorf("core (ImageExecutor) is required")
	}
	if model == "" {
		model = DefaultModel
	}

	return &GeminiGenerator{
		core:  core,
		model: model,
	}, nil
}

// Model は使用するモデル名を返します。
func (g *GeminiGenerator) Model() string {
	return g.model
}

// BuildPrompt は固定の指示文と画像パーツを Gemini が期待する順序に並べます。
func BuildPrompt(person *genai.Part, items []*genai.Part) []*genai.Part {
	prompt := make([]*genai.Part, 0, len(items)+3)
	prompt = append(prompt,
		genai.NewPartFromText(InstructionPerson),
		person,
		genai.NewPartFromText(InstructionItems),
	)
	return append(prompt, items...)
}

// Synthesize は人物写真にアイテムを着用させた合成画像を1枚生成します。
func (g *GeminiGenerator) Synthesize(ctx context.Context, req domain.SynthesisRequest) (*domain.ImageResponse, error) {
	if len(req.Items) == 0 {
		return nil, ErrNoItems
	}

	slog.InfoContext(ctx, "Gemini合成リクエスト準備中",
		"request_id", req.RequestID, "model", g.model, "item_count", len(req.Items))

	files := make([]domain.UploadedFile, 0, len(req.Items)+1)
	files = append(files, req.Person)
	files = append(files, req.Items...)

	parts, err := g.core.PrepareParts(ctx, files)
	if err != nil {
		return nil, fmt.Errorf("画像パーツの準備に失敗しました: %w", err)
	}

	resp, err := g.core.ExecuteRequest(ctx, g.model, BuildPrompt(parts[0], parts[1:]))
	if err != nil {
		return nil, fmt.Errorf("Gemini合成エラー: %w", err)
	}
	return resp, nil
}
