package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/gemini-tryon-kit/pkg/domain"

	"golang.org/x/sync/errgroup"
	"google.golang.org/genai"
)

// GeminiImageCore は画像パーツの準備と Gemini へのリクエスト実行を担う基盤クラスです。
type GeminiImageCore struct {
	aiClient       ContentGenerator
	compressInputs bool
	quality        int
	timeout        time.Duration
}

// NewGeminiImageCore は依存関係を注入して GeminiImageCore を初期化します。
func NewGeminiImageCore(aiClient ContentGenerator, opts CoreOptions) (*GeminiImageCore, error) {
	if aiClient == nil {
		return nil, fmt.Errorf("aiClient is required")
	}

	quality := opts.CompressionQuality
	if quality <= 0 || quality > 100 {
		quality = DefaultCompressionQuality
	}

	return &GeminiImageCore{
		aiClient:       aiClient,
		compressInputs: opts.CompressInputs,
		quality:        quality,
		timeout:        opts.Timeout,
	}, nil
}

// PrepareParts は各ファイルを並行して genai.Part に変換します。
// 結果は完了順ではなく files の順序で返り、1つでも失敗すれば全体を中断します。
func (c *GeminiImageCore) PrepareParts(ctx context.Context, files []domain.UploadedFile) ([]*genai.Part, error) {
	parts := make([]*genai.Part, len(files))

	g, gctx := errgroup.WithContext(ctx)
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			part, err := c.ToPart(file)
			if err != nil {
				return err
			}
			parts[i] = part
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return parts, nil
}

// ExecuteRequest はパーツを1つのユーザーコンテンツとして Gemini に送信し、応答を解析します。
// リトライは行いません。
func (c *GeminiImageCore) ExecuteRequest(ctx context.Context, model string, parts []*genai.Part) (*domain.ImageResponse, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	start := time.Now()
	resp, err := c.aiClient.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("Geminiへのリクエストに失敗しました: %w", err)
	}
	slog.InfoContext(ctx, "Gemini API response",
		"model", model,
		"candidates", len(resp.Candidates),
		"elapsed", time.Since(start))

	out, err := c.parseToResponse(resp)
	if err != nil {
		return nil, err
	}

	return &domain.ImageResponse{
		Data:     out.Data,
		MimeType: out.MimeType,
	}, nil
}
