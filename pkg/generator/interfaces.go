package generator

import (
	"context"

	"github.com/shouni/gemini-tryon-kit/pkg/domain"
	"google.golang.org/genai"
)

// ContentGenerator は *genai.Models のうち本パッケージが利用するメソッドです。
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ImageExecutor は、画像パーツの準備と生成リクエストの実行を担当するインターフェースです。
type ImageExecutor interface {
	// PrepareParts は、ファイル群を送信順のまま genai.Part に変換します。
	PrepareParts(ctx context.Context, files []domain.UploadedFile) ([]*genai.Part, error)
	// ExecuteRequest は、組み立て済みのパーツで生成を実行し、最初の画像を返します。
	ExecuteRequest(ctx context.Context, model string, parts []*genai.Part) (*domain.ImageResponse, error)
}

// ImageSynthesizer はHTTP層が利用する統合窓口です。
type ImageSynthesizer interface {
	Synthesize(ctx context.Context, req domain.SynthesisRequest) (*domain.ImageResponse, error)
}
