package generator

import (
	"fmt"
	"log/slog"

	"github.com/shouni/gemini-tryon-kit/pkg/domain"
	"github.com/shouni/gemini-tryon-kit/pkg/imgutil"

	"google.golang.org/genai"
)

// ToPart はアップロードファイルを読み出して genai.Part (InlineData) に変換します。
// Blob.Data は送信時に SDK が base64 エンコードします。
func (c *GeminiImageCore) ToPart(file domain.UploadedFile) (*genai.Part, error) {
	data, err := file.ReadAll()
	if err != nil {
		return nil, err
	}

	mimeType := file.MIMEType
	if mimeType == "" {
		mimeType = imgutil.DetectMIMEType(data)
	}

	if c.compressInputs && len(data) > 0 {
		compressed, err := imgutil.CompressToJPEG(data, c.quality)
		if err != nil {
			slog.Warn("入力画像の圧縮に失敗したため元データを送信します", "file", file.Name, "error", err)
		} else {
			data, mimeType = compressed, "image/jpeg"
		}
	}

	return genai.NewPartFromBytes(data, mimeType), nil
}

func (c *GeminiImageCore) parseToResponse(resp *genai.GenerateContentResponse) (*ImageOutput, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, ErrNoCandidates
	}

	// 最初の候補 (Candidate) のみを利用する。
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, ErrMissingParts
	}

	for _, part := range candidate.Content.Parts {
		if kindOf(part) != partKindInlineData {
			continue
		}
		if len(part.InlineData.Data) == 0 {
			return nil, ErrEmptyImageData
		}
		return &ImageOutput{
			Data:     part.InlineData.Data,
			MimeType: mimeTypeOrDefault(part.InlineData.MIMEType),
		}, nil
	}

	if isAbnormalFinish(candidate.FinishReason) {
		return nil, fmt.Errorf("%w (FinishReason: %s)", ErrNoImage, candidate.FinishReason)
	}
	return nil, ErrNoImage
}
