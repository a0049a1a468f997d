package generator

import (
	"errors"
	"time"

	"github.com/shouni/gemini-tryon-kit/pkg/imgutil"
)

const (
	DefaultModel              = "gemini-2.5-flash-image"
	DefaultImageMIMEType      = imgutil.DefaultMIMEType
	DefaultCompressionQuality = 75

	// プロンプトは [InstructionPerson, 人物画像, InstructionItems, アイテム画像...] の順で組み立てる。
	InstructionPerson = "이 인물 사진을 베이스로,"
	InstructionItems  = "이 아이템(들)을 착용한 합성 이미지를 생성해 줘. 스타일리시하고 사실적인 느낌으로."
)

var (
	ErrNoCandidates   = errors.New("Geminiからの有効な応答がありませんでした")
	ErrMissingParts   = errors.New("Geminiの応答に content.parts がありません")
	ErrEmptyImageData = errors.New("画像パーツのデータが空です")
	ErrNoImage        = errors.New("Geminiが画像を生成しませんでした")
	ErrNoItems        = errors.New("アイテム画像が1枚以上必要です")
)

// ImageOutput は Core の内部解析結果
type ImageOutput struct {
	Data     []byte
	MimeType string
}

// CoreOptions は GeminiImageCore の挙動を調整します。
type CoreOptions struct {
	// CompressInputs が true の場合、入力画像を JPEG に再エンコードしてから送信する。
	CompressInputs     bool
	CompressionQuality int
	// Timeout が 0 の場合、明示的なタイムアウトは設定しない。
	Timeout time.Duration
}
