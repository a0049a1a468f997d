package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shouni/gemini-tryon-kit/pkg/domain"
	"github.com/shouni/gemini-tryon-kit/pkg/imgutil"
)

// FixedFileName は PerRequest が無効な場合に上書き保存されるファイル名です。
const FixedFileName = "gemini-native-image.png"

// ImageSink は生成画像の保存先を抽象化するインターフェースです。
type ImageSink interface {
	// Save は画像を保存し、保存先のパスを返します。
	Save(ctx context.Context, requestID string, img *domain.ImageResponse) (string, error)
}

// FileSink は生成画像をローカルファイルへ同期的に書き込みます。
type FileSink struct {
	dir        string
	perRequest bool
}

// NewFileSink は FileSink を作成します。dir が空の場合はカレントディレクトリに書き込みます。
// ディレクトリの作成は行いません。
func NewFileSink(dir string, perRequest bool) *FileSink {
	if dir == "" {
		dir = "."
	}
	return &FileSink{dir: dir, perRequest: perRequest}
}

// PathFor は requestID に対応する保存先パスを返します。
// perRequest が false の場合は常に同じパスになり、並行リクエストでは最後の書き込みが残ります。
func (s *FileSink) PathFor(requestID, mimeType string) string {
	if !s.perRequest || requestID == "" {
		return filepath.Join(s.dir, FixedFileName)
	}
	return filepath.Join(s.dir, "gemini-native-image-"+requestID+imgutil.ExtensionForMIME(mimeType))
}

func (s *FileSink) Save(ctx context.Context, requestID string, img *domain.ImageResponse) (string, error) {
	if img == nil {
		return "", fmt.Errorf("保存する画像がありません")
	}

	path := s.PathFor(requestID, img.MimeType)
	if err := os.WriteFile(path, img.Data, 0o644); err != nil {
		return "", fmt.Errorf("画像ファイルの書き込みに失敗しました (%s): %w", path, err)
	}

	slog.DebugContext(ctx, "生成画像を保存しました", "path", path, "bytes", len(img.Data))
	return path, nil
}

// NopSink は何も保存しない ImageSink です。
type NopSink struct{}

func (NopSink) Save(context.Context, string, *domain.ImageResponse) (string, error) {
	return "", nil
}
