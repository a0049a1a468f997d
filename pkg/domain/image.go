package domain

import (
	"bytes"
	"fmt"
	"io"
)

// Role はアップロードされたファイルがリクエスト内で担う役割です。
type Role string

const (
	RolePerson Role = "person"
	RoleItem   Role = "item"
)

// UploadedFile はマルチパートフォームで受け取った1つの画像ファイルです。
// リクエストの処理中だけ存在し、レスポンス送信後は保持しません。
type UploadedFile struct {
	Name     string
	MIMEType string // クライアントが申告したメディアタイプ（空の場合あり）
	Role     Role
	Open     func() (io.ReadCloser, error)
}

// NewUploadedFile はメモリ上のバイト列から UploadedFile を作成します。
func NewUploadedFile(name, mimeType string, role Role, data []byte) UploadedFile {
	return UploadedFile{
		Name:     name,
		MIMEType: mimeType,
		Role:     role,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// ReadAll はファイルの内容をすべて読み出します。
func (f UploadedFile) ReadAll() ([]byte, error) {
	if f.Open == nil {
		return nil, fmt.Errorf("ファイル %q を開けません: Open が未設定です", f.Name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("ファイル %q のオープンに失敗しました: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("ファイル %q の読み込みに失敗しました: %w", f.Name, err)
	}
	return data, nil
}

// SynthesisRequest は人物写真1枚とアイテム画像(1枚以上)の合成要求です。
// Items の順序は送信順を保持します。
type SynthesisRequest struct {
	RequestID string
	Person    UploadedFile
	Items     []UploadedFile
}

// ImageResponse は生成された画像データとそのメタデータです。
type ImageResponse struct {
	Data     []byte
	MimeType string
}
