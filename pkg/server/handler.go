package server

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/shouni/gemini-tryon-kit/pkg/domain"
	"github.com/shouni/gemini-tryon-kit/pkg/generator"
	"github.com/shouni/gemini-tryon-kit/pkg/storage"
)

const (
	FieldPerson = "person"
	FieldItems  = "items"

	// クライアントに返す固定メッセージ。失敗の原因は区別せずログにのみ残す。
	MsgMissingFiles = "인물 사진과 아이템 파일이 필요합니다."
	MsgServerError  = "AI 서버에서 오류가 발생했습니다."

	defaultMaxMemory = 32 << 20 // 32MB
)

// Handler は合成エンドポイントの HTTP ハンドラーです。
type Handler struct {
	synthesizer  generator.ImageSynthesizer
	sink         storage.ImageSink
	maxMemory    int64
	newRequestID func() string
}

// NewHandler は依存関係を注入して Handler を作成します。sink が nil の場合は保存を行いません。
func NewHandler(synthesizer generator.ImageSynthesizer, sink storage.ImageSink, maxMemory int64) (*Handler, error) {
	if synthesizer == nil {
		return nil, fmt.Errorf("synthesizer is required")
	}
	if sink == nil {
		sink = storage.NopSink{}
	}
	if maxMemory <= 0 {
		maxMemory = defaultMaxMemory
	}

	return &Handler{
		synthesizer:  synthesizer,
		sink:         sink,
		maxMemory:    maxMemory,
		newRequestID: uuid.NewString,
	}, nil
}

// HandleSynthesize は人物写真とアイテム画像を受け取り、合成画像をそのままレスポンスボディとして返します。
func (h *Handler) HandleSynthesize(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseRequest(r)
	if !ok {
		sendText(w, http.StatusBadRequest, MsgMissingFiles)
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			slog.WarnContext(r.Context(), "一時ファイルの削除に失敗しました", "error", err)
		}
	}()

	ctx := r.Context()
	img, err := h.synthesizer.Synthesize(ctx, req)
	if err != nil {
		slog.ErrorContext(ctx, "画像合成に失敗しました", "request_id", req.RequestID, "error", err)
		sendText(w, http.StatusInternalServerError, MsgServerError)
		return
	}

	path, err := h.sink.Save(ctx, req.RequestID, img)
	if err != nil {
		slog.ErrorContext(ctx, "生成画像の保存に失敗しました", "request_id", req.RequestID, "error", err)
		sendText(w, http.StatusInternalServerError, MsgServerError)
		return
	}

	slog.InfoContext(ctx, "合成画像を返却します",
		"request_id", req.RequestID, "mime_type", img.MimeType, "bytes", len(img.Data), "saved_to", path)

	contentType := img.MimeType
	if contentType == "" {
		contentType = generator.DefaultImageMIMEType
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(img.Data); err != nil {
		slog.WarnContext(ctx, "レスポンスの書き込みに失敗しました", "request_id", req.RequestID, "error", err)
	}
}

// HandleHealth はヘルスチェック用のエンドポイントです。
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	sendText(w, http.StatusOK, "ok")
}

// parseRequest はマルチパートフォームから合成要求を組み立てます。
// person が無い、items が空、またはフォームとして解析できない場合は false を返します。
func (h *Handler) parseRequest(r *http.Request) (domain.SynthesisRequest, bool) {
	if err := r.ParseMultipartForm(h.maxMemory); err != nil {
		slog.InfoContext(r.Context(), "マルチパートフォームを解析できませんでした", "error", err)
		return domain.SynthesisRequest{}, false
	}

	persons := r.MultipartForm.File[FieldPerson]
	items := r.MultipartForm.File[FieldItems]
	if len(persons) == 0 || len(items) == 0 {
		return domain.SynthesisRequest{}, false
	}

	req := domain.SynthesisRequest{
		RequestID: h.newRequestID(),
		Person:    toUploadedFile(persons[0], domain.RolePerson),
		Items:     make([]domain.UploadedFile, 0, len(items)),
	}
	for _, fh := range items {
		req.Items = append(req.Items, toUploadedFile(fh, domain.RoleItem))
	}
	return req, true
}

func toUploadedFile(fh *multipart.FileHeader, role domain.Role) domain.UploadedFile {
	mimeType := fh.Header.Get("Content-Type")
	// 汎用タイプは未申告とみなし、生成側で内容から推定させる。
	if mimeType == "application/octet-stream" {
		mimeType = ""
	}

	return domain.UploadedFile{
		Name:     fh.Filename,
		MIMEType: mimeType,
		Role:     role,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

func sendText(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, message)
}
