package generator

import "google.golang.org/genai"

type partKind int

const (
	partKindOther partKind = iota
	partKindText
	partKindInlineData
)

// kindOf はレスポンスのパーツを種類ごとに分類するのだ。
func kindOf(part *genai.Part) partKind {
	switch {
	case part == nil:
		return partKindOther
	case part.InlineData != nil:
		return partKindInlineData
	case part.Text != "":
		return partKindText
	default:
		return partKindOther
	}
}

func mimeTypeOrDefault(mimeType string) string {
	if mimeType == "" {
		return DefaultImageMIMEType
	}
	return mimeType
}

// isAbnormalFinish は安全フィルター等による打ち切りを判定します。
func isAbnormalFinish(reason genai.FinishReason) bool {
	return reason != "" && reason != genai.FinishReasonUnspecified && reason != genai.FinishReasonStop
}
