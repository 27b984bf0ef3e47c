package suggest

import "errors"

var (
	// ErrSourceRequired is returned when no snapshot source is provided.
	ErrSourceRequired = errors.New("snapshot source required")
)

// ErrorTag is the SuggestionResult.Error value for any failed request.
const ErrorTag = "suggestions_unavailable"

// Explanation messages shown to citizens.
const (
	ExplanationNoMatch     = "Không tìm thấy thủ tục hành chính phù hợp với yêu cầu của bạn."
	ExplanationFound       = "Dưới đây là các thủ tục hành chính liên quan đến yêu cầu của bạn."
	ExplanationUnavailable = "Hệ thống gợi ý thủ tục tạm thời không khả dụng. Vui lòng thử lại sau."
)
