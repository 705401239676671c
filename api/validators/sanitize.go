package validators

import (
	"strings"
	"unicode/utf8"

	pkgerrors "github.com/homescout/homescout-backend/pkg/errors"
)

// SanitizeString trims input and cuts it to at most maxLen bytes without
// splitting a multibyte character.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen <= 0 || len(trimmed) <= maxLen {
		return trimmed
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(trimmed[cut]) {
		cut--
	}
	return trimmed[:cut]
}

// BoundedString trims input and rejects it when it is longer than maxLen
// characters.
func BoundedString(field, input string, maxLen int) (string, error) {
	trimmed := strings.TrimSpace(input)
	if !utf8.ValidString(trimmed) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "text must be valid UTF-8").WithDetails(map[string]any{"field": field})
	}
	if maxLen > 0 && utf8.RuneCountInString(trimmed) > maxLen {
		return "", pkgerrors.Newf(pkgerrors.CodeValidation, "%s must be at most %d characters", field, maxLen).
			WithDetails(map[string]any{"field": field, "max": maxLen})
	}
	return trimmed, nil
}
