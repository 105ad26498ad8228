package ocr

import (
	"fmt"
	"strings"
)

// Language is a Tesseract language code.
type Language string

const (
	Japanese           Language = "jpn"
	English            Language = "eng"
	ChineseSimplified  Language = "chi_sim"
	ChineseTraditional Language = "chi_tra"
	Korean             Language = "kor"
)

// DefaultLanguage is used until the user picks another.
const DefaultLanguage = Japanese

// Languages lists the supported source languages in menu order.
var Languages = []Language{Japanese, English, ChineseSimplified, ChineseTraditional, Korean}

var languageNames = map[Language]string{
	Japanese:           "Japanese",
	English:            "English",
	ChineseSimplified:  "Chinese (Simplified)",
	ChineseTraditional: "Chinese (Traditional)",
	Korean:             "Korean",
}

// Name returns the English display name, or the code itself when unknown.
func (l Language) Name() string {
	if n, ok := languageNames[l]; ok {
		return n
	}
	return string(l)
}

// ParseLanguage accepts a supported code, case-insensitively.
func ParseLanguage(s string) (Language, error) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := languageNames[l]; !ok {
		return "", fmt.Errorf("unsupported OCR language %q (want one of jpn, eng, chi_sim, chi_tra, kor)", s)
	}
	return l, nil
}
