package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/bilingual"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common"
)

// maxTranslateRunes mirrors the query length the public endpoint accepts.
const maxTranslateRunes = 500

type TranslationService struct {
	tr bilingual.Translator
}

func NewTranslationService(tr bilingual.Translator) *TranslationService {
	return &TranslationService{tr: tr}
}

type TranslateResponse struct {
	Text        string `json:"text"`
	Translation string `json:"translation"`
	Source      string `json:"source"`
	Target      string `json:"target"`
}

// Translate runs a single English to Marathi translation for the admin UI.
func (s *TranslationService) Translate(ctx context.Context, text string) (*TranslateResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("text is required: %w", common.ErrValidation)
	}
	if utf8.RuneCountInString(text) > maxTranslateRunes {
		return nil, fmt.Errorf("text exceeds %d characters: %w", maxTranslateRunes, common.ErrValidation)
	}
	if s.tr == nil {
		return nil, common.ErrTranslationUnavailable
	}
	out, err := s.tr.Translate(ctx, text, bilingual.SourceLang, bilingual.TargetLang)
	if err != nil {
		return nil, err
	}
	return &TranslateResponse{Text: text, Translation: out, Source: bilingual.SourceLang, Target: bilingual.TargetLang}, nil
}
