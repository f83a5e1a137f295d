package bilingual

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// FillMissing walks a decoded JSON document and translates every bilingual
// value ({"en": ..., "mr": ...}) whose Marathi side is empty. Values are
// filled in place. It returns the number of values filled; translation
// failures are collected and do not stop the walk.
func FillMissing(ctx context.Context, doc map[string]interface{}, tr Translator) (int, error) {
	if tr == nil {
		return 0, errors.New("fill missing: nil translator")
	}
	w := &filler{translate: func(ctx context.Context, en string) (string, error) {
		return tr.Translate(ctx, en, SourceLang, TargetLang)
	}}
	w.walk(ctx, doc)
	return w.filled, errors.Join(w.errs...)
}

var errNoEntry = errors.New("no translation recorded")

// ApplyTranslations fills the empty Marathi side of every bilingual value in
// doc whose English side has an entry in translations. Values with Marathi
// text are left alone. It returns the number of values filled.
func ApplyTranslations(doc map[string]interface{}, translations map[string]string) int {
	w := &filler{translate: func(_ context.Context, en string) (string, error) {
		if out, ok := translations[en]; ok {
			return out, nil
		}
		return "", errNoEntry
	}}
	w.walk(context.Background(), doc)
	return w.filled
}

type filler struct {
	translate func(ctx context.Context, en string) (string, error)
	filled    int
	errs      []error
}

func (w *filler) walk(ctx context.Context, v interface{}) {
	if ctx.Err() != nil {
		return
	}
	switch node := v.(type) {
	case map[string]interface{}:
		if en, ok := bilingualPair(node); ok {
			w.fill(ctx, node, en)
			return
		}
		for _, child := range node {
			w.walk(ctx, child)
		}
	case []interface{}:
		for _, child := range node {
			w.walk(ctx, child)
		}
	}
}

func (w *filler) fill(ctx context.Context, node map[string]interface{}, en string) {
	mr, _ := node["mr"].(string)
	if strings.TrimSpace(en) == "" || strings.TrimSpace(mr) != "" {
		return
	}
	out, err := w.translate(ctx, en)
	if errors.Is(err, errNoEntry) {
		return
	}
	if err == nil && strings.TrimSpace(out) == "" {
		err = errors.New("empty translation")
	}
	if err != nil {
		w.errs = append(w.errs, fmt.Errorf("translate %q: %w", en, err))
		return
	}
	node["mr"] = out
	w.filled++
}

// bilingualPair reports whether node is exactly an en/mr pair of strings.
// A missing mr key counts as empty.
func bilingualPair(node map[string]interface{}) (string, bool) {
	en, ok := node["en"].(string)
	if !ok {
		return "", false
	}
	for k, v := range node {
		switch k {
		case "en":
		case "mr":
			if _, isStr := v.(string); !isStr && v != nil {
				return "", false
			}
		default:
			return "", false
		}
	}
	return en, true
}
