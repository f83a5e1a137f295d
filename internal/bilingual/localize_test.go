package bilingual

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestLocalize(t *testing.T) {
	type notice struct {
		ID    string `json:"id"`
		Title Text   `json:"title"`
		Tags  []Text `json:"tags"`
	}
	in := []notice{{
		ID:    "n1",
		Title: Text{En: "Gram Sabha", Mr: "ग्रामसभा"},
		Tags:  []Text{{En: "Water Supply"}},
	}}

	out, err := Localize(in, language.Marathi)
	require.NoError(t, err)
	list := out.([]interface{})
	require.Len(t, list, 1)
	first := list[0].(map[string]interface{})
	assert.Equal(t, "n1", first["id"])
	assert.Equal(t, "ग्रामसभा", first["title"])
	// Missing Marathi falls back to English.
	assert.Equal(t, []interface{}{"Water Supply"}, first["tags"])

	out, err = Localize(in[0], language.English)
	require.NoError(t, err)
	assert.Equal(t, "Gram Sabha", out.(map[string]interface{})["title"])
}

func TestLocalize_LeavesOtherMapsAlone(t *testing.T) {
	in := map[string]interface{}{
		"social": map[string]interface{}{"en": "x", "facebook": "fb"},
		"count":  3,
	}
	out, err := Localize(in, language.Marathi)
	require.NoError(t, err)
	m := out.(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"en": "x", "facebook": "fb"}, m["social"])
	assert.Equal(t, float64(3), m["count"])
}
