package editor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/bilingual"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/tenant"
)

type mapTranslator map[string]string

func (m mapTranslator) Translate(_ context.Context, text, source, target string) (string, error) {
	if source != "en" || target != "mr" {
		return "", errors.New("unexpected language pair")
	}
	if out, ok := m[text]; ok {
		return out, nil
	}
	return "", common.ErrTranslationUnavailable
}

func startServer(t *testing.T, cfg Config) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		NewSession(conn, tenant.Context{ID: "pindkepar"}, cfg).Run(r.Context())
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func testConfig() Config {
	return Config{
		Translator: mapTranslator{"Gram Sabha": "ग्रामसभा"},
		Debounce:   20 * time.Millisecond,
		Timeout:    time.Second,
	}
}

func send(t *testing.T, conn *websocket.Conn, msg ClientMessage) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(msg))
}

// readUntil returns the first message accepted by match.
func readUntil(t *testing.T, conn *websocket.Conn, match func(ServerMessage) bool) ServerMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		var msg ServerMessage
		require.NoError(t, conn.ReadJSON(&msg))
		if match(msg) {
			return msg
		}
	}
}

func ofType(typ string) func(ServerMessage) bool {
	return func(m ServerMessage) bool { return m.Type == typ }
}

func TestSession_OpenAndTranslate(t *testing.T) {
	conn := startServer(t, testConfig())

	send(t, conn, ClientMessage{Type: MsgOpen, Field: "title", Value: &bilingual.Text{En: "Old"}})
	first := readUntil(t, conn, ofType(MsgValue))
	assert.Equal(t, "title", first.Field)
	assert.Equal(t, "Old", first.Value.En)
	st := readUntil(t, conn, ofType(MsgStatus))
	assert.True(t, st.Status.AutoTranslate)
	assert.Equal(t, bilingual.StateIdle, st.Status.State)

	send(t, conn, ClientMessage{Type: MsgEnglish, Field: "title", Text: "Gram Sabha"})
	typed := readUntil(t, conn, ofType(MsgValue))
	assert.Equal(t, bilingual.Text{En: "Gram Sabha"}, *typed.Value)

	translating := readUntil(t, conn, func(m ServerMessage) bool { return m.Type == MsgStatus && m.Status.Translating })
	assert.Equal(t, bilingual.StateTranslating, translating.Status.State)

	translated := readUntil(t, conn, ofType(MsgValue))
	assert.Equal(t, bilingual.Text{En: "Gram Sabha", Mr: "ग्रामसभा"}, *translated.Value)
	idle := readUntil(t, conn, ofType(MsgStatus))
	assert.False(t, idle.Status.Translating)
	assert.Empty(t, idle.Message)
}

func TestSession_FailedTranslationKeepsMarathi(t *testing.T) {
	conn := startServer(t, testConfig())

	send(t, conn, ClientMessage{Type: MsgOpen, Field: "name", Value: &bilingual.Text{Mr: "हाताने"}})
	readUntil(t, conn, ofType(MsgStatus))

	send(t, conn, ClientMessage{Type: MsgEnglish, Field: "name", Text: "Unknown words"})
	readUntil(t, conn, func(m ServerMessage) bool { return m.Type == MsgStatus && m.Status.Translating })
	failed := readUntil(t, conn, ofType(MsgStatus))
	assert.Equal(t, bilingual.StateIdle, failed.Status.State)
	assert.Contains(t, failed.Message, "translation unavailable")

	send(t, conn, ClientMessage{Type: MsgMarathi, Field: "name", Text: "नवीन"})
	v := readUntil(t, conn, ofType(MsgValue))
	assert.Equal(t, bilingual.Text{En: "Unknown words", Mr: "नवीन"}, *v.Value)
}

func TestSession_ToggleValidateAndClose(t *testing.T) {
	conn := startServer(t, testConfig())

	off := false
	send(t, conn, ClientMessage{
		Type: MsgOpen, Field: "desc", AutoTranslate: &off,
		Options: &bilingual.Options{Label: "Description", Required: true},
	})
	st := readUntil(t, conn, ofType(MsgStatus))
	assert.False(t, st.Status.AutoTranslate)

	send(t, conn, ClientMessage{Type: MsgValidate, Field: "desc"})
	res := readUntil(t, conn, ofType(MsgValidation))
	require.NotNil(t, res.Valid)
	assert.False(t, *res.Valid)
	assert.Contains(t, res.Message, "Description is required")

	on := true
	send(t, conn, ClientMessage{Type: MsgAutoTranslate, Field: "desc", Enabled: &on})
	st = readUntil(t, conn, ofType(MsgStatus))
	assert.True(t, st.Status.AutoTranslate)

	send(t, conn, ClientMessage{Type: MsgClose, Field: "desc"})
	closed := readUntil(t, conn, ofType(MsgClosed))
	assert.Equal(t, "desc", closed.Field)

	send(t, conn, ClientMessage{Type: MsgEnglish, Field: "desc", Text: "x"})
	e := readUntil(t, conn, ofType(MsgError))
	assert.Contains(t, e.Message, "not open")
}

func TestSession_Errors(t *testing.T) {
	cfg := testConfig()
	cfg.MaxFields = 1
	conn := startServer(t, cfg)

	send(t, conn, ClientMessage{Type: MsgOpen, Field: "a"})
	readUntil(t, conn, ofType(MsgStatus))

	send(t, conn, ClientMessage{Type: MsgOpen, Field: "a"})
	assert.Contains(t, readUntil(t, conn, ofType(MsgError)).Message, "already open")

	send(t, conn, ClientMessage{Type: MsgOpen, Field: "b"})
	assert.Contains(t, readUntil(t, conn, ofType(MsgError)).Message, "at most 1")

	send(t, conn, ClientMessage{Type: "shout", Field: "a"})
	assert.Contains(t, readUntil(t, conn, ofType(MsgError)).Message, "unknown message type")

	send(t, conn, ClientMessage{Type: MsgAutoTranslate, Field: "a"})
	assert.Contains(t, readUntil(t, conn, ofType(MsgError)).Message, "needs enabled")
}

func TestSession_DisabledField(t *testing.T) {
	conn := startServer(t, testConfig())

	send(t, conn, ClientMessage{Type: MsgOpen, Field: "locked", Options: &bilingual.Options{Disabled: true}})
	readUntil(t, conn, ofType(MsgStatus))

	send(t, conn, ClientMessage{Type: MsgEnglish, Field: "locked", Text: "Gram Sabha"})
	e := readUntil(t, conn, ofType(MsgError))
	assert.Equal(t, bilingual.ErrFieldDisabled.Error(), e.Message)
}
