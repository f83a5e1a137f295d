package editor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/bilingual"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/tenant"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	outboxSize     = 64

	DefaultMaxFields = 64
)

// Config is shared by every session of a server.
type Config struct {
	Translator bilingual.Translator
	Debounce   time.Duration
	Timeout    time.Duration
	MaxFields  int
	// Clock is only set by tests.
	Clock bilingual.Clock
}

// Session is one admin's editing connection. Sessions share nothing but the
// translator.
type Session struct {
	conn   *websocket.Conn
	tc     tenant.Context
	cfg    Config
	fields map[string]*bilingual.Field // read loop only

	out      chan ServerMessage
	quit     chan struct{}
	quitOnce sync.Once
}

func NewSession(conn *websocket.Conn, tc tenant.Context, cfg Config) *Session {
	if cfg.MaxFields <= 0 {
		cfg.MaxFields = DefaultMaxFields
	}
	return &Session{
		conn:   conn,
		tc:     tc,
		cfg:    cfg,
		fields: make(map[string]*bilingual.Field),
		out:    make(chan ServerMessage, outboxSize),
		quit:   make(chan struct{}),
	}
}

func (s *Session) stop() {
	s.quitOnce.Do(func() { close(s.quit) })
}

// Run serves the connection until the client goes away or ctx ends. Every
// field is closed on return, so no translation outlives the session.
func (s *Session) Run(ctx context.Context) {
	log.Printf("INFO: Editor session opened for tenant %s", s.tc.ID)
	writerDone := make(chan struct{})
	go func() {
		s.writeLoop()
		close(writerDone)
	}()
	go func() {
		select {
		case <-ctx.Done():
			s.stop()
			s.conn.Close()
		case <-s.quit:
		}
	}()

	s.readLoop()

	for name, f := range s.fields {
		f.Close()
		delete(s.fields, name)
	}
	s.stop()
	<-writerDone
	s.conn.Close()
	log.Printf("INFO: Editor session closed for tenant %s", s.tc.ID)
}

func (s *Session) readLoop() {
	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		var msg ClientMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) && !isClosedConn(s.quit) {
				log.Printf("WARN: Editor session read failed for tenant %s: %v", s.tc.ID, err)
			}
			return
		}
		if err := s.handle(msg); err != nil {
			s.send(ServerMessage{Type: MsgError, Field: msg.Field, Message: err.Error()})
		}
	}
}

func isClosedConn(quit chan struct{}) bool {
	select {
	case <-quit:
		return true
	default:
		return false
	}
}

func (s *Session) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case msg := <-s.out:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(msg); err != nil {
				log.Printf("WARN: Editor session write failed for tenant %s: %v", s.tc.ID, err)
				s.stop()
				s.conn.Close()
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.stop()
				s.conn.Close()
				return
			}
		case <-s.quit:
			s.flush()
			return
		}
	}
}

// flush writes whatever is still queued, best effort.
func (s *Session) flush() {
	for {
		select {
		case msg := <-s.out:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(msg); err != nil {
				return
			}
		default:
			return
		}
	}
}

// send queues msg for the writer. It gives up once the session is stopping.
func (s *Session) send(msg ServerMessage) {
	select {
	case s.out <- msg:
	case <-s.quit:
	}
}

func (s *Session) handle(msg ClientMessage) error {
	if msg.Type != MsgOpen && msg.Type != "" {
		if _, ok := s.fields[msg.Field]; !ok {
			return fmt.Errorf("field %q is not open", msg.Field)
		}
	}
	switch msg.Type {
	case MsgOpen:
		return s.open(msg)
	case MsgEnglish:
		return s.fields[msg.Field].SetEnglish(msg.Text)
	case MsgMarathi:
		return s.fields[msg.Field].SetMarathi(msg.Text)
	case MsgAutoTranslate:
		if msg.Enabled == nil {
			return errors.New("autoTranslate needs enabled")
		}
		return s.fields[msg.Field].SetAutoTranslate(*msg.Enabled)
	case MsgValidate:
		reply := ServerMessage{Type: MsgValidation, Field: msg.Field}
		valid := true
		if err := s.fields[msg.Field].Validate(); err != nil {
			valid = false
			reply.Message = err.Error()
		}
		reply.Valid = &valid
		s.send(reply)
		return nil
	case MsgClose:
		s.fields[msg.Field].Close()
		delete(s.fields, msg.Field)
		s.send(ServerMessage{Type: MsgClosed, Field: msg.Field})
		return nil
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
}

func (s *Session) open(msg ClientMessage) error {
	name := msg.Field
	if name == "" {
		return errors.New("open needs a field name")
	}
	if _, ok := s.fields[name]; ok {
		return fmt.Errorf("field %q is already open", name)
	}
	if len(s.fields) >= s.cfg.MaxFields {
		return fmt.Errorf("at most %d fields can be open", s.cfg.MaxFields)
	}

	var initial bilingual.Text
	if msg.Value != nil {
		initial = *msg.Value
	}
	opts := []bilingual.Option{
		bilingual.WithDebounce(s.cfg.Debounce),
		bilingual.WithTimeout(s.cfg.Timeout),
		bilingual.OnChange(func(v bilingual.Text) {
			s.send(ServerMessage{Type: MsgValue, Field: name, Value: &v})
		}),
	}
	if s.cfg.Clock != nil {
		opts = append(opts, bilingual.WithClock(s.cfg.Clock))
	}
	if msg.AutoTranslate != nil {
		opts = append(opts, bilingual.WithAutoTranslate(*msg.AutoTranslate))
	}
	if msg.Options != nil {
		opts = append(opts, bilingual.WithOptions(*msg.Options))
	}

	var f *bilingual.Field
	opts = append(opts, bilingual.OnStatus(func(st bilingual.Status) {
		reply := ServerMessage{Type: MsgStatus, Field: name, Status: &st}
		if st.State == bilingual.StateIdle {
			if err := f.Err(); err != nil {
				reply.Message = err.Error()
			}
		}
		s.send(reply)
	}))
	f = bilingual.NewField(initial, s.cfg.Translator, opts...)
	s.fields[name] = f

	v, st := f.Value(), f.Status()
	s.send(ServerMessage{Type: MsgValue, Field: name, Value: &v})
	s.send(ServerMessage{Type: MsgStatus, Field: name, Status: &st})
	return nil
}
