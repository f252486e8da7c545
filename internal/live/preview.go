// Package live streams score previews to a student while they answer.
package live

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/xworks/readiness/internal/questionbank"
	"github.com/xworks/readiness/internal/scoring"
)

// Message types.
const (
	TypeAnswer = "answer"
	TypeClear  = "clear"
	TypeReset  = "reset"
	TypeResult = "result"
	TypeError  = "error"
)

const (
	readLimit    = 4 << 10
	writeTimeout = 5 * time.Second
)

// Previewer scores answers without storing them.
type Previewer interface {
	Bank(id string) (*questionbank.Bank, error)
	Preview(ctx context.Context, bankID string, answers scoring.Answers) (*scoring.Result, error)
}

// ClientMessage is sent by the browser. A message without a type that names
// a question is an answer.
type ClientMessage struct {
	Type       string `json:"type,omitempty"`
	QuestionID string `json:"question_id,omitempty"`
	Selected   int    `json:"selected"`
}

// ServerMessage is sent back after every client message.
type ServerMessage struct {
	Type     string          `json:"type"`
	Answered int             `json:"answered"`
	Result   *scoring.Result `json:"result,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// Handler upgrades GET /ws/preview?bank_id=... to a websocket session.
type Handler struct {
	previewer      Previewer
	logger         *slog.Logger
	originPatterns []string
}

// NewHandler creates a preview handler. originPatterns is passed to the
// websocket origin check; empty means same-origin only.
func NewHandler(previewer Previewer, logger *slog.Logger, originPatterns ...string) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{previewer: previewer, logger: logger, originPatterns: originPatterns}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	bankID := r.URL.Query().Get("bank_id")
	if bankID == "" {
		http.Error(w, "bank_id is required", http.StatusBadRequest)
		return
	}
	bank, err := h.previewer.Bank(bankID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.originPatterns})
	if err != nil {
		h.logger.Warn("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(readLimit)

	s := &session{bank: bank, answers: scoring.Answers{}, options: optionCounts(bank)}
	h.logger.Debug("preview session started", "bank_id", bank.ID)

	err = h.run(r.Context(), conn, s)
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		conn.Close(websocket.StatusNormalClosure, "")
		return
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		h.logger.Warn("preview session ended", "bank_id", bank.ID, "error", err)
	}
}

func (h *Handler) run(ctx context.Context, conn *websocket.Conn, s *session) error {
	if err := h.send(ctx, conn, h.result(ctx, s)); err != nil {
		return err
	}

	for {
		var msg ClientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			return err
		}

		var reply ServerMessage
		if err := s.apply(msg); err != nil {
			reply = ServerMessage{Type: TypeError, Answered: len(s.answers), Error: err.Error()}
		} else {
			reply = h.result(ctx, s)
		}
		if err := h.send(ctx, conn, reply); err != nil {
			return err
		}
	}
}

func (h *Handler) result(ctx context.Context, s *session) ServerMessage {
	res, err := h.previewer.Preview(ctx, s.bank.ID, s.answers)
	if err != nil {
		return ServerMessage{Type: TypeError, Answered: len(s.answers), Error: err.Error()}
	}
	return ServerMessage{Type: TypeResult, Answered: len(s.answers), Result: res}
}

func (h *Handler) send(ctx context.Context, conn *websocket.Conn, msg ServerMessage) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, msg)
}

// session holds one student's in-progress answers. It is owned by a single
// connection goroutine.
type session struct {
	bank    *questionbank.Bank
	answers scoring.Answers
	options map[string]int
}

func (s *session) apply(msg ClientMessage) error {
	if msg.Type == "" && msg.QuestionID != "" {
		msg.Type = TypeAnswer
	}
	switch msg.Type {
	case TypeAnswer:
		n, ok := s.options[msg.QuestionID]
		if !ok {
			return fmt.Errorf("unknown question %q", msg.QuestionID)
		}
		if msg.Selected < 0 || msg.Selected >= n {
			return fmt.Errorf("option %d out of range for question %q", msg.Selected, msg.QuestionID)
		}
		s.answers[msg.QuestionID] = msg.Selected
	case TypeClear:
		delete(s.answers, msg.QuestionID)
	case TypeReset:
		s.answers = scoring.Answers{}
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
	return nil
}

func optionCounts(bank *questionbank.Bank) map[string]int {
	m := make(map[string]int, len(bank.Questions))
	for _, q := range bank.Questions {
		m[q.ID] = len(q.Options)
	}
	return m
}
