package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/prepgrid/interview-practice/domain"
	"github.com/prepgrid/interview-practice/usecase"
	"github.com/prepgrid/interview-practice/utils/log"
)

// Server upgrades chat-widget connections and drives one interview session
// per connection.
type Server struct {
	upgrader websocket.Upgrader
	svc      *usecase.InterviewService
	hub      *Hub
}

func NewServer(svc *usecase.InterviewService) *Server {
	return &Server{
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		svc:      svc,
		hub:      NewHub(),
	}
}

func (s *Server) RunWebsocketHub() {
	s.hub.Run()
}

func (s *Server) GetHub() *Hub {
	return s.hub
}

// Handler serves the "/ws" endpoint.
func (s *Server) Handler(c echo.Context) error {
	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	clientID, _ := c.Get("client_id").(string)
	if clientID == "" {
		clientID = uuid.NewString()
	}

	client := NewClient(conn, clientID, s.handleFrame)
	s.hub.Register(client)
	client.Run()

	defer s.hub.Unregister(client)

	<-client.Context().Done()
	return nil
}

// handleFrame dispatches one widget frame against the client's session.
func (s *Server) handleFrame(ctx context.Context, c *Client, frame ClientFrame) {
	switch frame.Type {
	case "start":
		s.handleStart(ctx, c, frame.Role)
	case "answer":
		s.handleAnswer(ctx, c, frame.Text)
	case "end":
		s.handleEnd(ctx, c)
	default:
		s.sendError(c, "bad_frame", "Unknown frame type: "+frame.Type)
	}
}

func (s *Server) handleStart(ctx context.Context, c *Client, rawRole string) {
	role, err := domain.ParseRole(rawRole)
	if err != nil {
		s.sendError(c, "invalid_role", "Choose one of: software_engineer, sales, retail_associate")
		return
	}

	sessionID := uuid.NewString()
	ctx = context.WithValue(ctx, "session_id", sessionID)
	ctx = context.WithValue(ctx, "role", string(role))

	sess, question, err := s.svc.Start(ctx, role)
	if err != nil {
		s.sendServiceError(ctx, c, err)
		return
	}

	c.sess = sess
	c.sessionID = sessionID
	s.sendFrame(c, ServerFrame{Type: "question", Text: question})
}

func (s *Server) handleAnswer(ctx context.Context, c *Client, text string) {
	if c.sess == nil {
		s.sendError(c, "no_session", "Send a start frame before answering.")
		return
	}
	ctx = context.WithValue(ctx, "session_id", c.sessionID)

	result, err := s.svc.SubmitAnswer(ctx, c.sess, text)
	if err != nil {
		s.sendServiceError(ctx, c, err)
		return
	}

	if result.Ended {
		s.sendFrame(c, ServerFrame{Type: "summary", Text: result.DisplayText, Ended: true})
		return
	}
	if len(result.Feedback) > 0 {
		s.sendFrame(c, ServerFrame{Type: "feedback", Bullets: result.Feedback})
	}
	frameType := "question"
	switch {
	case result.Guidance:
		frameType = "guidance"
	case result.IsFollowup:
		frameType = "followup"
	}
	s.sendFrame(c, ServerFrame{Type: frameType, Text: result.DisplayText, Followup: result.IsFollowup})
}

func (s *Server) handleEnd(ctx context.Context, c *Client) {
	if c.sess == nil {
		s.sendError(c, "no_session", "No interview in progress.")
		return
	}
	ctx = context.WithValue(ctx, "session_id", c.sessionID)

	summary, err := s.svc.End(ctx, c.sess)
	if err != nil {
		s.sendServiceError(ctx, c, err)
		return
	}
	s.sendFrame(c, ServerFrame{Type: "summary", Text: summary, Ended: true})
}

func (s *Server) sendFrame(c *Client, frame ServerFrame) {
	payload, err := json.Marshal(frame)
	if err != nil {
		return
	}
	if err := c.SendMessage(payload); err != nil {
		log.WithCtx(c.ctx).Error("Failed to send frame", zap.Error(err))
	}
}

func (s *Server) sendError(c *Client, code, message string) {
	s.sendFrame(c, ServerFrame{Type: "error", Code: code, Text: message})
}

func (s *Server) sendServiceError(ctx context.Context, c *Client, err error) {
	var authErr *domain.AuthError
	if errors.As(err, &authErr) {
		log.WithCtx(ctx).Error("Provider rejected credentials", zap.Error(err))
		s.sendError(c, "auth_failed", "The interview service could not authenticate with its AI provider. Check the configured API key.")
		return
	}
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		log.WithCtx(ctx).Warn("Provider call failed", zap.Error(err))
		s.sendError(c, "provider_unavailable", "The AI provider is unreachable right now. Please try again.")
		return
	}
	if errors.Is(err, domain.ErrSessionEnded) {
		s.sendError(c, "session_ended", "This interview has already ended.")
		return
	}
	log.WithCtx(ctx).Error("Unexpected service error", zap.Error(err))
	s.sendError(c, "internal", "Something went wrong. Please try again.")
}
