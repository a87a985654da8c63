package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/prepgrid/interview-practice/domain"
	"github.com/prepgrid/interview-practice/usecase"
	"github.com/prepgrid/interview-practice/utils/log"
)

const (
	jwtExpiry = 24 * time.Hour

	// Concurrent interview turns allowed across all sessions.
	maxConcurrent = 10
)

// InterviewHandler exposes the interview service over REST.
type InterviewHandler struct {
	svc       *usecase.InterviewService
	registry  *Registry
	jwtSecret []byte
	apiKey    string
	apiSecret string
}

type startRequest struct {
	Role string `json:"role"`
}

type startResponse struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
}

type answerRequest struct {
	Text string `json:"text"`
}

type summaryResponse struct {
	Summary string `json:"summary"`
	Ended   bool   `json:"ended"`
}

type JWTClaims struct {
	ClientID string `json:"client_id"`
	jwt.RegisteredClaims
}

func NewInterviewHandler(svc *usecase.InterviewService, registry *Registry, jwtSecret, apiKey, apiSecret string) *InterviewHandler {
	return &InterviewHandler{
		svc:       svc,
		registry:  registry,
		jwtSecret: []byte(jwtSecret),
		apiKey:    apiKey,
		apiSecret: apiSecret,
	}
}

// HealthCheck reports service liveness and the live session count.
func (h *InterviewHandler) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"sessions": h.registry.Count(),
	})
}

// GenerateJWT exchanges the API key pair for a bearer token.
func (h *InterviewHandler) GenerateJWT(c echo.Context) error {
	key := c.Request().Header.Get("X-API-Key")
	secret := c.Request().Header.Get("X-API-Secret")

	if key != h.apiKey || secret != h.apiSecret {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	claims := &JWTClaims{
		ClientID: key,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(jwtExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "interview-practice",
			Subject:   "interview-session",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(h.jwtSecret)
	if err != nil {
		log.WithCtx(c.Request().Context()).Error("Failed to sign JWT", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"token": tokenString,
		"type":  "Bearer",
	})
}

// JWTMiddleware authenticates interview routes.
func (h *InterviewHandler) JWTMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization header")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization format")
		}

		token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return h.jwtSecret, nil
		})
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		}

		if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
			c.Set("client_id", claims.ClientID)
			return next(c)
		}
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token claims")
	}
}

// RateLimitMiddleware caps concurrent interview turns; generation calls can
// be slow and the provider is rate limited upstream.
func (h *InterviewHandler) RateLimitMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	semaphore := make(chan struct{}, maxConcurrent)
	return func(c echo.Context) error {
		select {
		case semaphore <- struct{}{}:
			defer func() { <-semaphore }()
			return next(c)
		default:
			return echo.NewHTTPError(http.StatusTooManyRequests, "Too many concurrent requests")
		}
	}
}

// StartInterview creates a session and returns its opening question.
func (h *InterviewHandler) StartInterview(c echo.Context) error {
	var req startRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("Unknown role %q; choose one of: software_engineer, sales, retail_associate", req.Role))
	}

	ctx := contextWithRole(c.Request().Context(), role)
	sess, question, err := h.svc.Start(ctx, role)
	if err != nil {
		return h.mapServiceError(c, err)
	}

	id := h.registry.Add(sess)
	log.WithCtx(ctx).Info("Session registered", zap.String("session_id", id))
	return c.JSON(http.StatusOK, startResponse{SessionID: id, Question: question})
}

// SubmitAnswer runs one interview turn.
func (h *InterviewHandler) SubmitAnswer(c echo.Context) error {
	var req answerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	id := c.Param("id")
	ctx := context.WithValue(c.Request().Context(), "session_id", id)

	var result usecase.AnswerResult
	found, err := h.registry.WithSession(id, func(sess *domain.Session) error {
		var submitErr error
		result, submitErr = h.svc.SubmitAnswer(ctx, sess, req.Text)
		return submitErr
	})
	if !found {
		return echo.NewHTTPError(http.StatusNotFound, "Unknown session")
	}
	if err != nil {
		return h.mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// EndInterview terminates a session and returns its summary.
func (h *InterviewHandler) EndInterview(c echo.Context) error {
	return h.summarize(c)
}

// Summary returns the closing summary; idempotent, so a client can re-fetch
// it after the interview ended.
func (h *InterviewHandler) Summary(c echo.Context) error {
	return h.summarize(c)
}

func (h *InterviewHandler) summarize(c echo.Context) error {
	id := c.Param("id")
	ctx := context.WithValue(c.Request().Context(), "session_id", id)

	var summary string
	found, err := h.registry.WithSession(id, func(sess *domain.Session) error {
		var endErr error
		summary, endErr = h.svc.End(ctx, sess)
		return endErr
	})
	if !found {
		return echo.NewHTTPError(http.StatusNotFound, "Unknown session")
	}
	if err != nil {
		return h.mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, summaryResponse{Summary: summary, Ended: true})
}

// mapServiceError converts the error taxonomy into user-facing responses.
// Provider hiccups keep the session alive; the user just retries.
func (h *InterviewHandler) mapServiceError(c echo.Context, err error) error {
	ctx := c.Request().Context()

	var authErr *domain.AuthError
	if errors.As(err, &authErr) {
		log.WithCtx(ctx).Error("Provider rejected credentials", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadGateway,
			"The interview service could not authenticate with its AI provider. Check the configured API key.")
	}
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		log.WithCtx(ctx).Warn("Provider call failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadGateway,
			"The AI provider is unreachable right now. Please try again.")
	}
	if errors.Is(err, domain.ErrSessionEnded) {
		return echo.NewHTTPError(http.StatusConflict, "This interview has already ended.")
	}
	if errors.Is(err, domain.ErrInvalidRole) {
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown interview role.")
	}
	log.WithCtx(ctx).Error("Unexpected service error", zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError, "Something went wrong. Please try again.")
}

func contextWithRole(ctx context.Context, role domain.Role) context.Context {
	return context.WithValue(ctx, "role", string(role))
}
