package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"fitzone-api/internal/domain"
	"fitzone-api/internal/logging"
	"fitzone-api/internal/usecase"
)

const correlationHeader = "X-Correlation-Id"

type ChatUseCase interface {
	Start(ctx context.Context) usecase.StartOutput
	Send(ctx context.Context, in usecase.SendInput) (usecase.SendOutput, error)
	Transcript(ctx context.Context, conversationID string) ([]domain.ChatMessage, error)
}

type MealPlanUseCase interface {
	Generate(ctx context.Context, profile domain.UserProfile) (usecase.MealPlanOutput, error)
	SeedPlan(ctx context.Context, key string, plan domain.DailyMealPlan) (domain.DailyMealPlan, error)
}

type CatalogUseCase interface {
	ListFAQs(ctx context.Context) []domain.KnowledgeEntry
	GetFAQ(ctx context.Context, question string) (domain.KnowledgeEntry, error)
	AddFAQ(ctx context.Context, faq domain.KnowledgeEntry) error
	ListGymLocations(ctx context.Context) []domain.GymLocation
	GetGymLocation(ctx context.Context, name string) (domain.GymLocation, error)
	AddGymLocation(ctx context.Context, loc domain.GymLocation) error
	ListEquipment(ctx context.Context) []domain.Equipment
	GetEquipment(ctx context.Context, name string) (domain.Equipment, error)
	AddEquipment(ctx context.Context, item domain.Equipment) error
	ListWorkouts(ctx context.Context) []domain.Workout
	GetWorkout(ctx context.Context, name string) (domain.Workout, error)
	AddWorkout(ctx context.Context, w domain.Workout) error
	Quotes() []domain.Quote
}

// Deps are the collaborators of a Handler. Admin and Limiter are optional:
// without Admin every admin route answers 401, without Limiter chat is
// not throttled.
type Deps struct {
	Chat      ChatUseCase
	MealPlans MealPlanUseCase
	Catalog   CatalogUseCase
	Admin     *AdminAuth
	Limiter   *IPRateLimiter
}

type Handler struct {
	chat      ChatUseCase
	mealPlans MealPlanUseCase
	catalog   CatalogUseCase
	admin     *AdminAuth
	limiter   *IPRateLimiter
}

type sendRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId"`
}

type chatResponse struct {
	ConversationID string             `json:"conversationId"`
	Message        domain.ChatMessage `json:"message"`
}

type transcriptResponse struct {
	ConversationID string               `json:"conversationId"`
	Messages       []domain.ChatMessage `json:"messages"`
}

type mealPlanResponse struct {
	ProfileKey string               `json:"profileKey"`
	Source     usecase.PlanSource   `json:"source"`
	Plan       domain.DailyMealPlan `json:"plan"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

func NewHandler(d Deps) (*Handler, error) {
	if d.Chat == nil {
		return nil, errors.New("handler: chat use case must not be nil")
	}
	if d.MealPlans == nil {
		return nil, errors.New("handler: meal plan use case must not be nil")
	}
	if d.Catalog == nil {
		return nil, errors.New("handler: catalog use case must not be nil")
	}
	return &Handler{
		chat:      d.Chat,
		mealPlans: d.MealPlans,
		catalog:   d.Catalog,
		admin:     d.Admin,
		limiter:   d.Limiter,
	}, nil
}

// Handle serves one API Gateway proxy request. Failures are always
// rendered as JSON responses, so the returned error is always nil.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	started := time.Now()
	corrID := correlationID(req.Headers)
	ctx = logging.WithCorrelationID(ctx, corrID)
	log := logging.FromContext(ctx)

	resp := h.route(ctx, req)
	if resp.Headers == nil {
		resp.Headers = map[string]string{}
	}
	resp.Headers[correlationHeader] = corrID
	for k, v := range corsHeaders {
		resp.Headers[k] = v
	}

	log.Info("request handled",
		zap.String("method", req.HTTPMethod),
		zap.String("path", req.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(started)),
	)
	return resp, nil
}

func (h *Handler) route(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	method := strings.ToUpper(req.HTTPMethod)
	if method == http.MethodOptions {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusNoContent}
	}

	segs := pathSegments(req.Path)
	switch {
	case method == http.MethodGet && match(segs, "health"):
		return jsonResponse(http.StatusOK, map[string]string{"status": "ok"})

	case method == http.MethodPost && match(segs, "chat", "start"):
		out := h.chat.Start(ctx)
		return jsonResponse(http.StatusOK, chatResponse{ConversationID: out.ConversationID, Message: out.Greeting})

	case method == http.MethodPost && match(segs, "chat"):
		return h.handleSend(ctx, req)

	case method == http.MethodGet && len(segs) == 2 && segs[0] == "chat":
		msgs, err := h.chat.Transcript(ctx, segs[1])
		if err != nil {
			return errorResult(ctx, err)
		}
		return jsonResponse(http.StatusOK, transcriptResponse{ConversationID: segs[1], Messages: msgs})

	case method == http.MethodPost && match(segs, "meal-plan"):
		var profile domain.UserProfile
		if err := decodeBody(req, &profile); err != nil {
			return errorResult(ctx, err)
		}
		out, err := h.mealPlans.Generate(ctx, profile)
		if err != nil {
			return errorResult(ctx, err)
		}
		return jsonResponse(http.StatusOK, mealPlanResponse{ProfileKey: out.Key, Source: out.Source, Plan: out.Plan})

	case method == http.MethodGet && match(segs, "quotes"):
		return jsonResponse(http.StatusOK, h.catalog.Quotes())

	case method == http.MethodGet && len(segs) == 1:
		return h.handleList(ctx, segs[0])

	case method == http.MethodGet && len(segs) == 2:
		return h.handleGet(ctx, segs[0], segs[1])

	case method == http.MethodPost && len(segs) == 1,
		method == http.MethodPut && len(segs) == 2 && segs[0] == "meal-plans":
		return h.handleAdmin(ctx, req, method, segs)
	}
	return errorResult(ctx, usecase.NewError(usecase.ErrorNotFound, "route_not_found"))
}

func (h *Handler) handleSend(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	if h.limiter != nil && !h.limiter.Allow(sourceIP(req)) {
		return errorResult(ctx, usecase.NewError(usecase.ErrorRateLimited, "chat_rate_limited"))
	}
	var body sendRequest
	if err := decodeBody(req, &body); err != nil {
		return errorResult(ctx, err)
	}
	out, err := h.chat.Send(ctx, usecase.SendInput{Message: body.Message, ConversationID: body.ConversationID})
	if err != nil {
		return errorResult(ctx, err)
	}
	return jsonResponse(http.StatusOK, chatResponse{ConversationID: out.ConversationID, Message: out.Reply})
}

func (h *Handler) handleList(ctx context.Context, kind string) events.APIGatewayProxyResponse {
	switch kind {
	case "faqs":
		return jsonResponse(http.StatusOK, h.catalog.ListFAQs(ctx))
	case "gyms":
		return jsonResponse(http.StatusOK, h.catalog.ListGymLocations(ctx))
	case "equipment":
		return jsonResponse(http.StatusOK, h.catalog.ListEquipment(ctx))
	case "workouts":
		return jsonResponse(http.StatusOK, h.catalog.ListWorkouts(ctx))
	}
	return errorResult(ctx, usecase.NewError(usecase.ErrorNotFound, "route_not_found"))
}

func (h *Handler) handleGet(ctx context.Context, kind, name string) events.APIGatewayProxyResponse {
	var (
		v   any
		err error
	)
	switch kind {
	case "faqs":
		v, err = h.catalog.GetFAQ(ctx, name)
	case "gyms":
		v, err = h.catalog.GetGymLocation(ctx, name)
	case "equipment":
		v, err = h.catalog.GetEquipment(ctx, name)
	case "workouts":
		v, err = h.catalog.GetWorkout(ctx, name)
	default:
		err = usecase.NewError(usecase.ErrorNotFound, "route_not_found")
	}
	if err != nil {
		return errorResult(ctx, err)
	}
	return jsonResponse(http.StatusOK, v)
}

// sourceIP keys the chat limiter. Requests without an identity share one
// bucket.
func sourceIP(req events.APIGatewayProxyRequest) string {
	if ip := strings.TrimSpace(req.RequestContext.Identity.SourceIP); ip != "" {
		return ip
	}
	return "unknown"
}

func correlationID(headers map[string]string) string {
	for k, v := range headers {
		if strings.EqualFold(k, correlationHeader) && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return uuid.NewString()
}

func headerValue(headers map[string]string, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// pathSegments splits a request path into unescaped, non-empty segments.
func pathSegments(path string) []string {
	var segs []string
	for _, s := range strings.Split(path, "/") {
		if s == "" {
			continue
		}
		if u, err := url.PathUnescape(s); err == nil {
			s = u
		}
		segs = append(segs, s)
	}
	return segs
}

func match(segs []string, want ...string) bool {
	if len(segs) != len(want) {
		return false
	}
	for i := range want {
		if segs[i] != want[i] {
			return false
		}
	}
	return true
}

func decodeBody(req events.APIGatewayProxyRequest, v any) error {
	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return usecase.NewError(usecase.ErrorInvalidInput, "invalid_body")
		}
		body = decoded
	}
	if err := json.Unmarshal(body, v); err != nil {
		return usecase.NewError(usecase.ErrorInvalidInput, "invalid_body")
	}
	return nil
}

var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "Content-Type, Authorization, X-Correlation-Id",
	"Access-Control-Allow-Methods": "GET, POST, PUT, OPTIONS",
}

func jsonResponse(status int, v any) events.APIGatewayProxyResponse {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Error: string(usecase.ErrorInternal), Reason: "encode_error"})
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}

func errorResult(ctx context.Context, err error) events.APIGatewayProxyResponse {
	code, reason := usecase.ErrorInternal, "internal_error"
	var ucErr *usecase.Error
	if errors.As(err, &ucErr) {
		code, reason = ucErr.Code, ucErr.Reason
	}
	status := statusFor(code)

	log := logging.FromContext(ctx)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", zap.String("code", string(code)), zap.String("reason", reason), zap.Error(err))
	} else {
		log.Info("request rejected", zap.String("code", string(code)), zap.String("reason", reason))
	}
	return jsonResponse(status, errorResponse{Error: string(code), Reason: reason})
}

func statusFor(code usecase.ErrorCode) int {
	switch code {
	case usecase.ErrorInvalidInput:
		return http.StatusBadRequest
	case usecase.ErrorUnauthorized:
		return http.StatusUnauthorized
	case usecase.ErrorNotFound:
		return http.StatusNotFound
	case usecase.ErrorRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
