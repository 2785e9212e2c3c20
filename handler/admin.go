package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"fitzone-api/internal/domain"
	"fitzone-api/internal/integrations/paramstore"
	"fitzone-api/internal/logging"
	"fitzone-api/internal/usecase"
)

const adminRole = "admin"

var errUnauthorized = errors.New("handler: unauthorized")

// AdminAuth verifies HS256 bearer tokens carrying role=admin. The signing
// secret lives in SSM as {"secret": "..."} and is loaded on first use.
type AdminAuth struct {
	params    paramstore.Getter
	paramName string

	cacheMu     sync.RWMutex
	cacheLoaded bool
	secret      []byte
}

type adminSecret struct {
	Secret string `json:"secret"`
}

func NewAdminAuth(p paramstore.Getter, paramPrefix string) (*AdminAuth, error) {
	if p == nil {
		return nil, errors.New("handler: param getter must not be nil")
	}
	paramPrefix = strings.TrimRight(strings.TrimSpace(paramPrefix), "/")
	if paramPrefix == "" {
		return nil, errors.New("handler: parameter prefix must not be empty")
	}
	return &AdminAuth{params: p, paramName: paramPrefix + "/admin-jwt-secret"}, nil
}

// Verify checks an Authorization header value.
func (a *AdminAuth) Verify(ctx context.Context, authorization string) error {
	tokenString, ok := strings.CutPrefix(strings.TrimSpace(authorization), "Bearer ")
	if !ok || strings.TrimSpace(tokenString) == "" {
		return fmt.Errorf("%w: missing bearer token", errUnauthorized)
	}

	secret, err := a.loadSecret(ctx)
	if err != nil {
		return err
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(strings.TrimSpace(tokenString), claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return fmt.Errorf("%w: %v", errUnauthorized, err)
	}
	if role, _ := claims["role"].(string); role != adminRole {
		return fmt.Errorf("%w: role %q", errUnauthorized, role)
	}
	return nil
}

func (a *AdminAuth) loadSecret(ctx context.Context) ([]byte, error) {
	a.cacheMu.RLock()
	if a.cacheLoaded {
		s := a.secret
		a.cacheMu.RUnlock()
		return s, nil
	}
	a.cacheMu.RUnlock()

	a.cacheMu.Lock()
	defer a.cacheMu.Unlock()
	if a.cacheLoaded {
		return a.secret, nil
	}

	var v adminSecret
	if err := paramstore.GetJSON(ctx, a.params, a.paramName, &v); err != nil {
		return nil, fmt.Errorf("handler: load admin secret: %w", err)
	}
	if strings.TrimSpace(v.Secret) == "" {
		return nil, errors.New("handler: admin secret is empty")
	}
	a.secret = []byte(v.Secret)
	a.cacheLoaded = true
	return a.secret, nil
}

func (h *Handler) authorizeAdmin(ctx context.Context, req events.APIGatewayProxyRequest) error {
	if h.admin == nil {
		return usecase.NewError(usecase.ErrorUnauthorized, "admin_disabled")
	}
	err := h.admin.Verify(ctx, headerValue(req.Headers, "Authorization"))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errUnauthorized):
		logging.FromContext(ctx).Info("admin token rejected", zap.Error(err))
		return usecase.NewError(usecase.ErrorUnauthorized, "invalid_admin_token")
	default:
		return &usecase.Error{Code: usecase.ErrorInternal, Reason: "admin_secret_unavailable", Err: err}
	}
}

func (h *Handler) handleAdmin(ctx context.Context, req events.APIGatewayProxyRequest, method string, segs []string) events.APIGatewayProxyResponse {
	if !isAdminRoute(method, segs) {
		return errorResult(ctx, usecase.NewError(usecase.ErrorNotFound, "route_not_found"))
	}
	if err := h.authorizeAdmin(ctx, req); err != nil {
		return errorResult(ctx, err)
	}

	if method == http.MethodPut {
		var plan domain.DailyMealPlan
		if err := decodeBody(req, &plan); err != nil {
			return errorResult(ctx, err)
		}
		stored, err := h.mealPlans.SeedPlan(ctx, segs[1], plan)
		if err != nil {
			return errorResult(ctx, err)
		}
		return jsonResponse(http.StatusOK, stored)
	}

	switch segs[0] {
	case "faqs":
		return addItem(ctx, req, h.catalog.AddFAQ)
	case "gyms":
		return addItem(ctx, req, h.catalog.AddGymLocation)
	case "equipment":
		return addItem(ctx, req, h.catalog.AddEquipment)
	default:
		return addItem(ctx, req, h.catalog.AddWorkout)
	}
}

func isAdminRoute(method string, segs []string) bool {
	if method == http.MethodPut {
		return len(segs) == 2 && segs[0] == "meal-plans"
	}
	if len(segs) != 1 {
		return false
	}
	switch segs[0] {
	case "faqs", "gyms", "equipment", "workouts":
		return true
	}
	return false
}

func addItem[T any](ctx context.Context, req events.APIGatewayProxyRequest, add func(context.Context, T) error) events.APIGatewayProxyResponse {
	var item T
	if err := decodeBody(req, &item); err != nil {
		return errorResult(ctx, err)
	}
	if err := add(ctx, item); err != nil {
		return errorResult(ctx, err)
	}
	return jsonResponse(http.StatusCreated, item)
}
