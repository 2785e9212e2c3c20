// Package devserver serves the Lambda handler over plain HTTP for local runs.
package devserver

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fitzone-api/internal/logging"
)

// ProxyHandler is the Lambda entry point being served.
type ProxyHandler func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// NewRouter returns a gin engine that forwards every request to h as an API
// Gateway proxy event.
func NewRouter(h ProxyHandler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.NoRoute(func(c *gin.Context) {
		req, err := toProxyRequest(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_INPUT", "reason": "unreadable_body"})
			return
		}
		resp, err := h(c.Request.Context(), req)
		if err != nil {
			logging.FromContext(c.Request.Context()).Error("handler returned error", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "INTERNAL_ERROR", "reason": "handler_error"})
			return
		}
		for k, v := range resp.Headers {
			c.Header(k, v)
		}
		for k, vs := range resp.MultiValueHeaders {
			for _, v := range vs {
				c.Writer.Header().Add(k, v)
			}
		}
		c.Status(resp.StatusCode)
		_, _ = io.WriteString(c.Writer, resp.Body)
	})
	return r
}

func toProxyRequest(c *gin.Context) (events.APIGatewayProxyRequest, error) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return events.APIGatewayProxyRequest{}, err
	}

	headers := make(map[string]string, len(c.Request.Header))
	for k, vs := range c.Request.Header {
		headers[k] = strings.Join(vs, ",")
	}
	query := make(map[string]string)
	for k, vs := range c.Request.URL.Query() {
		if len(vs) > 0 {
			query[k] = vs[0]
		}
	}

	req := events.APIGatewayProxyRequest{
		HTTPMethod:            c.Request.Method,
		Path:                  c.Request.URL.EscapedPath(),
		Headers:               headers,
		MultiValueHeaders:     c.Request.Header,
		QueryStringParameters: query,
		Body:                  string(body),
	}
	req.RequestContext.Identity.SourceIP = c.ClientIP()
	return req, nil
}

// Serve runs the router on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, h ProxyHandler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.L().Info("local server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
