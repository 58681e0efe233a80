package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyHeader = "Idempotency-Key"

	// idempotencyTTL keeps replayed responses around long enough for any
	// realistic client retry window on a money-mutating request.
	idempotencyTTL = 24 * time.Hour
)

// storedResponse is the replayable response for an idempotent request.
type storedResponse struct {
	StatusCode  int             `json:"status_code"`
	Body        json.RawMessage `json:"body"`
	ContentType string          `json:"content_type"`
}

// captureWriter wraps gin.ResponseWriter to record the response body.
type captureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware replays a previously stored response when a client
// retries a mutating request with the same Idempotency-Key. A retried
// payment initiation therefore returns the original checkout URL instead of
// opening a second checkout.
func IdempotencyMiddleware(redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		key := c.GetHeader(idempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := "idempotency:payment:" + key

		stored, err := getStoredResponse(ctx, redisClient, cacheKey)
		if err != nil && err != redis.Nil {
			// Redis unavailable: proceed without idempotency rather than
			// failing the request.
			c.Next()
			return
		}

		if stored != nil {
			if stored.ContentType != "" {
				c.Header("Content-Type", stored.ContentType)
			}
			c.Data(stored.StatusCode, "application/json", stored.Body)
			c.Abort()
			return
		}

		w := &captureWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = w

		c.Next()

		// Server errors are not stored so the client's retry gets a fresh
		// attempt.
		if c.Writer.Status() >= 200 && c.Writer.Status() < 500 {
			response := storedResponse{
				StatusCode:  c.Writer.Status(),
				Body:        w.body.Bytes(),
				ContentType: c.Writer.Header().Get("Content-Type"),
			}
			_ = setStoredResponse(ctx, redisClient, cacheKey, &response, idempotencyTTL)
		}
	}
}

func getStoredResponse(ctx context.Context, client *redis.Client, key string) (*storedResponse, error) {
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}

	var stored storedResponse
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}

	return &stored, nil
}

func setStoredResponse(ctx context.Context, client *redis.Client, key string, response *storedResponse, ttl time.Duration) error {
	data, err := json.Marshal(response)
	if err != nil {
		return err
	}

	return client.Set(ctx, key, data, ttl).Err()
}
