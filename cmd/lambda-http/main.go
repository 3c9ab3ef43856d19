// Command lambda-http serves the coach API behind an API Gateway HTTP API.
//
//	GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-http
package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"

	"dota-coach-backend/internal/bootstrap"
	"dota-coach-backend/internal/shared/config"
	"dota-coach-backend/internal/shared/telemetry"
)

// proxy is built on the first invocation and reused while the container is warm.
// A failed build is remembered so every invocation reports it the same way.
var proxy = sync.OnceValues(func() (*ginadapter.GinLambdaV2, error) {
	app, err := bootstrap.Build(context.Background(), config.Load())
	if err != nil {
		return nil, err
	}
	return ginadapter.NewV2(app.Router), nil
})

func handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	defer telemetry.Sync()
	p, err := proxy()
	if err != nil {
		log.Printf("lambda: bootstrap failed: %v", err)
		return bootstrapFailed(req.RequestContext.RequestID), nil
	}
	return p.ProxyWithContext(ctx, req)
}

func bootstrapFailed(requestID string) events.APIGatewayV2HTTPResponse {
	body, _ := json.Marshal(map[string]any{
		"error":  "bootstrap_failed",
		"detail": map[string]string{"request_id": requestID},
	})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusInternalServerError,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}

func main() {
	lambda.Start(handle)
}
