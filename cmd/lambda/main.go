package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"paperdesk-backend/infrastructure/config"
	"paperdesk-backend/infrastructure/di"
	"paperdesk-backend/interfaces/http/rest"
)

var (
	// chiLambda wraps the Chi router for AWS Lambda integration
	chiLambda *chiadapter.ChiLambdaV2

	// container holds the dependency injection container
	container *di.Container
)

// init runs during cold start
func init() {
	start := time.Now()

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err = di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	if err := container.Restore(ctx); err != nil {
		log.Fatalf("Failed to restore state from snapshots: %v", err)
	}

	router := rest.NewRouter(
		container.CommandBus,
		container.QueryBus,
		container.JWTValidator,
		cfg.EnableCORS,
		container.Logger,
	)
	handler := router.Setup()

	chiRouter, ok := handler.(*chi.Mux)
	if !ok {
		log.Fatal("Failed to cast handler to chi.Mux")
	}
	chiLambda = chiadapter.NewV2(chiRouter)

	container.Logger.Info("Lambda cold start completed",
		zap.Duration("duration", time.Since(start)),
	)
}

// Handler is the Lambda function handler. Requests arriving through the
// API Gateway JWT authorizer are marked pre-authorized so the in-process
// middleware trusts the identity headers instead of revalidating.
func Handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if req.Headers != nil {
		authHeader := req.Headers["authorization"]
		if authHeader == "" {
			authHeader = req.Headers["Authorization"]
		}

		_, viaGateway := req.Headers["x-amzn-trace-id"]
		if viaGateway && strings.HasPrefix(authHeader, "Bearer ") {
			req.Headers["X-API-Gateway-Authorized"] = "true"
			if userID, ok := jwtSubject(strings.TrimPrefix(authHeader, "Bearer ")); ok {
				req.Headers["X-User-ID"] = userID
			}
		}
	}

	return chiLambda.ProxyWithContextV2(ctx, req)
}

// jwtSubject extracts the sub claim without verifying the signature. Only
// used after API Gateway's authorizer has already validated the token.
func jwtSubject(token string) (string, bool) {
	claims, err := container.JWTValidator.ExtractClaimsUnverified(token)
	if err != nil || claims.UserID == "" {
		return "", false
	}
	return claims.UserID, true
}

func main() {
	lambda.Start(Handler)
}
