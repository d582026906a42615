package main

import (
	"context"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/edulane/edulane-api/internal/container"
	"github.com/edulane/edulane-api/internal/router"
)

func buildRouter() *chi.Mux {
	c := container.New()

	return router.New(router.RouterConfig{
		UserHandler:       c.UserContainer.Handler,
		CourseHandler:     c.CourseContainer.Handler,
		EnrollmentHandler: c.EnrollmentContainer.Handler,
		QuizHandler:       c.QuizContainer.Handler,
		ProgressHandler:   c.ProgressContainer.Handler,
		AttemptHandler:    c.AttemptContainer.Handler,
	})
}

func main() {
	r := buildRouter()

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		adapter := chiadapter.New(r)
		lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
			return adapter.ProxyWithContext(ctx, req)
		})
		return
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logrus.WithField("port", port).Info("Starting HTTP server")
	if err := http.ListenAndServe(":"+port, r); err != nil {
		logrus.WithError(err).Fatal("HTTP server stopped")
	}
}
