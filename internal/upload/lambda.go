package upload

import (
	"context"
	"net/http"
	"net/url"

	"github.com/aws/aws-lambda-go/events"
)

// HandleAPIGateway serves the Service behind an API Gateway proxy integration.
func (s *Service) HandleAPIGateway(ctx context.Context, ev events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	header := make(http.Header, len(ev.Headers))
	for k, v := range ev.Headers {
		header.Set(k, v)
	}
	query := make(url.Values, len(ev.QueryStringParameters))
	for k, v := range ev.QueryStringParameters {
		query.Set(k, v)
	}

	resp := s.Handle(ctx, Request{
		Method:          ev.HTTPMethod,
		Header:          header,
		Query:           query,
		Body:            ev.Body,
		IsBase64Encoded: ev.IsBase64Encoded,
	})
	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       string(resp.Body),
	}, nil
}
