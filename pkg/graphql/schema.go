// Package graphql serves a graphql-go schema over HTTP.
package graphql

import (
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/shashikala/pkg/ctx"
)

// NewSchema creates a query-only schema.
func NewSchema(query *graphql.Object) (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{
		Query: query,
	})
}

// Request is the standard GraphQL-over-HTTP POST body.
type Request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
	OperationName string         `json:"operationName"`
}

// Handler executes POSTed queries against schema. A malformed body or an
// empty query gives 400; query errors are reported in the result's "errors"
// list with status 200.
func Handler(schema graphql.Schema) http.HandlerFunc {
	return ctx.Wrap(func(c *ctx.Context) {
		var req Request
		if !c.DecodeJSON(&req) {
			return
		}
		if req.Query == "" {
			c.Error(http.StatusBadRequest, "Missing required field: query")
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})
		for _, e := range result.Errors {
			c.Logger().Debug("graphql: query error", "error", e.Message)
		}
		c.JSON(http.StatusOK, result)
	})
}
