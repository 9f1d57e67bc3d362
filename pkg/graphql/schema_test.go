package graphql

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema(t *testing.T) graphql.Schema {
	t.Helper()
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"greet": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return "hello " + p.Args["name"].(string), nil
				},
			},
			"broken": &graphql.Field{
				Type: graphql.String,
				Resolve: func(graphql.ResolveParams) (any, error) {
					return nil, errors.New("resolver failed")
				},
			},
		},
	})
	schema, err := NewSchema(query)
	require.NoError(t, err)
	return schema
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/graphql", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlerRunsQueryWithVariables(t *testing.T) {
	h := Handler(testSchema(t))

	rec := post(h, `{"query":"query G($n: String!) { greet(name: $n) }","variables":{"n":"Asha"},"operationName":"G"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"greet":"hello Asha"}}`, rec.Body.String())
}

func TestHandlerReportsResolverErrors(t *testing.T) {
	h := Handler(testSchema(t))

	rec := post(h, `{"query":"{ broken }"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "resolver failed")
}

func TestHandlerRejectsBadBodies(t *testing.T) {
	h := Handler(testSchema(t))

	for _, body := range []string{``, `{`, `{"variables":{}}`} {
		rec := post(h, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}
