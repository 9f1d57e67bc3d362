// Package graph exposes the public catalogue and the events calendar as a
// read-only GraphQL schema.
//
//	{ products(limit: 10, artistId: 2) { id name price imageUrl } }
//	{ event(id: 1) { title date } }
package graph

import (
	"errors"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/shashikala/app/resources"
	"github.com/shashiranjanraj/shashikala/app/services"
	"github.com/shashiranjanraj/shashikala/config"
	pkggraphql "github.com/shashiranjanraj/shashikala/pkg/graphql"
	"github.com/shashiranjanraj/shashikala/pkg/orm"
	"github.com/shashiranjanraj/shashikala/pkg/resource"
)

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"description": &graphql.Field{Type: graphql.String},
		"price":       &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		"stock":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"artistId": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Int),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return int(p.Source.(resources.Product).ArtistID), nil
			},
		},
		"imageUrl": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if u := p.Source.(resources.Product).ImageURL; u != nil {
					return *u, nil
				}
				return nil, nil
			},
		},
	},
})

var eventType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Event",
	Fields: graphql.Fields{
		"id":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"title": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"description": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if d := p.Source.(resources.Event).Description; d != nil {
					return *d, nil
				}
				return nil, nil
			},
		},
		"date": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(resources.Event).Date.String(), nil
			},
		},
		"createdAt": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(resources.Event).CreatedAt.String(), nil
			},
		},
	},
})

var pageArgs = graphql.FieldConfigArgument{
	"limit":  &graphql.ArgumentConfig{Type: graphql.Int},
	"offset": &graphql.ArgumentConfig{Type: graphql.Int},
}

// NewSchema builds the query root over the catalogue and event services.
func NewSchema(products *services.ProductService, events *services.EventService) (graphql.Schema, error) {
	productArgs := graphql.FieldConfigArgument{
		"artistId": &graphql.ArgumentConfig{Type: graphql.Int},
	}
	for k, v := range pageArgs {
		productArgs[k] = v
	}
	idArg := graphql.FieldConfigArgument{
		"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
	}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(productType)),
				Args: productArgs,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					page, err := pageFrom(p.Args)
					if err != nil {
						return nil, err
					}
					artistID, _ := p.Args["artistId"].(int)
					if artistID < 0 {
						return nil, errors.New("artistId must be a positive integer")
					}
					items, _, err := products.List(p.Context, page, uint(artistID))
					if err != nil {
						return nil, err
					}
					return resource.Collection(items, resources.NewProduct), nil
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: idArg,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, ok := idFrom(p.Args)
					if !ok {
						return nil, nil
					}
					item, err := products.Get(p.Context, id)
					if errors.Is(err, services.ErrNotFound) {
						return nil, nil
					}
					if err != nil {
						return nil, err
					}
					return resources.NewProduct(*item), nil
				},
			},
			"events": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(eventType)),
				Args: pageArgs,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					page, err := pageFrom(p.Args)
					if err != nil {
						return nil, err
					}
					items, _, err := events.List(p.Context, page)
					if err != nil {
						return nil, err
					}
					return resource.Collection(items, resources.NewEvent), nil
				},
			},
			"event": &graphql.Field{
				Type: eventType,
				Args: idArg,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, ok := idFrom(p.Args)
					if !ok {
						return nil, nil
					}
					ev, err := events.Get(p.Context, id)
					if errors.Is(err, services.ErrNotFound) {
						return nil, nil
					}
					if err != nil {
						return nil, err
					}
					return resources.NewEvent(*ev), nil
				},
			},
		},
	})
	return pkggraphql.NewSchema(query)
}

// pageFrom applies the REST paging rules to limit/offset arguments.
func pageFrom(args map[string]any) (orm.Page, error) {
	page := orm.Page{Limit: config.PageDefaultLimit()}
	if limit, ok := args["limit"].(int); ok {
		if limit < 1 {
			return page, errors.New("limit must be a positive integer")
		}
		page.Limit = min(limit, config.PageMaxLimit())
	}
	if offset, ok := args["offset"].(int); ok {
		if offset < 0 {
			return page, errors.New("offset must be a non-negative integer")
		}
		page.Offset = offset
	}
	return page, nil
}

func idFrom(args map[string]any) (uint, bool) {
	id, ok := args["id"].(int)
	return uint(id), ok && id > 0
}
