package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"adminboard/pkg/apiclient"
	"adminboard/pkg/collection"
)

// Data source modes.
const (
	SourceMock = "mock"
	SourceAPI  = "api"
)

// API endpoints for each collection.
const (
	UsersPath    = "/users"
	OrdersPath   = "/orders"
	ProductsPath = "/products"
)

// Getter is the read side of the API client.
type Getter interface {
	Get(ctx context.Context, path string, out any) error
}

// APISource loads a collection from an endpoint returning Response[[]R].
func APISource[R any](api Getter, path string) collection.Source[R] {
	return collection.SourceFunc[R](func(ctx context.Context) ([]R, error) {
		var resp apiclient.Response[[]R]
		if err := api.Get(ctx, path, &resp); err != nil {
			return nil, err
		}
		if !resp.Success {
			msg := strings.TrimSpace(resp.Message)
			if msg == "" {
				msg = apiclient.MsgFetchFailed
			}
			return nil, errors.New(msg)
		}
		return resp.Data, nil
	})
}

// SeedSource serves a fresh copy of seed data on every fetch.
func SeedSource[R any](seed func() []R) collection.Source[R] {
	return collection.SourceFunc[R](func(ctx context.Context) ([]R, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return seed(), nil
	})
}

func pickSource[R any](opts Options, path string, seed func() []R) (collection.Source[R], error) {
	switch opts.mode() {
	case SourceMock:
		return SeedSource(seed), nil
	case SourceAPI:
		if opts.API == nil {
			return nil, fmt.Errorf("api data source requires a client")
		}
		return APISource[R](opts.API, path), nil
	default:
		return nil, fmt.Errorf("unknown data source %q", opts.Source)
	}
}
