package apiclient

import (
	"context"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/dto"
)

// cached serves a reference list from the in-process cache, fetching it on
// a miss. Failed fetches are not cached.
func cached[T any](c *Client, key string, fetch func() (T, error)) (T, error) {
	if v, ok := c.refs.Get(key); ok {
		return v.(T), nil
	}
	v, err := fetch()
	if err != nil {
		return v, err
	}
	c.refs.SetDefault(key, v)
	return v, nil
}

func list[T any](c *Client, ctx context.Context, path string) ([]T, error) {
	return cached(c, path, func() ([]T, error) {
		var out []T
		err := c.getJSON(ctx, path, &out)
		return out, err
	})
}

// Transportadoras reads the carrier list out of its {items} envelope.
func (c *Client) Transportadoras(ctx context.Context) ([]dto.TransportadoraResponse, error) {
	return cached(c, "transportadoras/", func() ([]dto.TransportadoraResponse, error) {
		var env dto.TransportadoraListResponse
		err := c.getJSON(ctx, "transportadoras/", &env)
		return env.Items, err
	})
}

func (c *Client) Aduanas(ctx context.Context) ([]dto.AduanaResponse, error) {
	return list[dto.AduanaResponse](c, ctx, "aduanas/")
}

func (c *Client) Monedas(ctx context.Context) ([]dto.MonedaResponse, error) {
	return list[dto.MonedaResponse](c, ctx, "monedas/")
}

func (c *Client) Ciudades(ctx context.Context) ([]dto.CiudadResponse, error) {
	return list[dto.CiudadResponse](c, ctx, "ciudades/")
}

func (c *Client) Paises(ctx context.Context) ([]dto.PaisResponse, error) {
	return list[dto.PaisResponse](c, ctx, "paises/")
}

// InvalidateReferencias drops every cached list.
func (c *Client) InvalidateReferencias() { c.refs.Flush() }
