package restapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/niksmo/shop-admin/internal/core/domain"
)

func (c Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "Client.ListProducts"

	var items []item
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/items",
		bearer: true,
	}, &items)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ps := make([]domain.Product, 0, len(items))
	for _, it := range items {
		p, err := it.toDomain()
		if err != nil {
			slog.Warn("item dropped", "op", op, "err", err)
			continue
		}
		ps = append(ps, p)
	}
	return ps, nil
}

func (c Client) CreateProduct(ctx context.Context, in domain.ProductInput) error {
	const op = "Client.CreateProduct"

	if err := c.postProduct(ctx, "/items", in, false); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateProduct posts to the record with the method override set, since
// the server only reads multipart bodies on POST.
func (c Client) UpdateProduct(
	ctx context.Context, id int64, in domain.ProductInput,
) error {
	const op = "Client.UpdateProduct"

	if err := c.postProduct(ctx, itemPath(id), in, true); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c Client) DeleteProduct(ctx context.Context, id int64) error {
	const op = "Client.DeleteProduct"

	err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   itemPath(id),
		bearer: true,
	}, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c Client) postProduct(
	ctx context.Context, path string, in domain.ProductInput, override bool,
) error {
	fd := newFormData()
	fd.field("name", in.Name)
	fd.field("price", in.Price)
	fd.file("image", in.Image)
	if override {
		fd.field(methodOverrideField, methodOverridePut)
	}

	body, contentType, err := fd.finish()
	if err != nil {
		return err
	}

	return c.do(ctx, request{
		method:      http.MethodPost,
		path:        path,
		body:        body,
		contentType: contentType,
		bearer:      true,
	}, nil)
}

func itemPath(id int64) string {
	return "/items/" + strconv.FormatInt(id, 10)
}
