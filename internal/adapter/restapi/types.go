package restapi

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/spf13/cast"
)

// The API answers prices as strings ("9.99") and sometimes ids too.
type item struct {
	ID       any    `json:"id"`
	Name     string `json:"name"`
	Price    any    `json:"price"`
	ImageURL string `json:"image_url"`
}

func (it item) toDomain() (domain.Product, error) {
	id, err := cast.ToInt64E(it.ID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("item id %v: %w", it.ID, err)
	}

	// An unreadable price only blanks that row's price.
	price := math.NaN()
	if it.Price != nil {
		if v, err := cast.ToFloat64E(it.Price); err == nil {
			price = v
		} else {
			slog.Warn("unreadable item price",
				"op", "item.toDomain", "id", id, "price", it.Price, "err", err)
		}
	}

	return domain.Product{
		ID:       id,
		Name:     it.Name,
		Price:    price,
		ImageURL: it.ImageURL,
	}, nil
}

type loginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type errorBody struct {
	Message string         `json:"message"`
	Errors  map[string]any `json:"errors"`
}

// fields is nil only when the body carries no "errors" key at all; an
// empty object still marks a structured validation answer.
func (b errorBody) fields() map[string][]string {
	if b.Errors == nil {
		return nil
	}
	fs := make(map[string][]string, len(b.Errors))
	for k, v := range b.Errors {
		switch vv := v.(type) {
		case []any:
			for _, m := range vv {
				fs[k] = append(fs[k], cast.ToString(m))
			}
		default:
			fs[k] = []string{cast.ToString(vv)}
		}
	}
	return fs
}
