package domain

import (
	"io"
	"math"
	"strconv"
)

type (
	Product struct {
		ID       int64
		Name     string
		Price    float64
		ImageURL string
	}

	// A ProductInput is the payload of a create or update request.
	//
	// A nil Image keeps the image the server already has.
	ProductInput struct {
		Name  string
		Price string
		Image *Image
	}

	Image struct {
		Name        string
		ContentType string
		Data        []byte
	}
)

// A Blob is a user-chosen file that has not been read yet.
type Blob interface {
	Name() string
	Open() (io.ReadCloser, error)
}

// HasPrice is false when the server sent a price that could not be read.
func (p Product) HasPrice() bool {
	return !math.IsNaN(p.Price)
}

// PriceText formats the price the way it is typed into a form. An unknown
// price is empty.
func (p Product) PriceText() string {
	if !p.HasPrice() {
		return ""
	}
	return strconv.FormatFloat(p.Price, 'f', -1, 64)
}

func RemoveProduct(ps []Product, id int64) []Product {
	out := make([]Product, 0, len(ps))
	for _, p := range ps {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

func FindProduct(ps []Product, id int64) (Product, bool) {
	for _, p := range ps {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
