package catalog

import (
	"context"
	"net/url"
	"strings"
	"time"

	"adminboard/pkg/collection"
	"adminboard/pkg/domain"
	"adminboard/pkg/validation"
)

// ProductImage is the placeholder used when a product has no image.
func ProductImage(name string) string {
	return "https://placehold.co/400x400?text=" + url.QueryEscape(name)
}

// Products is the product collection.
type Products struct {
	*collection.Store[domain.Product]
	selected selection[domain.Product]
}

func NewProducts(opts Options) (*Products, error) {
	source, err := pickSource(opts, ProductsPath, SeedProducts)
	if err != nil {
		return nil, err
	}
	p := &Products{}
	p.Store = collection.New(collection.Options[domain.Product]{
		Name:   "product",
		Plural: "products",
		ID:     func(pr domain.Product) int { return pr.ID },
		WithID: func(pr domain.Product, id int) domain.Product {
			pr.ID = id
			return pr
		},
		SearchFields: func(pr domain.Product) []string {
			return []string{pr.Name, pr.Description, pr.Category}
		},
		Facet:  func(pr domain.Product) string { return pr.Category },
		Source: source,
		Prepare: func(pr domain.Product, now time.Time) domain.Product {
			if strings.TrimSpace(pr.Image) == "" {
				pr.Image = ProductImage(pr.Name)
			}
			pr.CreatedAt = now
			pr.UpdatedAt = now
			return pr
		},
		Touch: func(pr domain.Product, now time.Time) domain.Product {
			pr.UpdatedAt = now
			return pr
		},
		Validate: func(pr domain.Product) error { return validation.Struct(pr) },
		PageSize: opts.PageSize,
		Latency:  opts.Latency,
		Now:      opts.Now,
		Logger:   opts.logger(),
	})
	return p, nil
}

// Categories lists distinct categories in first-seen order.
func (p *Products) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, pr := range p.Items() {
		if !seen[pr.Category] {
			seen[pr.Category] = true
			out = append(out, pr.Category)
		}
	}
	return out
}

// LowStock returns products with stock at or below threshold.
func (p *Products) LowStock(threshold int) []domain.Product {
	var out []domain.Product
	for _, pr := range p.Items() {
		if pr.Stock <= threshold {
			out = append(out, pr)
		}
	}
	return out
}

func (p *Products) SetSelected(pr *domain.Product) {
	p.selected.set(pr)
}

func (p *Products) Selected() (domain.Product, bool) {
	return p.selected.get()
}

// Update refreshes the selected product when it is the one changed.
func (p *Products) Update(ctx context.Context, id int, patch collection.Patch[domain.Product]) (domain.Product, error) {
	updated, err := p.Store.Update(ctx, id, patch)
	if err != nil {
		return updated, err
	}
	p.selected.refresh(updated, func(cur domain.Product) bool { return cur.ID == id })
	return updated, nil
}

// Remove clears the selection when it is the removed product.
func (p *Products) Remove(ctx context.Context, id int) error {
	if err := p.Store.Remove(ctx, id); err != nil {
		return err
	}
	if cur, ok := p.selected.get(); ok && cur.ID == id {
		p.selected.set(nil)
	}
	return nil
}
