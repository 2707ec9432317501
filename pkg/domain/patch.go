package domain

// UserPatch carries optional field updates for a user. Nil fields are left unchanged.
type UserPatch struct {
	Name   *string   `json:"name,omitempty"`
	Email  *string   `json:"email,omitempty"`
	Role   *UserRole `json:"role,omitempty"`
	Avatar *string   `json:"avatar,omitempty"`
}

func (p UserPatch) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	return u
}

// ProductPatch carries optional field updates for a product.
type ProductPatch struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Image       *string  `json:"image,omitempty"`
}

func (p ProductPatch) Apply(pr Product) Product {
	if p.Name != nil {
		pr.Name = *p.Name
	}
	if p.Description != nil {
		pr.Description = *p.Description
	}
	if p.Price != nil {
		pr.Price = *p.Price
	}
	if p.Stock != nil {
		pr.Stock = *p.Stock
	}
	if p.Category != nil {
		pr.Category = *p.Category
	}
	if p.Image != nil {
		pr.Image = *p.Image
	}
	return pr
}

// OrderPatch carries optional field updates for an order.
type OrderPatch struct {
	Status          *OrderStatus `json:"status,omitempty"`
	Items           []OrderItem  `json:"items,omitempty"`
	TotalAmount     *float64     `json:"totalAmount,omitempty"`
	ShippingAddress *string      `json:"shippingAddress,omitempty"`
	Notes           *string      `json:"notes,omitempty"`
}

func (p OrderPatch) Apply(o Order) Order {
	if p.Status != nil {
		o.Status = *p.Status
	}
	if p.Items != nil {
		o.Items = append([]OrderItem(nil), p.Items...)
	}
	if p.TotalAmount != nil {
		o.TotalAmount = *p.TotalAmount
	}
	if p.ShippingAddress != nil {
		o.ShippingAddress = *p.ShippingAddress
	}
	if p.Notes != nil {
		o.Notes = *p.Notes
	}
	return o
}
