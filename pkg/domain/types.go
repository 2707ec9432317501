package domain

import "time"

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
	RoleGuest UserRole = "guest"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type User struct {
	ID     int      `json:"id"`
	Name   string   `json:"name" validate:"required"`
	Email  string   `json:"email" validate:"required,email"`
	Role   UserRole `json:"role" validate:"required,oneof=admin user guest"`
	Avatar string   `json:"avatar,omitempty"`
}

type Product struct {
	ID          int       `json:"id"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description"`
	Price       float64   `json:"price" validate:"gte=0"`
	Stock       int       `json:"stock" validate:"gte=0"`
	Category    string    `json:"category" validate:"required"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type OrderItem struct {
	ID        int     `json:"id"`
	ProductID int     `json:"productId"`
	Name      string  `json:"name" validate:"required"`
	Quantity  int     `json:"quantity" validate:"gt=0"`
	Price     float64 `json:"price" validate:"gte=0"`
}

type Order struct {
	ID              int         `json:"id"`
	UserID          int         `json:"userId"`
	UserName        string      `json:"userName"`
	UserEmail       string      `json:"userEmail" validate:"omitempty,email"`
	UserAvatar      string      `json:"userAvatar,omitempty"`
	Items           []OrderItem `json:"items" validate:"dive"`
	TotalAmount     float64     `json:"totalAmount" validate:"gte=0"`
	Status          OrderStatus `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
	ShippingAddress string      `json:"shippingAddress,omitempty"`
	Notes           string      `json:"notes,omitempty"`
}

// Session is the authentication state held by the session store.
type Session struct {
	User            *User  `json:"user"`
	Token           string `json:"token"`
	IsAuthenticated bool   `json:"isAuthenticated"`
}
