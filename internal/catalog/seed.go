package catalog

import (
	"strings"
	"time"

	"adminboard/pkg/domain"
)

func at(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

func seedAvatar(name, color string) string {
	return "https://ui-avatars.com/api/?name=" + strings.ReplaceAll(name, " ", "+") + "&background=" + color + "&color=fff"
}

// SeedUsers returns the demo user list.
func SeedUsers() []domain.User {
	return []domain.User{
		{ID: 1, Name: "John Doe", Email: "john@example.com", Role: domain.RoleAdmin, Avatar: seedAvatar("John Doe", "3b82f6")},
		{ID: 2, Name: "Jane Smith", Email: "jane@example.com", Role: domain.RoleUser, Avatar: seedAvatar("Jane Smith", "8b5cf6")},
		{ID: 3, Name: "Bob Johnson", Email: "bob@example.com", Role: domain.RoleUser, Avatar: seedAvatar("Bob Johnson", "10b981")},
		{ID: 4, Name: "Alice Williams", Email: "alice@example.com", Role: domain.RoleGuest, Avatar: seedAvatar("Alice Williams", "f59e0b")},
		{ID: 5, Name: "Charlie Brown", Email: "charlie@example.com", Role: domain.RoleUser, Avatar: seedAvatar("Charlie Brown", "ef4444")},
		{ID: 6, Name: "Diana Prince", Email: "diana@example.com", Role: domain.RoleAdmin, Avatar: seedAvatar("Diana Prince", "06b6d4")},
		{ID: 7, Name: "Evan Davis", Email: "evan@example.com", Role: domain.RoleUser, Avatar: seedAvatar("Evan Davis", "f97316")},
		{ID: 8, Name: "Fiona Green", Email: "fiona@example.com", Role: domain.RoleGuest, Avatar: seedAvatar("Fiona Green", "84cc16")},
	}
}

// SeedProducts returns the demo product list.
func SeedProducts() []domain.Product {
	product := func(id int, name, desc string, price float64, stock int, category string, created time.Time, photo string) domain.Product {
		return domain.Product{
			ID:          id,
			Name:        name,
			Description: desc,
			Price:       price,
			Stock:       stock,
			Category:    category,
			CreatedAt:   created,
			UpdatedAt:   created,
			Image:       "https://images.unsplash.com/photo-" + photo + "?w=400",
		}
	}
	return []domain.Product{
		product(1, "Laptop Pro", "High-performance laptop for professionals", 1299.99, 15, "Electronics", at(2025, 10, 1, 10, 30), "1496181133206-80ce9b88a853"),
		product(2, "Wireless Mouse", "Ergonomic wireless mouse", 29.99, 50, "Accessories", at(2025, 10, 2, 14, 15), "1527814050087-3793815479db"),
		product(3, "Smartphone X", "Latest generation smartphone", 899.99, 25, "Electronics", at(2025, 10, 3, 11, 20), "1511707171634-5f897ff02aa9"),
		product(4, "Phone Case", "Protective phone case", 19.99, 100, "Accessories", at(2025, 10, 4, 9, 0), "1601972602237-8c79241e468b"),
		product(5, "Tablet Plus", "Versatile tablet for work and play", 499.99, 30, "Electronics", at(2025, 10, 5, 16, 45), "1544244015-0df4b3ffc6b0"),
		product(6, "Headphones Pro", "Premium noise-cancelling headphones", 299.99, 20, "Audio", at(2025, 10, 6, 13, 30), "1505740420928-5e560c06d30e"),
		product(7, "Smart Watch", "Feature-rich smartwatch", 399.99, 35, "Wearables", at(2025, 10, 7, 10, 15), "1523275335684-37898b6baf30"),
		product(8, "Camera Pro", "Professional DSLR camera", 1499.99, 10, "Photography", at(2025, 10, 8, 8, 0), "1516035069371-29a1b244cc32"),
	}
}

// SeedOrders returns the demo order list. Every seeded total matches its items.
func SeedOrders() []domain.Order {
	users := SeedUsers()
	order := func(id, userIdx int, status domain.OrderStatus, total float64, created, updated time.Time, address, notes string, items ...domain.OrderItem) domain.Order {
		u := users[userIdx]
		return domain.Order{
			ID:              id,
			UserID:          u.ID,
			UserName:        u.Name,
			UserEmail:       u.Email,
			UserAvatar:      u.Avatar,
			Items:           items,
			TotalAmount:     total,
			Status:          status,
			CreatedAt:       created,
			UpdatedAt:       updated,
			ShippingAddress: address,
			Notes:           notes,
		}
	}
	item := func(id, productID int, name string, qty int, price float64) domain.OrderItem {
		return domain.OrderItem{ID: id, ProductID: productID, Name: name, Quantity: qty, Price: price}
	}
	return []domain.Order{
		order(1001, 0, domain.StatusDelivered, 1359.97, at(2025, 10, 1, 10, 30), at(2025, 10, 5, 14, 20),
			"123 Main St, City, Country", "Please deliver before noon",
			item(1, 1, "Laptop Pro", 1, 1299.99), item(2, 2, "Wireless Mouse", 2, 29.99)),
		order(1002, 1, domain.StatusShipped, 919.98, at(2025, 10, 3, 14, 15), at(2025, 10, 7, 9, 45),
			"456 Oak Ave, Town, Country", "",
			item(3, 3, "Smartphone X", 1, 899.99), item(4, 4, "Phone Case", 1, 19.99)),
		order(1003, 2, domain.StatusProcessing, 579.98, at(2025, 10, 5, 11, 20), at(2025, 10, 6, 16, 30),
			"789 Pine Rd, Village, Country", "",
			item(5, 5, "Tablet Plus", 1, 499.99), item(6, 0, "Stylus Pen", 1, 79.99)),
		order(1004, 3, domain.StatusPending, 299.99, at(2025, 10, 7, 9, 0), at(2025, 10, 7, 9, 0),
			"321 Elm St, City, Country", "",
			item(7, 6, "Headphones Pro", 1, 299.99)),
		order(1005, 4, domain.StatusPending, 449.97, at(2025, 10, 8, 15, 30), at(2025, 10, 8, 15, 30),
			"654 Maple Dr, Town, Country", "",
			item(8, 7, "Smart Watch", 1, 399.99), item(9, 0, "Watch Band", 2, 24.99)),
		order(1006, 5, domain.StatusDelivered, 2199.96, at(2025, 9, 28, 8, 0), at(2025, 10, 2, 11, 0),
			"987 Cedar Ln, Village, Country", "",
			item(10, 8, "Camera Pro", 1, 1499.99), item(11, 0, "Camera Lens", 1, 599.99), item(12, 0, "Memory Card", 2, 49.99)),
		order(1007, 6, domain.StatusCancelled, 499.99, at(2025, 10, 4, 12, 0), at(2025, 10, 4, 18, 0),
			"147 Birch St, City, Country", "Cancelled by customer",
			item(13, 0, "Gaming Console", 1, 499.99)),
		order(1008, 7, domain.StatusProcessing, 179.98, at(2025, 10, 6, 13, 45), at(2025, 10, 7, 10, 15),
			"258 Spruce Ave, Town, Country", "",
			item(14, 0, "Keyboard Mechanical", 1, 149.99), item(15, 0, "Mouse Pad XL", 1, 29.99)),
	}
}
