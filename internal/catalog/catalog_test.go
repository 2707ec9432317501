package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"adminboard/pkg/apiclient"
	"adminboard/pkg/collection"
	"adminboard/pkg/domain"
	"adminboard/pkg/validation"
)

var fixedNow = time.Date(2025, 10, 10, 12, 0, 0, 0, time.UTC)

func newCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := New(Options{Now: func() time.Time { return fixedNow }})
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	ctx := context.Background()
	if _, err := c.Users.Fetch(ctx); err != nil {
		t.Fatalf("fetch users: %v", err)
	}
	if _, err := c.Orders.Fetch(ctx); err != nil {
		t.Fatalf("fetch orders: %v", err)
	}
	if _, err := c.Products.Fetch(ctx); err != nil {
		t.Fatalf("fetch products: %v", err)
	}
	return c
}

func TestUserSearchScenario(t *testing.T) {
	c := newCatalog(t)
	if c.Users.Len() != 8 {
		t.Fatalf("expected 8 seeded users, got %d", c.Users.Len())
	}

	c.Users.SetSearch("jo")
	page := c.Users.Page()
	names := make([]string, 0, len(page))
	for _, u := range page {
		names = append(names, u.Name)
	}
	if strings.Join(names, ",") != "John Doe,Bob Johnson" {
		t.Fatalf("unexpected matches %v", names)
	}
	if c.Users.PageSize() != 10 || c.Users.CurrentPage() != 1 || c.Users.TotalPages() != 1 {
		t.Fatalf("unexpected pagination size=%d page=%d total=%d", c.Users.PageSize(), c.Users.CurrentPage(), c.Users.TotalPages())
	}
}

func TestUserRoleFacet(t *testing.T) {
	c := newCatalog(t)
	c.Users.SetFilter(string(domain.RoleGuest))
	if got := len(c.Users.Filtered()); got != 2 {
		t.Fatalf("expected 2 guests, got %d", got)
	}
	if c.Users.CountByRole(domain.RoleAdmin) != 2 {
		t.Fatalf("expected 2 admins")
	}
}

func TestAddUserDefaultsAvatarAndValidates(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()

	created, err := c.Users.Add(ctx, domain.User{Name: "Zoe Quinn", Email: "zoe@example.com", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if created.ID != 9 {
		t.Fatalf("expected id 9, got %d", created.ID)
	}
	if created.Avatar != "https://ui-avatars.com/api/?name=Zoe+Quinn&background=random&color=fff" {
		t.Fatalf("unexpected avatar %q", created.Avatar)
	}

	_, err = c.Users.Add(ctx, domain.User{Name: "", Email: "not-an-email", Role: "root"})
	var verr *validation.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"name", "email", "role"} {
		if _, ok := verr.Fields[field]; !ok {
			t.Fatalf("expected %s field error, got %+v", field, verr.Fields)
		}
	}
	if c.Users.Len() != 9 {
		t.Fatalf("invalid user must not be stored")
	}
	if c.Users.Err() == "" {
		t.Fatalf("expected error message to be recorded")
	}
}

func TestFindByEmail(t *testing.T) {
	c := newCatalog(t)
	u, ok := c.Users.FindByEmail("  BOB@example.com ")
	if !ok || u.ID != 3 {
		t.Fatalf("expected Bob, got %+v %v", u, ok)
	}
	if _, ok := c.Users.FindByEmail(""); ok {
		t.Fatalf("empty email must not match")
	}
}

func TestUpdateMissingUser(t *testing.T) {
	c := newCatalog(t)
	name := "Ghost"
	_, err := c.Users.Update(context.Background(), 404, domain.UserPatch{Name: &name})
	if !errors.Is(err, collection.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err.Error() != "User not found" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestSeedOrderTotalsMatch(t *testing.T) {
	for _, o := range SeedOrders() {
		if err := o.CheckTotal(); err != nil {
			t.Fatalf("order %d: %v", o.ID, err)
		}
	}
}

func TestOrderStatusFacetAndCounts(t *testing.T) {
	c := newCatalog(t)
	counts := c.Orders.CountsByStatus()
	want := map[string]int{"all": 8, "pending": 2, "processing": 2, "shipped": 1, "delivered": 2, "cancelled": 1}
	for k, v := range want {
		if counts[k] != v {
			t.Fatalf("count %s: expected %d, got %d", k, v, counts[k])
		}
	}

	c.Orders.SetFilter(string(domain.StatusPending))
	for _, o := range c.Orders.Filtered() {
		if o.Status != domain.StatusPending {
			t.Fatalf("unexpected status %s", o.Status)
		}
	}

	c.Orders.SetQuery(collection.Query{Search: "alice", Filter: string(domain.StatusPending)})
	if got := c.Orders.Filtered(); len(got) != 1 || got[0].ID != 1004 {
		t.Fatalf("expected order 1004, got %+v", got)
	}
}

func TestUpdateStatusRefreshesSelection(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	order, _ := c.Orders.Get(1004)
	c.Orders.SetSelected(&order)

	updated, err := c.Orders.UpdateStatus(ctx, 1004, domain.StatusShipped)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != domain.StatusShipped || !updated.UpdatedAt.Equal(fixedNow) {
		t.Fatalf("unexpected order %+v", updated)
	}
	sel, ok := c.Orders.Selected()
	if !ok || sel.Status != domain.StatusShipped {
		t.Fatalf("selected order not refreshed: %+v", sel)
	}

	if _, err := c.Orders.UpdateStatus(ctx, 1004, "lost"); !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("expected unknown status error, got %v", err)
	}
	if _, err := c.Orders.UpdateStatus(ctx, 1, domain.StatusShipped); !errors.Is(err, collection.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := c.Orders.Remove(ctx, 1004); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := c.Orders.Selected(); ok {
		t.Fatalf("selection must clear when its order is removed")
	}
}

func TestOrdersByUser(t *testing.T) {
	c := newCatalog(t)
	if got := c.Orders.ByUser(6); len(got) != 1 || got[0].ID != 1006 {
		t.Fatalf("unexpected orders %+v", got)
	}
}

func TestProductAddSetsTimestampsAndImage(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()

	created, err := c.Products.Add(ctx, domain.Product{Name: "USB Hub", Price: 24.5, Stock: 40, Category: "Accessories"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if created.ID != 9 || !created.CreatedAt.Equal(fixedNow) || !created.UpdatedAt.Equal(fixedNow) {
		t.Fatalf("unexpected product %+v", created)
	}
	if created.Image != ProductImage("USB Hub") {
		t.Fatalf("unexpected image %q", created.Image)
	}
	items := c.Products.Items()
	if items[len(items)-1].ID != 9 {
		t.Fatalf("new product should be appended")
	}

	if _, err := c.Products.Add(ctx, domain.Product{Name: "Broken", Price: -1, Category: "X"}); err == nil {
		t.Fatalf("expected negative price to fail validation")
	}
}

func TestProductSearchAndCategories(t *testing.T) {
	c := newCatalog(t)
	c.Products.SetSearch("PRO")
	got := c.Products.Filtered()
	if len(got) != 4 {
		t.Fatalf("expected 4 matches for pro, got %d", len(got))
	}
	cats := strings.Join(c.Products.Categories(), ",")
	if cats != "Electronics,Accessories,Audio,Wearables,Photography" {
		t.Fatalf("unexpected categories %s", cats)
	}
	if low := c.Products.LowStock(15); len(low) != 2 {
		t.Fatalf("expected 2 low stock products, got %d", len(low))
	}
}

func TestProductUpdateRefreshesSelection(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	p, _ := c.Products.Get(2)
	c.Products.SetSelected(&p)

	stock := 0
	updated, err := c.Products.Update(ctx, 2, domain.ProductPatch{Stock: &stock})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Stock != 0 || updated.Name != "Wireless Mouse" || !updated.UpdatedAt.Equal(fixedNow) {
		t.Fatalf("unexpected product %+v", updated)
	}
	if sel, _ := c.Products.Selected(); sel.Stock != 0 {
		t.Fatalf("selection not refreshed")
	}
}

func TestAPISource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case UsersPath:
			_ = json.NewEncoder(w).Encode(apiclient.Response[[]domain.User]{
				Data:    []domain.User{{ID: 7, Name: "Remote", Email: "remote@x.io", Role: domain.RoleUser}},
				Success: true,
			})
		case OrdersPath:
			_ = json.NewEncoder(w).Encode(apiclient.Response[[]domain.Order]{Success: false, Message: "orders offline"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := apiclient.New(apiclient.Config{BaseURL: srv.URL})
	c, err := New(Options{Source: SourceAPI, API: client})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()

	users, err := c.Users.Fetch(ctx)
	if err != nil || len(users) != 1 || users[0].Name != "Remote" {
		t.Fatalf("unexpected users %+v err=%v", users, err)
	}
	if _, err := c.Orders.Fetch(ctx); err == nil || err.Error() != "orders offline" {
		t.Fatalf("expected envelope failure, got %v", err)
	}
	if c.Orders.Err() != "orders offline" {
		t.Fatalf("expected error message recorded, got %q", c.Orders.Err())
	}
	var apiErr *apiclient.APIError
	if _, err := c.Products.Fetch(ctx); !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Fatalf("expected 404 api error, got %v", err)
	}
}

func TestNewRejectsBadSource(t *testing.T) {
	if _, err := New(Options{Source: "ftp"}); err == nil {
		t.Fatalf("expected unknown source error")
	}
	if _, err := New(Options{Source: SourceAPI}); err == nil {
		t.Fatalf("expected missing client error")
	}
}
