package catalog

import (
	"strings"
	"time"

	"adminboard/pkg/collection"
	"adminboard/pkg/domain"
	"adminboard/pkg/validation"
)

// Users is the user collection.
type Users struct {
	*collection.Store[domain.User]
}

func NewUsers(opts Options) (*Users, error) {
	source, err := pickSource(opts, UsersPath, SeedUsers)
	if err != nil {
		return nil, err
	}
	store := collection.New(collection.Options[domain.User]{
		Name:   "user",
		Plural: "users",
		ID:     func(u domain.User) int { return u.ID },
		WithID: func(u domain.User, id int) domain.User {
			u.ID = id
			return u
		},
		SearchFields: func(u domain.User) []string {
			return []string{u.Name, u.Email, string(u.Role)}
		},
		Facet:  func(u domain.User) string { return string(u.Role) },
		Source: source,
		Prepare: func(u domain.User, _ time.Time) domain.User {
			if strings.TrimSpace(u.Avatar) == "" {
				u.Avatar = domain.AvatarURL(u.Name)
			}
			return u
		},
		Validate: func(u domain.User) error { return validation.Struct(u) },
		PageSize: opts.PageSize,
		Latency:  opts.Latency,
		Now:      opts.Now,
		Logger:   opts.logger(),
	})
	return &Users{Store: store}, nil
}

// FindByEmail matches email case-insensitively.
func (u *Users) FindByEmail(email string) (domain.User, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return domain.User{}, false
	}
	return u.Find(func(user domain.User) bool {
		return strings.ToLower(user.Email) == email
	})
}

// CountByRole returns how many users hold role.
func (u *Users) CountByRole(role domain.UserRole) int {
	return u.Count(func(user domain.User) bool { return user.Role == role })
}
