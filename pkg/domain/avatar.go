package domain

import "net/url"

// AvatarURL is the generated avatar used when a user has none.
func AvatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=random&color=fff"
}
