package nav

import (
	"strings"

	"homezen/pkg/role"
)

// Item is one sidebar destination. Icon names a glyph in the static
// icon sprite.
type Item struct {
	Label string
	Path  string
	Icon  string
}

var (
	landlordItems = []Item{
		{Label: "Dashboard", Path: "/", Icon: "layout-dashboard"},
		{Label: "Properties", Path: "/properties", Icon: "building"},
		{Label: "Tenants", Path: "/tenants", Icon: "users"},
		{Label: "Financials", Path: "/financials", Icon: "wallet"},
		{Label: "Maintenance", Path: "/maintenance", Icon: "wrench"},
		{Label: "Reports", Path: "/reports", Icon: "bar-chart"},
		{Label: "Settings", Path: "/settings", Icon: "settings"},
	}
	tenantItems = []Item{
		{Label: "My Home", Path: "/", Icon: "home"},
		{Label: "My Invoices", Path: "/invoices", Icon: "file-text"},
		{Label: "Requests", Path: "/maintenance", Icon: "clipboard-list"},
		{Label: "Payments", Path: "/financials", Icon: "credit-card"},
		{Label: "Settings", Path: "/settings", Icon: "settings"},
	}
)

// Items returns the ordered destinations for r. Unknown roles get none.
func Items(r role.Role) []Item {
	var src []Item
	switch r {
	case role.Landlord:
		src = landlordItems
	case role.Tenant:
		src = tenantItems
	default:
		return nil
	}
	out := make([]Item, len(src))
	copy(out, src)
	return out
}

func Section(r role.Role) string {
	if r == role.Landlord {
		return "Management"
	}
	return "Tenant Portal"
}

// Allows reports whether path belongs to one of r's destinations: the
// destination itself or anything below it. The root only matches itself.
func Allows(r role.Role, path string) bool {
	for _, item := range Items(r) {
		if path == item.Path {
			return true
		}
		if item.Path != "/" && strings.HasPrefix(path, item.Path+"/") {
			return true
		}
	}
	return false
}

// Active reports whether item should be highlighted for the current path.
func (i Item) Active(path string) bool {
	if i.Path == "/" {
		return path == "/"
	}
	return path == i.Path || strings.HasPrefix(path, i.Path+"/")
}
