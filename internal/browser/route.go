package browser

import (
	"net/url"

	"github.com/idilsaglam/itemdesk/internal/model"
)

// RouteKind names a navigation target outside the browser.
type RouteKind int

const (
	RouteNone RouteKind = iota
	RouteAddItem
	RouteEditItem
	RouteLogin
)

// Route is a navigation target. ItemID is set for RouteEditItem only.
type Route struct {
	Kind   RouteKind
	ItemID model.ID
}

func AddItemRoute() Route { return Route{Kind: RouteAddItem} }

func EditItemRoute(id model.ID) Route { return Route{Kind: RouteEditItem, ItemID: id} }

func LoginRoute() Route { return Route{Kind: RouteLogin} }

// Path renders the route as the client-side path the web front end used.
func (r Route) Path() string {
	switch r.Kind {
	case RouteAddItem:
		return "/add-item"
	case RouteEditItem:
		return "/edit-item/" + url.PathEscape(r.ItemID.String())
	case RouteLogin:
		return "/login"
	}
	return ""
}

func (r Route) String() string { return r.Path() }

// Navigator receives navigation requests. Navigation never makes a network
// round trip.
type Navigator interface {
	Navigate(Route)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(Route)

func (f NavigatorFunc) Navigate(r Route) { f(r) }
