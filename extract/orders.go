package extract

import voygen "github.com/iamneilroberts/voygen-sub008"

var _ voygen.StrategyOrder = (*Orders)(nil)

// DefaultOrder is the tier order for platforms without a registered order.
var DefaultOrder = []voygen.HotelRoute{voygen.RouteHydration, voygen.RouteXHR, voygen.RouteDOM}

// Orders maps platforms to hotel tier orders, falling back to DefaultOrder.
type Orders struct {
	orders map[voygen.Platform][]voygen.HotelRoute
}

// NewOrders creates Orders with the built-in platform orders. Platforms that
// hydrate state into globals reliably go hydration first; platforms that
// expose a clean session JSON API go xhr first.
func NewOrders() *Orders {
	o := &Orders{orders: make(map[voygen.Platform][]voygen.HotelRoute)}
	o.Register(voygen.PlatformNavitrip, voygen.RouteHydration, voygen.RouteXHR, voygen.RouteDOM)
	o.Register(voygen.PlatformTrisept, voygen.RouteXHR, voygen.RouteHydration, voygen.RouteDOM)
	o.Register(voygen.PlatformVAX, voygen.RouteXHR, voygen.RouteHydration, voygen.RouteDOM)
	return o
}

// Register sets the tier order for a platform, replacing any existing one.
func (o *Orders) Register(platform voygen.Platform, routes ...voygen.HotelRoute) {
	o.orders[platform] = routes
}

// Order returns a copy of the tier order for the platform.
func (o *Orders) Order(platform voygen.Platform) []voygen.HotelRoute {
	routes, ok := o.orders[platform]
	if !ok {
		routes = DefaultOrder
	}
	return append([]voygen.HotelRoute(nil), routes...)
}
