package web

import (
	"net/http"
	"net/url"
	"strings"
)

// Route names, used to build redirects and links.
const (
	routeBrandIndex        = "admin_manufacturers_index"
	routeBrandSearch       = "admin_manufacturers_search"
	routeBrandCreate       = "admin_manufacturers_create"
	routeBrandView         = "admin_manufacturers_view"
	routeBrandEdit         = "admin_manufacturers_edit"
	routeBrandDelete       = "admin_manufacturers_delete"
	routeBrandBulkDelete   = "admin_manufacturers_bulk_delete"
	routeBrandBulkEnable   = "admin_manufacturers_bulk_enable"
	routeBrandBulkDisable  = "admin_manufacturers_bulk_disable"
	routeBrandToggle       = "admin_manufacturers_toggle_status"
	routeBrandExport       = "admin_manufacturers_export"
	routeBrandLogoDelete   = "admin_manufacturers_logo_delete"
	routeAddressDelete     = "admin_manufacturer_addresses_delete"
	routeAddressExport     = "admin_manufacturer_addresses_export"
	routeAddressBulkDelete = "admin_manufacturer_addresses_bulk_delete"
	routeAddressCreate     = "admin_manufacturer_addresses_create"
	routeAddressEdit       = "admin_manufacturer_addresses_edit"
	routeLogsIndex         = "admin_logs_index"
	routeLogsSearch        = "admin_logs_search"
	routeLogsSQL           = "admin_logs_sql"
	routeLogsDeleteAll     = "admin_logs_delete_all"
	routeLogsExport        = "admin_logs_export"
	routePreferences       = "admin_preferences"
)

// paths maps route names to chi patterns.
var paths = map[string]string{
	routeBrandIndex:        "/sell/catalog/brands",
	routeBrandSearch:       "/sell/catalog/brands",
	routeBrandCreate:       "/sell/catalog/brands/new",
	routeBrandView:         "/sell/catalog/brands/{manufacturerId:[0-9]+}/view",
	routeBrandEdit:         "/sell/catalog/brands/{manufacturerId:[0-9]+}/edit",
	routeBrandDelete:       "/sell/catalog/brands/{manufacturerId:[0-9]+}/delete",
	routeBrandBulkDelete:   "/sell/catalog/brands/bulk-delete",
	routeBrandBulkEnable:   "/sell/catalog/brands/bulk-enable",
	routeBrandBulkDisable:  "/sell/catalog/brands/bulk-disable",
	routeBrandToggle:       "/sell/catalog/brands/{manufacturerId:[0-9]+}/toggle-status",
	routeBrandExport:       "/sell/catalog/brands/export",
	routeBrandLogoDelete:   "/sell/catalog/brands/{manufacturerId:[0-9]+}/logo/delete",
	routeAddressDelete:     "/sell/catalog/brands/addresses/{addressId:[0-9]+}/delete",
	routeAddressExport:     "/sell/catalog/brands/addresses/export",
	routeAddressBulkDelete: "/sell/catalog/brands/addresses/bulk-delete",
	routeAddressCreate:     "/sell/catalog/brands/addresses/new",
	routeAddressEdit:       "/sell/catalog/brands/addresses/{addressId:[0-9]+}/edit",
	routeLogsIndex:         "/configure/advanced/logs",
	routeLogsSearch:        "/configure/advanced/logs",
	routeLogsSQL:           "/configure/advanced/logs/sql",
	routeLogsDeleteAll:     "/configure/advanced/logs/delete-all",
	routeLogsExport:        "/configure/advanced/logs/export",
	routePreferences:       "/configure/shop/preferences",
}

// route is one action with its access rules.
type route struct {
	name    string
	methods []string

	// permissions must all be granted.
	permissions []string
	// demo routes are disabled in demo mode.
	demo bool
	// redirect is where denied and demo-disabled requests go. Empty means
	// denied requests get a 403.
	redirect string
	// keep lists URL parameters carried over to redirect.
	keep []string
	// message replaces the default access denied flash.
	message string
	// export routes also take the export rate limit.
	export bool

	handle http.HandlerFunc
}

// routeURL builds the path of a named route. params are name/value pairs
// filling the pattern's {name} segments; leftover pairs become the query
// string.
func routeURL(name string, params ...string) string {
	pattern, ok := paths[name]
	if !ok {
		return "/"
	}

	values := make(map[string]string, len(params)/2)
	for i := 0; i+1 < len(params); i += 2 {
		values[params[i]] = params[i+1]
	}

	segments := strings.Split(pattern, "/")
	for i, seg := range segments {
		if !strings.HasPrefix(seg, "{") || !strings.HasSuffix(seg, "}") {
			continue
		}
		key, _, _ := strings.Cut(strings.Trim(seg, "{}"), ":")
		segments[i] = url.PathEscape(values[key])
		delete(values, key)
	}
	path := strings.Join(segments, "/")

	if len(values) == 0 {
		return path
	}
	q := url.Values{}
	for k, v := range values {
		q.Set(k, v)
	}
	return path + "?" + q.Encode()
}
