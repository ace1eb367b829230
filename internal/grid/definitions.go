package grid

const (
	ManufacturerGridID        = "manufacturer"
	ManufacturerAddressGridID = "manufacturer_address"
)

// ManufacturerDefinition is the brand listing.
func ManufacturerDefinition(pageSize int) Definition {
	return Definition{
		ID:   ManufacturerGridID,
		Name: "Brands",
		Columns: []Column{
			{ID: "id_manufacturer", Label: "ID", Filter: FilterExact, Sortable: true},
			{ID: "logo", Label: "Logo"},
			{ID: "name", Label: "Name", Filter: FilterText, Sortable: true},
			{ID: "addresses_count", Label: "Addresses", Sortable: true},
			{ID: "products_count", Label: "Products", Sortable: true},
			{ID: "active", Label: "Enabled", Filter: FilterBool, Sortable: true},
		},
		DefaultOrderBy:   "name",
		DefaultSortOrder: "asc",
		DefaultLimit:     pageSize,
	}
}

// ManufacturerAddressDefinition is the brand address listing.
func ManufacturerAddressDefinition(pageSize int) Definition {
	return Definition{
		ID:   ManufacturerAddressGridID,
		Name: "Addresses",
		Columns: []Column{
			{ID: "id_address", Label: "ID", Filter: FilterExact, Sortable: true},
			{ID: "name", Label: "Brand", Filter: FilterText, Sortable: true},
			{ID: "firstname", Label: "First name", Filter: FilterText, Sortable: true},
			{ID: "lastname", Label: "Last name", Filter: FilterText, Sortable: true},
			{ID: "postcode", Label: "Zip/Postal code", Filter: FilterText, Sortable: true},
			{ID: "city", Label: "City", Filter: FilterText, Sortable: true},
			{ID: "country", Label: "Country", Filter: FilterText, Sortable: true},
		},
		DefaultOrderBy:   "id_address",
		DefaultSortOrder: "desc",
		DefaultLimit:     pageSize,
	}
}

const LogGridID = "logs"

// LogDefinition is the activity log listing. The date range is filtered
// through date_from and date_to.
func LogDefinition(pageSize int) Definition {
	return Definition{
		ID:   LogGridID,
		Name: "Logs",
		Columns: []Column{
			{ID: "id_log", Label: "ID", Filter: FilterText, Sortable: true},
			{ID: "employee", Label: "Employee", Filter: FilterText, Sortable: true},
			{ID: "severity", Label: "Severity (1-4)", Filter: FilterText, Sortable: true},
			{ID: "message", Label: "Message", Filter: FilterText, Sortable: true},
			{ID: "object_type", Label: "Object type", Filter: FilterText, Sortable: true},
			{ID: "object_id", Label: "Object ID", Filter: FilterText, Sortable: true},
			{ID: "error_code", Label: "Error code", Filter: FilterText, Sortable: true},
			{ID: "date_add", Label: "Date", Sortable: true},
		},
		DefaultOrderBy:   "date_add",
		DefaultSortOrder: "desc",
		DefaultLimit:     pageSize,
		ExtraFilters:     []string{"date_from", "date_to"},
	}
}
