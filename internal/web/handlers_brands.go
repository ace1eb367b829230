package web

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/brandadmin/internal/core"
	"github.com/JonMunkholm/brandadmin/internal/export"
	"github.com/JonMunkholm/brandadmin/internal/form"
	"github.com/JonMunkholm/brandadmin/internal/grid"
	"github.com/JonMunkholm/brandadmin/internal/web/templates"
)

const (
	brandBulkField   = "manufacturer_bulk"
	addressBulkField = "manufacturer_address_bulk"
)

// handleBrandIndex shows the brand grid and the brand address grid.
func (s *Server) handleBrandIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	brands, err := s.brands.GetGrid(ctx, s.gridFilters(r, s.brands.Definition()))
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	addresses, err := s.addresses.GetGrid(ctx, s.gridFilters(r, s.addresses.Definition()))
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	p := s.catalogPage(r, s.trans(ctx, "Brands", domainMenu, nil))
	p.Toolbar = []templates.Link{
		{
			Name:  "add_manufacturer",
			Label: s.trans(ctx, "Add new brand", domainFeature, nil),
			URL:   routeURL(routeBrandCreate),
			Icon:  "add_circle_outline",
		},
		{
			Name:  "add_manufacturer_address",
			Label: s.trans(ctx, "Add new brand address", domainFeature, nil),
			URL:   routeURL(routeAddressCreate),
			Icon:  "add_circle_outline",
		},
	}

	s.render(w, r, templates.BrandIndex(templates.BrandIndexPage{
		Page:        p,
		Brands:      s.brandGridView(ctx, brands),
		Addresses:   s.addressGridView(ctx, addresses),
		SettingsTip: s.settingsTip(ctx),
	}))
}

// settingsTip warns that brands are hidden on the storefront. It is empty
// when they are displayed.
func (s *Server) settingsTip(ctx context.Context) string {
	if s.settings.Bool(core.SettingDisplayManufacturers) {
		return ""
	}
	return s.trans(ctx,
		"The display of your brands is disabled on your store. Go to %sShop Parameters > General%s to edit settings.",
		domainCatalogNotification, nil,
		`<a href="`+routeURL(routePreferences)+`">`, "</a>",
	)
}

func (s *Server) brandGridView(ctx context.Context, g *grid.Grid) templates.GridView {
	rowForm := templates.RowFormID(g.Definition.ID)
	return templates.GridView{
		Grid:      g,
		IndexURL:  routeURL(routeBrandIndex),
		SearchURL: routeURL(routeBrandSearch),
		IDColumn:  "id_manufacturer",
		BulkField: brandBulkField,
		BulkActions: []templates.Action{
			{Label: s.trans(ctx, "Enable selection", domainGlobal, nil), URL: routeURL(routeBrandBulkEnable), Post: true},
			{Label: s.trans(ctx, "Disable selection", domainGlobal, nil), URL: routeURL(routeBrandBulkDisable), Post: true},
			{
				Label:   s.trans(ctx, "Delete selected", domainGlobal, nil),
				URL:     routeURL(routeBrandBulkDelete),
				Post:    true,
				Confirm: s.trans(ctx, "Delete selected items?", domainGlobal, nil),
			},
		},
		RowActions: func(rec grid.Record) []templates.Action {
			id := export.FormatCell(rec["id_manufacturer"])
			return []templates.Action{
				{Label: s.trans(ctx, "View", domainGlobal, nil), URL: routeURL(routeBrandView, "manufacturerId", id)},
				{Label: s.trans(ctx, "Edit", domainGlobal, nil), URL: routeURL(routeBrandEdit, "manufacturerId", id)},
				{
					Label:   s.trans(ctx, "Delete", domainGlobal, nil),
					URL:     routeURL(routeBrandDelete, "manufacturerId", id),
					Post:    true,
					Confirm: s.trans(ctx, "Are you sure you want to delete this item?", domainGlobal, nil),
				},
			}
		},
		Cell: func(col grid.Column, rec grid.Record) templ.Component {
			switch col.ID {
			case "logo":
				src, _ := rec["logo"].(string)
				return templates.Image(src)
			case "active":
				id := export.FormatCell(rec["id_manufacturer"])
				return templates.StatusToggle(export.FormatCell(rec["active"]) == "1", routeURL(routeBrandToggle, "manufacturerId", id), rowForm)
			}
			return nil
		},
		Extra: templates.Toolbar([]templates.Link{{
			Name:  "manufacturer_export",
			Label: s.trans(ctx, "Export", domainGlobal, nil),
			URL:   routeURL(routeBrandExport),
			Icon:  "cloud_download",
		}}),
	}
}

// handleBrandSearch saves the posted filters of whichever grid was
// submitted. Address grid fields win when both are present.
func (s *Server) handleBrandSearch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	factory := s.brands
	for key := range r.PostForm {
		if strings.HasPrefix(key, grid.ManufacturerAddressGridID+"[") {
			factory = s.addresses
			break
		}
	}

	def := factory.Definition()
	s.saveFilters(r.Context(), searchFilters(r, def, s.gridFilters(r, def)))
	s.redirect(w, r, routeBrandIndex)
}

// handleBrandCreate shows and processes the new brand form.
func (s *Server) handleBrandCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	f, err := s.brandForms.GetForm(ctx, nil)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if err := f.HandleRequest(r); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	res, err := s.brandHandler.Handle(ctx, f)
	switch {
	case err != nil && res.IdentifiableObjectID != nil:
		// The brand exists; only its logo failed.
		s.flashFailure(ctx, err)
		s.redirect(w, r, routeBrandEdit, "manufacturerId", strconv.Itoa(*res.IdentifiableObjectID))
		return
	case err != nil:
		s.flashFailure(ctx, err)
	case res.IdentifiableObjectID != nil:
		s.flashSuccess(ctx, msgCreated)
		s.redirect(w, r, routeBrandIndex)
		return
	}

	s.render(w, r, templates.BrandForm(templates.BrandFormPage{
		Page: s.catalogPage(r, s.trans(ctx, "New brand", domainMenu, nil)),
		Form: s.brandFormView(ctx, f, routeURL(routeBrandCreate)),
	}))
}

// handleBrandView shows a brand with its addresses and products.
func (s *Server) handleBrandView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := urlID(r, "manufacturerId")

	m, err := core.Ask[core.ViewableManufacturer](ctx, s.bus, core.GetManufacturerForViewing{
		ManufacturerID: id,
		LanguageID:     core.GetLanguageIDFromContext(ctx),
	})
	if err != nil {
		if !core.InFamily(err, core.FamilyManufacturer) {
			s.respondError(w, r, err, http.StatusInternalServerError)
			return
		}
		s.flashFailure(ctx, err)
		s.redirect(w, r, routeBrandIndex)
		return
	}

	p := s.catalogPage(r, s.trans(ctx, "Brand %name%", domainMenu, map[string]string{"%name%": m.Name}))
	p.Toolbar = []templates.Link{{
		Name:  "edit",
		Label: s.trans(ctx, "Edit brand", domainFeature, nil),
		URL:   routeURL(routeBrandEdit, "manufacturerId", strconv.Itoa(id)),
		Icon:  "mode_edit",
	}}

	s.render(w, r, templates.BrandView(templates.BrandViewPage{
		Page:            p,
		Brand:           m,
		StockManagement: s.settings.Bool(core.SettingStockManagement),
		AddressEditURL: func(addressID int) string {
			return routeURL(routeAddressEdit, "addressId", strconv.Itoa(addressID))
		},
	}))
}

// handleBrandEdit shows and processes the brand edit form. The page is
// only rendered once both the brand and its form were loaded.
func (s *Server) handleBrandEdit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := urlID(r, "manufacturerId")

	m, f, saved, err := s.editBrand(r, id)
	switch {
	case err != nil:
		s.flashFailure(ctx, err)
		if core.IsKind(err, core.KindManufacturerNotFound) {
			s.redirect(w, r, routeBrandIndex)
			return
		}
	case saved:
		s.flashSuccess(ctx, msgUpdated)
		s.redirect(w, r, routeBrandIndex)
		return
	}
	if m == nil || f == nil {
		s.redirect(w, r, routeBrandIndex)
		return
	}

	action := routeURL(routeBrandEdit, "manufacturerId", strconv.Itoa(id))
	s.render(w, r, templates.BrandForm(templates.BrandFormPage{
		Page:          s.catalogPage(r, s.trans(ctx, "Editing brand %name%", domainMenu, map[string]string{"%name%": m.Name})),
		Form:          s.brandFormView(ctx, f, action),
		Logo:          m.Logo,
		LogoDeleteURL: routeURL(routeBrandLogoDelete, "manufacturerId", strconv.Itoa(id)),
	}))
}

// editBrand loads brand id and its form, then handles the submission.
// Whatever was loaded before a failure is returned with it.
func (s *Server) editBrand(r *http.Request, id int) (*core.EditableManufacturer, *form.Form[form.BrandData], bool, error) {
	ctx := r.Context()

	m, err := core.Ask[core.EditableManufacturer](ctx, s.bus, core.GetManufacturerForEditing{ManufacturerID: id})
	if err != nil {
		return nil, nil, false, err
	}
	f, err := s.brandForms.GetFormFor(ctx, id, nil)
	if err != nil {
		return &m, nil, false, err
	}
	if err := f.HandleRequest(r); err != nil {
		return &m, f, false, err
	}
	res, err := s.brandHandler.HandleFor(ctx, id, f)
	if err != nil {
		return &m, f, false, err
	}
	return &m, f, res.Submitted && res.Valid, nil
}

// command flashes the outcome of a dispatched command and redirects.
// Failures that are not domain errors go to the error page.
func (s *Server) command(w http.ResponseWriter, r *http.Request, err error, successKey, target string, params ...string) {
	if _, ok := core.AsDomain(err); err != nil && !ok {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	s.finish(w, r, err, successKey, target, params...)
}

func (s *Server) handleBrandDelete(w http.ResponseWriter, r *http.Request) {
	err := core.Send(r.Context(), s.bus, core.DeleteManufacturer{ManufacturerID: urlID(r, "manufacturerId")})
	s.command(w, r, err, msgDeleted, routeBrandIndex)
}

func (s *Server) handleBrandBulkDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	err := core.Send(r.Context(), s.bus, core.BulkDeleteManufacturer{ManufacturerIDs: bulkIDs(r, brandBulkField)})
	s.command(w, r, err, msgDeleted, routeBrandIndex)
}

func (s *Server) handleBrandBulkEnable(w http.ResponseWriter, r *http.Request) {
	s.bulkToggle(w, r, true)
}

func (s *Server) handleBrandBulkDisable(w http.ResponseWriter, r *http.Request) {
	s.bulkToggle(w, r, false)
}

func (s *Server) bulkToggle(w http.ResponseWriter, r *http.Request, enabled bool) {
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	err := core.Send(r.Context(), s.bus, core.BulkToggleManufacturerStatus{
		ManufacturerIDs: bulkIDs(r, brandBulkField),
		Enabled:         enabled,
	})
	s.command(w, r, err, msgStatusUpdated, routeBrandIndex)
}

// handleBrandToggle flips the brand's status. Concurrent toggles are not
// detected; the last write wins.
func (s *Server) handleBrandToggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := urlID(r, "manufacturerId")

	m, err := core.Ask[core.EditableManufacturer](ctx, s.bus, core.GetManufacturerForEditing{ManufacturerID: id})
	if err == nil {
		err = core.Send(ctx, s.bus, core.ToggleManufacturerStatus{ManufacturerID: id, Enabled: !m.Enabled})
	}
	s.command(w, r, err, msgStatusUpdated, routeBrandIndex)
}

// handleBrandExport downloads every brand matching the saved search.
func (s *Server) handleBrandExport(w http.ResponseWriter, r *http.Request) {
	s.exportGrid(w, r, s.brands, export.BrandSchema, export.BrandPrefix)
}

func (s *Server) exportGrid(w http.ResponseWriter, r *http.Request, factory grid.Factory, schema export.Schema, prefix string) {
	ctx := r.Context()
	g, err := factory.GetGrid(ctx, s.gridFilters(r, factory.Definition()).WithoutLimit())
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	s.writeCSV(w, r, schema, export.Project(g.Records, schema), prefix)
}

func (s *Server) writeCSV(w http.ResponseWriter, r *http.Request, schema export.Schema, rows [][]string, prefix string) {
	ctx := r.Context()
	labels := make(export.Schema, len(schema))
	for i, c := range schema {
		labels[i] = export.Column{Key: c.Key, Label: s.trans(ctx, c.Label, domainGlobal, nil)}
	}
	if err := export.Write(w, export.FileName(prefix, s.now()), labels, rows); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
	}
}

// handleBrandLogoDelete removes the brand's logo and returns to its edit
// page either way.
func (s *Server) handleBrandLogoDelete(w http.ResponseWriter, r *http.Request) {
	id := urlID(r, "manufacturerId")
	err := core.Send(r.Context(), s.bus, core.DeleteManufacturerLogoImage{ManufacturerID: id})
	s.command(w, r, err, msgImageDeleted, routeBrandEdit, "manufacturerId", strconv.Itoa(id))
}

func (s *Server) brandFormView(ctx context.Context, f *form.Form[form.BrandData], action string) templates.FormView {
	t := func(key string) string { return s.trans(ctx, key, domainGlobal, nil) }
	field := func(name, label string, typ templates.FieldType, value string) templates.Field {
		return templates.Field{
			Name:  name,
			Input: f.InputName(name),
			Label: t(label),
			Type:  typ,
			Value: value,
			Error: f.Errors[name],
		}
	}

	name := field("name", "Name", templates.FieldText, f.Data.Name)
	name.Required = true
	logo := field("logo", "Logo", templates.FieldFile, "")
	logo.Help = t("Upload a brand logo from your computer.")
	enabled := field("is_enabled", "Enabled", templates.FieldCheckbox, "")
	enabled.Checked = f.Data.IsEnabled

	return templates.FormView{
		ID:        f.Name,
		Action:    action,
		Multipart: true,
		Error:     f.Errors[""],
		Fields: []templates.Field{
			name,
			field("short_description", "Short description", templates.FieldTextarea, f.Data.ShortDescription),
			field("description", "Description", templates.FieldTextarea, f.Data.Description),
			logo,
			field("meta_title", "Meta title", templates.FieldText, f.Data.MetaTitle),
			field("meta_description", "Meta description", templates.FieldText, f.Data.MetaDescription),
			field("meta_keyword", "Meta keywords", templates.FieldText, f.Data.MetaKeywords),
			enabled,
		},
		Submit:    t("Save"),
		CancelURL: routeURL(routeBrandIndex),
	}
}
