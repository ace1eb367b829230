package web

import (
	"context"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/brandadmin/internal/core"
	"github.com/JonMunkholm/brandadmin/internal/export"
	"github.com/JonMunkholm/brandadmin/internal/form"
	"github.com/JonMunkholm/brandadmin/internal/grid"
	"github.com/JonMunkholm/brandadmin/internal/web/templates"
)

func (s *Server) addressGridView(ctx context.Context, g *grid.Grid) templates.GridView {
	return templates.GridView{
		Grid:      g,
		IndexURL:  routeURL(routeBrandIndex),
		SearchURL: routeURL(routeBrandSearch),
		IDColumn:  "id_address",
		BulkField: addressBulkField,
		BulkActions: []templates.Action{{
			Label:   s.trans(ctx, "Delete selected", domainGlobal, nil),
			URL:     routeURL(routeAddressBulkDelete),
			Post:    true,
			Confirm: s.trans(ctx, "Delete selected items?", domainGlobal, nil),
		}},
		RowActions: func(rec grid.Record) []templates.Action {
			id := export.FormatCell(rec["id_address"])
			return []templates.Action{
				{Label: s.trans(ctx, "Edit", domainGlobal, nil), URL: routeURL(routeAddressEdit, "addressId", id)},
				{
					Label:   s.trans(ctx, "Delete", domainGlobal, nil),
					URL:     routeURL(routeAddressDelete, "addressId", id),
					Post:    true,
					Confirm: s.trans(ctx, "Are you sure you want to delete this item?", domainGlobal, nil),
				},
			}
		},
		Extra: templates.Toolbar([]templates.Link{{
			Name:  "manufacturer_address_export",
			Label: s.trans(ctx, "Export", domainGlobal, nil),
			URL:   routeURL(routeAddressExport),
			Icon:  "cloud_download",
		}}),
	}
}

// handleAddressCreate shows and processes the new brand address form. An
// unknown brand sends the employee back to the listing.
func (s *Server) handleAddressCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	overrides, _ := form.SubmittedCountry(r.PostForm)

	f, err := s.addressForms.GetForm(ctx, overrides)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if err := f.HandleRequest(r); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	res, err := s.addressHandler.Handle(ctx, f)
	if err != nil {
		if _, ok := core.AsDomain(err); !ok {
			s.respondError(w, r, err, http.StatusInternalServerError)
			return
		}
		s.flashFailure(ctx, err)
		if core.IsKind(err, core.KindManufacturerConstraint) {
			s.redirect(w, r, routeBrandIndex)
			return
		}
	} else if res.IdentifiableObjectID != nil {
		s.flashSuccess(ctx, msgCreated)
		s.redirect(w, r, routeBrandIndex)
		return
	}

	s.render(w, r, templates.AddressForm(templates.AddressFormPage{
		Page: s.catalogPage(r, s.trans(ctx, "New brand address", domainMenu, nil)),
		Form: s.addressFormView(ctx, f, routeURL(routeAddressCreate)),
	}))
}

// handleAddressEdit shows and processes the brand address edit form.
func (s *Server) handleAddressEdit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := urlID(r, "addressId")
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	overrides, _ := form.SubmittedCountry(r.PostForm)

	a, f, saved, err := s.editAddress(r, id, overrides)
	switch {
	case err != nil:
		s.flashFailure(ctx, err)
		if core.IsKind(err, core.KindAddressNotFound) || core.IsKind(err, core.KindAddressConstraint) {
			s.redirect(w, r, routeBrandIndex)
			return
		}
	case saved:
		s.flashSuccess(ctx, msgUpdated)
		s.redirect(w, r, routeBrandIndex)
		return
	}
	if a == nil || f == nil {
		s.redirect(w, r, routeBrandIndex)
		return
	}

	s.render(w, r, templates.AddressForm(templates.AddressFormPage{
		Page: s.catalogPage(r, s.trans(ctx, "Editing brand address", domainMenu, nil)),
		Form: s.addressFormView(ctx, f, routeURL(routeAddressEdit, "addressId", strconv.Itoa(id))),
	}))
}

func (s *Server) editAddress(r *http.Request, id int, overrides map[string]any) (*core.EditableManufacturerAddress, *form.Form[form.AddressData], bool, error) {
	ctx := r.Context()

	a, err := core.Ask[core.EditableManufacturerAddress](ctx, s.bus, core.GetManufacturerAddressForEditing{AddressID: id})
	if err != nil {
		return nil, nil, false, err
	}
	f, err := s.addressForms.GetFormFor(ctx, id, overrides)
	if err != nil {
		return &a, nil, false, err
	}
	if err := f.HandleRequest(r); err != nil {
		return &a, f, false, err
	}
	res, err := s.addressHandler.HandleFor(ctx, id, f)
	if err != nil {
		return &a, f, false, err
	}
	return &a, f, res.Submitted && res.Valid, nil
}

func (s *Server) handleAddressDelete(w http.ResponseWriter, r *http.Request) {
	err := core.Send(r.Context(), s.bus, core.DeleteAddress{AddressID: urlID(r, "addressId")})
	s.command(w, r, err, msgDeleted, routeBrandIndex)
}

func (s *Server) handleAddressBulkDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	err := core.Send(r.Context(), s.bus, core.BulkDeleteAddress{AddressIDs: bulkIDs(r, addressBulkField)})
	s.command(w, r, err, msgDeleted, routeBrandIndex)
}

// handleAddressExport downloads every address matching the saved search.
func (s *Server) handleAddressExport(w http.ResponseWriter, r *http.Request) {
	s.exportGrid(w, r, s.addresses, export.AddressSchema, export.AddressPrefix)
}

func (s *Server) addressFormView(ctx context.Context, f *form.Form[form.AddressData], action string) templates.FormView {
	d := f.Data
	field := func(name, label string, typ templates.FieldType, value string, required bool) templates.Field {
		return templates.Field{
			Name:     name,
			Input:    f.InputName(name),
			Label:    s.trans(ctx, label, domainGlobal, nil),
			Type:     typ,
			Value:    value,
			Required: required,
			Error:    f.Errors[name],
		}
	}
	id := func(n int) string {
		if n == 0 {
			return ""
		}
		return strconv.Itoa(n)
	}

	return templates.FormView{
		ID:     f.Name,
		Action: action,
		Error:  f.Errors[""],
		Fields: []templates.Field{
			field("id_manufacturer", "Brand", templates.FieldNumber, id(d.ManufacturerID), false),
			field("last_name", "Last name", templates.FieldText, d.LastName, true),
			field("first_name", "First name", templates.FieldText, d.FirstName, true),
			field("address", "Address", templates.FieldText, d.Address, true),
			field("address2", "Address (2)", templates.FieldText, d.Address2, false),
			field("post_code", "Zip/Postal code", templates.FieldText, d.PostCode, false),
			field("city", "City", templates.FieldText, d.City, true),
			field("id_country", "Country", templates.FieldNumber, id(d.CountryID), true),
			field("id_state", "State", templates.FieldNumber, id(d.StateID), false),
			field("home_phone", "Home phone", templates.FieldText, d.HomePhone, false),
			field("mobile_phone", "Mobile phone", templates.FieldText, d.MobilePhone, false),
			field("other", "Other", templates.FieldTextarea, d.Other, false),
			field("dni", "DNI", templates.FieldText, d.DNI, false),
		},
		Submit:    s.trans(ctx, "Save", domainGlobal, nil),
		CancelURL: routeURL(routeBrandIndex),
	}
}
