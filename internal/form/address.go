package form

import (
	"context"

	"github.com/JonMunkholm/brandadmin/internal/core"
)

// AddressData is the brand address form. The brand itself is checked by
// the command so an unknown brand is reported as a brand error.
type AddressData struct {
	ManufacturerID int    `form:"id_manufacturer"`
	LastName       string `form:"last_name" validate:"required,max=255"`
	FirstName      string `form:"first_name" validate:"required,max=255"`
	Address        string `form:"address" validate:"required,max=128"`
	Address2       string `form:"address2" validate:"max=128"`
	PostCode       string `form:"post_code" validate:"max=12"`
	City           string `form:"city" validate:"required,max=64"`
	CountryID      int    `form:"id_country" validate:"required"`
	StateID        int    `form:"id_state"`
	HomePhone      string `form:"home_phone" validate:"max=32"`
	MobilePhone    string `form:"mobile_phone" validate:"max=32"`
	Other          string `form:"other" validate:"max=300"`
	DNI            string `form:"dni" validate:"max=16"`
}

func (d AddressData) input() core.AddressInput {
	return core.AddressInput{
		ManufacturerID: d.ManufacturerID,
		LastName:       d.LastName,
		FirstName:      d.FirstName,
		Address:        d.Address,
		Address2:       d.Address2,
		PostCode:       d.PostCode,
		City:           d.City,
		CountryID:      d.CountryID,
		StateID:        d.StateID,
		HomePhone:      d.HomePhone,
		MobilePhone:    d.MobilePhone,
		Other:          d.Other,
		DNI:            d.DNI,
	}
}

type addressData struct {
	d core.Dispatcher
}

func (p addressData) DefaultData(context.Context) (AddressData, error) {
	return AddressData{}, nil
}

func (p addressData) Data(ctx context.Context, id int) (AddressData, error) {
	a, err := core.Ask[core.EditableManufacturerAddress](ctx, p.d, core.GetManufacturerAddressForEditing{AddressID: id})
	if err != nil {
		return AddressData{}, err
	}
	return AddressData{
		ManufacturerID: a.ManufacturerID,
		LastName:       a.LastName,
		FirstName:      a.FirstName,
		Address:        a.Address,
		Address2:       a.Address2,
		PostCode:       a.PostCode,
		City:           a.City,
		CountryID:      a.CountryID,
		StateID:        a.StateID,
		HomePhone:      a.HomePhone,
		MobilePhone:    a.MobilePhone,
		Other:          a.Other,
		DNI:            a.DNI,
	}, nil
}

func (p addressData) Create(ctx context.Context, f *Form[AddressData]) (int, error) {
	return core.Ask[int](ctx, p.d, core.AddManufacturerAddress{AddressInput: f.Data.input()})
}

func (p addressData) Update(ctx context.Context, id int, f *Form[AddressData]) error {
	return core.Send(ctx, p.d, core.EditManufacturerAddress{AddressID: id, AddressInput: f.Data.input()})
}

// NewAddressBuilder returns the brand address form builder.
func NewAddressBuilder(d core.Dispatcher) *Builder[AddressData] {
	return NewBuilder[AddressData](AddressFormName, addressData{d: d})
}

// NewAddressHandler returns the brand address form handler.
func NewAddressHandler(d core.Dispatcher) *Handler[AddressData] {
	return NewHandler[AddressData](addressData{d: d})
}

// SubmittedCountry returns the country chosen in a posted address form, so
// the form can be rebuilt with that country's states. ok is false when no
// country was posted.
func SubmittedCountry(values map[string][]string) (map[string]any, bool) {
	v, ok := values[AddressFormName+"[id_country]"]
	if !ok || len(v) == 0 || v[0] == "" {
		return nil, false
	}
	return map[string]any{"id_country": v[0]}, true
}
