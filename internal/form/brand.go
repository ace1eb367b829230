package form

import (
	"context"

	"github.com/JonMunkholm/brandadmin/internal/core"
)

const (
	BrandFormName   = "manufacturer"
	AddressFormName = "manufacturer_address"
)

// BrandData is the brand form. The logo arrives as an uploaded file.
type BrandData struct {
	Name             string `form:"name" validate:"required,max=64"`
	ShortDescription string `form:"short_description"`
	Description      string `form:"description"`
	MetaTitle        string `form:"meta_title" validate:"max=255"`
	MetaDescription  string `form:"meta_description" validate:"max=512"`
	MetaKeywords     string `form:"meta_keyword" validate:"max=255"`
	IsEnabled        bool   `form:"is_enabled"`
}

func (d BrandData) input(ctx context.Context) core.ManufacturerInput {
	return core.ManufacturerInput{
		Name:             d.Name,
		ShortDescription: d.ShortDescription,
		Description:      d.Description,
		MetaTitle:        d.MetaTitle,
		MetaDescription:  d.MetaDescription,
		MetaKeywords:     d.MetaKeywords,
		Enabled:          d.IsEnabled,
		LanguageID:       core.GetLanguageIDFromContext(ctx),
	}
}

type brandData struct {
	d core.Dispatcher
}

func (p brandData) DefaultData(context.Context) (BrandData, error) {
	return BrandData{IsEnabled: true}, nil
}

func (p brandData) Data(ctx context.Context, id int) (BrandData, error) {
	m, err := core.Ask[core.EditableManufacturer](ctx, p.d, core.GetManufacturerForEditing{ManufacturerID: id})
	if err != nil {
		return BrandData{}, err
	}
	return BrandData{
		Name:             m.Name,
		ShortDescription: m.ShortDescription,
		Description:      m.Description,
		MetaTitle:        m.MetaTitle,
		MetaDescription:  m.MetaDescription,
		MetaKeywords:     m.MetaKeywords,
		IsEnabled:        m.Enabled,
	}, nil
}

// Create adds the brand, then its logo. A failed upload still returns the
// brand's id.
func (p brandData) Create(ctx context.Context, f *Form[BrandData]) (int, error) {
	id, err := core.Ask[int](ctx, p.d, core.AddManufacturer{ManufacturerInput: f.Data.input(ctx)})
	if err != nil {
		return 0, err
	}
	return id, p.uploadLogo(ctx, id, f)
}

func (p brandData) Update(ctx context.Context, id int, f *Form[BrandData]) error {
	if err := core.Send(ctx, p.d, core.EditManufacturer{ManufacturerID: id, ManufacturerInput: f.Data.input(ctx)}); err != nil {
		return err
	}
	return p.uploadLogo(ctx, id, f)
}

func (p brandData) uploadLogo(ctx context.Context, id int, f *Form[BrandData]) error {
	logo := f.File("logo")
	if len(logo) == 0 {
		return nil
	}
	return core.Send(ctx, p.d, core.UploadManufacturerLogo{ManufacturerID: id, Data: logo})
}

// NewBrandBuilder returns the brand form builder.
func NewBrandBuilder(d core.Dispatcher) *Builder[BrandData] {
	return NewBuilder[BrandData](BrandFormName, brandData{d: d})
}

// NewBrandHandler returns the brand form handler.
func NewBrandHandler(d core.Dispatcher) *Handler[BrandData] {
	return NewHandler[BrandData](brandData{d: d})
}
