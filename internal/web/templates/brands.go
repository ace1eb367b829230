package templates

import (
	"context"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/brandadmin/internal/core"
)

// BrandIndexPage is the brand listing with its address listing.
type BrandIndexPage struct {
	Page
	Brands      GridView
	Addresses   GridView
	SettingsTip string
}

// BrandIndex renders the brand and address grids.
func BrandIndex(p BrandIndexPage) templ.Component {
	body := component(func(ctx context.Context, h *html) {
		if p.SettingsTip != "" {
			// The tip is a translated message carrying a trusted link.
			h.raw(`<div class="alert alert-info settings-tip">`)
			h.render(ctx, templ.Raw(p.SettingsTip))
			h.raw(`</div>`)
		}
		h.render(ctx, Grid(p.Brands))
		h.render(ctx, Grid(p.Addresses))
	})
	return Layout(p.Page, body)
}

// BrandFormPage is the brand create or edit screen.
type BrandFormPage struct {
	Page
	Form          FormView
	Logo          *core.LogoImage
	LogoDeleteURL string
}

// BrandForm renders the brand form and, when editing, the current logo.
func BrandForm(p BrandFormPage) templ.Component {
	body := component(func(ctx context.Context, h *html) {
		if p.Logo != nil {
			h.raw(`<figure class="logo"><img alt="logo"`)
			h.href("src", p.Logo.Path)
			h.raw(`><figcaption>`)
			h.text(itoa(int(p.Logo.Size/1024)) + " kB")
			h.raw(`</figcaption>`)
			if p.LogoDeleteURL != "" {
				h.raw(`<form method="post"`)
				h.href("action", p.LogoDeleteURL)
				h.raw(`><button type="submit" class="btn btn-link" data-confirm="Are you sure?">Delete</button></form>`)
			}
			h.raw(`</figure>`)
		}
		h.render(ctx, Form(p.Form))
	})
	return Layout(p.Page, body)
}

// BrandViewPage is the brand detail screen.
type BrandViewPage struct {
	Page
	Brand           core.ViewableManufacturer
	StockManagement bool
	AddressEditURL  func(id int) string
}

// BrandView renders a brand's addresses and products.
func BrandView(p BrandViewPage) templ.Component {
	body := component(func(_ context.Context, h *html) {
		h.raw(`<section class="card addresses"><h2>Addresses <span class="badge">`)
		h.text(itoa(len(p.Brand.Addresses)))
		h.raw(`</span></h2>`)
		if len(p.Brand.Addresses) == 0 {
			h.raw(`<p class="empty">No address has been found for this brand.</p>`)
		}
		for _, a := range p.Brand.Addresses {
			h.raw(`<address><strong>`)
			h.text(a.FullName)
			h.raw(`</strong><br>`)
			h.text(a.Address)
			if a.Address2 != "" {
				h.raw(`<br>`)
				h.text(a.Address2)
			}
			h.raw(`<br>`)
			h.text(a.PostCode + " " + a.City)
			if a.State != "" {
				h.raw(`<br>`)
				h.text(a.State)
			}
			h.raw(`<br>`)
			h.text(a.Country)
			for _, phone := range []string{a.HomePhone, a.MobilePhone} {
				if phone != "" {
					h.raw(`<br>`)
					h.text(phone)
				}
			}
			if a.Other != "" {
				h.raw(`<br><em>`)
				h.text(a.Other)
				h.raw(`</em>`)
			}
			if p.AddressEditURL != nil {
				h.raw(`<br><a`)
				h.href("href", p.AddressEditURL(a.AddressID))
				h.raw(`>Edit</a>`)
			}
			h.raw(`</address>`)
		}
		h.raw(`</section>`)

		h.raw(`<section class="card products"><h2>Products <span class="badge">`)
		h.text(itoa(len(p.Brand.Products)))
		h.raw(`</span></h2><table class="table"><thead><tr><th>Name</th><th>Reference</th><th>EAN-13</th><th>UPC</th>`)
		if p.StockManagement {
			h.raw(`<th>Quantity</th>`)
		}
		h.raw(`</tr></thead><tbody>`)
		for _, pr := range p.Brand.Products {
			h.raw(`<tr><td>`)
			h.text(pr.Name)
			h.raw(`</td><td>`)
			h.text(pr.Reference)
			h.raw(`</td><td>`)
			h.text(pr.EAN13)
			h.raw(`</td><td>`)
			h.text(pr.UPC)
			h.raw(`</td>`)
			if p.StockManagement {
				h.raw(`<td>`)
				h.text(itoa(pr.Quantity))
				h.raw(`</td>`)
			}
			h.raw(`</tr>`)
		}
		h.raw(`</tbody></table></section>`)
	})
	return Layout(p.Page, body)
}

// AddressFormPage is the brand address create or edit screen.
type AddressFormPage struct {
	Page
	Form FormView
}

// AddressForm renders the brand address form.
func AddressForm(p AddressFormPage) templ.Component {
	return Layout(p.Page, Form(p.Form))
}
