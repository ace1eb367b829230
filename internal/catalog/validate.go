package catalog

// validate.go checks brand and address input before it reaches the database.
//
// Each field has a rule (required, max length, character class) and the kind
// and code reported when it fails. The first failing field wins.

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/JonMunkholm/brandadmin/internal/core"
)

var (
	// catalogNameChars rejects the characters not allowed in brand names.
	catalogNameChars = regexp.MustCompile(`[<>;=#{}]`)
	// genericNameChars rejects characters not allowed in meta fields and
	// address parts.
	genericNameChars = regexp.MustCompile(`[<>={}]`)
	// nameChars rejects digits and punctuation in person names.
	nameChars = regexp.MustCompile(`[0-9!<>,;?=+()@#"°{}_$%:]`)
	cityChars = regexp.MustCompile(`[!<>;?=+@#"°{}_$%]`)
	// postCodeChars allows letters, digits, spaces and dashes.
	postCodeChars = regexp.MustCompile(`^[a-zA-Z 0-9-]*$`)
	phoneChars    = regexp.MustCompile(`^[+0-9. ()/-]*$`)
	unsafeHTML    = regexp.MustCompile(`(?i)<\s*(script|iframe|form|input|embed|object)\b|\bon[a-z]+\s*=|javascript:`)
)

type fieldRule struct {
	field    string
	value    string
	required bool
	max      int
	reject   *regexp.Regexp
	allow    *regexp.Regexp
	kind     core.Kind
	code     int
}

func (r fieldRule) check() *core.Error {
	v := strings.TrimSpace(r.value)
	switch {
	case v == "" && r.required:
		return core.NewError(r.kind, r.code, "%s is required", r.field)
	case v == "":
		return nil
	case r.max > 0 && utf8.RuneCountInString(v) > r.max:
		return core.NewError(r.kind, r.code, "%s is longer than %d characters", r.field, r.max)
	case r.reject != nil && r.reject.MatchString(v):
		return core.NewError(r.kind, r.code, "%s contains invalid characters", r.field)
	case r.allow != nil && !r.allow.MatchString(v):
		return core.NewError(r.kind, r.code, "%s contains invalid characters", r.field)
	}
	return nil
}

func checkAll(rules []fieldRule) error {
	for _, r := range rules {
		if err := r.check(); err != nil {
			return err
		}
	}
	return nil
}

func validateManufacturer(in core.ManufacturerInput) error {
	mc := core.KindManufacturerConstraint
	return checkAll([]fieldRule{
		{field: "name", value: in.Name, required: true, max: 64, reject: catalogNameChars, kind: mc, code: core.CodeInvalidName},
		{field: "short description", value: in.ShortDescription, reject: unsafeHTML, kind: mc, code: core.CodeInvalidDescription},
		{field: "description", value: in.Description, reject: unsafeHTML, kind: mc, code: core.CodeInvalidDescription},
		{field: "meta title", value: in.MetaTitle, max: 255, reject: genericNameChars, kind: mc, code: core.CodeInvalidMeta},
		{field: "meta description", value: in.MetaDescription, max: 512, reject: genericNameChars, kind: mc, code: core.CodeInvalidMeta},
		{field: "meta keywords", value: in.MetaKeywords, max: 255, reject: genericNameChars, kind: mc, code: core.CodeInvalidMeta},
	})
}

// validateAddress checks the address fields. The brand and country are
// checked against the database by the caller.
func validateAddress(in core.AddressInput) error {
	if in.ManufacturerID <= 0 {
		return core.NewError(core.KindManufacturerConstraint, core.CodeInvalidID, "brand id must be positive, got %d", in.ManufacturerID)
	}
	if in.CountryID <= 0 {
		return core.NewError(core.KindAddressConstraint, 0, "country is required")
	}

	ac := core.KindAddressConstraint
	if err := checkAll([]fieldRule{
		{field: "last name", value: in.LastName, required: true, kind: ac},
		{field: "first name", value: in.FirstName, required: true, kind: ac},
		{field: "address", value: in.Address, required: true, kind: ac},
		{field: "city", value: in.City, required: true, kind: ac},
	}); err != nil {
		return err
	}

	bad := core.KindInvalidAddressField
	return checkAll([]fieldRule{
		{field: "last name", value: in.LastName, max: 255, reject: nameChars, kind: bad},
		{field: "first name", value: in.FirstName, max: 255, reject: nameChars, kind: bad},
		{field: "address", value: in.Address, max: 128, reject: genericNameChars, kind: bad},
		{field: "address (2)", value: in.Address2, max: 128, reject: genericNameChars, kind: bad},
		{field: "zip/postal code", value: in.PostCode, max: 12, allow: postCodeChars, kind: bad},
		{field: "city", value: in.City, max: 64, reject: cityChars, kind: bad},
		{field: "home phone", value: in.HomePhone, max: 32, allow: phoneChars, kind: bad},
		{field: "mobile phone", value: in.MobilePhone, max: 32, allow: phoneChars, kind: bad},
		{field: "other", value: in.Other, max: 300, reject: unsafeHTML, kind: bad},
		{field: "DNI", value: in.DNI, max: 16, reject: genericNameChars, kind: bad},
	})
}
