package core

// Message is a command or query dispatched through a Dispatcher.
type Message interface {
	MessageName() string
}

// ManufacturerInput is the editable content of a brand for one language.
type ManufacturerInput struct {
	Name             string
	ShortDescription string
	Description      string
	MetaTitle        string
	MetaDescription  string
	MetaKeywords     string
	Enabled          bool
	LanguageID       int
}

// AddressInput is the editable content of a brand address.
type AddressInput struct {
	ManufacturerID int
	LastName       string
	FirstName      string
	Address        string
	Address2       string
	PostCode       string
	City           string
	CountryID      int
	StateID        int
	HomePhone      string
	MobilePhone    string
	Other          string
	DNI            string
}

// Queries

type GetManufacturerForEditing struct {
	ManufacturerID int
}

type GetManufacturerForViewing struct {
	ManufacturerID int
	LanguageID     int
}

type GetManufacturerAddressForEditing struct {
	AddressID int
}

func (GetManufacturerForEditing) MessageName() string        { return "GetManufacturerForEditing" }
func (GetManufacturerForViewing) MessageName() string        { return "GetManufacturerForViewing" }
func (GetManufacturerAddressForEditing) MessageName() string { return "GetManufacturerAddressForEditing" }

// Commands

// AddManufacturer returns the new brand id.
type AddManufacturer struct {
	ManufacturerInput
}

type EditManufacturer struct {
	ManufacturerID int
	ManufacturerInput
}

type DeleteManufacturer struct {
	ManufacturerID int
}

// BulkDeleteManufacturer may carry duplicate ids; each occurrence is processed.
type BulkDeleteManufacturer struct {
	ManufacturerIDs []int
}

type ToggleManufacturerStatus struct {
	ManufacturerID int
	Enabled        bool
}

type BulkToggleManufacturerStatus struct {
	ManufacturerIDs []int
	Enabled         bool
}

type DeleteManufacturerLogoImage struct {
	ManufacturerID int
}

// UploadManufacturerLogo stores an uploaded logo for an existing brand.
type UploadManufacturerLogo struct {
	ManufacturerID int
	Data           []byte
}

// AddManufacturerAddress returns the new address id.
type AddManufacturerAddress struct {
	AddressInput
}

type EditManufacturerAddress struct {
	AddressID int
	AddressInput
}

type DeleteAddress struct {
	AddressID int
}

type BulkDeleteAddress struct {
	AddressIDs []int
}

func (AddManufacturer) MessageName() string              { return "AddManufacturer" }
func (EditManufacturer) MessageName() string             { return "EditManufacturer" }
func (DeleteManufacturer) MessageName() string           { return "DeleteManufacturer" }
func (BulkDeleteManufacturer) MessageName() string       { return "BulkDeleteManufacturer" }
func (ToggleManufacturerStatus) MessageName() string     { return "ToggleManufacturerStatus" }
func (BulkToggleManufacturerStatus) MessageName() string { return "BulkToggleManufacturerStatus" }
func (DeleteManufacturerLogoImage) MessageName() string  { return "DeleteManufacturerLogoImage" }
func (UploadManufacturerLogo) MessageName() string       { return "UploadManufacturerLogo" }
func (AddManufacturerAddress) MessageName() string       { return "AddManufacturerAddress" }
func (EditManufacturerAddress) MessageName() string      { return "EditManufacturerAddress" }
func (DeleteAddress) MessageName() string                { return "DeleteAddress" }
func (BulkDeleteAddress) MessageName() string            { return "BulkDeleteAddress" }

// Projections

// EditableManufacturer is a brand as shown in the edit form.
type EditableManufacturer struct {
	ManufacturerID int
	ManufacturerInput
	Logo *LogoImage
}

// LogoImage describes a stored brand logo.
type LogoImage struct {
	Path string
	Size int64
}

// ViewableManufacturer is a brand with its addresses and products.
type ViewableManufacturer struct {
	ManufacturerID int
	Name           string
	Addresses      []AddressSummary
	Products       []ProductSummary
}

type AddressSummary struct {
	AddressID   int
	FullName    string
	Address     string
	Address2    string
	PostCode    string
	City        string
	State       string
	Country     string
	HomePhone   string
	MobilePhone string
	Other       string
}

type ProductSummary struct {
	ProductID int
	Name      string
	Reference string
	EAN13     string
	UPC       string
	Quantity  int
}

// EditableManufacturerAddress is an address as shown in the edit form.
type EditableManufacturerAddress struct {
	AddressID int
	AddressInput
}
