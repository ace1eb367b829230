package core

import (
	"errors"
	"fmt"
)

// Kind identifies a domain failure. Kinds are a closed set; handlers never
// invent new ones at runtime.
type Kind int

const (
	KindUnknown Kind = iota
	KindManufacturerNotFound
	KindManufacturerConstraint
	KindDeleteManufacturer
	KindUpdateManufacturer
	KindAddressNotFound
	KindAddressConstraint
	KindDeleteAddress
	KindInvalidAddressField
	KindMemoryLimit
	KindImageUpload
	KindImageOptimization
	KindUploadedImageConstraint
	KindCannotDeleteImage
)

var kindNames = map[Kind]string{
	KindUnknown:                 "UnknownException",
	KindManufacturerNotFound:    "ManufacturerNotFoundException",
	KindManufacturerConstraint:  "ManufacturerConstraintException",
	KindDeleteManufacturer:      "DeleteManufacturerException",
	KindUpdateManufacturer:      "UpdateManufacturerException",
	KindAddressNotFound:         "AddressNotFoundException",
	KindAddressConstraint:       "AddressConstraintException",
	KindDeleteAddress:           "DeleteAddressException",
	KindInvalidAddressField:     "InvalidAddressFieldException",
	KindMemoryLimit:             "MemoryLimitException",
	KindImageUpload:             "ImageUploadException",
	KindImageOptimization:       "ImageOptimizationException",
	KindUploadedImageConstraint: "UploadedImageConstraintException",
	KindCannotDeleteImage:       "CannotDeleteImageException",
}

// String returns the stable type name shown in the generic fallback message.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Family groups kinds by the entity they concern.
type Family int

const (
	FamilyOther Family = iota
	FamilyManufacturer
	FamilyAddress
	FamilyImage
)

// Family reports which entity family k belongs to.
func (k Kind) Family() Family {
	switch k {
	case KindManufacturerNotFound, KindManufacturerConstraint, KindDeleteManufacturer, KindUpdateManufacturer:
		return FamilyManufacturer
	case KindAddressNotFound, KindAddressConstraint, KindDeleteAddress, KindInvalidAddressField:
		return FamilyAddress
	case KindMemoryLimit, KindImageUpload, KindImageOptimization, KindUploadedImageConstraint, KindCannotDeleteImage:
		return FamilyImage
	default:
		return FamilyOther
	}
}

// Sub-codes refine a kind. Zero means "no sub-code".
const (
	CodeFailedDelete           = 1
	CodeFailedBulkDelete       = 2
	CodeFailedUpdateStatus     = 1
	CodeFailedBulkUpdateStatus = 2

	CodeExceededSize       = 1
	CodeUnrecognizedFormat = 2

	CodeInvalidID          = 1
	CodeInvalidName        = 2
	CodeInvalidDescription = 3
	CodeInvalidMeta        = 4
)

// Error is a tagged domain failure. Everything that is not an *Error is an
// infrastructure failure.
type Error struct {
	Kind    Kind
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Code != 0 {
		msg = fmt.Sprintf("%s (code %d)", msg, e.Code)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind. A target with a zero code
// matches every code of that kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Code == 0 || t.Code == e.Code)
}

// NewError builds a domain error.
func NewError(kind Kind, code int, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapError tags cause with a domain kind and code.
func WrapError(kind Kind, code int, cause error) *Error {
	return &Error{Kind: kind, Code: code, Err: cause}
}

// AsDomain extracts the domain error from err's chain.
func AsDomain(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsKind reports whether err carries a domain error of the given kind.
func IsKind(err error, kind Kind) bool {
	de, ok := AsDomain(err)
	return ok && de.Kind == kind
}

// InFamily reports whether err carries a domain error of the given family.
func InFamily(err error, family Family) bool {
	de, ok := AsDomain(err)
	return ok && de.Kind.Family() == family
}

// Sentinels for errors.Is checks.
var (
	ErrManufacturerNotFound = &Error{Kind: KindManufacturerNotFound}
	ErrAddressNotFound      = &Error{Kind: KindAddressNotFound}
)
