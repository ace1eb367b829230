package core

// # Error Messages
//
// Two tables turn failures into text an employee can act on.
//
// Domain failures (*Error) are looked up by kind, then by sub-code when the
// kind's entry is keyed by code. Templates are translated through the
// request's Translator. A domain failure with no entry, or with a code the
// entry does not list, renders the generic
// "An unexpected error occurred. [%type% code %code%]".
//
// Infrastructure failures fall through to a pattern table with support
// codes:
//
//	DB001 - Duplicate key           ("duplicate key")
//	DB002 - Unique constraint       ("unique constraint", "violates unique")
//	DB003 - Foreign key             ("foreign key constraint", "violates foreign key")
//	DB004 - Connection refused      ("connection refused")
//	DB005 - Connection reset        ("connection reset")
//	DB006 - Timeout                 ("timeout")
//	DB007 - Deadlock                ("deadlock")
//	SES001 - Session store down     ("redis")
//	REQ001 - Request cancelled      ("context canceled")
//	REQ002 - Request timeout        ("context deadline exceeded")
//	RATE001 - Rate limited          ("rate limit")
//	ERR000 - Unknown error          (fallback)
//
// Patterns are matched case-insensitively with strings.Contains, first match
// wins.

import (
	"fmt"
	"strconv"
	"strings"
)

// Template is a translatable message. Params fill %name% placeholders,
// Args fill printf verbs.
type Template struct {
	Key    string
	Params map[string]string
	Args   []any
	Domain string
}

// Render translates t. A nil translator returns the untranslated key with
// placeholders filled.
func (t Template) Render(tr Translator) string {
	if tr == nil {
		tr = passthroughTranslator{}
	}
	return tr.Trans(t.Key, t.Params, t.Domain, t.Args...)
}

// MessageEntry is either a flat template or a set of templates keyed by
// sub-code.
type MessageEntry struct {
	Template *Template
	ByCode   map[int]Template
}

// Flat wraps a single template.
func Flat(t Template) MessageEntry {
	return MessageEntry{Template: &t}
}

// ByCode wraps templates keyed by sub-code.
func ByCode(m map[int]Template) MessageEntry {
	return MessageEntry{ByCode: m}
}

const (
	domainAdminNotification = "Admin.Notifications.Error"
	domainAdminCatalog      = "Admin.Catalog.Notification"
)

func adminError(key string) Template {
	return Template{Key: key, Domain: domainAdminNotification}
}

// MessageTable maps domain failures to templates.
type MessageTable map[Kind]MessageEntry

// BrandErrorMessages builds the table used by the brand and brand address
// actions. uploadMaxSize is quoted into the oversize logo message.
func BrandErrorMessages(uploadMaxSize int64) MessageTable {
	deleteCodes := ByCode(map[int]Template{
		CodeFailedDelete:     adminError("An error occurred while deleting the object."),
		CodeFailedBulkDelete: adminError("An error occurred while deleting this selection."),
	})
	notFound := Flat(adminError("The object cannot be loaded (or found)."))

	return MessageTable{
		KindCannotDeleteImage: Flat(adminError("Unable to delete associated images.")),
		KindDeleteManufacturer: deleteCodes,
		KindUpdateManufacturer: ByCode(map[int]Template{
			CodeFailedBulkUpdateStatus: adminError("An error occurred while updating the status."),
			CodeFailedUpdateStatus:     adminError("An error occurred while updating the status for an object."),
		}),
		KindDeleteAddress:        deleteCodes,
		KindManufacturerNotFound: notFound,
		KindAddressNotFound:      notFound,
		KindMemoryLimit: Flat(adminError(
			"Due to memory limit restrictions, this image cannot be loaded. Please increase your memory_limit value via your server's configuration settings.")),
		KindImageUpload:       Flat(adminError("An error occurred while uploading the image.")),
		KindImageOptimization: Flat(adminError("Unable to resize one or more of your pictures.")),
		KindUploadedImageConstraint: ByCode(map[int]Template{
			CodeExceededSize: {
				Key:    "Max file size allowed is \"%s\" bytes.",
				Args:   []any{strconv.FormatInt(uploadMaxSize, 10)},
				Domain: domainAdminNotification,
			},
			CodeUnrecognizedFormat: {
				Key:    "Image format not recognized, allowed formats are: .gif, .jpg, .png, .webp",
				Domain: domainAdminNotification,
			},
		}),
		KindInvalidAddressField: Flat(Template{
			Key:    "Address fields contain invalid values.",
			Domain: domainAdminNotification,
		}),
	}
}

// FallbackTemplate is the generic message for an unmapped domain failure.
func FallbackTemplate(de *Error) Template {
	return Template{
		Key: "An unexpected error occurred. [%type% code %code%]",
		Params: map[string]string{
			"%type%": de.Kind.String(),
			"%code%": strconv.Itoa(de.Code),
		},
		Domain: domainAdminNotification,
	}
}

// Lookup returns the template for a domain failure.
func (m MessageTable) Lookup(de *Error) Template {
	entry, ok := m[de.Kind]
	if !ok {
		return FallbackTemplate(de)
	}
	if entry.ByCode != nil {
		if t, ok := entry.ByCode[de.Code]; ok {
			return t
		}
		return FallbackTemplate(de)
	}
	if entry.Template != nil {
		return *entry.Template
	}
	return FallbackTemplate(de)
}

// Resolve returns the user-facing text for any failure. Domain failures use
// the table; everything else goes through the pattern table.
func (m MessageTable) Resolve(err error, tr Translator) string {
	if err == nil {
		return ""
	}
	if de, ok := AsDomain(err); ok {
		return m.Lookup(de).Render(tr)
	}
	return FormatUserError(err)
}

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user
// messages. More specific patterns come first.
var errorPatterns = []errorPattern{
	// Database constraint errors
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A record with this ID already exists",
			Action:  "Reload the page and check the existing record",
			Code:    "DB001",
		},
	},
	{
		pattern: "unique constraint",
		msg: UserMessage{
			Message: "This value must be unique but already exists",
			Action:  "Choose a different value",
			Code:    "DB002",
		},
	},
	{
		pattern: "violates unique",
		msg: UserMessage{
			Message: "A duplicate value was found",
			Action:  "Choose a different value",
			Code:    "DB002",
		},
	},
	{
		pattern: "foreign key constraint",
		msg: UserMessage{
			Message: "Referenced record does not exist",
			Action:  "Check that the brand and country still exist",
			Code:    "DB003",
		},
	},
	{
		pattern: "violates foreign key",
		msg: UserMessage{
			Message: "Referenced record does not exist",
			Action:  "Check that the brand and country still exist",
			Code:    "DB003",
		},
	},

	// Database connection errors
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again or narrow your filters",
			Code:    "REQ002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again later",
			Code:    "DB006",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB007",
		},
	},

	// Session store
	{
		pattern: "redis",
		msg: UserMessage{
			Message: "Session storage is unavailable",
			Action:  "Please try again in a few moments",
			Code:    "SES001",
		},
	},

	// Request lifecycle
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000). Support staff
// should check application logs for the original error.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts an infrastructure error to a user-friendly message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
