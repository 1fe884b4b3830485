// Package i18n holds the message catalog used for every human-readable
// string the API returns (error messages and field-error messages).
//
// It is built on go-playground/universal-translator, the same translator
// family validator/v10 uses. English is the fallback; Vietnamese is the
// second supported locale. The locale is picked per request from the
// Accept-Language header.
package i18n

import (
	"fmt"
	"net/http"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/vi"
	ut "github.com/go-playground/universal-translator"
	"golang.org/x/text/language"
)

// Catalog keys. The "validation.*" keys are suffixed with the validator tag
// that failed.
const (
	KeyValidationGeneric = "error.validation.generic"
	KeyNotFound          = "error.resource.not-found"
	KeyInternal          = "error.internal"
	KeyPageSizeNegative  = "error.page.size.negative"
	KeyPageSizeInvalid   = "error.page.size.invalid"
	KeySortInvalid       = "error.sort.invalid"
	KeyMalformedBody     = "error.request.malformed"
	KeyEmptyBody         = "error.request.body-empty"
	KeyInvalidID         = "error.id.invalid"
	KeyRouteNotFound     = "error.route.not-found"
	KeyMethodNotAllowed  = "error.method.not-allowed"

	ValidationPrefix = "validation."
)

var messages = map[string]map[string]string{
	"en": {
		KeyValidationGeneric: "Request validation failed.",
		KeyNotFound:          "{0} not found with {1}: {2}",
		KeyInternal:          "An unexpected error occurred.",
		KeyPageSizeNegative:  "Page size must be greater than zero.",
		KeyPageSizeInvalid:   "Invalid page size.",
		KeySortInvalid:       "Invalid sort property: {0}",
		KeyMalformedBody:     "Malformed JSON request.",
		KeyEmptyBody:         "Request body is empty.",
		KeyInvalidID:         "Invalid id: must be an integer.",
		KeyRouteNotFound:     "No handler found for {0} {1}",
		KeyMethodNotAllowed:  "Request method '{0}' is not supported.",

		ValidationPrefix + "required":   "must not be null",
		ValidationPrefix + "notblank":   "must not be blank",
		ValidationPrefix + "emailshape": "must be a well-formed email address",
		ValidationPrefix + "pastdate":   "must be a past date",
		ValidationPrefix + "invalid":    "is invalid",
	},
	"vi": {
		KeyValidationGeneric: "Dữ liệu yêu cầu không hợp lệ.",
		KeyNotFound:          "Không tìm thấy {0} với {1}: {2}",
		KeyInternal:          "Đã xảy ra lỗi không mong muốn.",
		KeyPageSizeNegative:  "Kích thước trang phải lớn hơn 0.",
		KeyPageSizeInvalid:   "Kích thước trang không hợp lệ.",
		KeySortInvalid:       "Thuộc tính sắp xếp không hợp lệ: {0}",
		KeyMalformedBody:     "Yêu cầu JSON không đúng định dạng.",
		KeyEmptyBody:         "Nội dung yêu cầu trống.",
		KeyInvalidID:         "Id không hợp lệ: phải là số nguyên.",
		KeyRouteNotFound:     "Không tìm thấy xử lý cho {0} {1}",
		KeyMethodNotAllowed:  "Phương thức '{0}' không được hỗ trợ.",

		ValidationPrefix + "required":   "không được để trống",
		ValidationPrefix + "notblank":   "không được để trống",
		ValidationPrefix + "emailshape": "phải là địa chỉ email hợp lệ",
		ValidationPrefix + "pastdate":   "phải là một ngày trong quá khứ",
		ValidationPrefix + "invalid":    "không hợp lệ",
	},
}

// Catalog resolves message keys for a locale.
type Catalog struct {
	uni     *ut.UniversalTranslator
	matcher language.Matcher
	// locales[i] is the translator locale for the matcher's i-th tag.
	locales []string
}

// New builds the catalog with English as fallback.
func New() (*Catalog, error) {
	fallback := en.New()
	supported := []locales.Translator{fallback, vi.New()}

	uni := ut.New(fallback, supported...)
	c := &Catalog{uni: uni}

	tags := make([]language.Tag, 0, len(supported))
	for _, l := range supported {
		trans, ok := uni.GetTranslator(l.Locale())
		if !ok {
			return nil, fmt.Errorf("i18n: translator for %q not registered", l.Locale())
		}
		for key, text := range messages[l.Locale()] {
			if err := trans.Add(key, text, false); err != nil {
				return nil, fmt.Errorf("i18n: add %q for %q: %w", key, l.Locale(), err)
			}
		}

		tag, err := language.Parse(l.Locale())
		if err != nil {
			return nil, fmt.Errorf("i18n: parse locale %q: %w", l.Locale(), err)
		}
		tags = append(tags, tag)
		c.locales = append(c.locales, l.Locale())
	}
	c.matcher = language.NewMatcher(tags)

	return c, nil
}

// MustNew is New that panics; used at startup and in tests.
func MustNew() *Catalog {
	c, err := New()
	if err != nil {
		panic(err)
	}
	return c
}

// Translator returns the translator for the first supported locale among
// the given ones, falling back to English.
func (c *Catalog) Translator(locales ...string) ut.Translator {
	trans, _ := c.uni.FindTranslator(locales...)
	return trans
}

// FromRequest picks a translator from the Accept-Language header.
func (c *Catalog) FromRequest(r *http.Request) ut.Translator {
	return c.Translator(c.Match(r.Header.Get("Accept-Language")))
}

// Match returns the supported locale that best fits an Accept-Language
// header. Higher q-values win; among equal weights, header order wins.
// Empty, malformed or unsupported headers match English.
func (c *Catalog) Match(header string) string {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return c.locales[0]
	}

	_, idx, conf := c.matcher.Match(tags...)
	if conf == language.No {
		return c.locales[0]
	}
	return c.locales[idx]
}

// T resolves key with params, returning the key itself when it is unknown
// so a missing translation never hides the error.
func T(trans ut.Translator, key string, params ...string) string {
	msg, err := trans.T(key, params...)
	if err != nil || msg == "" {
		return key
	}
	return msg
}
