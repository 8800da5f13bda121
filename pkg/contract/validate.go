package contract

import (
	"fmt"
	"reflect"
)

// ValidationError is the failure half of a validation result. Instances are
// the package-level sentinels below; compare with errors.Is.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var (
	ErrInvalidContractType       = &ValidationError{Code: "InvalidContractType", Message: "contract kind is missing or unknown"}
	ErrInvalidSmallData          = &ValidationError{Code: "InvalidSmallData", Message: "small contract data must be an object or a sequence"}
	ErrInvalidPaginatedData      = &ValidationError{Code: "InvalidPaginatedData", Message: "paginated contract data must be a sequence"}
	ErrMissingPaginationMetadata = &ValidationError{Code: "MissingPaginationMetadata", Message: "page, pageSize and total must be present and numeric"}
	ErrInvalidStreamData         = &ValidationError{Code: "InvalidStreamData", Message: "streamed contract data must be a readable stream"}
	ErrMissingFilename           = &ValidationError{Code: "MissingFilename", Message: "streamed contract metadata must carry a non-empty filename"}
)

// Validate checks that a contract's data and metadata match its declared
// kind. It is pure and total: every input yields either nil or exactly one
// *ValidationError, and it never panics or performs I/O.
//
// Pagination bounds are intentionally not enforced: a page of 0 or a
// negative page passes as long as the fields are present and numeric. See
// DESIGN.md for the rationale behind keeping that looseness.
func Validate(c Contract) error {
	switch c.Kind {
	case KindSmall:
		if !isObjectOrSequence(c.Data) {
			return ErrInvalidSmallData
		}
		return nil
	case KindPaginated:
		if !isSequence(c.Data) {
			return ErrInvalidPaginatedData
		}
		for _, key := range []string{MetaPage, MetaPageSize, MetaTotal} {
			v, ok := c.Metadata[key]
			if !ok || !isNumeric(v) {
				return ErrMissingPaginationMetadata
			}
		}
		return nil
	case KindStreamed:
		if c.Stream == nil {
			return ErrInvalidStreamData
		}
		name, ok := c.Metadata[MetaFilename].(string)
		if !ok || name == "" {
			return ErrMissingFilename
		}
		return nil
	default:
		return ErrInvalidContractType
	}
}

func isObjectOrSequence(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Struct, reflect.Slice, reflect.Array:
		return true
	default:
		return false
	}
}

func isSequence(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return true
	default:
		return false
	}
}

func isNumeric(v any) bool {
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
