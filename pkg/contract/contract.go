// Package contract builds and validates tagged response payload contracts.
//
// A Contract describes exactly one of three wire shapes: a small JSON body,
// a paginated collection, or a streamed binary download. Creators only
// assemble the record; shape enforcement lives in Validate and the actual
// response writing lives in pkg/respond.
package contract

import (
	"io"
	"time"
)

// Kind discriminates the three payload shapes. The zero value is invalid so
// a Contract assembled by hand without a kind fails validation.
type Kind int

const (
	KindInvalid Kind = iota
	KindSmall
	KindPaginated
	KindStreamed
)

func (k Kind) String() string {
	switch k {
	case KindSmall:
		return "small"
	case KindPaginated:
		return "paginated"
	case KindStreamed:
		return "streamed"
	default:
		return "invalid"
	}
}

// Metadata keys written by the creators. Required keys always win over
// caller-supplied custom metadata with the same name.
const (
	MetaTimestamp   = "timestamp"
	MetaPage        = "page"
	MetaPageSize    = "pageSize"
	MetaTotal       = "total"
	MetaTotalPages  = "totalPages"
	MetaHasNext     = "hasNext"
	MetaHasPrevious = "hasPrevious"
	MetaFilename    = "filename"
	MetaContentType = "contentType"
)

// DefaultContentType is used for streamed contracts when the caller does not
// override it.
const DefaultContentType = "application/octet-stream"

// Contract is constructed once by a creator, consumed exactly once by a
// dispatcher, then discarded. It is never mutated after creation.
type Contract struct {
	Kind     Kind
	Data     any
	Stream   io.Reader
	Metadata map[string]any
}

// Clock supplies the creation-time instant recorded in metadata. Injectable
// so creators stay deterministic under test.
type Clock func() time.Time

type options struct {
	clock       Clock
	custom      map[string]any
	contentType string
}

type Option func(*options)

// WithClock replaces time.Now as the timestamp source.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithMetadata merges caller metadata into the contract. Required keys
// produced by the creator take precedence over keys supplied here.
func WithMetadata(m map[string]any) Option {
	return func(o *options) { o.custom = m }
}

// WithContentType overrides the MIME type of a streamed contract.
func WithContentType(ct string) Option {
	return func(o *options) { o.contentType = ct }
}

func applyOptions(opts []Option) options {
	o := options{clock: time.Now, contentType: DefaultContentType}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Small builds a contract for an ordinary JSON response. The data is stored
// as given; whether it is actually an object or a sequence is checked by
// Validate, not here.
func Small(data any, opts ...Option) Contract {
	o := applyOptions(opts)
	return Contract{
		Kind:     KindSmall,
		Data:     data,
		Metadata: MergeMetadata(nil, o.custom, o.clock),
	}
}

// Paginated builds a contract for a paginated collection. Derived fields
// (totalPages, hasNext, hasPrevious) are always recomputed from page,
// pageSize and total; callers cannot supply them directly. No bounds are
// enforced at creation time: a page of 0 or a negative total is carried
// as-is. Validation is the validator's job, and even there the page lower
// bound stays unchecked (see DESIGN.md).
func Paginated(items any, page, pageSize, total int, opts ...Option) Contract {
	o := applyOptions(opts)
	totalPages := 0
	if pageSize > 0 && total > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	required := map[string]any{
		MetaPage:        page,
		MetaPageSize:    pageSize,
		MetaTotal:       total,
		MetaTotalPages:  totalPages,
		MetaHasNext:     page < totalPages,
		MetaHasPrevious: page > 1,
	}
	return Contract{
		Kind:     KindPaginated,
		Data:     items,
		Metadata: MergeMetadata(required, o.custom, o.clock),
	}
}

// Streamed builds a contract for a binary download. The stream is held by
// reference and never read or buffered here, so memory use stays constant
// regardless of payload size. If the stream implements io.Closer the
// dispatcher closes it on every exit path.
func Streamed(stream io.Reader, filename string, opts ...Option) Contract {
	o := applyOptions(opts)
	required := map[string]any{
		MetaFilename:    filename,
		MetaContentType: o.contentType,
	}
	return Contract{
		Kind:     KindStreamed,
		Stream:   stream,
		Metadata: MergeMetadata(required, o.custom, o.clock),
	}
}
