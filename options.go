package xmlb

import "github.com/lestrrat-go/option"

type Option = option.Interface

type identDocumentEncoding struct{}
type identDocumentStandalone struct{}
type identDocumentVersion struct{}

type identNoDoubleEncoding struct{}
type identRequireWellFormed struct{}

type identAllowEmptyTags struct{}
type identHeadless struct{}
type identIndent struct{}
type identNewline struct{}
type identOffset struct{}
type identPrettyPrint struct{}
type identSpaceBeforeSlash struct{}
type identWriterEncoding struct{}

type DocumentOption interface {
	Option
	documentOption()
}

type documentOption struct{ Option }

func (*documentOption) documentOption() {}

// SerializeOption alters how a Serializer walks and checks a tree.
// Every SerializeOption also satisfies OutputOption, so serializer
// knobs can be passed directly to the writers in this package.
type SerializeOption interface {
	Option
	serializeOption()
	outputOption()
}

type serializeOption struct{ Option }

func (*serializeOption) serializeOption() {}
func (*serializeOption) outputOption()    {}

// OutputOption alters how a writer formats serialization events.
type OutputOption interface {
	Option
	outputOption()
}

type outputOption struct{ Option }

func (*outputOption) outputOption() {}

// WithEncoding specifies the encoding of an XML document
func WithEncoding(v string) DocumentOption {
	return &documentOption{option.New(identDocumentEncoding{}, v)}
}

// WithStandalone specifies if the XML is a standalone XML document or not
func WithStandalone(v DocumentStandaloneType) DocumentOption {
	return &documentOption{option.New(identDocumentStandalone{}, v)}
}

// WithVersion specifies the XML version of an XML document
func WithVersion(v string) DocumentOption {
	return &documentOption{option.New(identDocumentVersion{}, v)}
}

// WithRequireWellFormed controls whether serialization verifies that
// the tree can be written out as well-formed XML. When enabled,
// serialization fails with ErrInvalidState instead of producing
// malformed markup.
func WithRequireWellFormed(v bool) SerializeOption {
	return &serializeOption{option.New(identRequireWellFormed{}, v)}
}

// WithNoDoubleEncoding controls whether pre-existing entity
// references such as &amp; or &lt; in text and attribute values are
// written through untouched instead of having their leading ampersand
// escaped a second time.
func WithNoDoubleEncoding(v bool) SerializeOption {
	return &serializeOption{option.New(identNoDoubleEncoding{}, v)}
}

// WithPrettyPrint enables indented, one-node-per-line output
func WithPrettyPrint(v bool) OutputOption {
	return &outputOption{option.New(identPrettyPrint{}, v)}
}

// WithIndent specifies the string repeated once per depth level when
// pretty printing. The default is two spaces.
func WithIndent(v string) OutputOption {
	return &outputOption{option.New(identIndent{}, v)}
}

// WithNewline specifies the line terminator used when pretty printing
func WithNewline(v string) OutputOption {
	return &outputOption{option.New(identNewline{}, v)}
}

// WithOffset specifies the number of extra indent levels prepended to
// every line when pretty printing
func WithOffset(v int) OutputOption {
	return &outputOption{option.New(identOffset{}, v)}
}

// WithHeadless suppresses the XML declaration
func WithHeadless(v bool) OutputOption {
	return &outputOption{option.New(identHeadless{}, v)}
}

// WithSpaceBeforeSlash writes self-closing tags as <foo /> instead
// of <foo/>
func WithSpaceBeforeSlash(v bool) OutputOption {
	return &outputOption{option.New(identSpaceBeforeSlash{}, v)}
}

// WithAllowEmptyTags writes childless elements as <foo></foo>
// instead of <foo/>
func WithAllowEmptyTags(v bool) OutputOption {
	return &outputOption{option.New(identAllowEmptyTags{}, v)}
}

// WithWriterEncoding transcodes the output to the named encoding and
// stamps that name into the XML declaration, overriding the encoding
// recorded on the document
func WithWriterEncoding(v string) OutputOption {
	return &outputOption{option.New(identWriterEncoding{}, v)}
}
