package xmlb

import "github.com/pkg/errors"

var (
	ErrNilNode          = errors.New("nil node")
	ErrNilSink          = errors.New("nil sink")
	ErrInvalidOperation = errors.New("operation cannot be performed")

	// ErrDuplicateAttribute signals two attributes on the same element
	// sharing a namespace URI and local name. It is always wrapped in
	// ErrInvalidState.
	ErrDuplicateAttribute = errors.New("element contains duplicate attributes")
)

// ErrInvalidState is the uniform error for every well-formedness
// violation detected while serializing. The wrapped error names the
// rule that failed. Once it is returned no output produced by the
// same call may be used.
type ErrInvalidState struct {
	Err error
}

func (e ErrInvalidState) Error() string {
	return "invalid XML state: " + e.Err.Error()
}

func (e ErrInvalidState) Unwrap() error {
	return e.Err
}

// ErrUnsupportedNode is returned when a node of a kind the serializer
// does not handle is encountered. Unlike well-formedness violations
// this is reported regardless of the well-formed setting.
type ErrUnsupportedNode struct {
	Type NodeType
}

func (e ErrUnsupportedNode) Error() string {
	return "unable to serialize node type " + e.Type.String()
}

func invalidState(err error) error {
	return ErrInvalidState{Err: err}
}
