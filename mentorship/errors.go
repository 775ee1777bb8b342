package mentorship

import (
	"fmt"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrForbidden is returned when the acting user is not allowed to touch a document
var ErrForbidden = errors.New("operation not allowed for the current user")

// ValidationError reports malformed input. Nothing has been written when it is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// InvalidStateError reports an illegal lifecycle transition
type InvalidStateError struct {
	Message string
}

func (e *InvalidStateError) Error() string {
	return e.Message
}

// NotFoundError reports a referenced document that does not exist
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// DependencyError wraps a document or blob store failure with the failing operation
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return e.Err.Error()
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func invalidState(format string, args ...interface{}) error {
	return &InvalidStateError{Message: fmt.Sprintf(format, args...)}
}

func dependency(op string, err error) error {
	return &DependencyError{Op: op, Err: errors.Wrap(err, op)}
}

// lookupError turns a single-document read failure into NotFoundError or DependencyError
func lookupError(kind, id, op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &NotFoundError{Kind: kind, ID: id}
	}
	return dependency(op, err)
}

// objectID parses a document id. Malformed ids cannot name a document, so they are not found.
func objectID(kind, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, &NotFoundError{Kind: kind, ID: id}
	}
	return oid, nil
}
