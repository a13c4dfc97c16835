package cerr

import "github.com/cockroachdb/errors"

type F map[string]interface{}

// Context accumulates key/value pairs that get attached to the error it produces.
// Values are copied on every call, so a Context can be reused as a base.
type Context struct {
	ContextFields F
}

func Field(key string, value interface{}) Context {
	return Context{}.Field(key, value)
}

func Fields(fields F) Context {
	return Context{}.Fields(fields)
}

func Wrap(err error) WrappedContext {
	return Context{}.Wrap(err)
}

func Error(msg string) error {
	return Context{}.error(msg)
}

func (c Context) Field(key string, value interface{}) Context {
	return c.Fields(F{key: value})
}

func (c Context) Fields(fields F) Context {
	merged := make(F, len(c.ContextFields)+len(fields))
	for key, value := range c.ContextFields {
		merged[key] = value
	}
	for key, value := range fields {
		merged[key] = value
	}

	return Context{ContextFields: merged}
}

func (c Context) Wrap(err error) WrappedContext {
	return WrappedContext{
		context: c,
		cause:   err,
	}
}

func (c Context) Error(msg string) error {
	return c.error(msg)
}

func (c Context) error(msg string) error {
	return ContextualError{
		Context: c,
		error:   errors.NewWithDepth(2, msg),
	}
}

type WrappedContext struct {
	context Context
	cause   error
}

func (w WrappedContext) Error(msg string) error {
	if w.cause == nil {
		return w.context.error(msg)
	}

	return ContextualError{
		Context: w.context,
		error:   errors.WrapWithDepth(1, w.cause, msg),
	}
}

var _ error = ContextualError{}
var _ interface{ Unwrap() error } = ContextualError{}

type ContextualError struct {
	Context Context
	error
}

func (c ContextualError) Unwrap() error {
	return c.error
}

// AllFields merges the fields of every ContextualError in the chain.
// Outer layers win over inner ones on key collisions.
func AllFields(err error) F {
	fields := F{}
	for current := err; current != nil; current = errors.UnwrapOnce(current) {
		ctxErr, ok := current.(ContextualError)
		if !ok {
			continue
		}

		for key, value := range ctxErr.Context.ContextFields {
			if _, exists := fields[key]; !exists {
				fields[key] = value
			}
		}
	}

	return fields
}
