package transport

import (
	goerrors "github.com/goliatone/go-errors"
	"github.com/hoteldefend/pms-connect/core"
)

// transportError builds a categorized error and lets core.MapError fill
// in the envelope text code, keeping the category mapping in one place.
func transportError(
	message string,
	category goerrors.Category,
	code int,
	metadata map[string]any,
) error {
	err := goerrors.New(message, category).WithCode(code)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return core.MapError(err)
}

func transportWrapError(
	source error,
	category goerrors.Category,
	message string,
	code int,
	metadata map[string]any,
) error {
	if source == nil {
		return transportError(message, category, code, metadata)
	}
	err := goerrors.Wrap(source, category, message).WithCode(code)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return core.MapError(err)
}
