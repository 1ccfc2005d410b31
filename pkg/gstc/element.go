package gstc

import (
	"context"
	"fmt"
)

// ElementSet sets an element property to a pre-formatted value.
//
// Once the command has been dispatched ElementSet reports success whatever
// the daemon answered; the outcome is only logged. Use ElementGet to
// confirm the value took effect.
func (c *Client) ElementSet(ctx context.Context, pipeline, element, property, value string) error {
	if c == nil {
		return ErrNullArgument
	}
	if pipeline == "" {
		return nullArgument("pipeline name")
	}
	if element == "" {
		return nullArgument("element name")
	}
	if property == "" {
		return nullArgument("property name")
	}
	if value == "" {
		return nullArgument("property value")
	}
	if c.closed.Load() {
		return ErrClosed
	}

	if err := c.send(ctx, buildUpdate(propertyPath(pipeline, element, property), value)); err != nil {
		c.logger.Warn().
			Str("pipeline", pipeline).
			Str("element", element).
			Str("property", property).
			Err(err).
			Msg("property update not applied")
	}
	return nil
}

// ElementSetf is ElementSet with the value formatted by fmt.Sprintf.
func (c *Client) ElementSetf(ctx context.Context, pipeline, element, property, format string, args ...any) error {
	if format == "" {
		return nullArgument("format")
	}
	return c.ElementSet(ctx, pipeline, element, property, fmt.Sprintf(format, args...))
}

// ElementGet reads an element property. The value is returned as text:
// strings unquoted, other types in their JSON form.
func (c *Client) ElementGet(ctx context.Context, pipeline, element, property string) (string, error) {
	if c == nil {
		return "", ErrNullArgument
	}
	if pipeline == "" {
		return "", nullArgument("pipeline name")
	}
	if element == "" {
		return "", nullArgument("element name")
	}
	if property == "" {
		return "", nullArgument("property name")
	}
	pd, ok := c.decoder.(PayloadDecoder)
	if !ok {
		return "", ErrUnsupported
	}

	resp, err := c.exchange(ctx, buildRead(propertyPath(pipeline, element, property)))
	if err != nil {
		return "", err
	}
	return pd.Value(resp)
}
