// Package validation checks path parameters and JSON bodies before a
// request reaches its handler.
//
// A Rule is a pure predicate over an Input that yields at most one
// ErrorRecord. Routes declare ordered rule slices; Guard runs every rule of
// the slice, collecting failures in an Errors accumulator, and hands the
// accumulator to HandleInputErrors, which either answers 400 or lets the
// request through with the parsed Input attached.
package validation

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Location tells where a rejected value came from.
type Location string

const (
	LocationParams Location = "params"
	LocationBody   Location = "body"
)

// MsgInvalidBody is reported when the request body is not a JSON object.
const MsgInvalidBody = "Cuerpo de la peticion no valido"

// ErrorRecord is one validation failure.
type ErrorRecord struct {
	Type     string   `json:"type"`
	Value    any      `json:"value,omitempty"`
	Msg      string   `json:"msg"`
	Path     string   `json:"path"`
	Location Location `json:"location"`
}

// Errors accumulates validation failures in rule order.
type Errors []ErrorRecord

// Input is the request data rules run against.
type Input struct {
	// ID is the raw `:id` path parameter, empty when the route has none.
	ID string
	// Body is the decoded JSON object. Never nil.
	Body map[string]any
}

// Rule checks one field and returns nil when it passes.
type Rule func(in *Input) *ErrorRecord

// Run evaluates every rule against in, appending each failure.
func (e *Errors) Run(in *Input, rules []Rule) {
	for _, rule := range rules {
		if rec := rule(in); rec != nil {
			*e = append(*e, *rec)
		}
	}
}

// Chain concatenates rule groups, preserving order.
func Chain(groups ...[]Rule) []Rule {
	var out []Rule
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

var errBodyNotObject = errors.New("request body is not a JSON object")

// ParseInput extracts the id parameter and decodes the JSON body.
// Empty bodies and bodies not sent as JSON decode to an empty object.
func ParseInput(c *fiber.Ctx) (*Input, error) {
	in := paramInput(c)

	raw := c.Body()
	if len(raw) == 0 || !c.Is("json") {
		return in, nil
	}

	var decoded any
	if err := c.App().Config().JSONDecoder(raw, &decoded); err != nil {
		return in, err
	}
	obj, ok := decoded.(map[string]any)
	if !ok {
		return in, errBodyNotObject
	}
	in.Body = obj
	return in, nil
}

func paramInput(c *fiber.Ctx) *Input {
	return &Input{
		ID:   c.Params("id"),
		Body: map[string]any{},
	}
}

const inputKey = "validation.input"

// Guard builds the Fiber handler for a route's rule chain.
func Guard(rules ...Rule) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var errs Errors
		in, err := ParseInput(c)
		if err != nil {
			errs = append(errs, invalidBody(err))
		} else {
			errs.Run(in, rules)
		}
		return HandleInputErrors(c, in, errs)
	}
}

// ParamGuard is Guard for routes that take no body: the body is never read.
func ParamGuard(rules ...Rule) fiber.Handler {
	return func(c *fiber.Ctx) error {
		in := paramInput(c)
		var errs Errors
		errs.Run(in, rules)
		return HandleInputErrors(c, in, errs)
	}
}

// HandleInputErrors is the single point where collected failures turn into
// a 400 `{errors: [...]}` response. With no failures it stores in on the
// request and calls the next handler.
func HandleInputErrors(c *fiber.Ctx, in *Input, errs Errors) error {
	if len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": errs,
		})
	}
	c.Locals(inputKey, in)
	return c.Next()
}

// InputFrom returns the validated input stored by HandleInputErrors.
func InputFrom(c *fiber.Ctx) *Input {
	if in, ok := c.Locals(inputKey).(*Input); ok {
		return in
	}
	return &Input{Body: map[string]any{}}
}

func invalidBody(err error) ErrorRecord {
	rec := ErrorRecord{
		Type:     "field",
		Msg:      MsgInvalidBody,
		Path:     "",
		Location: LocationBody,
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		rec.Type = "syntax"
	}
	return rec
}
