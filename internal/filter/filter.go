// Package filter implements the ordered admission chain the gateway runs
// before a request reaches the forward step. Each filter inspects the
// request and either terminates with a response or hands off to the next
// filter; order is explicit and fixed at construction.
package filter

import "github.com/labstack/echo/v4"

// Filter is one admission step.
type Filter interface {
	Name() string
	// Handle either writes a terminal response or calls next.
	Handle(c echo.Context, next echo.HandlerFunc) error
}

// Chain is an ordered list of filters over a terminal handler.
type Chain struct {
	filters []Filter
}

// NewChain builds a chain running filters in the given order.
func NewChain(filters ...Filter) *Chain {
	return &Chain{filters: filters}
}

// Then composes the chain onto the terminal handler. A filter that does
// not call next short-circuits everything after it, terminal included.
func (ch *Chain) Then(terminal echo.HandlerFunc) echo.HandlerFunc {
	h := terminal
	for i := len(ch.filters) - 1; i >= 0; i-- {
		f, next := ch.filters[i], h
		h = func(c echo.Context) error {
			return f.Handle(c, next)
		}
	}
	return h
}
