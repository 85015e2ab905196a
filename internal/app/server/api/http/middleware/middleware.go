package middleware

import "github.com/danielgtaylor/huma/v2"

// Container accumulates the middleware chain for one handler. Each handler
// takes the chain built so far and the container is drained for the next one.
type Container struct {
	chain huma.Middlewares
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Add(mw func(huma.Context, func(huma.Context))) {
	c.chain = append(c.chain, mw)
}

func (c *Container) GetAllAndClear() huma.Middlewares {
	chain := c.chain
	c.chain = nil
	return chain
}
