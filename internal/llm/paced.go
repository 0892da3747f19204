package llm

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Paced spaces out completion calls to the wrapped provider.
type Paced struct {
	Provider
	limiter *rate.Limiter
}

// NewPaced allows one completion per interval with a burst of one.
func NewPaced(p Provider, interval time.Duration) *Paced {
	return &Paced{
		Provider: p,
		limiter:  newLimiter(interval),
	}
}

func newLimiter(interval time.Duration) *rate.Limiter {
	return rate.NewLimiter(rate.Every(interval), 1)
}

func (p *Paced) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return p.Provider.Complete(ctx, req)
}
