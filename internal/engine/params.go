package engine

// Params is the fixed engine load configuration. It is decided at startup
// and never negotiated per request: context window, batch size, CPU thread
// count and the sampler chain (temperature, top-k, top-p, seeded draw).
type Params struct {
	CtxWindow   int
	BatchSize   int
	Threads     int
	Temperature float32
	TopK        int
	TopP        float32
	// Seed for the final sampler draw; 0 lets the runtime pick its default.
	Seed int
	// TokenMargin is the headroom kept free in the context window when
	// clamping a request's token budget.
	TokenMargin int
}

// withDefaults fills unset fields with the runtime's standard values.
func (p Params) withDefaults() Params {
	if p.CtxWindow <= 0 {
		p.CtxWindow = 2048
	}
	if p.BatchSize <= 0 {
		p.BatchSize = 512
	}
	if p.Threads <= 0 {
		p.Threads = 4
	}
	if p.Temperature <= 0 {
		p.Temperature = 0.8
	}
	if p.TopK <= 0 {
		p.TopK = 40
	}
	if p.TopP <= 0 {
		p.TopP = 0.95
	}
	if p.TokenMargin <= 0 {
		p.TokenMargin = 10
	}
	return p
}
