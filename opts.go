package allpaths

// Opt is an option for configuring a planner
type Opt func(p *defaultPlanner)

// WithConfig replaces the planner configuration
func WithConfig(cfg Config) Opt {
	return func(p *defaultPlanner) {
		p.config = cfg
	}
}

// WithLogger sets the planner logger
func WithLogger(logger Logger) Opt {
	return func(p *defaultPlanner) {
		p.logger = logger
	}
}

// WithOptions sets the planner flags
func WithOptions(options Options) Opt {
	return func(p *defaultPlanner) {
		p.config.Options = options
	}
}

// WithIndexIntersection enables AND_SORTED intersection plans over regular indexes, and AND_HASH plans when hash is
// true
func WithIndexIntersection(hash bool) Opt {
	return func(p *defaultPlanner) {
		p.config.IndexIntersection = true
		p.config.HashIntersection = hash
	}
}
