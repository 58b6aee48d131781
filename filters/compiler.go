package filters

// Compiler translates a raw filter map (canonical filter name to its raw
// string value) into pre-bound predicate vectors, using a Registry to
// resolve names.
type Compiler struct {
	registry *Registry
}

// NewCompiler builds a Compiler backed by registry.
func NewCompiler(registry *Registry) *Compiler {
	return &Compiler{registry: registry}
}

// Compile splits raw into its load-time and per-call predicate vectors.
// Unknown filter names are silently dropped. A compile error on a known
// filter (bad regex, malformed clause list) is returned immediately —
// callers are expected to drop the whole entry and log a warning, per the
// entry-load semantics in the store's refresh pipeline.
func (c *Compiler) Compile(raw map[string]string) ([]StaticCheck, []DynamicCheck, error) {
	var statics []StaticCheck
	var dynamics []DynamicCheck

	for name, value := range raw {
		tier, compile, ok := c.registry.Lookup(name)
		if !ok {
			continue
		}
		static, dynamic, err := compile(value)
		if err != nil {
			return nil, nil, err
		}
		switch tier {
		case TierLoad:
			statics = append(statics, static)
		case TierCall:
			dynamics = append(dynamics, dynamic)
		}
	}

	return statics, dynamics, nil
}
