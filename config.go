package ioc

// defaultMaxResolutionDepth bounds recursive autowiring against runaway
// dependency chains that are not cycles (spec §4.5, §7 ErrDepthExceeded).
const defaultMaxResolutionDepth = 50

// ContainerConfig configures a Builder/Container pair. The zero value is
// usable: Strict is off, there is no cache directory (in-memory prototype
// cache only), and depth defaults to defaultMaxResolutionDepth.
type ContainerConfig struct {
	// CacheDir, when non-empty, backs the prototype cache with a
	// consolidated JSON file under this directory (spec §6.2) instead of
	// an in-memory-only cache.
	CacheDir string

	// Debug enables verbose stage tracing on the configured Observer,
	// beyond just failure traces.
	Debug bool

	// Strict, when true, rejects Get/Make calls for ids that are neither
	// registered nor a loadable (autowireable) class.
	Strict bool

	// MaxResolutionDepth caps recursive autowiring depth. Zero means use
	// defaultMaxResolutionDepth.
	MaxResolutionDepth int

	// AllowedNamespaces, when non-empty, restricts every resolution,
	// registered or autowired, to ids with one of these prefixes
	// (AllowlistRule).
	AllowedNamespaces []string

	// DenyPatterns blocks ids matching any of these glob patterns
	// (DenylistRule), checked regardless of Strict/AllowedNamespaces.
	DenyPatterns []string

	// Compile, when true, makes Seal eagerly validate the dependency graph
	// of constructor-bound definitions, rejecting cycles before the first
	// Get. Registered CompilerPasses run during Seal whatever its value.
	Compile bool

	// Observer receives TraceEvents for every resolution stage when Debug
	// is true. A nil Observer, or Debug false, means NopObserver is used.
	Observer Observer
}

func (c ContainerConfig) maxDepth() int {
	if c.MaxResolutionDepth <= 0 {
		return defaultMaxResolutionDepth
	}
	return c.MaxResolutionDepth
}

func (c ContainerConfig) observer() Observer {
	if c.Observer == nil || !c.Debug {
		return NopObserver{}
	}
	return c.Observer
}

func (c ContainerConfig) guard(isRegistered, isLoadableClass func(string) bool) *CompositeGuard {
	g := NewCompositeGuard()
	g.Add(StrictRule{Strict: c.Strict, IsRegistered: isRegistered, IsLoadableClass: isLoadableClass})
	if len(c.AllowedNamespaces) > 0 {
		g.Add(AllowlistRule{Prefixes: c.AllowedNamespaces})
	}
	if len(c.DenyPatterns) > 0 {
		g.Add(DenylistRule{Patterns: c.DenyPatterns})
	}
	return g
}
