package ioc

// Extender is a post-construction transform: it receives the freshly built
// instance and the container, and returns a replacement (or the same
// instance, decorated). Grounded on the Laravel-container translation's
// Extend(abstract, fn) and mwantia-fabric's decorator-style processors.
type Extender func(instance any, c Resolver) (any, error)

// wildcardExtenderID is the abstract id meaning "apply to every resolution".
const wildcardExtenderID = "*"
