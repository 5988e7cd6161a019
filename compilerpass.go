package ioc

// CompilerPass runs once during Seal, after all registration and before the
// container becomes immutable, letting callers rewrite bindings based on
// the full registered set (spec §6.1: tag-based auto-registration,
// decorator sweeps, and similar build-time rewrites).
type CompilerPass func(*Builder) error

// runCompilerPasses executes passes in registration order, stopping at the
// first error.
func runCompilerPasses(b *Builder, passes []CompilerPass) error {
	for _, p := range passes {
		if err := p(b); err != nil {
			return err
		}
	}
	return nil
}
