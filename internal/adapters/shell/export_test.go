package shell

// ResolveEnvironment exposes resolveEnvironment for tests.
var ResolveEnvironment = resolveEnvironment

// NewLauncherWithEnviron creates a Launcher with a fixed base environment.
func NewLauncherWithEnviron(env []string) *Launcher {
	return &Launcher{environ: func() []string { return env }}
}
