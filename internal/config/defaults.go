package config

const (
	defaultPlanDir       = "~/.config/treerun/plans"
	defaultLogDir        = "~/.local/share/treerun/logs"
	defaultLogLevel      = "info"
	defaultLogFormat     = "console"
	defaultShell         = "/bin/sh"
	defaultInheritEnv    = true
	defaultStepTimeout   = 0
	defaultRetentionRuns = 200
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			PlanDir: defaultPlanDir,
			LogDir:  defaultLogDir,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Runner: Runner{
			Shell:       defaultShell,
			InheritEnv:  defaultInheritEnv,
			StepTimeout: defaultStepTimeout,
		},
		History: History{
			Enabled:       true,
			RetentionRuns: defaultRetentionRuns,
		},
	}
}
