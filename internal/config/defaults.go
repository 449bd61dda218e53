package config

const (
	defaultStateDir    = "~/.local/share/driveshift"
	defaultLogDir      = "~/.local/share/driveshift/logs"
	defaultScratchDir  = "/run/driveshift"
	defaultRsyncBinary = "rsync"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
)

// defaultExcludes are pseudo-filesystems and volatile paths that must never be
// copied onto the destination root.
var defaultExcludes = []string{
	"/dev/*",
	"/proc/*",
	"/sys/*",
	"/run/*",
	"/tmp/*",
	"/mnt/*",
	"/media/*",
	"/lost+found",
	"/swapfile",
}

// optionalExcludes are offered by the wizard but not applied unless selected.
var optionalExcludes = []string{
	"/home/*/.cache/*",
	"/home/*/.local/share/Trash/*",
	"/var/cache/*",
	"/var/tmp/*",
	"/var/log/*",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir:   defaultStateDir,
			LogDir:     defaultLogDir,
			ScratchDir: defaultScratchDir,
		},
		Transfer: Transfer{
			RsyncBinary:      defaultRsyncBinary,
			DefaultExcludes:  append([]string{}, defaultExcludes...),
			OptionalExcludes: append([]string{}, optionalExcludes...),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
