package domain

// LogLevel is the severity of a message attached to a progress vertex.
// Values mirror the slog levels.
type LogLevel int

const (
	// LogLevelDebug is debug verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo is informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn is warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError is error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the upper-case level name.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// LogLevelFor returns the level used to report an outcome.
func LogLevelFor(o Outcome) LogLevel {
	switch o {
	case OutcomeFailed:
		return LogLevelError
	case OutcomeSource, OutcomeUpToDate:
		return LogLevelDebug
	default:
		return LogLevelInfo
	}
}
