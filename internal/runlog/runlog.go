// Package runlog is a developer log of rewrite runs. Builds with the "dev" tag
// stream JSON lines to a local unix socket; other builds discard entries.
package runlog

// Level is the severity of an entry.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Fields is structured metadata attached to an entry.
type Fields map[string]any

// Logger tags entries with the component that produced them.
type Logger struct {
	component string
}

// New returns a Logger for component.
func New(component string) Logger {
	return Logger{component: component}
}

func (l Logger) Debug(message string, fields Fields) { l.log(LevelDebug, message, fields) }
func (l Logger) Info(message string, fields Fields)  { l.log(LevelInfo, message, fields) }
func (l Logger) Warn(message string, fields Fields)  { l.log(LevelWarn, message, fields) }
func (l Logger) Error(message string, fields Fields) { l.log(LevelError, message, fields) }

func (l Logger) log(level Level, message string, fields Fields) {
	merged := make(Fields, len(fields)+1)
	for k, v := range fields {
		merged[k] = v
	}
	merged["component"] = l.component
	emit(level, message, merged)
}
