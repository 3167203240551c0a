package logger

type Logger interface {
	Info(...any)
	Debug(...any)
	Error(...any)
}

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelError:
		return "ERROR"
	}
	return "UNKNOWN"
}
