package redigo

import "time"

const (
	CommandSet     = "SET"
	CommandSetNX   = "SETNX"
	CommandExpire  = "EXPIRE"
	CommandPExpire = "PEXPIRE"
	CommandDel     = "DEL"
	CommandGet     = "GET"
	CommandPTTL    = "PTTL"

	optionNX = "NX"
)

// formatExpirationArgs returns the SET option pair for ttl, EX when ttl is a whole number of
// seconds and PX otherwise.
func formatExpirationArgs(ttl time.Duration) []any {
	if ttl <= 0 {
		return []any{}
	}

	if isPX(ttl) {
		return []any{"PX", toUnit(ttl, time.Millisecond)}
	}

	return []any{"EX", toUnit(ttl, time.Second)}
}

// formatExpireCommand returns the expire command and argument matching formatExpirationArgs.
func formatExpireCommand(ttl time.Duration) (string, int64) {
	if isPX(ttl) {
		return CommandPExpire, toUnit(ttl, time.Millisecond)
	}

	return CommandExpire, toUnit(ttl, time.Second)
}

func toUnit(ttl time.Duration, unit time.Duration) int64 {
	t := int64(ttl / unit)

	// Assume 1 if less than 1 after conversion.
	if t < 1 {
		t = 1
	}

	return t
}

func isPX(ttl time.Duration) bool {
	return ttl < time.Second || ttl%time.Second != 0
}
