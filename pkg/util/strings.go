package util

import (
	"net"
	"strconv"
)

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// SplitHostPortDefault splits "host:port" falling back to defaults for the
// missing or unparsable part. A bare host is accepted.
func SplitHostPortDefault(s string, defHost string, defPort int) (string, int) {
	if s == "" {
		return defHost, defPort
	}
	host, port, err := net.SplitHostPort(s)
	if err != nil {
		return s, defPort
	}
	if host == "" {
		host = defHost
	}
	return host, ParseIntDefault(port, defPort)
}
