package domain

import "strings"

// Aliases remaps a station name to a fixed marker number. It covers stations
// whose headers carry a wrong or missing MARKER NUMBER.
type Aliases map[string]string

// Lookup returns the marker number configured for the station name. Names are
// compared on their significant prefix, ignoring case.
func (a Aliases) Lookup(name string) (string, bool) {
	if len(a) == 0 {
		return "", false
	}
	number, ok := a[aliasKey(name)]
	return number, ok
}

// Add registers an alias, replacing any previous entry for the name.
func (a Aliases) Add(name, number string) {
	a[aliasKey(name)] = strings.TrimSpace(number)
}

func aliasKey(name string) string {
	return strings.ToUpper(truncate(strings.TrimSpace(name), MarkerNameWidth))
}
