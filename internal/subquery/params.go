package subquery

import (
	"net/url"
	"strings"
)

// param is one key/value pair from a raw query string, in source order.
type param struct {
	Key   string
	Value string
}

// parseParams splits a raw query string into ordered pairs.
//
// url.Values cannot be used here: it is map-backed and loses the order
// the pairs appeared in, which Join must preserve. A bare key without
// '=' is treated as having an empty value, matching url.ParseQuery.
func parseParams(rawQuery string) ([]param, error) {
	if rawQuery == "" {
		return nil, nil
	}

	var params []param
	for _, segment := range strings.Split(rawQuery, "&") {
		if segment == "" {
			continue
		}

		key, value, _ := strings.Cut(segment, "=")

		decodedKey, err := url.QueryUnescape(key)
		if err != nil {
			return nil, err
		}
		decodedValue, err := url.QueryUnescape(value)
		if err != nil {
			return nil, err
		}

		params = append(params, param{Key: decodedKey, Value: decodedValue})
	}

	return params, nil
}

// paramValues returns every value carried under the given key, in order.
func paramValues(u *url.URL, name string) ([]string, error) {
	params, err := parseParams(u.RawQuery)
	if err != nil {
		return nil, err
	}

	var values []string
	for _, p := range params {
		if p.Key == name {
			values = append(values, p.Value)
		}
	}
	return values, nil
}

// replaceParam rebuilds the raw query with the named parameter set to a
// new value. Every other pair is re-encoded in place, so positions are
// unchanged and the replaced parameter keeps its original slot.
func replaceParam(rawQuery, name, value string) (string, error) {
	params, err := parseParams(rawQuery)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		if p.Key == name {
			b.WriteString(url.QueryEscape(value))
		} else {
			b.WriteString(url.QueryEscape(p.Value))
		}
	}
	return b.String(), nil
}
