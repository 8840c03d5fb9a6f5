package normalize

// ResponseOK reports whether an upstream envelope signals success, either
// via a boolean success flag or a status string. Bare arrays carry no
// envelope and are treated as successful.
func ResponseOK(body any) bool {
	if _, ok := asSlice(body); ok {
		return true
	}
	m, ok := asMap(body)
	if !ok {
		return false
	}
	if v, ok := m["success"].(bool); ok && v {
		return true
	}
	if s, ok := m["status"].(string); ok && s == "success" {
		return true
	}
	return false
}

// ResponseMessage extracts the human-readable message from an upstream
// envelope, if any.
func ResponseMessage(body any) string {
	if m, ok := asMap(body); ok {
		return str(m, "message")
	}
	return ""
}

// UnwrapFlightList extracts the flight record array from any of the
// supported search envelopes: a bare array, {data: [...]}, or
// {success, data: {data: [...]}}.
func UnwrapFlightList(body any) []Raw {
	if arr, ok := asSlice(body); ok {
		return toRawSlice(arr)
	}
	m, ok := asMap(body)
	if !ok {
		return nil
	}
	if arr, ok := asSlice(m["data"]); ok {
		return toRawSlice(arr)
	}
	if inner, ok := asMap(m["data"]); ok {
		if arr, ok := asSlice(inner["data"]); ok {
			return toRawSlice(arr)
		}
	}
	return nil
}

// UnwrapFlightDetail extracts the single flight record from a detail
// response. Known nestings, in priority order: data.flight, data (when it
// carries an id), flight, data, then the root itself.
func UnwrapFlightDetail(body any) Raw {
	m, ok := asMap(body)
	if !ok {
		return nil
	}
	if data, ok := asMap(m["data"]); ok {
		if flight, ok := asMap(data["flight"]); ok {
			return flight
		}
		if _, hasID := data["id"]; hasID {
			return data
		}
	}
	if flight, ok := asMap(m["flight"]); ok {
		return flight
	}
	if data, ok := asMap(m["data"]); ok {
		return data
	}
	return m
}
