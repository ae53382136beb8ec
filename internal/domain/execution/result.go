package execution

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strconv"
)

// Request is the payload a caller submits for a single script run: the
// JSON document piped to the child's stdin plus the argument vector
// appended after the script path.
type Request struct {
	Data json.RawMessage
	Args []string
}

// Result is the outcome of running a script to completion or to its
// deadline.
type Result struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exit_code"`
	TimedOut bool   `json:"timed_out"`
}

// Succeeded reports whether the run is eligible for caching: it ran to
// completion, within its deadline, with a zero exit status.
func (r *Result) Succeeded() bool {
	return r != nil && !r.TimedOut && r.ExitCode == 0
}

// Key is the deterministic identity of a memoizable execution: the script
// name, the mtime of the script file at the moment the key was built, and
// the canonical encoding of the request. Two requests that should be
// considered semantically identical produce equal keys; any edit to the
// script file changes the mtime component and therefore the key.
type Key string

// NewKey derives a Key from a script name, its mtime (as nanoseconds since
// the Unix epoch), and the request. The data document is re-encoded in
// canonical form — object keys sorted, no insignificant whitespace, so
// that permuting keys or adding whitespace to the caller's JSON does not
// change the key.
func NewKey(name Name, mtimeNano int64, req Request) (Key, error) {
	canonicalData, err := canonicalJSON(req.Data)
	if err != nil {
		return "", err
	}

	digest := sha256.New()
	digest.Write([]byte(name))
	digest.Write([]byte{0})
	digest.Write([]byte(strconv.FormatInt(mtimeNano, 10)))
	digest.Write([]byte{0})
	digest.Write(canonicalData)
	for _, arg := range req.Args {
		digest.Write([]byte{0})
		digest.Write([]byte(arg))
	}

	return Key(hex.EncodeToString(digest.Sum(nil))), nil
}

// canonicalJSON re-marshals an arbitrary JSON document with object keys
// sorted lexicographically at every level, so that structurally identical
// documents always produce byte-identical output regardless of the
// caller's key order or whitespace.
func canonicalJSON(raw json.RawMessage) ([]byte, error) {
	if len(raw) == 0 {
		raw = json.RawMessage("null")
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, &Error{Kind: BadRequest, Message: "invalid json: " + err.Error()}
	}
	return marshalCanonical(v)
}

func marshalCanonical(v any) ([]byte, error) {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		out := []byte{'{'}
		for i, k := range keys {
			if i > 0 {
				out = append(out, ',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			out = append(out, kb...)
			out = append(out, ':')

			vb, err := marshalCanonical(val[k])
			if err != nil {
				return nil, err
			}
			out = append(out, vb...)
		}
		out = append(out, '}')
		return out, nil
	case []any:
		out := []byte{'['}
		for i, item := range val {
			if i > 0 {
				out = append(out, ',')
			}
			ib, err := marshalCanonical(item)
			if err != nil {
				return nil, err
			}
			out = append(out, ib...)
		}
		out = append(out, ']')
		return out, nil
	default:
		return json.Marshal(val)
	}
}
