package api

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/jacksmith/hris/internal/model"
)

// listFields are the wrapper field names searched for a list, in order.
var listFields = []string{"data", "branches", "items", "results"}

var emptyList = json.RawMessage("[]")

// UnwrapList locates the JSON array inside a list response.
//
// Accepted shapes, tried in order:
//
//	[ ... ]
//	{"<field>": [ ... ]}
//	{"<field>": {"<field>": [ ... ]}}
//
// where <field> is one of data, branches, items, results. An empty body,
// null, a scalar, or an object without any of these shapes yields an empty
// array. Only bytes that are not valid JSON are an error.
func UnwrapList(body []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return emptyList, nil
	}
	if !json.Valid(trimmed) {
		return nil, errors.New("response is not valid JSON")
	}

	switch trimmed[0] {
	case '[':
		return json.RawMessage(trimmed), nil
	case '{':
		if list, ok := findList(trimmed, 2); ok {
			return list, nil
		}
	}
	return emptyList, nil
}

// findList searches obj for a wrapped array up to depth levels deep.
// Shallower matches win over deeper ones.
func findList(obj []byte, depth int) (json.RawMessage, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(obj, &fields); err != nil {
		return nil, false
	}

	for _, name := range listFields {
		if v := bytes.TrimSpace(fields[name]); len(v) > 0 && v[0] == '[' {
			return json.RawMessage(v), true
		}
	}
	if depth <= 1 {
		return nil, false
	}
	for _, name := range listFields {
		if v := bytes.TrimSpace(fields[name]); len(v) > 0 && v[0] == '{' {
			if list, ok := findList(v, depth-1); ok {
				return list, true
			}
		}
	}
	return nil, false
}

// decodeList unwraps body and decodes the array into out.
func decodeList(body []byte, out any) error {
	list, err := UnwrapList(body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(list, out); err != nil {
		return errors.Wrap(err, "malformed list element")
	}
	return nil
}

// NormalizeBranches decodes any accepted branch list shape into branches.
// The result is never nil.
func NormalizeBranches(body []byte) ([]model.Branch, error) {
	branches := []model.Branch{}
	if err := decodeList(body, &branches); err != nil {
		return nil, errors.Wrap(err, "normalize branches")
	}
	if branches == nil {
		branches = []model.Branch{}
	}
	return branches, nil
}
