package models

import "encoding/json"

// UnmarshalJSON accepts either a JSON string or a JSON array of strings.
// Anything else is coerced to an empty string value rather than failing,
// since run parameters are untrusted engine output.
func (v *ParamValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v.Type = ParamTypeString
		v.StringVal = s
		v.ArrayVal = nil

		return nil
	}

	var a []string
	if err := json.Unmarshal(data, &a); err == nil {
		v.Type = ParamTypeArray
		v.ArrayVal = a
		v.StringVal = ""

		return nil
	}

	v.Type = ParamTypeString
	v.StringVal = ""
	v.ArrayVal = nil

	return nil
}

// MarshalJSON emits the same union encoding the engine produces.
func (v ParamValue) MarshalJSON() ([]byte, error) {
	if v.Type == ParamTypeArray {
		return json.Marshal(v.ArrayVal)
	}

	return json.Marshal(v.StringVal)
}

// NewStringParamValue builds a scalar parameter value.
func NewStringParamValue(s string) ParamValue {
	return ParamValue{Type: ParamTypeString, StringVal: s}
}

// NewArrayParamValue builds a list parameter value.
func NewArrayParamValue(vals ...string) ParamValue {
	return ParamValue{Type: ParamTypeArray, ArrayVal: vals}
}
