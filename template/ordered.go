package template

import (
	"bytes"
	"encoding/json"
)

// orderedMap is a JSON object that keeps its keys in insertion order.
type orderedMap []keyValue

type keyValue struct {
	Key   string
	Value interface{}
}

func (m *orderedMap) set(key string, value interface{}) {
	*m = append(*m, keyValue{Key: key, Value: value})
}

// MarshalJSON marshals the map as a JSON object with its keys in order.
func (m orderedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshal(kv.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := marshal(kv.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshal marshals v to JSON without escaping HTML characters.
func marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
