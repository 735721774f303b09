package quota

import (
	"encoding/json"
	"strconv"
)

// Value is one entry of the vendor quota bag. The vendor payload has no
// fixed schema across device families, so each entry is a small tagged
// union (number | string | absent) that also keeps the original JSON
// bytes for lossless round-tripping.
type Value struct {
	raw   json.RawMessage
	num   float64
	str   string
	isNum bool
	isStr bool
}

// Bag is a flat map of dotted vendor telemetry keys to values, e.g.
// "bms_bmsStatus.soc" or "pd.wattsInSum".
type Bag map[string]Value

func Number(n float64) Value {
	raw, _ := json.Marshal(n)
	return Value{raw: raw, num: n, isNum: true}
}

func String(s string) Value {
	raw, _ := json.Marshal(s)
	return Value{raw: raw, str: s, isStr: true}
}

func (v Value) Float() (float64, bool) {
	return v.num, v.isNum
}

func (v Value) String() (string, bool) {
	return v.str, v.isStr
}

func (v *Value) UnmarshalJSON(data []byte) error {
	v.raw = append(json.RawMessage(nil), data...)

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		v.num = n
		v.isNum = true
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v.str = s
		v.isStr = true
		// some firmware revisions report numbers as quoted strings
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			v.num = f
			v.isNum = true
		}
	}

	// anything else (bool, array, object, null) resolves to "no value"
	// but the raw bytes are still carried through
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.raw != nil {
		return v.raw, nil
	}
	return []byte("null"), nil
}

// ParseBag decodes a vendor quota payload. A JSON null yields a nil bag.
func ParseBag(data []byte) (Bag, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var bag Bag
	if err := json.Unmarshal(data, &bag); err != nil {
		return nil, err
	}
	return bag, nil
}

// JSON re-encodes the bag with the original value bytes intact. Keys come
// out byte-wise sorted, which keeps the snapshot deterministic.
func (b Bag) JSON() string {
	if b == nil {
		return "null"
	}
	out, err := json.Marshal(b)
	if err != nil {
		return "{}"
	}
	return string(out)
}

// float resolves a key to a number; absent or non-numeric is "no value".
func (b Bag) float(key string) (float64, bool) {
	v, ok := b[key]
	if !ok {
		return 0, false
	}
	return v.Float()
}

// floatOrZero is the null-tolerant lookup used when summing rails.
func (b Bag) floatOrZero(key string) float64 {
	f, _ := b.float(key)
	return f
}
