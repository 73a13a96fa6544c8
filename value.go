package reldb

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf16"
)

// ValueKind discriminates the active case of a Value. Exactly one case
// is active at a time.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindInt64
	KindUint64
	KindFloat64
	KindText
	KindBlob
	KindBool
	KindTime
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt64:
		return "int"
	case KindUint64:
		return "uint"
	case KindFloat64:
		return "real"
	case KindText:
		return "text"
	case KindBlob:
		return "blob"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	default:
		return "unknown"
	}
}

// TimeFormat is the temporal subformat a Time value carries, determining
// how Value.ToText renders it. The WideText case of is folded
// into Text after transcoding (see NewWideText) rather than kept as a
// distinct wire case, per its "implementation may" clause.
type TimeFormat int

const (
	Date TimeFormat = iota
	Time
	Timestamp
	DateTime
)

const (
	dateLayout      = "2006-01-02"
	timeLayout      = "15:04:05"
	timestampLayout = "2006-01-02 15:04:05"
)

// Value is a tagged variant representing any SQL cell value in
// backend-neutral form. The zero Value is Null. Value is a value type
// (safe to copy) so that binding tables can hold it directly without a
// separate ownership model.
type Value struct {
	kind ValueKind
	i    int64
	u    uint64
	f    float64
	s    string
	b    []byte
	bl   bool
	t    int64 // epoch seconds, valid when kind == KindTime
	tf   TimeFormat
}

// NewNull returns the Null value.
func NewNull() Value { return Value{kind: KindNull} }

// NewInt64 returns a signed-integer Value.
func NewInt64(v int64) Value { return Value{kind: KindInt64, i: v} }

// NewUint64 returns an unsigned-integer Value.
func NewUint64(v uint64) Value { return Value{kind: KindUint64, u: v} }

// NewFloat64 returns a double-precision Value.
func NewFloat64(v float64) Value { return Value{kind: KindFloat64, f: v} }

// NewText returns a UTF-8 text Value.
func NewText(v string) Value { return Value{kind: KindText, s: v} }

// NewWideText transcodes a UTF-16 code-unit sequence to UTF-8 and
// returns it as a Text Value, folding the wide-text case into Text
// since that's an allowed representation for it.
func NewWideText(v []uint16) Value {
	return Value{kind: KindText, s: string(utf16.Decode(v))}
}

// NewBlob returns an opaque byte-sequence Value. size is len(v), always
// >= 0, satisfying the Blob-size invariant.
func NewBlob(v []byte) Value {
	cp := make([]byte, len(v))
	copy(cp, v)
	return Value{kind: KindBlob, b: cp}
}

// NewBool returns a boolean Value.
func NewBool(v bool) Value { return Value{kind: KindBool, bl: v} }

// NewTime returns a temporal Value carrying an epoch-second count and a
// format discriminant, so that stringification is deterministic per
// invariant.
func NewTime(epochSeconds int64, format TimeFormat) Value {
	return Value{kind: KindTime, t: epochSeconds, tf: format}
}

// NewTimeFromTime builds a temporal Value from a time.Time, truncated to
// whole seconds, matching the epoch-seconds granularity NewTime stores.
func NewTimeFromTime(v time.Time, format TimeFormat) Value {
	return NewTime(v.UTC().Unix(), format)
}

// Kind returns the active case.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether v is the Null case.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Size returns the byte length relevant to bind-size dispatch: for Blob
// and Text it is len(bytes); for numeric/bool/time cases it is the
// natural in-memory width. The bind path does not consult it.
func (v Value) Size() int {
	switch v.kind {
	case KindBlob:
		return len(v.b)
	case KindText:
		return len(v.s)
	case KindInt64, KindUint64, KindTime:
		return 8
	case KindFloat64:
		return 8
	case KindBool:
		return 1
	default:
		return 0
	}
}

// illegalConversion builds the Kind-tagged error for a failed coercion.
func illegalConversion(from ValueKind, to string) error {
	return newErr(KindIllegalConversion, fmt.Sprintf("cannot convert %s to %s", from, to))
}

// ToInt64 coerces v to a signed integer per the Value Model coercion
// table.
func (v Value) ToInt64() (int64, error) {
	switch v.kind {
	case KindNull:
		return 0, illegalConversion(v.kind, "int")
	case KindInt64:
		return v.i, nil
	case KindUint64:
		return int64(v.u), nil
	case KindFloat64:
		return int64(v.f), nil
	case KindText:
		n, err := strconv.ParseInt(strings.TrimSpace(v.s), 10, 64)
		if err != nil {
			return 0, illegalConversion(v.kind, "int")
		}
		return n, nil
	case KindBlob:
		return 0, illegalConversion(v.kind, "int")
	case KindBool:
		if v.bl {
			return 1, nil
		}
		return 0, nil
	case KindTime:
		return v.t, nil
	default:
		return 0, illegalConversion(v.kind, "int")
	}
}

// ToUint64 coerces v to an unsigned integer, following the same policy
// as ToInt64 with the result reinterpreted as unsigned.
func (v Value) ToUint64() (uint64, error) {
	if v.kind == KindUint64 {
		return v.u, nil
	}
	n, err := v.ToInt64()
	if err != nil {
		return 0, err
	}
	return uint64(n), nil
}

// ToFloat64 coerces v to a double.
func (v Value) ToFloat64() (float64, error) {
	switch v.kind {
	case KindNull:
		return 0, illegalConversion(v.kind, "real")
	case KindInt64:
		return float64(v.i), nil
	case KindUint64:
		return float64(v.u), nil
	case KindFloat64:
		return v.f, nil
	case KindText:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil {
			return 0, illegalConversion(v.kind, "real")
		}
		return f, nil
	case KindBlob:
		return 0, illegalConversion(v.kind, "real")
	case KindBool:
		if v.bl {
			return 1.0, nil
		}
		return 0.0, nil
	case KindTime:
		return float64(v.t), nil
	default:
		return 0, illegalConversion(v.kind, "real")
	}
}

// ToText coerces v to its textual SQL representation. Null renders as
// the literal string "NULL" rather than returning an error — the one
// case where a conversion "fails upward" into text successfully.
func (v Value) ToText() (string, error) {
	switch v.kind {
	case KindNull:
		return "NULL", nil
	case KindInt64:
		return strconv.FormatInt(v.i, 10), nil
	case KindUint64:
		return strconv.FormatUint(v.u, 10), nil
	case KindFloat64:
		return strconv.FormatFloat(v.f, 'g', -1, 64), nil
	case KindText:
		return v.s, nil
	case KindBlob:
		return "", illegalConversion(v.kind, "text")
	case KindBool:
		if v.bl {
			return "1", nil
		}
		return "0", nil
	case KindTime:
		return v.timeString(), nil
	default:
		return "", illegalConversion(v.kind, "text")
	}
}

// ToBlob coerces v to a byte sequence: only Blob
// itself and UTF-8 Text (encoded to its byte representation) succeed.
func (v Value) ToBlob() ([]byte, error) {
	switch v.kind {
	case KindBlob:
		cp := make([]byte, len(v.b))
		copy(cp, v.b)
		return cp, nil
	case KindText:
		return []byte(v.s), nil
	default:
		return nil, illegalConversion(v.kind, "blob")
	}
}

// ToBool coerces v to a boolean.
func (v Value) ToBool() (bool, error) {
	switch v.kind {
	case KindNull:
		return false, nil
	case KindInt64:
		return v.i != 0, nil
	case KindUint64:
		return v.u != 0, nil
	case KindFloat64:
		return v.f != 0.0, nil
	case KindText:
		switch v.s {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		default:
			return false, illegalConversion(v.kind, "bool")
		}
	case KindBlob:
		return false, illegalConversion(v.kind, "bool")
	case KindBool:
		return v.bl, nil
	case KindTime:
		return v.t > 0, nil
	default:
		return false, illegalConversion(v.kind, "bool")
	}
}

// ToTime coerces v to a temporal Value. Text is parsed by trying
// "%Y-%m-%d %H:%M:%S" then "%Y-%m-%d" then "%H:%M:%S" then as an
// integer seconds count, in that order.
func (v Value) ToTime() (Value, error) {
	switch v.kind {
	case KindNull:
		return NewTime(0, Timestamp), nil
	case KindInt64:
		return NewTime(v.i, Timestamp), nil
	case KindUint64:
		return NewTime(int64(v.u), Timestamp), nil
	case KindBool:
		if v.bl {
			return NewTime(1, Timestamp), nil
		}
		return NewTime(0, Timestamp), nil
	case KindText:
		if t, err := time.Parse(timestampLayout, v.s); err == nil {
			return NewTime(t.Unix(), Timestamp), nil
		}
		if t, err := time.Parse(dateLayout, v.s); err == nil {
			return NewTime(t.Unix(), Date), nil
		}
		if t, err := time.Parse(timeLayout, v.s); err == nil {
			return NewTime(t.Unix(), Time), nil
		}
		if n, err := strconv.ParseInt(strings.TrimSpace(v.s), 10, 64); err == nil {
			return NewTime(n, Timestamp), nil
		}
		return Value{}, illegalConversion(v.kind, "time")
	case KindTime:
		return v, nil
	default:
		return Value{}, illegalConversion(v.kind, "time")
	}
}

// EpochSeconds returns the epoch-second count of a Time value, or an
// error if v is not a Time.
func (v Value) EpochSeconds() (int64, error) {
	if v.kind != KindTime {
		return 0, illegalConversion(v.kind, "time")
	}
	return v.t, nil
}

// TimeFormatOf returns the temporal subformat of a Time value, or an
// error if v is not a Time.
func (v Value) TimeFormatOf() (TimeFormat, error) {
	if v.kind != KindTime {
		return 0, illegalConversion(v.kind, "time")
	}
	return v.tf, nil
}

// timeString formats a Time value per its subformat, always in
// GMT/UTC
func (v Value) timeString() string {
	gmt := time.Unix(v.t, 0).UTC()
	switch v.tf {
	case Date:
		return gmt.Format(dateLayout)
	case Time:
		return gmt.Format(timeLayout)
	case Timestamp, DateTime:
		return gmt.Format(timestampLayout)
	default:
		return gmt.Format(timestampLayout)
	}
}

// String implements fmt.Stringer.
func (v Value) String() string {
	s, err := v.ToText()
	if err != nil {
		return fmt.Sprintf("<%s>", v.kind)
	}
	return s
}

// Equal reports whether v and other carry the same logical value: for
// Time, equality is on epoch seconds; for Blob, it is byte-exact;
// otherwise it is case-and-value equality.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindInt64:
		return v.i == other.i
	case KindUint64:
		return v.u == other.u
	case KindFloat64:
		return v.f == other.f
	case KindText:
		return v.s == other.s
	case KindBlob:
		return string(v.b) == string(other.b)
	case KindBool:
		return v.bl == other.bl
	case KindTime:
		return v.t == other.t
	default:
		return false
	}
}
