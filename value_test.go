package reldb

import "testing"

func TestValueKindIsExclusive(t *testing.T) {
	v := NewInt64(5)
	if v.Kind() != KindInt64 {
		t.Fatalf("Kind() = %v, want KindInt64", v.Kind())
	}
	if v.IsNull() {
		t.Fatal("IsNull() should be false for an int Value")
	}
}

func TestNullCoercions(t *testing.T) {
	v := NewNull()

	if _, err := v.ToInt64(); !IsKind(err, KindIllegalConversion) {
		t.Errorf("Null.ToInt64() should fail, got %v", err)
	}
	if _, err := v.ToFloat64(); !IsKind(err, KindIllegalConversion) {
		t.Errorf("Null.ToFloat64() should fail, got %v", err)
	}
	if s, err := v.ToText(); err != nil || s != "NULL" {
		t.Errorf("Null.ToText() = %q, %v, want \"NULL\", nil", s, err)
	}
	if _, err := v.ToBlob(); !IsKind(err, KindIllegalConversion) {
		t.Errorf("Null.ToBlob() should fail, got %v", err)
	}
	if b, err := v.ToBool(); err != nil || b != false {
		t.Errorf("Null.ToBool() = %v, %v, want false, nil", b, err)
	}
	tm, err := v.ToTime()
	if err != nil {
		t.Fatalf("Null.ToTime() error = %v", err)
	}
	if epoch, _ := tm.EpochSeconds(); epoch != 0 {
		t.Errorf("Null.ToTime() epoch = %d, want 0", epoch)
	}
}

func TestIntCoercions(t *testing.T) {
	v := NewInt64(42)

	if n, err := v.ToInt64(); err != nil || n != 42 {
		t.Errorf("ToInt64() = %d, %v", n, err)
	}
	if f, err := v.ToFloat64(); err != nil || f != 42.0 {
		t.Errorf("ToFloat64() = %v, %v", f, err)
	}
	if s, err := v.ToText(); err != nil || s != "42" {
		t.Errorf("ToText() = %q, %v", s, err)
	}
	if _, err := v.ToBlob(); !IsKind(err, KindIllegalConversion) {
		t.Error("Int.ToBlob() should fail")
	}
	if b, err := v.ToBool(); err != nil || b != true {
		t.Errorf("ToBool() = %v, %v", b, err)
	}
	tm, err := v.ToTime()
	if err != nil {
		t.Fatalf("ToTime() error = %v", err)
	}
	if epoch, _ := tm.EpochSeconds(); epoch != 42 {
		t.Errorf("ToTime() epoch = %d, want 42", epoch)
	}

	zero := NewInt64(0)
	if b, _ := zero.ToBool(); b != false {
		t.Error("Int(0).ToBool() should be false")
	}
}

func TestRealCoercions(t *testing.T) {
	v := NewFloat64(3.5)

	if n, err := v.ToInt64(); err != nil || n != 3 {
		t.Errorf("ToInt64() = %d, %v, want truncated 3", n, err)
	}
	if f, err := v.ToFloat64(); err != nil || f != 3.5 {
		t.Errorf("ToFloat64() = %v, %v", f, err)
	}
	if _, err := v.ToBlob(); !IsKind(err, KindIllegalConversion) {
		t.Error("Real.ToBlob() should fail")
	}
	if b, err := v.ToBool(); err != nil || b != true {
		t.Errorf("ToBool() = %v, %v", b, err)
	}
	if _, err := v.ToTime(); !IsKind(err, KindIllegalConversion) {
		t.Error("Real.ToTime() should fail per coercion table")
	}

	zero := NewFloat64(0.0)
	if b, _ := zero.ToBool(); b != false {
		t.Error("Real(0.0).ToBool() should be false")
	}
}

func TestTextCoercions(t *testing.T) {
	v := NewText("123")
	if n, err := v.ToInt64(); err != nil || n != 123 {
		t.Errorf("ToInt64() = %d, %v", n, err)
	}
	if f, err := v.ToFloat64(); err != nil || f != 123.0 {
		t.Errorf("ToFloat64() = %v, %v", f, err)
	}

	notNumeric := NewText("Bryan")
	if _, err := notNumeric.ToFloat64(); !IsKind(err, KindIllegalConversion) {
		t.Error("Text(\"Bryan\").ToFloat64() should be IllegalConversion")
	}

	if b, err := notNumeric.ToBlob(); err != nil || string(b) != "Bryan" {
		t.Errorf("ToBlob() = %q, %v", b, err)
	}

	for _, tc := range []struct {
		text string
		want bool
	}{{"true", true}, {"1", true}, {"false", false}, {"0", false}} {
		bv := NewText(tc.text)
		got, err := bv.ToBool()
		if err != nil || got != tc.want {
			t.Errorf("Text(%q).ToBool() = %v, %v, want %v", tc.text, got, err, tc.want)
		}
	}
	if _, err := NewText("maybe").ToBool(); !IsKind(err, KindIllegalConversion) {
		t.Error("Text(\"maybe\").ToBool() should fail")
	}

	tsVal := NewText("2024-01-15 10:30:00")
	tm, err := tsVal.ToTime()
	if err != nil {
		t.Fatalf("ToTime() error = %v", err)
	}
	if s := tm.timeString(); s != "2024-01-15 10:30:00" {
		t.Errorf("round-tripped time string = %q", s)
	}

	dateVal := NewText("2024-01-15")
	if _, err := dateVal.ToTime(); err != nil {
		t.Errorf("date-only ToTime() error = %v", err)
	}

	timeVal := NewText("10:30:00")
	if _, err := timeVal.ToTime(); err != nil {
		t.Errorf("time-only ToTime() error = %v", err)
	}

	secondsVal := NewText("1700000000")
	tm2, err := secondsVal.ToTime()
	if err != nil {
		t.Fatalf("integer-seconds ToTime() error = %v", err)
	}
	if epoch, _ := tm2.EpochSeconds(); epoch != 1700000000 {
		t.Errorf("epoch = %d, want 1700000000", epoch)
	}

	if _, err := NewText("not a time").ToTime(); !IsKind(err, KindIllegalConversion) {
		t.Error("unparseable text ToTime() should fail")
	}
}

func TestBlobCoercions(t *testing.T) {
	v := NewBlob([]byte{1, 2, 3, 4})
	if b, err := v.ToBlob(); err != nil || len(b) != 4 {
		t.Errorf("ToBlob() = %v, %v", b, err)
	}
	if _, err := v.ToInt64(); !IsKind(err, KindIllegalConversion) {
		t.Error("Blob.ToInt64() should fail")
	}
	if _, err := v.ToText(); !IsKind(err, KindIllegalConversion) {
		t.Error("Blob.ToText() should fail")
	}
	if _, err := v.ToBool(); !IsKind(err, KindIllegalConversion) {
		t.Error("Blob.ToBool() should fail")
	}
}

func TestBoolCoercions(t *testing.T) {
	tv := NewBool(true)
	if n, _ := tv.ToInt64(); n != 1 {
		t.Errorf("true.ToInt64() = %d, want 1", n)
	}
	if f, _ := tv.ToFloat64(); f != 1.0 {
		t.Errorf("true.ToFloat64() = %v, want 1.0", f)
	}
	if s, _ := tv.ToText(); s != "1" {
		t.Errorf("true.ToText() = %q, want \"1\"", s)
	}
	tm, _ := tv.ToTime()
	if epoch, _ := tm.EpochSeconds(); epoch != 1 {
		t.Errorf("true.ToTime() epoch = %d, want 1", epoch)
	}

	fv := NewBool(false)
	if n, _ := fv.ToInt64(); n != 0 {
		t.Errorf("false.ToInt64() = %d, want 0", n)
	}
	if s, _ := fv.ToText(); s != "0" {
		t.Errorf("false.ToText() = %q, want \"0\"", s)
	}
}

func TestTimeCoercions(t *testing.T) {
	v := NewTime(1700000000, Timestamp)
	if epoch, err := v.ToInt64(); err != nil || epoch != 1700000000 {
		t.Errorf("Time.ToInt64() = %d, %v", epoch, err)
	}
	if f, err := v.ToFloat64(); err != nil || f != 1700000000.0 {
		t.Errorf("Time.ToFloat64() = %v, %v, want 1700000000.0, nil", f, err)
	}
	if _, err := v.ToBlob(); !IsKind(err, KindIllegalConversion) {
		t.Error("Time.ToBlob() should fail")
	}
	if b, _ := v.ToBool(); !b {
		t.Error("positive-epoch Time.ToBool() should be true")
	}
	zero := NewTime(0, Timestamp)
	if b, _ := zero.ToBool(); b {
		t.Error("zero-epoch Time.ToBool() should be false")
	}
}

func TestTimeStringFormats(t *testing.T) {
	epoch := int64(1700000000) // 2023-11-14 22:13:20 UTC

	cases := []struct {
		format TimeFormat
		want   string
	}{
		{Date, "2023-11-14"},
		{Time, "22:13:20"},
		{Timestamp, "2023-11-14 22:13:20"},
		{DateTime, "2023-11-14 22:13:20"},
	}
	for _, c := range cases {
		v := NewTime(epoch, c.format)
		if s, err := v.ToText(); err != nil || s != c.want {
			t.Errorf("format %v: ToText() = %q, %v, want %q", c.format, s, err, c.want)
		}
	}
}

func TestWideTextFoldsIntoText(t *testing.T) {
	v := NewWideText([]uint16{'h', 'i'})
	if v.Kind() != KindText {
		t.Fatalf("NewWideText Kind() = %v, want KindText", v.Kind())
	}
	if s, _ := v.ToText(); s != "hi" {
		t.Errorf("ToText() = %q, want \"hi\"", s)
	}
}

func TestValueEqual(t *testing.T) {
	a := NewTime(100, Date)
	b := NewTime(100, Timestamp)
	if !a.Equal(b) {
		t.Error("Time values with equal epoch but different formats should be Equal")
	}

	blobA := NewBlob([]byte{1, 2, 3})
	blobB := NewBlob([]byte{1, 2, 3})
	if !blobA.Equal(blobB) {
		t.Error("byte-identical blobs should be Equal")
	}

	if NewInt64(1).Equal(NewUint64(1)) {
		t.Error("different Kinds should never be Equal")
	}
}

func TestBlobSizeInvariant(t *testing.T) {
	v := NewBlob(make([]byte, 16))
	if v.Size() != 16 {
		t.Errorf("Size() = %d, want 16", v.Size())
	}
	empty := NewBlob(nil)
	if empty.Size() != 0 {
		t.Errorf("Size() = %d, want 0", empty.Size())
	}
}
