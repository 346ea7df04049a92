package arch

import "testing"

func TestSizeMultipleOfAlignment(t *testing.T) {
	for name, e := range builtinTable {
		if e.Align32 <= 0 || e.Align64 <= 0 {
			t.Errorf("%s: non-positive alignment", name)
			continue
		}
		if e.Size32%e.Align32 != 0 {
			t.Errorf("%s: size32 %d not a multiple of align32 %d", name, e.Size32, e.Align32)
		}
		if e.Size64%e.Align64 != 0 {
			t.Errorf("%s: size64 %d not a multiple of align64 %d", name, e.Size64, e.Align64)
		}
	}
}

func TestPlatformVariance(t *testing.T) {
	r32 := New(Config{Mode: ModeX32})
	r64 := New(Config{Mode: ModeX64})

	if size, _ := r32.SizeOf("long"); size != 4 {
		t.Errorf("long on x32: expected 4, got %d", size)
	}
	if size, _ := r64.SizeOf("long"); size != 8 {
		t.Errorf("long on x64: expected 8, got %d", size)
	}
	for _, r := range []*Resolver{r32, r64} {
		if size, _ := r.SizeOf("long long"); size != 8 {
			t.Errorf("long long: expected 8 on both widths, got %d", size)
		}
	}
	if size, _ := r32.SizeOf("size_t"); size != 4 {
		t.Errorf("size_t on x32: expected 4, got %d", size)
	}
	if size, _ := r64.SizeOf("size_t"); size != 8 {
		t.Errorf("size_t on x64: expected 8, got %d", size)
	}
}

func TestSpecifierOrderings(t *testing.T) {
	r := New(Config{Mode: ModeX64})
	equivalent := [][]string{
		{"long long", "long long int", "signed long long", "signed long long int"},
		{"short", "short int", "signed short", "signed short int"},
		{"int", "signed", "signed int"},
		{"unsigned", "unsigned int"},
	}
	for _, group := range equivalent {
		first, ok := r.Lookup(group[0])
		if !ok {
			t.Fatalf("missing table entry %q", group[0])
		}
		for _, name := range group[1:] {
			e, ok := r.Lookup(name)
			if !ok {
				t.Errorf("missing table entry %q", name)
				continue
			}
			if e != first {
				t.Errorf("%q and %q disagree: %+v vs %+v", group[0], name, first, e)
			}
		}
	}
}

func TestLookupNormalization(t *testing.T) {
	r := New(DefaultConfig())
	e, ok := r.Lookup("  Unsigned   Long\tLong ")
	if !ok {
		t.Fatal("normalized lookup should hit")
	}
	if e.Size64 != 8 {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if _, ok := r.Lookup("Foo"); ok {
		t.Fatal("unknown name must miss")
	}
	if _, ok := r.SizeOf("Foo"); ok {
		t.Fatal("SizeOf of unknown name must miss")
	}
	if _, ok := r.AlignOf("Foo"); ok {
		t.Fatal("AlignOf of unknown name must miss")
	}
}

func TestAlignmentMayBeBelowSize(t *testing.T) {
	r32 := New(Config{Mode: ModeX32})
	size, _ := r32.SizeOf("long double")
	align, _ := r32.AlignOf("long double")
	if size != 12 || align != 4 {
		t.Fatalf("long double on x32: expected 12/4, got %d/%d", size, align)
	}
}
