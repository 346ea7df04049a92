package aggregate

import (
	"testing"

	"csize/internal/arch"
)

func resolver64() *arch.Resolver {
	return arch.New(arch.Config{Mode: arch.ModeX64})
}

func totalSize(t *testing.T, types *DocumentTypes, name string) int {
	t.Helper()
	info, ok := types.LookupAggregate(name)
	if !ok {
		t.Fatalf("expected a sized record for %s", name)
	}
	return info.TotalSize
}

func TestStructPadding(t *testing.T) {
	src := `
struct Sample {
    char flag;
    int count;
    char tail;
};
`
	types := Scan(src, resolver64())
	// 1 + 3 pad + 4 + 1 + 3 tail pad
	if got := totalSize(t, types, "Sample"); got != 12 {
		t.Fatalf("expected 12, got %d", got)
	}
}

func TestUnionTakesWidestMember(t *testing.T) {
	src := `
union Value {
    char tag;
    double num;
    int word;
};
`
	types := Scan(src, resolver64())
	if got := totalSize(t, types, "Value"); got != 8 {
		t.Fatalf("expected 8, got %d", got)
	}
}

func TestPointerAndArrayMembers(t *testing.T) {
	src := `
struct Buffer {
    char data[16];
    unsigned char *ptr;
    int counts[2][4];
};
`
	types := Scan(src, resolver64())
	// 16 + 8 + 32
	if got := totalSize(t, types, "Buffer"); got != 56 {
		t.Fatalf("expected 56, got %d", got)
	}
}

func TestNestedAggregateMember(t *testing.T) {
	src := `
struct Vec3 {
    float x;
    float y;
    float z;
};

struct Ray {
    struct Vec3 origin;
    struct Vec3 dir;
    double tMax;
};
`
	types := Scan(src, resolver64())
	if got := totalSize(t, types, "Vec3"); got != 12 {
		t.Fatalf("Vec3: expected 12, got %d", got)
	}
	// 12 + 12 = 24, round to double alignment, + 8
	if got := totalSize(t, types, "Ray"); got != 32 {
		t.Fatalf("Ray: expected 32, got %d", got)
	}
}

func TestTypedefForms(t *testing.T) {
	src := `
typedef struct {
    short a;
    short b;
} Pair;

typedef unsigned long word_t;
typedef struct Missing handle_t;
`
	types := Scan(src, resolver64())
	if got := totalSize(t, types, "Pair"); got != 4 {
		t.Fatalf("Pair: expected 4, got %d", got)
	}
	if got := totalSize(t, types, "word_t"); got != 8 {
		t.Fatalf("word_t: expected 8, got %d", got)
	}
	if _, ok := types.LookupAggregate("handle_t"); ok {
		t.Fatal("typedef of an unknown tag must stay name-only")
	}
	known := types.Names()
	for _, name := range []string{"Pair", "word_t", "handle_t"} {
		if _, ok := known[name]; !ok {
			t.Errorf("known set missing %s", name)
		}
	}
}

func TestUnknownMemberDegradesToNameOnly(t *testing.T) {
	src := `
struct Opaque {
    SomethingElse inner;
};
`
	types := Scan(src, resolver64())
	if _, ok := types.LookupAggregate("Opaque"); ok {
		t.Fatal("unresolvable member must leave the aggregate name-only")
	}
	if _, ok := types.Names()["Opaque"]; !ok {
		t.Fatal("name-only aggregate must still be a known name")
	}
}

func TestBitnessChangesLayout(t *testing.T) {
	src := `
struct Row {
    long id;
    char tag;
};
`
	types32 := Scan(src, arch.New(arch.Config{Mode: arch.ModeX32}))
	types64 := Scan(src, resolver64())
	if got := totalSize(t, types32, "Row"); got != 8 {
		t.Fatalf("x32: expected 8, got %d", got)
	}
	if got := totalSize(t, types64, "Row"); got != 16 {
		t.Fatalf("x64: expected 16, got %d", got)
	}
}

func TestCommentsIgnored(t *testing.T) {
	src := `
// struct Fake { int nope; };
struct Real {
    int a; /* trailing comment */
    /* char commentedOut; */
};
`
	types := Scan(src, resolver64())
	if _, ok := types.Names()["Fake"]; ok {
		t.Fatal("commented-out definitions must be ignored")
	}
	if got := totalSize(t, types, "Real"); got != 4 {
		t.Fatalf("Real: expected 4, got %d", got)
	}
}

func TestCacheInvalidation(t *testing.T) {
	cache := NewCache()
	r := resolver64()
	first := cache.Get("doc.c", "struct A { int x; };", r)
	again := cache.Get("doc.c", "struct A { int x; };", r)
	if first != again {
		t.Fatal("unchanged content must reuse the cached result")
	}
	changed := cache.Get("doc.c", "struct A { long x; };", r)
	if changed == first {
		t.Fatal("changed content must rescan")
	}
	cache.InvalidateAll()
	fresh := cache.Get("doc.c", "struct A { long x; };", r)
	if fresh == changed {
		t.Fatal("invalidation must drop cached results")
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	src := "struct Pt { int x; int y; };"
	types := Scan(src, resolver64())
	key := ContentKey([]byte(src))
	if err := cache.Put(key, types, true); err != nil {
		t.Fatal(err)
	}
	loaded, ok, err := cache.Get(key, true)
	if err != nil || !ok {
		t.Fatalf("expected a hit: ok=%v err=%v", ok, err)
	}
	if got := totalSize(t, loaded, "Pt"); got != 8 {
		t.Fatalf("expected 8, got %d", got)
	}
	if _, ok, _ := cache.Get(key, false); ok {
		t.Fatal("bitness mismatch must miss")
	}
	if _, ok, _ := cache.Get(ContentKey([]byte("other")), true); ok {
		t.Fatal("unknown key must miss")
	}
}

func TestMalformedTypedefInputs(t *testing.T) {
	// Degenerate sources must never panic; a typedef with no usable
	// base is simply dropped or left name-only.
	sources := []string{
		"typedef   x;",
		"typedef /* int */ v;",
		"typedef ;",
		"typedef\tname_t;",
		"struct Ok { int a; }; typedef   y;",
	}
	for _, src := range sources {
		types := Scan(src, resolver64())
		if _, ok := types.LookupAggregate("x"); ok {
			t.Fatalf("%q: baseless typedef must not be sized", src)
		}
		if _, ok := types.LookupAggregate("y"); ok {
			t.Fatalf("%q: baseless typedef must not be sized", src)
		}
	}
	types := Scan(sources[4], resolver64())
	if got := totalSize(t, types, "Ok"); got != 4 {
		t.Fatalf("surrounding aggregate must still resolve, got %d", got)
	}
}

func TestArrayProductOverflowDegradesToNameOnly(t *testing.T) {
	src := `
struct Huge {
    char a[268435455][268435455][268435455];
};
`
	types := Scan(src, resolver64())
	if _, ok := types.LookupAggregate("Huge"); ok {
		t.Fatal("overflowing array product must leave the aggregate name-only")
	}
	if _, ok := types.Names()["Huge"]; !ok {
		t.Fatal("name-only aggregate must still be a known name")
	}
}
