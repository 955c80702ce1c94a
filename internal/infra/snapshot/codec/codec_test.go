package codec

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"roster/pkg/domain"
)

var sample = []domain.Person{{Name: "Alice", Age: 30}, {Name: "Bob", Age: 25}}

func TestJSONLayout(t *testing.T) {
	data, err := Encode(FormatJSON, sample)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := "[\n  {\n    \"name\": \"Alice\",\n    \"age\": 30\n  },\n  {\n    \"name\": \"Bob\",\n    \"age\": 25\n  }\n]\n"
	if string(data) != want {
		t.Fatalf("unexpected layout:\n%s", data)
	}
	empty, _ := Encode(FormatJSON, nil)
	if strings.TrimSpace(string(empty)) != "[]" {
		t.Fatalf("nil roster must encode as [], got %q", empty)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			data, err := Encode(format, sample)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			got, err := Decode(format, data)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !reflect.DeepEqual(got, sample) {
				t.Fatalf("got %+v, want %+v", got, sample)
			}
		})
	}
}

func TestDecodeAcceptsPascalCaseKeys(t *testing.T) {
	got, err := Decode(FormatJSON, []byte(`[{"Name":"Alice","Age":30}]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0] != (domain.Person{Name: "Alice", Age: 30}) {
		t.Fatalf("unexpected people: %+v", got)
	}
}

func TestDecodeEmptyPayloads(t *testing.T) {
	for _, in := range []string{"", "  \n", "null", "[]"} {
		got, err := Decode(FormatJSON, []byte(in))
		if err != nil || got == nil || len(got) != 0 {
			t.Fatalf("%q: expected empty roster, got %+v %v", in, got, err)
		}
	}
}

func TestDecodeCorrupt(t *testing.T) {
	cases := []struct {
		format Format
		data   string
	}{
		{FormatJSON, `{"name":"Alice"`},
		{FormatJSON, `[{"name":"Alice","age":"thirty"}]`},
		{FormatJSON, `[{"name":"","age":3}]`},
		{FormatJSON, `[{"name":"Alice","age":0}]`},
		{FormatYAML, "- name: Alice\n  age: [1\n"},
		{FormatYAML, "- name: Bob\n  age: -4\n"},
	}
	for _, tc := range cases {
		if _, err := Decode(tc.format, []byte(tc.data)); !errors.Is(err, domain.ErrCorruptSnapshot) {
			t.Fatalf("%s %q: expected corrupt snapshot, got %v", tc.format, tc.data, err)
		}
	}
}

func TestFormatForPath(t *testing.T) {
	cases := map[string]Format{
		"people.json":     FormatJSON,
		"people":          FormatJSON,
		"data/people.YML": FormatYAML,
		"people.yaml":     FormatYAML,
	}
	for path, want := range cases {
		if got := FormatForPath(path); got != want {
			t.Fatalf("%s: got %s want %s", path, got, want)
		}
	}
	if FormatYAML.ContentType() != "application/yaml" || FormatJSON.ContentType() != "application/json" {
		t.Fatalf("unexpected content types")
	}
	if _, err := Encode("xml", sample); err == nil {
		t.Fatalf("expected unknown format error")
	}
	if _, err := Decode("xml", []byte("x")); err == nil {
		t.Fatalf("expected unknown format error")
	}
}
