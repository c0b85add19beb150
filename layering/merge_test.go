package layering

import (
	"reflect"
	"testing"
)

type theme struct {
	Accent  *string
	Spacing int
	Fonts   map[string]string
	Labels  []string
	Extra   any
}

func strPtr(v string) *string {
	return &v
}

func TestMergeInnerValuesWin(t *testing.T) {
	outer := theme{
		Accent:  strPtr("blue"),
		Spacing: 4,
		Fonts:   map[string]string{"body": "serif", "code": "mono"},
		Labels:  []string{"outer"},
		Extra:   map[string]any{"a": 1, "nested": map[string]any{"x": 1}},
	}
	inner := theme{
		Spacing: 8,
		Fonts:   map[string]string{"body": "sans"},
		Extra:   map[string]any{"nested": map[string]any{"y": 2}},
	}

	got := Merge(outer, inner)

	want := theme{
		Accent:  strPtr("blue"),
		Spacing: 8,
		Fonts:   map[string]string{"body": "sans", "code": "mono"},
		Labels:  []string{"outer"},
		Extra:   map[string]any{"a": 1, "nested": map[string]any{"x": 1, "y": 2}},
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("merged mismatch:\nwant: %#v\n got: %#v", want, got)
	}
}

func TestMergeDoesNotAliasInputs(t *testing.T) {
	outer := theme{Accent: strPtr("blue"), Fonts: map[string]string{"body": "serif"}, Labels: []string{"a"}}

	got := Merge(outer, theme{})
	*got.Accent = "red"
	got.Fonts["body"] = "changed"
	got.Labels[0] = "changed"

	if *outer.Accent != "blue" || outer.Fonts["body"] != "serif" || outer.Labels[0] != "a" {
		t.Fatalf("expected inputs untouched, got %#v", outer)
	}
}

func TestMergeLayersIsStrongestFirst(t *testing.T) {
	strong := map[string]any{"mode": "dark"}
	weak := map[string]any{"mode": "light", "size": 12}

	got := MergeLayers(strong, weak)

	want := map[string]any{"mode": "dark", "size": 12}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("merged mismatch:\nwant: %#v\n got: %#v", want, got)
	}
}

func TestMergeScalarsAndEmpty(t *testing.T) {
	if got := Merge[int](); got != 0 {
		t.Fatalf("expected zero for no input, got %d", got)
	}
	if got := Merge(1, 5, 3); got != 3 {
		t.Fatalf("expected innermost scalar, got %d", got)
	}
	if got := Merge[any](nil, "x"); got != "x" {
		t.Fatalf("expected interface value, got %#v", got)
	}
}

func TestMergeMismatchedDynamicTypes(t *testing.T) {
	got := Merge[any](map[string]any{"a": 1}, "flat")
	if got != "flat" {
		t.Fatalf("expected inner value to replace mismatched type, got %#v", got)
	}
}

type font struct {
	Family string
	Size   *int
	Tags   []string
	Attrs  map[string]string
	Extra  any
}

type panel struct {
	Title string
	Font  *font
}

func TestMergeNilFieldsWithoutBase(t *testing.T) {
	cases := []struct {
		name string
		got  func() any
		want any
	}{
		{
			name: "nested pointer under zero outer",
			got: func() any {
				return Merge(panel{}, panel{Font: &font{Family: "serif"}})
			},
			want: panel{Font: &font{Family: "serif"}},
		},
		{
			name: "nil outer pointer",
			got: func() any {
				return Merge[*font](nil, &font{Family: "mono"})
			},
			want: &font{Family: "mono"},
		},
		{
			name: "nil map entries",
			got: func() any {
				return Merge[any](nil, map[string]any{"a": nil, "b": 1})
			},
			want: map[string]any{"a": nil, "b": 1},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.got()
			if !reflect.DeepEqual(tc.want, got) {
				t.Fatalf("merged mismatch:\nwant: %#v\n got: %#v", tc.want, got)
			}
		})
	}
}

func TestMergeNilOverrideKeepsBase(t *testing.T) {
	size := 12
	outer := panel{Font: &font{Family: "serif", Size: &size, Tags: []string{"body"}}}
	inner := panel{Title: "Docs", Font: &font{Family: "sans"}}

	got := Merge(outer, inner)

	if got.Title != "Docs" || got.Font.Family != "sans" {
		t.Fatalf("expected inner values to win, got %#v", got)
	}
	if got.Font.Size == nil || *got.Font.Size != 12 || !reflect.DeepEqual([]string{"body"}, got.Font.Tags) {
		t.Fatalf("expected nil inner fields to fall through, got %#v", got.Font)
	}
	if got.Font.Size == outer.Font.Size {
		t.Fatalf("expected merged pointer not to alias input")
	}
}
