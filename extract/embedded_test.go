package extract

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestEmbeddedFastPath(t *testing.T) {
	literal := `{"contents":{"items":[1,2,3]},"title":"hello"}`
	html := `<html><script>var ytInitialData = ` + literal + `;</script></html>`

	got, ok := Embedded(html, "ytInitialData")
	if !ok {
		t.Fatalf("expected structure to be found")
	}
	assertSameAsDirectParse(t, got, literal)
}

func TestEmbeddedBracketAssignment(t *testing.T) {
	literal := `{"videoDetails":{"videoId":"abc"}}`
	html := `<script>window["ytInitialPlayerResponse"] = ` + literal + `;</script>`

	got, ok := Embedded(html, "ytInitialPlayerResponse")
	if !ok {
		t.Fatalf("expected structure to be found")
	}
	if id := got.Get("videoDetails", "videoId").String(""); id != "abc" {
		t.Fatalf("videoId = %q, want abc", id)
	}
}

func TestEmbeddedBraceInsideString(t *testing.T) {
	got, ok := Embedded(`var X = {"a":"text with } brace"};`, "X")
	if !ok {
		t.Fatalf("expected structure to be found")
	}
	if a := got.Get("a").String(""); a != "text with } brace" {
		t.Fatalf("a = %q, want %q", a, "text with } brace")
	}
}

func TestEmbeddedScanFallback(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		varName string
		literal string
	}{
		{
			// The non-greedy fast path stops at the first "};" inside the string.
			name:    "terminator inside string",
			text:    `var X = {"a":"x};y","b":{"c":1}}; var Y = 2;`,
			varName: "X",
			literal: `{"a":"x};y","b":{"c":1}}`,
		},
		{
			name:    "escaped quote before brace",
			text:    `var X = {"a":"say \"}\" now};","b":[{"c":"{"}]}; trailing();`,
			varName: "X",
			literal: `{"a":"say \"}\" now};","b":[{"c":"{"}]}`,
		},
		{
			name:    "escaped backslash ends string",
			text:    `var X = {"a":"dir\\","b":"};"}; next();`,
			varName: "X",
			literal: `{"a":"dir\\","b":"};"}`,
		},
		{
			name:    "no semicolon terminator",
			text:    `<script>X = {"a":{"b":{"c":"}}}"}}}</script><div>{}</div>`,
			varName: "X",
			literal: `{"a":{"b":{"c":"}}}"}}}`,
		},
		{
			name:    "unbalanced open brace in string",
			text:    `foo(); ytInitialData = {"a":"{{{","b":2}; bar({});`,
			varName: "ytInitialData",
			literal: `{"a":"{{{","b":2}`,
		},
		{
			name:    "object surrounded by other statements",
			text:    `if (a) { b(); } var ytInitialData = {"k":[{"x":"}"},{"y":"{"}]}; window.z = {"q":1};`,
			varName: "ytInitialData",
			literal: `{"k":[{"x":"}"},{"y":"{"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Embedded(tt.text, tt.varName)
			if !ok {
				t.Fatalf("expected structure to be found in %q", tt.text)
			}
			assertSameAsDirectParse(t, got, tt.literal)
		})
	}
}

func TestEmbeddedNotFound(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "variable absent", text: `var other = {"a":1};`},
		{name: "no object after name", text: `var X = 5;`},
		{name: "unterminated object", text: `var X = {"a":{"b":1};`},
		{name: "unterminated string", text: `var X = {"a":"never closed};`},
		{name: "invalid json", text: `var X = {a: 1};`},
		{name: "empty text", text: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if v, ok := Embedded(tt.text, "X"); ok {
				t.Fatalf("expected not found, got kind %s", v.Kind())
			}
		})
	}

	if _, ok := Embedded(`var X = {"a":1};`, ""); ok {
		t.Fatalf("empty name should not match")
	}
}

func TestObjectEnd(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantEnd int
		wantOK  bool
	}{
		{name: "flat", text: `{}`, wantEnd: 1, wantOK: true},
		{name: "nested", text: `{{}{}}tail`, wantEnd: 5, wantOK: true},
		{name: "double quoted brace", text: `{"}"}`, wantEnd: 4, wantOK: true},
		{name: "single quoted brace", text: `{'}'}`, wantEnd: 4, wantOK: true},
		{name: "escaped quote", text: `{"\"}"}`, wantEnd: 6, wantOK: true},
		{name: "mixed quotes", text: `{"it's }"}`, wantEnd: 9, wantOK: true},
		{name: "unbalanced", text: `{{}`, wantOK: false},
		{name: "open string", text: `{"}`, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			end, ok := objectEnd(tt.text, 0)
			if ok != tt.wantOK {
				t.Fatalf("objectEnd(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if ok && end != tt.wantEnd {
				t.Fatalf("objectEnd(%q) = %d, want %d", tt.text, end, tt.wantEnd)
			}
		})
	}
}

func TestFromHTMLPrefersScriptElements(t *testing.T) {
	html := `<html><head><title>ytInitialData {broken</title></head><body>
<script>ytInitialData = {"contents":{"ok":true}}</script>
</body></html>`

	got, ok := FromHTML(html, "ytInitialData")
	if !ok {
		t.Fatalf("expected structure to be found")
	}
	if !got.Get("contents", "ok").Bool(false) {
		t.Fatalf("expected contents.ok = true")
	}

	if _, ok := Embedded(html, "ytInitialData"); ok {
		t.Fatalf("whole-text scan should be fooled by the title, which is why scripts go first")
	}
}

func TestFromHTMLFallsBackToWholeText(t *testing.T) {
	got, ok := FromHTML(`ytInitialData = {"a":"b"}`, "ytInitialData")
	if !ok || got.Get("a").String("") != "b" {
		t.Fatalf("expected whole-text fallback to find the object")
	}
}

func assertSameAsDirectParse(t *testing.T, got Value, literal string) {
	t.Helper()
	var want any
	dec := json.NewDecoder(strings.NewReader(literal))
	dec.UseNumber()
	if err := dec.Decode(&want); err != nil {
		t.Fatalf("direct parse of %q: %v", literal, err)
	}
	if !reflect.DeepEqual(got.raw, want) {
		t.Fatalf("extracted %#v, want %#v", got.raw, want)
	}
}
