package shortcode

import (
	"context"
	"reflect"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/vip-affiliates/internal/hooks"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	if err := r.Register("vip", func(ctx context.Context, call Call) (string, bool) {
		if call.Viewer.UserID != 1 {
			return "", false
		}
		return strings.ToUpper(call.Content), true
	}); err != nil {
		t.Fatalf("register vip failed: %v", err)
	}
	if err := r.Register("hello", func(ctx context.Context, call Call) (string, bool) {
		name := call.Attrs["name"]
		if name == "" {
			name = "world"
		}
		return "hello " + name, true
	}); err != nil {
		t.Fatalf("register hello failed: %v", err)
	}
	return r
}

func TestExpand(t *testing.T) {
	r := newTestRegistry(t)
	vip := hooks.Viewer{UserID: 1}
	guest := hooks.Viewer{}

	cases := []struct {
		name   string
		viewer hooks.Viewer
		in     string
		want   string
	}{
		{name: "enclosing visible", viewer: vip, in: "a [vip]secret[/vip] b", want: "a SECRET b"},
		{name: "enclosing hidden renders empty", viewer: guest, in: "a [vip]secret[/vip] b", want: "a  b"},
		{name: "false never renders literal", viewer: guest, in: "[vip]x[/vip]", want: ""},
		{name: "self closing with attrs", viewer: guest, in: `[hello name="vip team" /]`, want: "hello vip team"},
		{name: "self closing bare", viewer: guest, in: "[hello]!", want: "hello world!"},
		{name: "single quoted attr", viewer: guest, in: "[hello name='x']", want: "hello x"},
		{name: "unregistered untouched", viewer: vip, in: "[other]x[/other]", want: "[other]x[/other]"},
		{name: "escaped self closing", viewer: vip, in: "[[hello]]", want: "[hello]"},
		{name: "escaped enclosing", viewer: vip, in: "[[vip]x[/vip]]", want: "[vip]x[/vip]"},
		{name: "plain brackets", viewer: vip, in: "array[0] and [ ]", want: "array[0] and [ ]"},
		{name: "multiple", viewer: vip, in: "[vip]a[/vip]-[vip]b[/vip]", want: "A-B"},
		{name: "no shortcodes", viewer: vip, in: "plain text", want: "plain text"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := r.Expand(context.Background(), tc.viewer, tc.in)
			if got != tc.want {
				t.Fatalf("expand(%q) want %q got %q", tc.in, tc.want, got)
			}
		})
	}
}

func TestExpandPassesEnclosingFlag(t *testing.T) {
	r := NewRegistry()
	var calls []Call
	if err := r.Register("capture", func(ctx context.Context, call Call) (string, bool) {
		calls = append(calls, call)
		return "", true
	}); err != nil {
		t.Fatalf("register capture failed: %v", err)
	}

	r.Expand(context.Background(), hooks.Viewer{}, "[capture]body[/capture][capture /]")
	if len(calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(calls))
	}
	if !calls[0].Enclosing || calls[0].Content != "body" {
		t.Fatalf("unexpected enclosing call: %+v", calls[0])
	}
	if calls[1].Enclosing || calls[1].Content != "" {
		t.Fatalf("unexpected self closing call: %+v", calls[1])
	}
}

func TestRegisterRejectsInvalidTag(t *testing.T) {
	r := NewRegistry()
	noop := func(ctx context.Context, call Call) (string, bool) { return "", true }
	for _, tag := range []string{"", "has space", "a]b"} {
		if err := r.Register(tag, noop); err == nil {
			t.Fatalf("expected error for tag %q", tag)
		}
	}
	if err := r.Register("ok", nil); err == nil {
		t.Fatalf("expected error for nil handler")
	}
	if err := r.Register("affiliate-vip-content", noop); err != nil {
		t.Fatalf("register valid tag failed: %v", err)
	}
	if tags := r.Tags(); !reflect.DeepEqual(tags, []string{"affiliate-vip-content"}) {
		t.Fatalf("unexpected tags: %v", tags)
	}
	r.Unregister("affiliate-vip-content")
	if len(r.Tags()) != 0 {
		t.Fatalf("expected tag unregistered")
	}
}

func TestParseAttributes(t *testing.T) {
	got := parseAttributes(` Color="Red" size='2' bare=3 "pos one" flag `)
	want := map[string]string{
		"color": "Red",
		"size":  "2",
		"bare":  "3",
		"0":     "pos one",
		"1":     "flag",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("attrs want %v got %v", want, got)
	}
}

func TestExpandUnclosedRunStaysLinear(t *testing.T) {
	r := newTestRegistry(t)
	const n = 50000
	text := strings.Repeat("[vip]", n)

	start := time.Now()
	got := r.Expand(context.Background(), hooks.Viewer{UserID: 1}, text)
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Fatalf("expanding %d unclosed tags took %s", n, elapsed)
	}
	if got != "" {
		t.Fatalf("self-closing vip tags with no content should expand to empty, got %d bytes", len(got))
	}

	mixed := strings.Repeat("[vip]", n) + "tail[/vip]"
	if got := r.Expand(context.Background(), hooks.Viewer{UserID: 1}, mixed); got != strings.Repeat("[VIP]", n-1)+"TAIL" {
		t.Fatalf("first open tag should enclose up to the only close tag, got %d bytes", len(got))
	}
}

func TestCloseIndexFind(t *testing.T) {
	text := "a[/x]bb[/x]c"
	x := newCloseIndex(text)
	cases := []struct {
		from int
		want int
	}{
		{from: 0, want: 1},
		{from: 1, want: 1},
		{from: 2, want: 7},
		{from: 8, want: -1},
		{from: 12, want: -1},
		{from: 3, want: 7},
		{from: 0, want: 1},
	}
	for _, tc := range cases {
		if got := x.find("[/x]", tc.from); got != tc.want {
			t.Fatalf("find from %d want %d got %d", tc.from, tc.want, got)
		}
	}
}

func TestMemoScopedToExpansion(t *testing.T) {
	calls := 0
	compute := func() int {
		calls++
		return calls
	}
	if Memo(context.Background(), "k", compute) != 1 || Memo(context.Background(), "k", compute) != 2 {
		t.Fatalf("memo outside an expansion should compute every time")
	}

	r := NewRegistry()
	if err := r.Register("count", func(ctx context.Context, call Call) (string, bool) {
		return strconv.Itoa(Memo(ctx, "k", compute)), true
	}); err != nil {
		t.Fatalf("register count failed: %v", err)
	}
	if got := r.Expand(context.Background(), hooks.Viewer{}, "[count][count][count]"); got != "333" {
		t.Fatalf("memo should hold within one expansion, got %q", got)
	}
	if got := r.Expand(context.Background(), hooks.Viewer{}, "[count]"); got != "4" {
		t.Fatalf("a new expansion should recompute, got %q", got)
	}
}
