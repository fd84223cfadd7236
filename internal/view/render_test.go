package view

import "testing"

func TestRenderEscapesTextAndAttributes(t *testing.T) {
	node := El("div", Attrs("class", "hero", "data-title", `"quoted"`),
		El("h1", nil, Text("<script>alert(1)</script>")),
		Fragment(Text("a"), Text("b")),
	)

	got, err := RenderString(node)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<div class="hero" data-title="&#34;quoted&#34;"><h1>&lt;script&gt;alert(1)&lt;/script&gt;</h1>ab</div>`
	if got != want {
		t.Fatalf("unexpected html\nwant %s\ngot  %s", want, got)
	}
}

func TestRenderRawMarkup(t *testing.T) {
	got, err := RenderString(El("div", nil, Raw("<p>Hello <strong>world</strong></p>")))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "<div><p>Hello <strong>world</strong></p></div>" {
		t.Fatalf("unexpected html %s", got)
	}
}

func TestFindHelpers(t *testing.T) {
	tree := El("section", Attrs("class", "widget widget--menu"),
		El("button", Attrs("data-action", "collection_add")),
		El("button", Attrs("data-action", "collection_remove", "data-item-id", "x")),
	)
	if !tree.HasClass("widget--menu") {
		t.Fatalf("expected class match")
	}
	if got := tree.FindAttr("data-action", "collection_remove"); len(got) != 1 {
		t.Fatalf("expected one remove control, got %d", len(got))
	}
	updated := tree.WithAttr("data-widget-id", "w1")
	if _, ok := tree.Attr("data-widget-id"); ok {
		t.Fatalf("expected original node untouched")
	}
	if v, _ := updated.Attr("data-widget-id"); v != "w1" {
		t.Fatalf("expected attribute set, got %q", v)
	}
}
