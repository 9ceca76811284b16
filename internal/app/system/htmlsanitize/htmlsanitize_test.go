package htmlsanitize_test

import (
	"html/template"
	"strings"
	"testing"

	"github.com/dalemusser/campushub/internal/app/system/htmlsanitize"
)

func TestSanitize_KeepsExactly(t *testing.T) {
	cases := []string{
		"",
		"Unit 3 covers normalization.",
		"<p><strong>Important</strong> for <em>midsems</em></p>",
		"<ul><li>Unit 1</li><li>Unit 2</li></ul>",
		"<ol><li>First</li><li>Second</li></ol>",
		"<h2>Syllabus</h2><h3>Module A</h3>",
		"<pre><code>SELECT * FROM t;</code></pre>",
		"<blockquote>Repeated question</blockquote>",
		"<u>u</u> <s>s</s> <sub>2</sub> <sup>3</sup> <mark>m</mark>",
		"<table><thead><tr><th>Year</th></tr></thead><tbody><tr><td>2023</td></tr></tbody></table>",
	}
	for _, in := range cases {
		if got := htmlsanitize.Sanitize(in); got != in {
			t.Errorf("Sanitize(%q) = %q", in, got)
		}
	}
}

func TestSanitize_Strips(t *testing.T) {
	cases := []struct {
		in, mustNotContain string
	}{
		{"<p>Hi</p><script>alert(1)</script>", "<script"},
		{`<button onclick="alert(1)">x</button>`, "onclick"},
		{`<a href="javascript:alert(1)">x</a>`, "javascript:"},
		{`<img src="x" onerror="alert(1)">`, "onerror"},
		{`<img src="data:text/html,<script>alert(1)</script>">`, "data:text/html"},
		{`<p>ok</p><iframe src="https://evil.example"></iframe>`, "iframe"},
		{`<style>p{color:red}</style><p>ok</p>`, "<style"},
		{`<form action="/x"><input name="a"></form>`, "<input"},
	}
	for _, tc := range cases {
		if got := htmlsanitize.Sanitize(tc.in); strings.Contains(got, tc.mustNotContain) {
			t.Errorf("Sanitize(%q) = %q, still contains %q", tc.in, got, tc.mustNotContain)
		}
	}
}

func TestSanitize_TableAttributes(t *testing.T) {
	got := htmlsanitize.Sanitize(`<table class="grid" style="width:100%"><tr><td colspan="2" style="text-align:center">x</td></tr></table>`)
	for _, want := range []string{`class="grid"`, `colspan="2"`, "style="} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %s preserved, got %q", want, got)
		}
	}
}

func TestSanitize_SafeLinkAndImage(t *testing.T) {
	got := htmlsanitize.Sanitize(`<a href="https://cdn.example.com/a.pdf">PDF</a><img src="https://cdn.example.com/t.png" alt="thumb">`)
	if !strings.Contains(got, "https://cdn.example.com/a.pdf") || !strings.Contains(got, `alt="thumb"`) {
		t.Errorf("safe link/image lost: %q", got)
	}
}

func TestIsPlainText(t *testing.T) {
	cases := map[string]bool{
		"":            true,
		"plain":       true,
		"5 < 10":      true,
		"5 > 3":       true,
		"<p>html</p>": false,
	}
	for in, want := range cases {
		if got := htmlsanitize.IsPlainText(in); got != want {
			t.Errorf("IsPlainText(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestPlainTextToHTML(t *testing.T) {
	cases := map[string]string{
		"":              "",
		"Hello":         "<p>Hello</p>",
		"a\nb\r\nc":     "<p>a<br>b<br>c</p>",
		"A & B":         "<p>A &amp; B</p>",
		"<b>not</b> it": "<p>&lt;b&gt;not&lt;/b&gt; it</p>",
	}
	for in, want := range cases {
		if got := htmlsanitize.PlainTextToHTML(in); got != want {
			t.Errorf("PlainTextToHTML(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPrepareForDisplay(t *testing.T) {
	cases := map[string]template.HTML{
		"":                                   "",
		"Line 1\nLine 2":                     "<p>Line 1<br>Line 2</p>",
		"<p>Hi</p>":                          "<p>Hi</p>",
		"<p>Hi</p><script>alert(1)</script>": "<p>Hi</p>",
	}
	for in, want := range cases {
		if got := htmlsanitize.PrepareForDisplay(in); got != want {
			t.Errorf("PrepareForDisplay(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMarkdown(t *testing.T) {
	if got := htmlsanitize.Markdown("   "); got != "" {
		t.Errorf("blank markdown = %q", got)
	}

	got := string(htmlsanitize.Markdown("# DBMS\n\n**Unit 1** notes\n\n<script>alert(1)</script>"))
	if !strings.Contains(got, "<h1") || !strings.Contains(got, "<strong>Unit 1</strong>") {
		t.Errorf("markdown not rendered: %q", got)
	}
	if strings.Contains(got, "<script") {
		t.Errorf("script survived: %q", got)
	}

	got = string(htmlsanitize.Markdown("[x](javascript:alert(1))"))
	if strings.Contains(got, "javascript:") {
		t.Errorf("javascript link survived: %q", got)
	}
}

func TestExcerpt(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"", 10, ""},
		{"short", 10, "short"},
		{"<p>Unit <b>one</b></p>\n\n<p>and two</p>", 50, "Unit one and two"},
		{"Normalization and joins", 13, "Normalization…"},
		{"Tom &amp; Jerry", 20, "Tom & Jerry"},
		{"नमस्ते दुनिया", 6, "नमस्ते…"},
	}
	for _, tc := range cases {
		if got := htmlsanitize.Excerpt(tc.in, tc.n); got != tc.want {
			t.Errorf("Excerpt(%q, %d) = %q, want %q", tc.in, tc.n, got, tc.want)
		}
	}
}
