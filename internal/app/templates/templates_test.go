package templates

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseDefinesPages(t *testing.T) {
	tmpl, err := Parse()
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"student_form.html", "message.html"} {
		if tmpl.Lookup(name) == nil {
			t.Errorf("template %s not defined", name)
		}
	}
}

func TestErrorPageEscapesMessage(t *testing.T) {
	var buf bytes.Buffer
	err := Must().ExecuteTemplate(&buf, "message.html", map[string]interface{}{"Heading": "Error", "Message": "<b>boom</b>", "Error": true})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "&lt;b&gt;boom&lt;/b&gt;") {
		t.Fatalf("message not escaped: %s", buf.String())
	}
}
