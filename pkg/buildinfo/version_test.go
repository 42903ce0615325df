package buildinfo

import (
	"strings"
	"testing"
)

func TestCurrent(t *testing.T) {
	got := Current()
	if got.Version != Version || got.Commit != Commit || got.Date != Date {
		t.Errorf("Current() = %+v, want the package variables", got)
	}
}

func TestTemplate(t *testing.T) {
	tmpl := Template()
	if !strings.HasPrefix(tmpl, "{{.Name}} version "+Version) {
		t.Errorf("Template() = %q", tmpl)
	}
	if !strings.Contains(String(), "commit: "+Commit) {
		t.Errorf("String() = %q", String())
	}
}
