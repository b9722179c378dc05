package ninjawriter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinkFlags(t *testing.T) {
	flags := LinkFlags([]string{"m", "c"}, []string{"/usr/local/lib"})
	assert.Equal(t, []string{"-lm", "-lc", "-L/usr/local/lib"}, flags)
}

func TestGenerateContainsRulesAndEdges(t *testing.T) {
	ninja := Generate(
		[]Artifact{{ILName: "hello_world.il"}},
		"a.out",
		Options{QBEPath: "/opt/qbe/qbe", CCPath: "/usr/bin/cc", LinkFlags: []string{"-lm"}},
	)

	for _, want := range []string{
		"qbe = /opt/qbe/qbe",
		"cc = /usr/bin/cc",
		"link_flags = -lm",
		"rule qbe",
		"rule cc",
		"rule link",
		"build hello_world.s: qbe hello_world.il",
		"build hello_world.o: cc hello_world.s",
		"build a.out: link hello_world.o",
		"default a.out",
	} {
		if !strings.Contains(ninja, want) {
			t.Errorf("generated ninja file missing %q:\n%s", want, ninja)
		}
	}
}
