package licenses

import (
	"fmt"
	"strings"
)

type notice struct {
	Module  string
	License string
}

var notices = []notice{
	{"fyne.io/fyne/v2", "BSD-3-Clause"},
	{"github.com/google/generative-ai-go", "Apache-2.0"},
	{"github.com/google/uuid", "BSD-3-Clause"},
	{"github.com/rivo/uniseg", "MIT"},
	{"github.com/spf13/cobra", "Apache-2.0"},
	{"github.com/spf13/pflag", "BSD-3-Clause"},
	{"github.com/zalando/go-keyring", "MIT"},
	{"golang.org/x/term", "BSD-3-Clause"},
	{"google.golang.org/api", "BSD-3-Clause"},
}

// NoticesText returns a plain-text summary of third-party modules and their
// licenses for the `licenses` subcommand.
func NoticesText() string {
	var b strings.Builder
	b.WriteString("veogallery bundles the following third-party modules:\n\n")
	for _, n := range notices {
		fmt.Fprintf(&b, "  %-40s %s\n", n.Module, n.License)
	}
	b.WriteString("\nSee each module's repository for the full license text.\n")
	return b.String()
}
