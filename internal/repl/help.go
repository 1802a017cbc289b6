package repl

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/cwbudde/algo-livecode/dsp/unit"
)

const helpText = `# livecode

Statements end with ` + "`;`" + `. Input stays open while brackets are unbalanced.

| form | meaning |
|------|---------|
| ` + "`let x = expr;`" + ` | bind x, replacing any previous value |
| ` + "`x = expr;`" + ` | rebind x within its current kind |
| ` + "`a[i] = expr;`" + ` | set one array element |
| ` + "`for i in 0..n { }`" + ` | loop; ` + "`break`" + ` and ` + "`continue`" + ` work |
| ` + "`if cond { } else { }`" + ` | branch on a boolean |

Graph operators: ` + "`>>`" + ` series, ` + "`|`" + ` stack, ` + "`&`" + ` bus, ` + "`^`" + ` branch,
` + "`+ - *`" + ` mix, ` + "`!`" + ` thru, ` + "`feedback(g)`" + `.

Play a graph with ` + "`g.play();`" + ` or ` + "`slot.set(Fade::Smooth, 0.5, g);`" + `,
silence it with ` + "`slot.stop(1);`" + `.

## Commands

- ` + "`:help`" + ` this text
- ` + "`:env [name|kind]`" + ` list bindings
- ` + "`:sliders`" + ` list sliders
- ` + "`:stats`" + ` statement counters
- ` + "`:quit`" + ` leave
`

// Help returns the help page as markdown. With a registry, every
// constructor is listed with its usage.
func Help(reg *unit.Registry) string {
	if reg == nil {
		return helpText
	}

	var b strings.Builder
	b.WriteString(helpText)
	b.WriteString("\n## Units\n\n")
	for _, name := range reg.Names() {
		spec, _ := reg.Lookup(name)
		fmt.Fprintf(&b, "- `%s`\n", spec.Usage)
	}
	return b.String()
}

// Renderer returns a function rendering markdown for the terminal. When
// styled is false the markdown is returned as is.
func Renderer(styled bool) func(string) (string, error) {
	if !styled {
		return func(md string) (string, error) { return md, nil }
	}

	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return func(md string) (string, error) { return md, err }
	}
	return r.Render
}
