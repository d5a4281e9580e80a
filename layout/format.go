package layout

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// String renders the layout as a table, one row per field.
func (l *Layout) String() string {
	var b strings.Builder
	name := l.Name()
	if name == "" {
		name = "<anonymous>"
	}
	fmt.Fprintf(&b, "%s: storage %s, %d bits used\n", name, l.Storage(), l.TotalWidth())

	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  field\twidth\toffset\tbits\tmask\treturns")
	for _, f := range l.fields {
		fmt.Fprintf(tw, "  %s\t%d\t%d\t[%d,%d)\t%#x\t%s\n",
			f.Name, f.Width, f.Offset, f.Offset, f.Offset+f.Width, f.Mask.Big(), f.ReturnWidth.GoType())
	}
	tw.Flush()
	return b.String()
}

// Diagram draws storage from the most significant bit down, one symbol per
// bit: a letter per field in declaration order and '.' for unused bits.
func (l *Layout) Diagram() string {
	var strip strings.Builder
	var legend strings.Builder

	owner := make([]int, l.storage.Bits())
	for i := range owner {
		owner[i] = -1
	}
	for _, f := range l.fields {
		for bit := f.Offset; bit < f.Offset+f.Width; bit++ {
			owner[bit] = f.Index
		}
		if f.Index > 0 {
			legend.WriteByte(' ')
		}
		fmt.Fprintf(&legend, "%c=%s", fieldSymbol(f.Index), f.Name)
	}

	for bit := l.storage.Bits() - 1; bit >= 0; bit-- {
		if owner[bit] < 0 {
			strip.WriteByte('.')
		} else {
			strip.WriteByte(fieldSymbol(owner[bit]))
		}
		if bit > 0 && bit%8 == 0 {
			strip.WriteByte(' ')
		}
	}

	return strip.String() + "\n" + legend.String()
}

const fieldSymbols = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

func fieldSymbol(i int) byte {
	return fieldSymbols[i%len(fieldSymbols)]
}
