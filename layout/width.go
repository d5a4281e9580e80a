package layout

import (
	"strconv"

	"github.com/wippyai/bitpack/errors"
	"github.com/wippyai/bitpack/schema"
)

// Width is a supported storage or return integer width in bits.
type Width uint8

const (
	W8   Width = 8
	W16  Width = 16
	W32  Width = 32
	W64  Width = 64
	W128 Width = 128
)

// Widths lists the supported widths in ascending order.
var Widths = [...]Width{W8, W16, W32, W64, W128}

// Bits returns w as an int.
func (w Width) Bits() int { return int(w) }

// Bytes returns the storage size in bytes.
func (w Width) Bytes() int { return int(w) / 8 }

// GoType returns the Go type holding a value of this width.
func (w Width) GoType() string {
	if w == W128 {
		return "uint128.Uint128"
	}
	return "uint" + strconv.Itoa(int(w))
}

func (w Width) String() string {
	return "u" + strconv.Itoa(int(w))
}

// SelectStorage returns the smallest supported width holding total bits.
// Totals above 128 fail with TotalWidthExceeded; totals below 1 with
// EmptySchema.
func SelectStorage(total int) (Width, error) {
	if total < 1 {
		return 0, errors.EmptySchema("")
	}
	if total > schema.MaxTotalWidth {
		return 0, errors.TotalWidthExceeded("", total)
	}
	return selectWidth(total), nil
}

// ReturnWidth returns the getter result width for a field of the given width.
// It follows the same selection as SelectStorage but sizes a single field.
func ReturnWidth(width int) (Width, error) {
	if width < schema.MinFieldWidth || width > schema.MaxFieldWidth {
		return 0, errors.InvalidFieldWidth("", "", width)
	}
	return selectWidth(width), nil
}

func selectWidth(n int) Width {
	for _, w := range Widths {
		if n <= int(w) {
			return w
		}
	}
	return W128
}
