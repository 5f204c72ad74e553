// Package loader bridges a compiled Program to its two consumers: the
// on-disk image format the logic-simulator tool reads, and the VM's
// flat memory.
package loader

import (
	"fmt"
	"strings"

	"github.com/jcamarena/ttpc/asmerr"
	"github.com/jcamarena/ttpc/compiler"
	"github.com/jcamarena/ttpc/vm"
)

// header is the fixed marker line the external logic-simulation tool
// recognizes as a ROM/RAM image.
const header = "v2.0 raw\n"

// EmitOptions controls how Image renders a Program.
type EmitOptions struct {
	// Binary omits the header line. The reference tool refuses to
	// produce raw binary output; we preserve that refusal rather than
	// inventing an unverified format.
	Binary bool
}

// Image renders a compiled Program as the logic-simulator's ASCII ROM
// format: an optional header line, then uppercase hex byte pairs
// separated by spaces, with a newline after every third byte.
func Image(p *compiler.Program, opts EmitOptions) (string, error) {
	if opts.Binary {
		return "", asmerr.NewWithoutPos(asmerr.KindCLI, "binary output is currently not supported.")
	}

	var b strings.Builder
	b.WriteString(header)

	for i, by := range p.Bytes {
		if i > 0 {
			if i%3 == 0 {
				b.WriteByte('\n')
			} else {
				b.WriteByte(' ')
			}
		}
		fmt.Fprintf(&b, "%02X", by)
	}
	if len(p.Bytes) > 0 {
		b.WriteByte('\n')
	}

	return b.String(), nil
}

// Load copies a compiled Program's bytes into a fresh VM, per §4.5's
// load(program) semantics.
func Load(p *compiler.Program) (*vm.VM, error) {
	m := vm.New()
	if err := m.Load(p.Bytes); err != nil {
		return nil, asmerr.NewWithoutPos(asmerr.KindVMLoad, "%v", err)
	}
	return m, nil
}
