// Package traceui is an interactive, single-instruction-at-a-time viewer
// for a loaded VM: registers, flags, a RAM window and a scrolling trace
// log, refreshed on every step.
package traceui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/jcamarena/ttpc/vm"
)

// Viewer is the trace-stepper TUI.
type Viewer struct {
	vm  *vm.VM
	app *tview.Application

	registerView *tview.TextView
	ramView      *tview.TextView
	traceView    *tview.TextView

	ramWindow byte
}

// NewViewer builds a Viewer over an already-loaded VM, paused at pc=0.
func NewViewer(m *vm.VM) *Viewer {
	v := &Viewer{
		vm:  m,
		app: tview.NewApplication(),
	}
	v.initializeViews()
	v.buildLayout()
	v.setupKeyBindings()
	v.refresh()
	return v
}

func (v *Viewer) initializeViews() {
	v.registerView = tview.NewTextView().SetDynamicColors(true)
	v.registerView.SetBorder(true).SetTitle(" Registers / Flags ")

	v.ramView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	v.ramView.SetBorder(true).SetTitle(" RAM ")

	v.traceView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	v.traceView.SetBorder(true).SetTitle(" Trace (n/space: step, q: quit) ")
}

func (v *Viewer) buildLayout() {
	top := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(v.registerView, 0, 1, false).
		AddItem(v.ramView, 0, 2, false)

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(top, 9, 0, false).
		AddItem(v.traceView, 0, 1, false)

	v.app.SetRoot(root, true)
}

func (v *Viewer) setupKeyBindings() {
	v.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Rune() == 'n', event.Rune() == ' ':
			v.step()
			return nil
		case event.Rune() == 'q', event.Key() == tcell.KeyCtrlC:
			v.app.Stop()
			return nil
		}
		return event
	})
}

func (v *Viewer) step() {
	if v.vm.Halt {
		return
	}
	line := v.vm.StepTrace()
	fmt.Fprintln(v.traceView, line)
	v.traceView.ScrollToEnd()
	v.refresh()
}

func (v *Viewer) refresh() {
	v.registerView.Clear()
	f := v.vm.Flags
	fmt.Fprintf(v.registerView,
		"[yellow]PC[white]=%02X  [yellow]A[white]=%03d [yellow]B[white]=%03d [yellow]C[white]=%03d [yellow]D[white]=%03d\n"+
			"[yellow]FLAGS[white] c=%s z=%s s=%s o=%s l=%s\n[yellow]INSTRUCTIONS[white]=%d  [yellow]HALT[white]=%t\n",
		v.vm.PC, v.vm.A, v.vm.B, v.vm.C, v.vm.D,
		bit(f.Carry), bit(f.Zero), bit(f.Sign), bit(f.Overflow), bit(f.LessThan),
		v.vm.InstructionCount, v.vm.Halt)

	v.ramView.Clear()
	var b strings.Builder
	const perLine = 16
	start := v.ramWindow - v.ramWindow%perLine
	for row := 0; row < 8; row++ {
		addr := start + byte(row*perLine)
		fmt.Fprintf(&b, "[yellow]%02X:[white] ", addr)
		for col := 0; col < perLine; col++ {
			a := addr + byte(col)
			marker := " "
			if a == v.vm.PC {
				marker = "["
			}
			fmt.Fprintf(&b, "%s%02X", marker, v.vm.Read(int(a)))
		}
		b.WriteByte('\n')
	}
	fmt.Fprint(v.ramView, b.String())
	v.app.Draw()
}

func bit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Run starts the viewer's event loop. It returns when the user quits.
func (v *Viewer) Run() error {
	return v.app.Run()
}

// Run is the package-level convenience entry point used by the CLI's
// --tui flag.
func Run(m *vm.VM) error {
	return NewViewer(m).Run()
}
