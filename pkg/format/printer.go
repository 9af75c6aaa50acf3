package format

import "bytes"

// Printer accumulates rendered source text.
type Printer struct {
	output bytes.Buffer
}

func newPrinter() *Printer {
	return &Printer{}
}

// String returns the rendered output.
func (p *Printer) String() string {
	return p.output.String()
}

func (p *Printer) write(s string) {
	p.output.WriteString(s)
}

func (p *Printer) writeln() {
	p.output.WriteByte('\n')
}
