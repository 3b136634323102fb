// Package ui renders the scanner's terminal output: banner, discoveries,
// progress and the final summary.
package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/submap/submap/pkg/httpprobe"
	"github.com/submap/submap/pkg/results"
)

// Options configures a Printer.
type Options struct {
	// NoColor forces plain output. NO_COLOR in the environment has the
	// same effect.
	NoColor bool
	// ShowRecords appends resolved records to discovery lines.
	ShowRecords bool
	// Verbose enables per-host HTTP lines.
	Verbose bool
}

// Printer writes styled lines to one writer. Safe for concurrent use.
type Printer struct {
	mu     sync.Mutex
	out    io.Writer
	r      *lipgloss.Renderer
	st     styles
	opts   Options
	tty    bool
	inline bool // a progress line without a trailing newline is showing
}

// New creates a Printer for w. Colors are used only when w is a terminal
// and neither opts.NoColor nor NO_COLOR is set.
func New(w io.Writer, opts Options) *Printer {
	tty := isTerminal(w)
	r := lipgloss.NewRenderer(w)
	if opts.NoColor || colorDisabled() || !tty {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Printer{
		out:  w,
		r:    r,
		st:   newStyles(r),
		opts: opts,
		tty:  tty,
	}
}

// icon picks the Unicode glyph on terminals, the ASCII fallback otherwise.
func (p *Printer) icon(unicode, ascii string) string {
	if p.tty {
		return unicode
	}
	return ascii
}

// println writes one line, first terminating a pending progress line.
// Callers hold p.mu.
func (p *Printer) println(s string) {
	if p.inline {
		fmt.Fprintln(p.out)
		p.inline = false
	}
	fmt.Fprintln(p.out, s)
}

func (p *Printer) line(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.println(s)
}

// Info prints a "[*]" status line.
func (p *Printer) Info(format string, args ...any) {
	p.line(p.st.info.Render("[*] " + fmt.Sprintf(format, args...)))
}

// Success prints a "[+]" status line.
func (p *Printer) Success(format string, args ...any) {
	p.line(p.st.success.Render("[+] " + fmt.Sprintf(format, args...)))
}

// Warning prints a "[!]" status line.
func (p *Printer) Warning(format string, args ...any) {
	p.line(p.st.warning.Render("[!] " + fmt.Sprintf(format, args...)))
}

// Error prints a "[-]" status line.
func (p *Printer) Error(format string, args ...any) {
	p.line(p.st.err.Render("[-] " + fmt.Sprintf(format, args...)))
}

// Found prints a discovery. Records are shown only with ShowRecords.
func (p *Printer) Found(name string, records []string) {
	s := p.st.found.Render("[+] " + name)
	if p.opts.ShowRecords && len(records) > 0 {
		s += p.st.records.Render(" -> " + strings.Join(records, ", "))
	}
	p.line(s)
}

// HTTP prints the status pair for a probed host. Silent unless Verbose.
func (p *Printer) HTTP(name string, info httpprobe.Info) {
	if !p.opts.Verbose {
		return
	}
	prefix := p.st.detail.Render("    " + p.icon("└─", "`-") + " ")
	p.line(prefix +
		p.st.detail.Render("HTTP: ") + p.status(info.HTTPStatus) +
		p.st.detail.Render(", HTTPS: ") + p.status(info.HTTPSStatus))
}

func (p *Printer) status(code *int) string {
	if code == nil {
		return p.st.records.Render("N/A")
	}
	return statusStyle(p.r, *code).Render(fmt.Sprint(*code))
}

// Progress shows completed/total. On a terminal the line is rewritten in
// place; elsewhere each update is its own line.
func (p *Printer) Progress(completed, total int) {
	pct := 0.0
	if total > 0 {
		pct = float64(completed) / float64(total) * 100
	}
	text := p.st.progress.Render(fmt.Sprintf("Progress: %d/%d (%.1f%%)", completed, total, pct))

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.tty {
		p.println(text)
		return
	}
	fmt.Fprint(p.out, "\r"+text)
	p.inline = true
}

// EndProgress terminates an in-place progress line.
func (p *Printer) EndProgress() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inline {
		fmt.Fprintln(p.out)
		p.inline = false
	}
}

// Summary is the end-of-run report.
type Summary struct {
	Domain       string
	WordlistSize int
	Records      []results.Record
	Elapsed      time.Duration
	Interrupted  bool
}

// PrintSummary prints the summary block. Records are listed in the order
// given, with their evidence.
func (p *Printer) PrintSummary(s Summary) {
	p.mu.Lock()
	defer p.mu.Unlock()

	rule := p.st.info.Render(strings.Repeat("=", 60))
	p.println("")
	p.println(rule)
	p.println(p.st.section.Render("ENUMERATION SUMMARY"))
	p.println(rule)
	if s.Interrupted {
		p.println(p.st.warning.Render("Interrupted: partial results"))
	}
	p.println(p.kv("Domain", s.Domain))
	p.println(p.kv("Total Subdomains Found", fmt.Sprint(len(s.Records))))
	p.println(p.kv("Wordlist Size", fmt.Sprint(s.WordlistSize)))

	if len(s.Records) > 0 {
		p.println("")
		p.println(p.st.success.Render("Found Subdomains:"))
		bullet := p.st.bullet.Render(p.icon("•", "*"))
		for _, rec := range s.Records {
			entry := "  " + bullet + " " + rec.Name
			if ev := rec.Evidence(); len(ev) > 0 {
				entry += " -> " + strings.Join(ev, ", ")
			}
			p.println(entry)
		}
	}
	p.println(p.kv("Time Elapsed", fmt.Sprintf("%.2f seconds", s.Elapsed.Seconds())))
}

func (p *Printer) kv(label, value string) string {
	return p.st.label.Render(label+": ") + p.st.value.Render(value)
}
