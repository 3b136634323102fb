package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/submap/submap/pkg/defaults"
)

const bannerArt = `
   _____       __    __  ___
  / ___/__  __/ /_  /  |/  /___ _____
  \__ \/ / / / __ \/ /|_/ / __ ` + "`" + `/ __ \
 ___/ / /_/ / /_/ / /  / / /_/ / /_/ /
/____/\__,_/_.___/_/  /_/\__,_/ .___/
                             /_/`

// BannerInfo is shown under the banner art.
type BannerInfo struct {
	Domain       string
	WordlistSize int
	Threads      int
	Timeout      time.Duration
}

// Banner prints the art, the version line and the run configuration.
func (p *Printer) Banner(b BannerInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.println(p.st.banner.Render(bannerArt))
	p.println("      " + p.st.version.Render("Subdomain Discovery Tool v"+defaults.Version))
	p.println("")
	p.println(p.kv("Target Domain", b.Domain))
	p.println(p.kv("Wordlist Size", fmt.Sprint(b.WordlistSize)))
	p.println(p.kv("Threads", fmt.Sprint(b.Threads)))
	p.println(p.kv("Timeout", fmt.Sprintf("%gs", b.Timeout.Seconds())))
	p.println(p.st.divider.Render(strings.Repeat("-", 60)))
}

// ConfigLine prints one extra "label: value" line, used for optional
// settings shown only when set.
func (p *Printer) ConfigLine(label, value string) {
	p.line(p.kv(label, value))
}
