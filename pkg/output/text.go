package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

func writeText(w io.Writer, r Report) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "Subdomain enumeration results for: %s\n", r.Domain)
	fmt.Fprintf(bw, "Total subdomains found: %d\n", len(r.Records))
	fmt.Fprintf(bw, "%s\n\n", strings.Repeat("-", 50))

	for _, rec := range r.Records {
		fmt.Fprintf(bw, "%s\n", rec.Name)
		if ev := rec.Evidence(); len(ev) > 0 {
			fmt.Fprintf(bw, "  IPs: %s\n", strings.Join(ev, ", "))
		}
		if info := rec.HTTP; info != nil {
			fmt.Fprintf(bw, "  HTTP Status: %s\n", statusOrNA(info.HTTPStatus))
			fmt.Fprintf(bw, "  HTTPS Status: %s\n", statusOrNA(info.HTTPSStatus))
			if info.Title != nil && *info.Title != "" {
				fmt.Fprintf(bw, "  Title: %s\n", *info.Title)
			}
			if info.Server != nil && *info.Server != "" {
				fmt.Fprintf(bw, "  Server: %s\n", *info.Server)
			}
		}
		bw.WriteString("\n")
	}
	return bw.Flush()
}

func statusOrNA(v *int) string {
	if v == nil {
		return "N/A"
	}
	return optInt(v)
}
