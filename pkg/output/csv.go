package output

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
)

var (
	csvHeader     = []string{"Subdomain", "IPs"}
	csvHTTPHeader = []string{"HTTP_Status", "HTTPS_Status", "Title", "Server"}
)

func writeCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)

	header := csvHeader
	if r.CheckHTTP {
		header = append(append([]string{}, csvHeader...), csvHTTPHeader...)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, rec := range r.Records {
		row := []string{rec.Name, strings.Join(rec.Evidence(), "; ")}
		if r.CheckHTTP {
			var status, tlsStatus, title, server string
			if info := rec.HTTP; info != nil {
				status = optInt(info.HTTPStatus)
				tlsStatus = optInt(info.HTTPSStatus)
				title = optString(info.Title)
				server = optString(info.Server)
			}
			row = append(row, status, tlsStatus, title, server)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func optString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
