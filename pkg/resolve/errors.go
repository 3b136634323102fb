package resolve

import "errors"

// Sentinel errors for a single record-type lookup. Resolve never returns
// them; they surface in debug logs and from Lookup.
var (
	// ErrNoRecords indicates the server answered NOERROR but the answer
	// section held no record of the queried type (NODATA, or a CNAME
	// chain in reply to an A query).
	ErrNoRecords = errors.New("resolve: no records of queried type")

	// ErrRcode indicates the server answered with a non-success RCODE
	// such as NXDOMAIN or SERVFAIL.
	ErrRcode = errors.New("resolve: server returned error rcode")

	// ErrNoServers indicates no upstream DNS server is configured.
	ErrNoServers = errors.New("resolve: no upstream servers")
)
