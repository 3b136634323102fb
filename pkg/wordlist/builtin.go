package wordlist

// builtinWords is grouped by theme; several labels appear in more than one
// group and are collapsed by Builtin.
var builtinWords = []string{
	// Common subdomains
	"www", "mail", "ftp", "localhost", "webmail", "smtp", "pop", "ns1", "webdisk",
	"ns2", "cpanel", "whm", "autodiscover", "autoconfig", "m", "imap", "test",
	"ns", "blog", "pop3", "dev", "www2", "admin", "forum", "news", "vpn",
	"ns3", "mail2", "new", "mysql", "old", "www1", "email", "img", "www3",
	"mail3", "mail4", "mail5", "shop", "sql", "secure", "beta", "stage",
	"staging", "api", "web", "cdn", "media", "static", "download", "files",

	// Development and testing
	"dev", "development", "test", "testing", "qa", "uat", "demo", "sandbox",
	"temp", "tmp", "staging", "stage", "preview", "pre", "preprod",

	// Services and applications
	"api", "app", "application", "service", "services", "mobile", "m",
	"admin", "administrator", "panel", "dashboard", "control", "manage",
	"management", "console", "portal", "gateway", "proxy", "load-balancer",

	// Content and media
	"www", "web", "site", "blog", "news", "media", "images", "img", "pics",
	"photos", "videos", "download", "downloads", "files", "docs", "documents",
	"static", "assets", "cdn", "content",

	// Infrastructure
	"mail", "email", "smtp", "pop", "pop3", "imap", "webmail", "exchange",
	"mx", "mx1", "mx2", "ns", "ns1", "ns2", "ns3", "dns", "dns1", "dns2",
	"ftp", "sftp", "ssh", "vpn", "firewall", "router", "switch",

	// Database and storage
	"db", "database", "mysql", "sql", "postgres", "mongo", "redis", "cache",
	"memcache", "elasticsearch", "es", "kibana", "grafana",

	// Monitoring and logging
	"monitor", "monitoring", "logs", "log", "analytics", "stats", "metrics",
	"health", "status", "uptime", "nagios", "zabbix", "prometheus",

	// Cloud and containers
	"cloud", "aws", "azure", "gcp", "docker", "k8s", "kubernetes", "swarm",
	"rancher", "openshift", "jenkins", "ci", "cd", "build",

	// Security
	"security", "sec", "auth", "authentication", "oauth", "sso", "ldap",
	"ad", "kerberos", "radius", "cert", "certificate", "ssl", "tls",

	// Geographic and regional
	"us", "eu", "asia", "ca", "uk", "de", "fr", "jp", "au", "br",
	"east", "west", "north", "south", "central", "region1", "region2",

	// Environment specific
	"prod", "production", "live", "www-prod", "api-prod", "staging-api",
	"dev-api", "test-api", "internal", "external", "public", "private",

	// Numbered variations
	"www1", "www2", "www3", "api1", "api2", "db1", "db2", "mail1", "mail2",
	"ns1", "ns2", "ns3", "ns4", "web1", "web2", "app1", "app2", "server1",
	"server2", "host1", "host2", "node1", "node2", "cluster1", "cluster2",
}
