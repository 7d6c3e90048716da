package version

const Version = "0.2.0"

const ProtocolVersion = "2025-03-26"

var SupportedProtocolVersions = []string{
	"2025-03-26",
	"2024-11-05",
}
