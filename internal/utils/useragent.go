package utils

import (
	ua "github.com/mssola/user_agent"
)

// ClientInfo holds parsed information from a User-Agent string
type ClientInfo struct {
	OS      string `json:"os"`
	Browser string `json:"browser"`
	IsBot   bool   `json:"is_bot"`
	Raw     string `json:"raw"`
}

// ParseUserAgent parses a User-Agent string for the payment audit trail
func ParseUserAgent(userAgent string) ClientInfo {
	if userAgent == "" {
		return ClientInfo{OS: "Unknown", Browser: "Unknown", Raw: userAgent}
	}

	parser := ua.New(userAgent)

	info := ClientInfo{
		Raw:   userAgent,
		IsBot: parser.Bot(),
	}

	osInfo := parser.OSInfo()
	if osInfo.Name != "" {
		info.OS = osInfo.Name
		if osInfo.Version != "" {
			info.OS += " " + osInfo.Version
		}
	} else {
		info.OS = "Unknown"
	}

	name, _ := parser.Browser()
	if name != "" {
		info.Browser = name
	} else {
		info.Browser = "Unknown"
	}

	return info
}
