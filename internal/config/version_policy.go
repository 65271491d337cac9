package config

import (
	"fmt"
	"slices"
	"strings"
)

const CurrentConfigVersion = "1"

// SupportedConfigVersions lists every configVersion this build can load.
var SupportedConfigVersions = []string{CurrentConfigVersion}

func IsSupportedConfigVersion(v string) bool {
	return slices.Contains(SupportedConfigVersions, v)
}

func SupportedConfigVersionsCSV() string {
	return strings.Join(SupportedConfigVersions, ", ")
}

// CheckConfigVersion returns an error naming the supported versions when v
// is not one of them.
func CheckConfigVersion(v string) error {
	if IsSupportedConfigVersion(v) {
		return nil
	}
	return fmt.Errorf("unsupported configVersion: %q (supported: %s)", v, SupportedConfigVersionsCSV())
}
