package catalog

import (
	_ "embed"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed providers.yml
var providersYML []byte

// providerAliases maps a lowercased raw catalog provider name to its
// canonical service code. Built once at startup from providers.yml.
var providerAliases = loadProviderAliases()

type providerTable struct {
	Providers map[string][]string `yaml:"providers"`
}

func loadProviderAliases() map[string]string {
	var table providerTable
	if err := yaml.Unmarshal(providersYML, &table); err != nil {
		panic("invalid embedded provider table: " + err.Error())
	}

	aliases := make(map[string]string)
	for code, names := range table.Providers {
		for _, name := range names {
			aliases[strings.ToLower(name)] = code
		}
	}
	return aliases
}

// NormalizeProviders maps raw catalog provider names to the closed set of
// canonical service codes. Unrecognized names are dropped. The result is
// sorted and free of duplicates.
func NormalizeProviders(raw []string) []string {
	seen := make(map[string]struct{})
	for _, name := range raw {
		code, ok := providerAliases[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			continue
		}
		seen[code] = struct{}{}
	}

	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
