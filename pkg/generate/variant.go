package generate

import (
	"fmt"
	"strings"

	"github.com/openclash-tools/confgen/pkg/mihomo"
)

// Variant selects a template and the suffix appended to output file names.
type Variant struct {
	Name     string
	Template string
	Suffix   string
}

// Variants is the fixed variant table: the plain router setup, the bypass
// gateway setup and the smart-group setup.
var Variants = map[string]Variant{
	"main":   {Name: "main", Template: "main.conf.tmpl", Suffix: ""},
	"bypass": {Name: "bypass", Template: "bypass.conf.tmpl", Suffix: "-bypass"},
	"smart":  {Name: "smart", Template: "smart.conf.tmpl", Suffix: "-smart"},
}

// VariantNames lists the known variant names in a stable order.
func VariantNames() []string {
	return []string{"main", "bypass", "smart"}
}

// LookupVariant returns the named variant.
func LookupVariant(name string) (Variant, error) {
	v, ok := Variants[name]
	if !ok {
		return Variant{}, fmt.Errorf("unknown variant: %s", name)
	}
	return v, nil
}

// VariantForName picks the variant whose keyword appears in a format name,
// falling back to main. Smart wins over bypass when both appear.
func VariantForName(formatName string) Variant {
	switch {
	case strings.Contains(formatName, "smart"):
		return Variants["smart"]
	case strings.Contains(formatName, "bypass"):
		return Variants["bypass"]
	default:
		return Variants["main"]
	}
}

// EnvKeyNames returns the environment variable names that hold subscription
// keys for n providers: none for zero, EN_KEY for one, EN_KEY1..EN_KEYn
// otherwise.
func EnvKeyNames(n int) []string {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []string{"EN_KEY"}
	default:
		keys := make([]string, n)
		for i := range keys {
			keys[i] = fmt.Sprintf("EN_KEY%d", i+1)
		}
		return keys
	}
}

// ApplyVariantFlags adjusts override parameters according to the keywords of
// a format name: noipv6 disables IPv6 and its DNS, bypass enables the
// gateway-compatible firewall mode, smart enables auto group switching and
// lgbm additionally enables the trained-model backend.
func ApplyVariantFlags(params mihomo.Values, formatName string) mihomo.Values {
	out := mihomo.Values{}
	for k, v := range params {
		out[k] = v
	}

	if strings.Contains(formatName, "noipv6") {
		out["ipv6"] = 0
		out["dns_ipv6"] = 0
	}

	if strings.Contains(formatName, "bypass") {
		out["bypass_gateway_compatible"] = 1
	} else {
		out["bypass_gateway_compatible"] = 0
	}

	if strings.Contains(formatName, "smart") {
		out["smart_auto_switch"] = 1
		if strings.Contains(formatName, "lgbm") {
			out["smart_enable_lgbm"] = 1
		} else {
			out["smart_enable_lgbm"] = 0
		}
	} else {
		out["smart_auto_switch"] = 0
		out["smart_enable_lgbm"] = 0
	}

	return out
}
