package app

import (
	"fmt"
	"strings"

	"github.com/dwikikusuma/marki-secure/internal/checkout/domain"
)

const DefaultReportLimit = 5

// FormatReport renders a checkout result for the user. A partial result lists
// at most limit entries per partition, first ones first.
func FormatReport(res domain.Result, limit int) string {
	if limit <= 0 {
		limit = DefaultReportLimit
	}

	var b strings.Builder
	switch {
	case res.Attempted() == 0:
		b.WriteString("cart is empty\n")

	case len(res.Failed) == 0:
		fmt.Fprintf(&b, "all %d item(s) purchased:\n", len(res.Succeeded))
		for _, it := range res.Succeeded {
			fmt.Fprintf(&b, "  %s\n", itemLine(it))
		}

	default:
		fmt.Fprintf(&b, "purchased %d, failed %d:\n", len(res.Succeeded), len(res.Failed))
		if len(res.Succeeded) > 0 {
			b.WriteString("purchased:\n")
			for i, it := range res.Succeeded {
				if i == limit {
					fmt.Fprintf(&b, "  … and %d more\n", len(res.Succeeded)-limit)
					break
				}
				fmt.Fprintf(&b, "  %s\n", itemLine(it))
			}
		}
		b.WriteString("failed:\n")
		for i, f := range res.Failed {
			if i == limit {
				fmt.Fprintf(&b, "  … and %d more\n", len(res.Failed)-limit)
				break
			}
			fmt.Fprintf(&b, "  %s: %s\n", itemLine(f.Item), f.Error)
		}
	}
	return b.String()
}

func itemLine(it domain.Item) string {
	name := it.Name
	if name == "" {
		name = "-"
	}
	if it.Serial == "" {
		return fmt.Sprintf("#%d %s", it.ID, name)
	}
	return fmt.Sprintf("#%d %s (%s)", it.ID, name, it.Serial)
}
