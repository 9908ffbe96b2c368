// Package banner is an optimizeBundle example plugin with no third-party
// dependency — the one plugin in this repo that is deliberately
// stdlib-only, named here rather than silently omitted (SPEC_FULL.md §6).
// It adapts pkg/plugins/add/plugin.go's Placement enum
// (start/end/content-replace) from "where to splice generated code" to
// "where to splice a banner onto a finished bundle."
package banner

import (
	"context"

	"github.com/jzeiders/webbundler/pkg/bundler"
)

// Placement mirrors add.Plugin's Config.Placement values.
type Placement string

const (
	PlacementPrepend Placement = "prepend"
	PlacementAppend  Placement = "append"
)

// Plugin prepends or appends a fixed string to every bundle it matches.
type Plugin struct {
	Banner    string
	Placement Placement
	// Formats restricts which bundler.Format values this banner applies
	// to; empty means "every format."
	Formats map[bundler.Format]bool
}

// New constructs a banner plugin with the given text, defaulting to
// prepend placement the way add.Plugin defaults to "start".
func New(text string, placement Placement, formats ...bundler.Format) *Plugin {
	if placement == "" {
		placement = PlacementPrepend
	}
	var set map[bundler.Format]bool
	if len(formats) > 0 {
		set = make(map[bundler.Format]bool, len(formats))
		for _, f := range formats {
			set[f] = true
		}
	}
	return &Plugin{Banner: text, Placement: placement, Formats: set}
}

func (p *Plugin) Name() string { return "banner" }

func (p *Plugin) Test(ctx context.Context, item bundler.Item, bctx *bundler.Context) bool {
	if p.Banner == "" {
		return false
	}
	if p.Formats == nil {
		return true
	}
	return p.Formats[item.Format]
}

// OptimizeBundle applies the banner to bundle.Content, following
// add.Plugin's applyPlacement shape: prepend writes the addition before
// the existing content, append writes it after.
func (p *Plugin) OptimizeBundle(ctx context.Context, output string, bundle *bundler.Bundle, bctx *bundler.Context) (*bundler.Bundle, error) {
	if bundle == nil {
		return nil, nil
	}

	addition := []byte(p.Banner)
	if len(addition) > 0 && addition[len(addition)-1] != '\n' {
		addition = append(addition, '\n')
	}

	var merged []byte
	switch p.Placement {
	case PlacementAppend:
		merged = make([]byte, 0, len(bundle.Content)+len(addition))
		merged = append(merged, bundle.Content...)
		merged = append(merged, addition...)
	default: // PlacementPrepend
		merged = make([]byte, 0, len(addition)+len(bundle.Content))
		merged = append(merged, addition...)
		merged = append(merged, bundle.Content...)
	}

	return &bundler.Bundle{Output: bundle.Output, Content: merged}, nil
}

var _ bundler.BundleOptimizer = (*Plugin)(nil)
