package common

import (
	"github.com/spf13/pflag"
)

// Toggle is an on/off pair of boolean flags such as --show-report and
// --hide-report. The off flag wins when both are given.
type Toggle struct {
	def bool
	on  bool
	off bool
}

// AddToggle registers --{on} and --{off} on fs.
func AddToggle(fs *pflag.FlagSet, on, off string, def bool, usage string) *Toggle {
	t := &Toggle{def: def}
	onUsage, offUsage := usage, usage
	if def {
		onUsage += " (default)"
	} else {
		offUsage += " (default)"
	}
	fs.BoolVar(&t.on, on, false, onUsage)
	fs.BoolVar(&t.off, off, false, offUsage)
	return t
}

// AddShowHide registers --show-{name} and --hide-{name} on fs.
func AddShowHide(fs *pflag.FlagSet, name string, def bool, usage string) *Toggle {
	return AddToggle(fs, "show-"+name, "hide-"+name, def, usage)
}

// Value resolves the pair.
func (t *Toggle) Value() bool {
	switch {
	case t.off:
		return false
	case t.on:
		return true
	default:
		return t.def
	}
}
