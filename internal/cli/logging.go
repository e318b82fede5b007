package cli

import (
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("vibeselect.cli")

// configureLogging sends logs to path, or to stderr for plain commands. The
// editor owns the terminal, so without a log file it logs nothing.
func configureLogging(verbosity int, path string, tui bool) {
	switch {
	case path != "":
		commonlog.Configure(verbosity, &path)
	case tui:
		commonlog.Configure(-4, nil)
	default:
		commonlog.Configure(verbosity, nil)
	}
}
