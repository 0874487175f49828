package invoker

import (
	"regexp"
	"strings"
)

// Terminal noise emitted by CLI frontends around the generated text:
// CSI/OSC escape sequences (cursor moves, colors, title sets) and
// carriage-return overwrites used by progress spinners.
var (
	csiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)
	oscPattern = regexp.MustCompile(`\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)`)
)

// CleanOutput isolates the generated text from interleaved status and
// control output. For each line, anything overwritten by a carriage
// return is discarded (spinner frames), then escape sequences are
// stripped and residual control bytes dropped.
func CleanOutput(raw string) string {
	if raw == "" {
		return ""
	}

	raw = oscPattern.ReplaceAllString(raw, "")
	raw = csiPattern.ReplaceAllString(raw, "")

	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		if idx := strings.LastIndexByte(line, '\r'); idx >= 0 {
			line = line[idx+1:]
		}
		lines[i] = strings.Map(dropControl, line)
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func dropControl(r rune) rune {
	if r == '\t' {
		return r
	}
	if r < 0x20 || r == 0x7f {
		return -1
	}
	return r
}
