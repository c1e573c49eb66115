package ingest

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Runner lets tests stub out the external pdftoppm/tesseract binaries.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct {
	log zerolog.Logger
}

func (r execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	if err != nil {
		r.log.Error().
			Str("cmd", name).
			Str("args", strings.Join(args, " ")).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Str("stderr", truncate(errb.String(), 8<<10)).
			Err(err).
			Msg("exec failed")
	}
	return out.Bytes(), errb.Bytes(), err
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
