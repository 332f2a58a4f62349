package command

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/stolasapp/todo/internal/config"
	"github.com/stolasapp/todo/internal/storage"
)

type configKey struct{}

// prompt writes msg to stderr when stdin is a terminal and reads one line of
// input. With mask set, terminal input is not echoed.
func prompt(cmd *cobra.Command, msg string, mask bool) ([]byte, error) {
	in := cmd.InOrStdin()
	file, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return readLine(in)
	}
	out := cmd.ErrOrStderr()
	if _, err := io.WriteString(out, msg); err != nil {
		return nil, err
	}
	if !mask {
		return readLine(in)
	}
	line, err := term.ReadPassword(int(file.Fd()))
	_, _ = io.WriteString(out, "\n")
	return line, err
}

// readLine reads up to the first newline of r, dropping the line ending. A
// final line without a newline is accepted.
func readLine(r io.Reader) ([]byte, error) {
	line, err := bufio.NewReader(r).ReadBytes('\n')
	switch {
	case errors.Is(err, io.EOF) && len(line) > 0:
	case err != nil:
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return bytes.TrimRight(line, "\r\n"), nil
}

func version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown-dev"
	}
	ver := "unknown"
	dirty := false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			ver = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if dirty {
		ver += "-dev"
	}
	return ver
}

// loadConfig returns the configuration resolved by the root command along with
// the default logger and an open store. Callers must close the store.
func loadConfig(ctx context.Context) (*config.Config, *slog.Logger, storage.Store, error) {
	cfg, ok := ctx.Value(configKey{}).(*config.Config)
	if !ok {
		return nil, nil, nil, errors.New("config file resolution failed")
	}
	logger := slog.Default()
	store, err := storage.NewDB(ctx, cfg.DBFilepath, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	return cfg, logger, store, nil
}
