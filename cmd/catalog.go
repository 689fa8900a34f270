package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kasuboski/ratez/config"
	"github.com/kasuboski/ratez/pkg/cache"
	"github.com/kasuboski/ratez/pkg/catalog"
	mhttp "github.com/kasuboski/ratez/pkg/http"
	"github.com/kasuboski/ratez/pkg/logger"
	"github.com/kasuboski/ratez/pkg/poster"
	"github.com/kasuboski/ratez/pkg/storage/jsonfile"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// session is what every catalog command needs
type session struct {
	cfg   config.Config
	file  *jsonfile.File
	store *catalog.Store
}

// openCatalog reads the configuration and loads the catalog from its backing file.
// A file that cannot be read leaves an empty catalog and a warning.
func openCatalog(ctx context.Context, errOut io.Writer) (session, error) {
	log := logger.FromCtx(ctx)

	cfg, err := config.New(viper.GetViper())
	if err != nil {
		return session{}, fmt.Errorf("failed to read configurations: %w", err)
	}

	file := jsonfile.New(cfg.Storage.Path())
	store := catalog.New(file)

	res := store.Load(ctx)
	if res.ReadFailure != nil {
		fmt.Fprintf(errOut, "Warning: could not load %s, starting with an empty catalog\n", file.Path())
	}
	if res.Skipped > 0 {
		log.Warnw("ignored invalid movies", zap.String("path", file.Path()), zap.Int("skipped", res.Skipped))
	}

	return session{cfg: cfg, file: file, store: store}, nil
}

func newResolver(cfg config.Poster) *poster.Resolver {
	client := mhttp.NewRateLimitedClient(
		mhttp.WithTimeout(cfg.Timeout),
		mhttp.WithMaxRetries(cfg.MaxRetries),
		mhttp.WithBaseBackoff(cfg.BaseBackoff),
		mhttp.WithUserAgent("ratez"),
	)

	return poster.New(client, poster.WithCache(cache.New[string, poster.Poster](cache.WithTTL(cfg.CacheTTL))))
}

// confirm asks a yes/no question and defaults to no
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func commandContext(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return logger.WithCtx(ctx, logger.Get())
}
