package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/internal/utils"
	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/pkg/advance"
	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/pkg/export"
	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/pkg/places"
	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/pkg/riskbrief"
	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/pkg/storage"
)

// openSession loads the saved advance. A database that cannot be opened
// degrades to an in-memory session rather than failing the command.
func openSession(ctx context.Context) (*advance.Session, func()) {
	if viper.GetBool("ephemeral") {
		return advance.NewSession(ctx, advance.NewStore(storage.NewMemory()), nil), func() {}
	}
	path, err := utils.GetAbsDBPath(viper.GetString("storage.path"))
	if err != nil {
		utils.Log.Warnf("resolving db path: %v", err)
		return advance.NewSession(ctx, advance.NewStore(storage.NewMemory()), nil), func() {}
	}
	db, err := storage.Open(path)
	if err != nil {
		utils.Log.Warnf("opening %s: %v; changes will not be saved", path, err)
		return advance.NewSession(ctx, advance.NewStore(storage.NewMemory()), nil), func() {}
	}
	utils.Log.Debugf("using database %s", path)
	return advance.NewSession(ctx, advance.NewStore(db), nil), func() { db.Close() }
}

func duration(key string, def time.Duration) time.Duration {
	if d := viper.GetDuration(key); d > 0 {
		return d
	}
	return def
}

// newExporters builds every export engine. The chrome engine is always
// registered; it fails at export time when no browser can be started.
func newExporters() map[string]*export.Exporter {
	scale := viper.GetFloat64("export.scale")
	return map[string]*export.Exporter{
		"box":    export.NewExporter(export.BoxRasterizer{}, scale),
		"chrome": export.NewExporter(export.ChromeRasterizer{Bin: viper.GetString("export.chrome_bin")}, scale),
	}
}

func exportEngine(flagValue string) (string, error) {
	engine := strings.ToLower(utils.FirstNonEmpty(flagValue, viper.GetString("export.engine"), "box"))
	switch engine {
	case "box", "chrome":
		return engine, nil
	default:
		return "", fmt.Errorf("unknown export engine %q (want box or chrome)", engine)
	}
}

func aiConfig() riskbrief.Config {
	provider := strings.ToLower(utils.FirstNonEmpty(viper.GetString("ai.provider"), riskbrief.ProviderOpenAI))
	return riskbrief.Config{
		Provider: provider,
		APIKey:   viper.GetString("ai." + provider + "_key"),
		Model:    viper.GetString("ai.model"),
		Endpoint: viper.GetString("ai.endpoint"),
		Timeout:  duration("ai.timeout", 60*time.Second),
		Proxy:    viper.GetString("proxy"),
	}
}

func newGenerator() (*riskbrief.Generator, error) {
	p, err := riskbrief.NewProvider(aiConfig())
	if err != nil {
		return nil, err
	}
	return riskbrief.NewGenerator(p), nil
}

func newPlaces() (*places.Client, error) {
	return places.New(places.Config{
		APIKey:   viper.GetString("places.key"),
		Endpoint: viper.GetString("places.endpoint"),
		Timeout:  duration("places.timeout", 15*time.Second),
		Proxy:    viper.GetString("proxy"),
	})
}
