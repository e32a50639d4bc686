package registry

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"plugin"

	"github.com/dukex/flowmender/pkg/corrections"
)

// CorrectionPluginSymbol is the exported symbol a correction plugin must provide: a
// `[]corrections.Rule` (or pointer to one).
const CorrectionPluginSymbol = "Corrections"

// LoadCorrectionPlugins opens every `*.so` file under pluginsPath/corrections and registers
// the rules they export. A missing directory is not an error.
func (r *Registry) LoadCorrectionPlugins(pluginsPath string) (int, error) {
	rules, err := loadPlugin[[]corrections.Rule](r.logger, pluginsPath, "corrections", CorrectionPluginSymbol)
	if err != nil {
		return 0, err
	}

	loaded := 0

	for _, set := range rules {
		for _, rule := range set {
			if err := r.AddCorrectionRule(rule); err != nil {
				return loaded, err
			}

			loaded++
		}
	}

	return loaded, nil
}

func loadPlugin[T any](logger *slog.Logger, pluginsPath, kind, symbolName string) ([]T, error) {
	rootPath := filepath.Join(pluginsPath, kind)

	if _, err := os.Stat(rootPath); os.IsNotExist(err) {
		return nil, nil
	}

	pluginPathList, err := fs.Glob(os.DirFS(rootPath), "*.so")
	if err != nil {
		return nil, err
	}

	l := logger.With(slog.String("path", rootPath), slog.String("symbol", symbolName))
	l.Info("Loading plugins", "count", len(pluginPathList))

	pluginList := make([]T, 0, len(pluginPathList))

	for _, p := range pluginPathList {
		plg, err := plugin.Open(filepath.Join(rootPath, p))
		if err != nil {
			return nil, fmt.Errorf("failed to open plugin %s: %w", p, err)
		}

		v, err := plg.Lookup(symbolName)
		if err != nil {
			return nil, fmt.Errorf("plugin %s: %w", p, err)
		}

		switch castV := v.(type) {
		case T:
			pluginList = append(pluginList, castV)
		case *T:
			pluginList = append(pluginList, *castV)
		default:
			return nil, fmt.Errorf("plugin %s: symbol %s has unexpected type %T", p, symbolName, v)
		}

		l.Info("Loaded plugin", slog.String("plugin", p))
	}

	return pluginList, nil
}
